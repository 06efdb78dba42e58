// Package main is the entry point for the PDF tutor server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BotAlchemist/psy-tutor/internal/config"
	"github.com/BotAlchemist/psy-tutor/internal/database"
	"github.com/BotAlchemist/psy-tutor/internal/handlers"
	"github.com/BotAlchemist/psy-tutor/internal/router"
	"github.com/BotAlchemist/psy-tutor/internal/services/cache"
	"github.com/BotAlchemist/psy-tutor/internal/services/library"
	"github.com/BotAlchemist/psy-tutor/internal/services/llm"
	"github.com/BotAlchemist/psy-tutor/internal/services/session"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("🚀 PDF Tutor %s starting...", Version)

	// Step 1: Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	log.Printf("📋 Config loaded: port=%s, book_dir=%s, provider=%s, model=%s, gin_mode=%s",
		cfg.Port, cfg.BookDir, cfg.LLMProvider, cfg.LLMModel, cfg.GinMode)

	os.Setenv("GIN_MODE", cfg.GinMode)

	// Step 2: Connect to Database (optional durable page cache)
	var db *database.DB
	var store cache.Store
	if cfg.DatabaseURL != "" {
		db, err = database.New(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("❌ Failed to connect to database: %v", err)
		}
		defer db.Close()
		log.Println("✅ Database connected")

		if err := db.RunMigrations(); err != nil {
			log.Fatalf("❌ Migration failed: %v", err)
		}
		store = db
	} else {
		log.Println("⚠️  No DATABASE_URL set (extracted pages are cached in memory only)")
	}

	// Step 3: Create Services
	pageCache := cache.New(store)
	lib := library.New(cfg.BookDir, pageCache)

	invoker := llm.NewInvoker(cfg.LLM(), nil)
	if invoker.HasCredential() {
		log.Printf("✅ LLM configured (%s, %s)", invoker.Provider(), invoker.Model())
	} else {
		log.Printf("⚠️  No API key set (set %s; asks will answer with a notice)", invoker.Provider().CredentialEnv())
	}

	if docs, err := lib.Chapters(); err != nil {
		log.Printf("⚠️  %v", err)
	} else {
		log.Printf("📚 Found %d chapters in %s", len(docs), cfg.BookDir)
	}

	svc := session.New(lib, invoker)

	// Step 4: Setup HTTP Router
	h := handlers.NewHandler(svc, invoker, pageCache, db, Version)
	r := router.Setup(h, cfg.AskRateLimit, cfg.AllowedOrigins)

	// Step 5: Start the HTTP Server
	// WriteTimeout outlasts the 120s model call so slow answers still arrive.
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 150 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🌐 Server listening on http://localhost:%s", cfg.Port)
		log.Printf("📖 Health check: http://localhost:%s/api/v1/health", cfg.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	// Step 6: Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Printf("🛑 Received signal %v, shutting down gracefully...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("⚠️  Server forced to shutdown: %v", err)
	}

	log.Println("👋 Server stopped. Goodbye!")
}
