package main

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/BotAlchemist/psy-tutor/internal/config"
	"github.com/BotAlchemist/psy-tutor/internal/database"
	"github.com/BotAlchemist/psy-tutor/internal/services/cache"
	"github.com/BotAlchemist/psy-tutor/internal/services/library"
	"github.com/BotAlchemist/psy-tutor/internal/services/llm"
	"github.com/BotAlchemist/psy-tutor/internal/services/pdf"
	"github.com/BotAlchemist/psy-tutor/internal/services/session"
	"github.com/BotAlchemist/psy-tutor/internal/services/tutor"
)

var (
	bold  = color.New(color.Bold).SprintFunc()
	cyan  = color.New(color.FgCyan, color.Bold).SprintFunc()
	green = color.New(color.FgGreen, color.Bold).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	faint = color.New(color.Faint).SprintFunc()
)

// app is what every command needs: a ready session and its cleanup.
type app struct {
	svc   *session.Service
	close func()
}

// newApp wires the same services the server uses. dir overrides BOOK_DIR.
func newApp(dir string) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if dir != "" {
		cfg.BookDir = dir
	}

	closer := func() {}
	var store cache.Store
	if cfg.DatabaseURL != "" {
		db, err := database.New(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := db.RunMigrations(); err != nil {
			db.Close()
			return nil, err
		}
		store = db
		closer = func() { db.Close() }
	}

	invoker := llm.NewInvoker(cfg.LLM(), nil)
	lib := library.New(cfg.BookDir, cache.New(store))
	return &app{
		svc:   session.New(lib, invoker),
		close: closer,
	}, nil
}

func chaptersCmd(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "chapters",
		Short: "List chapter PDFs in the book folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*dir)
			if err != nil {
				return err
			}
			defer a.close()

			docs, err := a.svc.Chapters()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, d := range docs {
				fmt.Fprintf(out, "%s  %s\n", d.Name, faint(fmt.Sprintf("(%d KB)", d.Size/1024)))
			}
			return nil
		},
	}
}

func pagesCmd(dir *string) *cobra.Command {
	var page int
	var showText bool

	cmd := &cobra.Command{
		Use:   "pages <chapter>",
		Short: "Print a chapter's page count, or the context window around --page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*dir)
			if err != nil {
				return err
			}
			defer a.close()

			out := cmd.OutOrStdout()
			if page == 0 {
				n, err := a.svc.PageCount(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s: %d pages\n", args[0], n)
				return nil
			}

			v, err := a.svc.View(cmd.Context(), session.Request{
				Chapter:  args[0],
				Page:     page,
				ShowText: showText,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s: page %d of %d\n", v.Chapter, v.Page, v.PageCount)
			for _, e := range v.Entries {
				fmt.Fprintf(out, "  %s  %d words\n", e.Label(), pdf.CountWords([]string{e.Text}))
			}
			if showText {
				fmt.Fprintf(out, "\n%s\n%s\n", bold("Extracted text:"), v.PageText)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 0, "page number (1-based)")
	cmd.Flags().BoolVar(&showText, "show-text", false, "print the extracted text of the page")
	return cmd
}

func templatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the help options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n  free text via --question\n", cyan(tutor.CustomQuestionLabel))
			for _, t := range tutor.Templates {
				fmt.Fprintf(out, "%s\n  %s\n", cyan(t.Label), t.Question)
			}
			return nil
		},
	}
}

func askCmd(dir *string) *cobra.Command {
	var page int
	var template, question, model string

	cmd := &cobra.Command{
		Use:   "ask <chapter>",
		Short: "Ask about a page, using only that page and its neighbors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if template != "" && question != "" {
				return errors.New("use either --template or --question, not both")
			}
			mode := template
			if mode == "" {
				mode = tutor.CustomQuestionLabel
			}

			a, err := newApp(*dir)
			if err != nil {
				return err
			}
			defer a.close()

			res, err := a.svc.Ask(cmd.Context(), session.Request{
				Chapter:  args[0],
				Page:     page,
				Mode:     mode,
				Question: question,
				Model:    model,
			})
			if err != nil {
				return err
			}
			printAnswer(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number (1-based)")
	cmd.Flags().StringVarP(&template, "template", "t", "", "help option label, as listed by the templates command")
	cmd.Flags().StringVarP(&question, "question", "q", "", "custom question")
	cmd.Flags().StringVar(&model, "model", "", "override the configured model")
	return cmd
}

func printAnswer(out io.Writer, res *session.Result) {
	fmt.Fprintf(out, "%s %s\n\n", bold("Question:"), res.Question)
	if res.Answer.IsError() {
		fmt.Fprintln(out, red(res.Answer.Text))
		log.Printf("⚠️  Ask %s failed: %v", res.RequestID, res.Answer.Err)
		return
	}
	fmt.Fprintf(out, "%s\n%s\n", green("Answer:"), res.Answer.Text)
	fmt.Fprintln(out, faint(fmt.Sprintf("(%s, request %s)", res.Answer.Model, res.RequestID)))
}
