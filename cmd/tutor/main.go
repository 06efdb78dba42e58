// Package main is the tutor command-line client. It reads the same book
// folder and environment as the server, without going through HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dir string

	root := &cobra.Command{
		Use:           "tutor",
		Short:         "Ask questions about pages of a PDF textbook",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dir, "dir", "", "book folder (default: $BOOK_DIR or psychology_book)")

	root.AddCommand(
		chaptersCmd(&dir),
		pagesCmd(&dir),
		templatesCmd(),
		askCmd(&dir),
	)
	return root
}
