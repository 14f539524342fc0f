package main

import (
	"github.com/spf13/cobra"

	"github.com/Rebornbugkiller/tick/internal/todotui"
)

// tui
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse and edit todos interactively",
	Args:  cobra.NoArgs,
	RunE:  runTui,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTui(cmd *cobra.Command, args []string) error {
	// Confirmation happens in the TUI's own modal, so the store must
	// not prompt on stdin.
	app, err := newApp(todotui.AutoConfirm{})
	if err != nil {
		return err
	}
	if err := app.requireSession(); err != nil {
		return err
	}

	return todotui.Run(cmd.Context(), app.store)
}
