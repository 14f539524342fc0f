// Package main implements the tick CLI tool.
package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/Rebornbugkiller/tick/internal/logging"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tick",
	Short: "Tick - a todo list that lives in your terminal",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.SetVerbose(rootVerbose)
	},
}

var (
	rootVerbose bool
	rootServer  string
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&rootServer, "server", "", "Todo server URL (overrides config)")
}
