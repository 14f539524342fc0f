package ui

import (
	"os"

	"golang.org/x/term"
)

const (
	ansiBold   = "\x1b[1m"
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiGreen  = "\x1b[32m"
	ansiFaint  = "\x1b[2m"
	ansiReset  = "\x1b[0m"
)

// HighlightPriority colors a priority cell for terminal output: high is
// bold red, medium yellow, low green.
func HighlightPriority(priority string) string {
	if !ansiEnabled() {
		return priority
	}

	switch priority {
	case "high":
		return ansiBold + ansiRed + priority + ansiReset
	case "medium":
		return ansiYellow + priority + ansiReset
	case "low":
		return ansiGreen + priority + ansiReset
	default:
		return priority
	}
}

// Faint dims text for terminal output, used for completed todos.
func Faint(value string) string {
	if !ansiEnabled() {
		return value
	}
	return ansiFaint + value + ansiReset
}

func ansiEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}
