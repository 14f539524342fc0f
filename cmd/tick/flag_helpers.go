package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	internalstrings "github.com/Rebornbugkiller/tick/internal/strings"
	"github.com/Rebornbugkiller/tick/internal/ui"
	"github.com/Rebornbugkiller/tick/internal/validation"
	"github.com/Rebornbugkiller/tick/todo"
)

// parseSelector validates a --filter value.
func parseSelector(value string) (todo.Selector, error) {
	selector := todo.Selector(strings.ToLower(strings.TrimSpace(value)))
	if !selector.IsValid() {
		return "", validation.FormatInvalidValueError(todo.ErrInvalidSelector, selector, todo.ValidSelectors())
	}
	return selector, nil
}

// parseTodoID parses a numeric todo ID argument.
func parseTodoID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid todo ID %q", arg)
	}
	return id, nil
}

// parsePosition parses a 1-based list position argument.
func parsePosition(arg string) (int, error) {
	position, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || position < 1 {
		return 0, fmt.Errorf("invalid position %q (positions start at 1)", arg)
	}
	return position, nil
}

// parseDueDate parses a --due value in YYYY-MM-DD form. The result is
// in local time so calendar filters line up with the user's day.
func parseDueDate(value string) (time.Time, error) {
	due, err := ui.ParseDueDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date %q (want YYYY-MM-DD)", value)
	}
	return due, nil
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}

func editNormalizeDescription(value string) string {
	return internalstrings.TrimTrailingWhitespace(internalstrings.NormalizeNewlines(value))
}
