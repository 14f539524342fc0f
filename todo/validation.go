package todo

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFetch is returned when loading the collection from the remote
	// service fails. The store keeps its previous state.
	ErrFetch = errors.New("fetch todos failed")

	// ErrMutation is returned when a create, update, or delete request
	// fails after the optimistic local edit. The local edit has been
	// rolled back by the time the error is returned.
	ErrMutation = errors.New("todo mutation failed")

	// ErrNothingToClear signals that ClearCompleted found no completed
	// todos. It is a benign no-op, not a failure.
	ErrNothingToClear = errors.New("no completed todos to clear")

	// ErrNoSession is returned when an operation requires an
	// authenticated session and none is present.
	ErrNoSession = errors.New("not logged in")

	// ErrStaleSession is returned when a gateway result arrives after
	// the session it belonged to has ended. The result is discarded.
	ErrStaleSession = errors.New("session changed while request was in flight")

	// ErrTodoNotFound is returned when no todo has the given ID.
	ErrTodoNotFound = errors.New("todo not found")

	// ErrTitleTooLong is returned when a title exceeds MaxTitleLength.
	ErrTitleTooLong = errors.New("title exceeds maximum length")

	// ErrInvalidPriority is returned when an unknown priority is provided.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrInvalidSelector is returned when an unknown filter selector is
	// provided.
	ErrInvalidSelector = errors.New("invalid filter selector")

	// ErrReorderOutOfRange is returned when a reorder source or
	// destination index falls outside the displayed sequence.
	ErrReorderOutOfRange = errors.New("reorder index out of range")
)

// ValidateTitle checks that a title is usable on an existing todo.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return errors.New("title cannot be empty")
	}
	if len(title) > MaxTitleLength {
		return fmt.Errorf("%w: %d > %d", ErrTitleTooLong, len(title), MaxTitleLength)
	}
	return nil
}

// ValidatePriority checks that the priority is a known value.
func ValidatePriority(p Priority) error {
	if !p.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, p)
	}
	return nil
}

func normalizePriority(p Priority) Priority {
	return Priority(strings.ToLower(strings.TrimSpace(string(p))))
}

func normalizeSelector(s Selector) Selector {
	return Selector(strings.ToLower(strings.TrimSpace(string(s))))
}
