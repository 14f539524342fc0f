// Package todo implements the client side of a personal todo list.
//
// The package owns the in-memory collection of todos for the current
// session, reconciles it with the remote service through a Gateway, and
// derives filtered views from it. Mutations are optimistic: the local
// collection is updated first, the gateway is told afterwards, and a
// failed request rolls the local edit back.
//
// The public API mirrors the user's intents:
//   - Load, Add, Toggle, Edit, Remove, ClearCompleted for lifecycle
//   - All, View for reading
//   - Move for drag-style reordering of the displayed sequence
package todo

import "time"

// Todo represents a single task owned by the current user.
type Todo struct {
	// ID is assigned by the remote service and never changes.
	ID int64 `json:"id"`

	// Title is the short display text of the task.
	Title string `json:"title"`

	// Description provides additional context, rendered as markdown.
	Description string `json:"description,omitempty"`

	// Completed reports whether the task has been checked off.
	Completed bool `json:"completed"`

	// Priority is the importance level (low, medium, high).
	Priority Priority `json:"priority"`

	// Category is an optional label. Empty means "no category".
	Category string `json:"category,omitempty"`

	// DueDate is the deadline, or nil when the task has none.
	DueDate *time.Time `json:"due_date,omitempty"`

	// CreatedAt is set by the remote service at creation.
	CreatedAt time.Time `json:"created_at"`

	// Order positions the todo within the user's chosen sequence.
	// Values are not necessarily contiguous or zero-based.
	Order int `json:"order"`
}

// Draft describes a todo to be created. The remote service assigns ID
// and CreatedAt; the store assigns Order.
type Draft struct {
	Title       string
	Description string
	Priority    Priority
	Category    string
	DueDate     *time.Time
}
