package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Rebornbugkiller/tick/todo"
)

// FetchAll returns the current user's full todo collection.
func (c *Client) FetchAll(ctx context.Context) ([]todo.Todo, error) {
	var items []todo.Todo
	if err := c.do(ctx, http.MethodGet, "/todos/", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// createPayload is the wire shape for creating a todo. The server
// requires the completed flag even though a new todo is never complete.
type createPayload struct {
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Completed   bool          `json:"completed"`
	Priority    todo.Priority `json:"priority"`
	Category    string        `json:"category,omitempty"`
	Order       int           `json:"order"`
	DueDate     *time.Time    `json:"due_date,omitempty"`
}

// Create stores a new todo with the given order and returns the
// server's record.
func (c *Client) Create(ctx context.Context, draft todo.Draft, order int) (*todo.Todo, error) {
	payload := createPayload{
		Title:       draft.Title,
		Description: draft.Description,
		Completed:   false,
		Priority:    draft.Priority,
		Category:    draft.Category,
		Order:       order,
		DueDate:     draft.DueDate,
	}
	var created todo.Todo
	if err := c.do(ctx, http.MethodPost, "/todos/", payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update sends the full record and returns the server's copy.
func (c *Client) Update(ctx context.Context, item todo.Todo) (*todo.Todo, error) {
	var updated todo.Todo
	path := fmt.Sprintf("/todos/%d", item.ID)
	if err := c.do(ctx, http.MethodPut, path, item, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the todo with the given ID.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/todos/%d", id), nil, nil)
}

// DeleteCompleted removes every completed todo in one request.
func (c *Client) DeleteCompleted(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/todos/completed", nil, nil)
}
