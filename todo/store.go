package todo

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Rebornbugkiller/tick/internal/logging"
	"github.com/Rebornbugkiller/tick/session"
)

// Gateway is the remote todo service as seen by the store. Every call
// is stateless request/response; the store owns all caching.
type Gateway interface {
	// FetchAll returns the current user's full collection.
	FetchAll(ctx context.Context) ([]Todo, error)

	// Create stores a new todo and returns the server's record, which
	// carries the authoritative ID and CreatedAt.
	Create(ctx context.Context, draft Draft, order int) (*Todo, error)

	// Update replaces the full record for item's ID.
	Update(ctx context.Context, item Todo) (*Todo, error)

	// Delete removes the todo with the given ID.
	Delete(ctx context.Context, id int64) error

	// DeleteCompleted removes every completed todo in one request.
	DeleteCompleted(ctx context.Context) error
}

// Prompter is used to ask the user for confirmation.
type Prompter interface {
	// Confirm asks the user a yes/no question and returns true if they say yes.
	Confirm(message string) (bool, error)
}

// StdioPrompter implements Prompter using stdin/stdout.
type StdioPrompter struct{}

// Confirm asks the user a yes/no question via stdin/stdout.
func (p StdioPrompter) Confirm(message string) (bool, error) {
	fmt.Printf("%s [y/n]: ", message)
	var response string
	_, err := fmt.Scanln(&response)
	if err != nil {
		return false, err
	}
	return response == "y" || response == "Y" || response == "yes" || response == "Yes", nil
}

// Options configures a store.
type Options struct {
	// Prompter is used for destructive-action confirmation. If nil,
	// StdioPrompter is used.
	Prompter Prompter
}

// Store is the authoritative client-side cache of the current user's
// todos. All mutations go through the store so that the optimistic
// local edit and the corresponding gateway request form one unit.
type Store struct {
	gateway  Gateway
	session  *session.Session
	prompter Prompter

	mu     sync.Mutex
	items  []Todo
	loaded bool
}

// NewStore creates a store bound to a gateway and a session. The store
// subscribes to the session and discards its collection whenever the
// session changes, so todos never leak across logins.
func NewStore(gateway Gateway, sess *session.Session, opts Options) *Store {
	if opts.Prompter == nil {
		opts.Prompter = StdioPrompter{}
	}
	store := &Store{
		gateway:  gateway,
		session:  sess,
		prompter: opts.Prompter,
	}
	sess.Subscribe(store.Reset)
	return store
}

// Reset discards the local collection. It runs automatically on
// login/logout transitions.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.loaded = false
}

// Loaded reports whether the collection has been fetched since the last
// reset.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Load fetches the full collection from the gateway and replaces local
// state entirely, sorted by order. On failure the store keeps whatever
// it had before; there is no automatic retry.
func (s *Store) Load(ctx context.Context) error {
	epoch, err := s.begin()
	if err != nil {
		return err
	}

	fetched, err := s.gateway.FetchAll(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session.Epoch() != epoch {
		return ErrStaleSession
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFetch, err)
	}

	SortByOrder(fetched)
	s.items = fetched
	s.loaded = true
	logging.Debug("loaded todos", "count", len(fetched))
	return nil
}

// Add creates a new todo from the draft. The order is the current
// maximum plus one (or 1 for an empty collection) and the server's
// record is appended on success. A blank title is a no-op, not an
// error: Add returns (nil, nil) because there is nothing to add.
func (s *Store) Add(ctx context.Context, draft Draft) (*Todo, error) {
	draft.Title = strings.TrimSpace(draft.Title)
	if draft.Title == "" {
		return nil, nil
	}
	if len(draft.Title) > MaxTitleLength {
		return nil, fmt.Errorf("%w: %d > %d", ErrTitleTooLong, len(draft.Title), MaxTitleLength)
	}
	draft.Priority = normalizePriority(draft.Priority)
	if draft.Priority == "" {
		draft.Priority = PriorityMedium
	}
	if err := ValidatePriority(draft.Priority); err != nil {
		return nil, err
	}
	draft.Category = strings.TrimSpace(draft.Category)

	epoch, err := s.begin()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	order := s.nextOrder()
	s.mu.Unlock()

	created, err := s.gateway.Create(ctx, draft, order)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session.Epoch() != epoch {
		return nil, ErrStaleSession
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMutation, err)
	}

	s.items = append(s.items, *created)
	SortByOrder(s.items)
	logging.Debug("added todo", "id", created.ID, "order", created.Order)
	result := *created
	return &result, nil
}

// Toggle flips the completed flag of the identified todo. The flip is
// applied locally first; if the gateway rejects the update, the flip is
// reverted and the failure surfaced as ErrMutation.
func (s *Store) Toggle(ctx context.Context, id int64) (*Todo, error) {
	epoch, err := s.begin()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %d", ErrTodoNotFound, id)
	}
	s.items[idx].Completed = !s.items[idx].Completed
	optimistic := s.items[idx]
	s.mu.Unlock()

	confirmed, err := s.gateway.Update(ctx, optimistic)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session.Epoch() != epoch {
		return nil, ErrStaleSession
	}
	if err != nil {
		if idx := s.indexOf(id); idx >= 0 {
			s.items[idx].Completed = !optimistic.Completed
		}
		return nil, fmt.Errorf("%w: %v", ErrMutation, err)
	}

	if idx := s.indexOf(id); idx >= 0 {
		s.items[idx] = *confirmed
	}
	SortByOrder(s.items)
	result := *confirmed
	return &result, nil
}

// EditOptions configures fields to change on a todo.
// Nil pointers mean "keep the current value".
type EditOptions struct {
	Title        *string
	Description  *string
	Priority     *Priority
	Category     *string
	DueDate      *time.Time
	ClearDueDate bool
}

// Edit applies the options to the identified todo and sends the full
// updated record to the gateway. A rejected update restores the
// previous record.
func (s *Store) Edit(ctx context.Context, id int64, opts EditOptions) (*Todo, error) {
	if opts.Title != nil {
		trimmed := strings.TrimSpace(*opts.Title)
		if err := ValidateTitle(trimmed); err != nil {
			return nil, err
		}
		opts.Title = &trimmed
	}
	if opts.Priority != nil {
		normalized := normalizePriority(*opts.Priority)
		if err := ValidatePriority(normalized); err != nil {
			return nil, err
		}
		opts.Priority = &normalized
	}

	epoch, err := s.begin()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %d", ErrTodoNotFound, id)
	}
	original := s.items[idx]
	if opts.Title != nil {
		s.items[idx].Title = *opts.Title
	}
	if opts.Description != nil {
		s.items[idx].Description = *opts.Description
	}
	if opts.Priority != nil {
		s.items[idx].Priority = *opts.Priority
	}
	if opts.Category != nil {
		s.items[idx].Category = strings.TrimSpace(*opts.Category)
	}
	if opts.ClearDueDate {
		s.items[idx].DueDate = nil
	} else if opts.DueDate != nil {
		due := *opts.DueDate
		s.items[idx].DueDate = &due
	}
	edited := s.items[idx]
	s.mu.Unlock()

	confirmed, err := s.gateway.Update(ctx, edited)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session.Epoch() != epoch {
		return nil, ErrStaleSession
	}
	if err != nil {
		if idx := s.indexOf(id); idx >= 0 {
			s.items[idx] = original
		}
		return nil, fmt.Errorf("%w: %v", ErrMutation, err)
	}

	if idx := s.indexOf(id); idx >= 0 {
		s.items[idx] = *confirmed
	}
	SortByOrder(s.items)
	result := *confirmed
	return &result, nil
}

// Remove deletes the identified todo. The local removal happens before
// the gateway confirms, so views reflect the intent immediately; a
// rejected delete puts the todo back.
func (s *Store) Remove(ctx context.Context, id int64) error {
	epoch, err := s.begin()
	if err != nil {
		return err
	}

	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrTodoNotFound, id)
	}
	removed := s.items[idx]
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	s.mu.Unlock()

	err = s.gateway.Delete(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session.Epoch() != epoch {
		return ErrStaleSession
	}
	if err != nil {
		s.items = append(s.items, removed)
		SortByOrder(s.items)
		return fmt.Errorf("%w: %v", ErrMutation, err)
	}
	logging.Debug("removed todo", "id", id)
	return nil
}

// ClearCompleted deletes every completed todo after the prompter
// confirms. It returns the number of todos removed. With no completed
// todos it returns ErrNothingToClear, a benign signal rather than a
// failure; a declined confirmation removes nothing and returns (0, nil).
func (s *Store) ClearCompleted(ctx context.Context) (int, error) {
	epoch, err := s.begin()
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	completed := 0
	for _, item := range s.items {
		if item.Completed {
			completed++
		}
	}
	s.mu.Unlock()

	if completed == 0 {
		return 0, ErrNothingToClear
	}

	confirmed, err := s.prompter.Confirm(fmt.Sprintf("Delete %d completed todo(s)?", completed))
	if err != nil {
		return 0, fmt.Errorf("prompt: %w", err)
	}
	if !confirmed {
		return 0, nil
	}

	err = s.gateway.DeleteCompleted(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session.Epoch() != epoch {
		return 0, ErrStaleSession
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMutation, err)
	}

	kept := s.items[:0]
	removedCount := 0
	for _, item := range s.items {
		if item.Completed {
			removedCount++
			continue
		}
		kept = append(kept, item)
	}
	s.items = kept
	logging.Debug("cleared completed todos", "count", removedCount)
	return removedCount, nil
}

// All returns a copy of the full ordered collection.
func (s *Store) All() []Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make([]Todo, len(s.items))
	copy(snapshot, s.items)
	return snapshot
}

// View returns the todos matched by the selector, computed over the
// latest local snapshot (including unconfirmed optimistic edits).
func (s *Store) View(selector Selector, now time.Time) ([]Todo, error) {
	selector = normalizeSelector(selector)
	if !selector.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSelector, selector)
	}
	return Filter(s.All(), selector, now), nil
}

// Get returns the todo with the given ID.
func (s *Store) Get(id int64) (*Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %d", ErrTodoNotFound, id)
	}
	result := s.items[idx]
	return &result, nil
}

// Move translates a drag result over the selector's displayed sequence
// into a new total ordering: the element at source is reinserted at
// destination, and every todo whose order value changed is written back
// through the gateway so the ordering survives a reload. A negative
// destination means the drag was cancelled and is a no-op. A rejected
// write restores the previous ordering.
func (s *Store) Move(ctx context.Context, selector Selector, source, destination int, now time.Time) error {
	if destination < 0 {
		return nil
	}
	selector = normalizeSelector(selector)
	if !selector.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidSelector, selector)
	}

	epoch, err := s.begin()
	if err != nil {
		return err
	}

	s.mu.Lock()
	displayed := Filter(s.items, selector, now)
	reordered, err := reorderDisplayed(displayed, source, destination)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	previous := make([]Todo, len(s.items))
	copy(previous, s.items)
	next := applyDisplayedOrder(s.items, reordered)
	changed := changedOrders(previous, next)
	s.items = next
	s.mu.Unlock()

	if err := s.persistOrders(ctx, changed); err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.session.Epoch() != epoch {
			return ErrStaleSession
		}
		s.items = previous
		return fmt.Errorf("%w: %v", ErrMutation, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session.Epoch() != epoch {
		return ErrStaleSession
	}
	logging.Debug("reordered todos", "updated", len(changed))
	return nil
}

func (s *Store) persistOrders(ctx context.Context, changed []Todo) error {
	for _, item := range changed {
		if _, err := s.gateway.Update(ctx, item); err != nil {
			return fmt.Errorf("update order of todo %d: %w", item.ID, err)
		}
	}
	return nil
}

// begin guards an operation: it requires a live credential and captures
// the session epoch so results arriving after a session change can be
// dropped.
func (s *Store) begin() (uint64, error) {
	if _, ok := s.session.Token(); !ok {
		return 0, ErrNoSession
	}
	return s.session.Epoch(), nil
}

// indexOf returns the position of id in items. Callers must hold mu.
func (s *Store) indexOf(id int64) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) nextOrder() int {
	max := 0
	for _, item := range s.items {
		if item.Order > max {
			max = item.Order
		}
	}
	return max + 1
}
