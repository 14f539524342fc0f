package todo

import (
	"testing"
	"time"
)

func datePtr(t time.Time) *time.Time { return &t }

func TestFilterBySelector(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	todos := []Todo{
		{ID: 1, Title: "active, due today", DueDate: datePtr(now.Add(2 * time.Hour))},
		{ID: 2, Title: "completed", Completed: true},
		{ID: 3, Title: "active, no due date"},
		{ID: 4, Title: "completed, due today", Completed: true, DueDate: datePtr(now)},
	}

	tests := []struct {
		selector Selector
		wantIDs  []int64
	}{
		{SelectorAll, []int64{1, 2, 3, 4}},
		{SelectorActive, []int64{1, 3}},
		{SelectorCompleted, []int64{2, 4}},
		{SelectorToday, []int64{1, 4}},
		{SelectorWeek, []int64{1, 4}},
	}

	for _, tt := range tests {
		got := Filter(todos, tt.selector, now)
		if len(got) != len(tt.wantIDs) {
			t.Errorf("Filter(%s) returned %d todos, want %d", tt.selector, len(got), len(tt.wantIDs))
			continue
		}
		for i, want := range tt.wantIDs {
			if got[i].ID != want {
				t.Errorf("Filter(%s)[%d].ID = %d, want %d", tt.selector, i, got[i].ID, want)
			}
		}
	}
}

func TestActiveAndCompletedPartition(t *testing.T) {
	now := time.Now()
	todos := []Todo{
		{ID: 1},
		{ID: 2, Completed: true},
		{ID: 3},
	}

	active := Filter(todos, SelectorActive, now)
	completed := Filter(todos, SelectorCompleted, now)
	if len(active)+len(completed) != len(todos) {
		t.Errorf("active (%d) and completed (%d) should partition all %d todos",
			len(active), len(completed), len(todos))
	}
	for _, item := range active {
		if item.Completed {
			t.Errorf("todo %d is completed but matched the active view", item.ID)
		}
	}
}

func TestDueToday(t *testing.T) {
	now := time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		due  *time.Time
		want bool
	}{
		{"same day, earlier", datePtr(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)), true},
		{"same day, later", datePtr(time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)), true},
		{"next day", datePtr(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)), false},
		{"previous day", datePtr(time.Date(2026, 3, 9, 23, 59, 0, 0, time.UTC)), false},
		{"no due date", nil, false},
	}

	for _, tt := range tests {
		got := DueToday(Todo{DueDate: tt.due}, now)
		if got != tt.want {
			t.Errorf("%s: DueToday = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDueThisWeek(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		due  *time.Time
		want bool
	}{
		{"due today", datePtr(now), true},
		{"seven days out", datePtr(time.Date(2026, 3, 17, 8, 0, 0, 0, time.UTC)), true},
		{"eight days out", datePtr(time.Date(2026, 3, 18, 8, 0, 0, 0, time.UTC)), false},
		{"yesterday", datePtr(time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)), false},
		{"no due date", nil, false},
	}

	for _, tt := range tests {
		got := DueThisWeek(Todo{DueDate: tt.due}, now)
		if got != tt.want {
			t.Errorf("%s: DueThisWeek = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestOverdue(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 30, 0, 0, time.UTC)

	if Overdue(Todo{DueDate: datePtr(time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC))}, now) {
		t.Error("a todo due later today is not overdue")
	}
	if !Overdue(Todo{DueDate: datePtr(time.Date(2026, 3, 9, 23, 59, 0, 0, time.UTC))}, now) {
		t.Error("a todo due yesterday is overdue")
	}
	if Overdue(Todo{}, now) {
		t.Error("a todo without a due date is never overdue")
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	now := time.Now()
	todos := []Todo{{ID: 1}, {ID: 2, Completed: true}}
	before := make([]Todo, len(todos))
	copy(before, todos)

	Filter(todos, SelectorActive, now)

	for i := range todos {
		if todos[i] != before[i] {
			t.Fatalf("Filter mutated its input at index %d", i)
		}
	}
}

func TestSortByOrderIsStable(t *testing.T) {
	todos := []Todo{
		{ID: 1, Order: 2},
		{ID: 2, Order: 1},
		{ID: 3, Order: 2},
	}

	SortByOrder(todos)

	wantIDs := []int64{2, 1, 3}
	for i, want := range wantIDs {
		if todos[i].ID != want {
			t.Errorf("todos[%d].ID = %d, want %d", i, todos[i].ID, want)
		}
	}
}
