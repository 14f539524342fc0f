package main

import (
	"strings"
	"testing"
	"time"

	"github.com/Rebornbugkiller/tick/todo"
)

func TestFormatTodoTable(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	due := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	todos := []todo.Todo{
		{ID: 7, Title: "Buy milk", Priority: todo.PriorityHigh, DueDate: &due, Order: 1},
		{ID: 3, Title: "Write report", Priority: todo.PriorityMedium, Category: "work", Completed: true, Order: 2},
	}

	output := formatTodoTable(todos, now)

	for _, want := range []string{"TITLE", "Buy milk", "Write report", "high", "work", "[x]", "[ ]", "today"} {
		if !strings.Contains(output, want) {
			t.Errorf("table output missing %q:\n%s", want, output)
		}
	}

	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines:\n%s", len(lines), output)
	}
	if !strings.HasPrefix(lines[1], "1") || !strings.HasPrefix(lines[2], "2") {
		t.Errorf("rows should be numbered by position:\n%s", output)
	}
}

func TestFormatTableDueNoDueDate(t *testing.T) {
	if got := formatTableDue(todo.Todo{}, time.Now()); got != "-" {
		t.Errorf("expected \"-\" for missing due date, got %q", got)
	}
}

func TestDoneMarker(t *testing.T) {
	if got := doneMarker(true); got != "[x]" {
		t.Errorf("doneMarker(true) = %q", got)
	}
	if got := doneMarker(false); got != "[ ]" {
		t.Errorf("doneMarker(false) = %q", got)
	}
}
