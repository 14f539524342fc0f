package ui

import "testing"

func TestHighlightPriorityWithoutTerminal(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	if got := HighlightPriority("high"); got != "high" {
		t.Fatalf("expected plain value without a terminal, got %q", got)
	}
	if got := Faint("done"); got != "done" {
		t.Fatalf("expected plain value without a terminal, got %q", got)
	}
}
