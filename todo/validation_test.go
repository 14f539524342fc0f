package todo

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateTitle(t *testing.T) {
	if err := ValidateTitle("buy milk"); err != nil {
		t.Errorf("valid title rejected: %v", err)
	}
	if err := ValidateTitle("   "); err == nil {
		t.Error("blank title should be rejected")
	}
	if err := ValidateTitle(strings.Repeat("x", MaxTitleLength)); err != nil {
		t.Errorf("title at the limit rejected: %v", err)
	}
	if err := ValidateTitle(strings.Repeat("x", MaxTitleLength+1)); !errors.Is(err, ErrTitleTooLong) {
		t.Errorf("expected ErrTitleTooLong, got %v", err)
	}
}

func TestValidatePriority(t *testing.T) {
	for _, p := range ValidPriorities() {
		if err := ValidatePriority(p); err != nil {
			t.Errorf("ValidatePriority(%q) = %v", p, err)
		}
	}
	if err := ValidatePriority("urgent"); !errors.Is(err, ErrInvalidPriority) {
		t.Errorf("expected ErrInvalidPriority, got %v", err)
	}
}

func TestPriorityRank(t *testing.T) {
	if PriorityRank(PriorityHigh) >= PriorityRank(PriorityMedium) {
		t.Error("high must rank before medium")
	}
	if PriorityRank(PriorityMedium) >= PriorityRank(PriorityLow) {
		t.Error("medium must rank before low")
	}
	if PriorityRank("bogus") <= PriorityRank(PriorityLow) {
		t.Error("unknown priorities rank last")
	}
}

func TestNormalize(t *testing.T) {
	if got := normalizePriority(" High "); got != PriorityHigh {
		t.Errorf("normalizePriority = %q", got)
	}
	if got := normalizeSelector("ALL"); got != SelectorAll {
		t.Errorf("normalizeSelector = %q", got)
	}
}
