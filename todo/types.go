package todo

// Priority represents the importance level of a todo.
type Priority string

const (
	// PriorityLow marks tasks that can wait.
	PriorityLow Priority = "low"

	// PriorityMedium is the default importance level.
	PriorityMedium Priority = "medium"

	// PriorityHigh marks urgent tasks.
	PriorityHigh Priority = "high"
)

// ValidPriorities returns all valid priority values.
func ValidPriorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// IsValid returns true if the priority is a known valid value.
func (p Priority) IsValid() bool {
	for _, valid := range ValidPriorities() {
		if p == valid {
			return true
		}
	}
	return false
}

// PriorityRank returns the sort rank for a priority (0 = most urgent).
func PriorityRank(p Priority) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Selector names one of the derived views of the collection.
type Selector string

const (
	// SelectorAll matches every todo.
	SelectorAll Selector = "all"

	// SelectorActive matches todos that are not completed.
	SelectorActive Selector = "active"

	// SelectorCompleted matches completed todos.
	SelectorCompleted Selector = "completed"

	// SelectorToday matches todos due on the current calendar day.
	SelectorToday Selector = "today"

	// SelectorWeek matches todos due within the next seven calendar days.
	SelectorWeek Selector = "week"
)

// ValidSelectors returns all valid selector values.
func ValidSelectors() []Selector {
	return []Selector{SelectorAll, SelectorActive, SelectorCompleted, SelectorToday, SelectorWeek}
}

// IsValid returns true if the selector is a known valid value.
func (s Selector) IsValid() bool {
	for _, valid := range ValidSelectors() {
		if s == valid {
			return true
		}
	}
	return false
}

// MaxTitleLength is the maximum allowed length for a todo title.
const MaxTitleLength = 255
