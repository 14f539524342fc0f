package todo

import (
	"math"
	"sort"
	"time"
)

// Filter returns the todos matched by selector, preserving their order.
// It is a pure function: it never mutates the input and always returns
// the same output for the same (todos, selector, now).
func Filter(todos []Todo, selector Selector, now time.Time) []Todo {
	var matched []Todo
	for _, item := range todos {
		if Matches(item, selector, now) {
			matched = append(matched, item)
		}
	}
	return matched
}

// Matches reports whether a single todo belongs to the selector's view.
// Unknown selectors match nothing.
func Matches(item Todo, selector Selector, now time.Time) bool {
	switch selector {
	case SelectorAll:
		return true
	case SelectorActive:
		return !item.Completed
	case SelectorCompleted:
		return item.Completed
	case SelectorToday:
		return DueToday(item, now)
	case SelectorWeek:
		return DueThisWeek(item, now)
	default:
		return false
	}
}

// DueToday reports whether the todo's due date falls on now's calendar
// day, in now's location. Todos without a due date never match.
func DueToday(item Todo, now time.Time) bool {
	if item.DueDate == nil {
		return false
	}
	due := item.DueDate.In(now.Location())
	dueYear, dueMonth, dueDay := due.Date()
	nowYear, nowMonth, nowDay := now.Date()
	return dueYear == nowYear && dueMonth == nowMonth && dueDay == nowDay
}

// DueThisWeek reports whether the todo is due between today and seven
// calendar days from today, inclusive on both ends. A due date in the
// past is excluded; one exactly seven days out is included.
func DueThisWeek(item Todo, now time.Time) bool {
	if item.DueDate == nil {
		return false
	}
	days := daysUntil(now, *item.DueDate)
	return days >= 0 && days <= 7
}

// Overdue reports whether the todo's due calendar day is strictly
// before today's.
func Overdue(item Todo, now time.Time) bool {
	if item.DueDate == nil {
		return false
	}
	return daysUntil(now, *item.DueDate) < 0
}

// daysUntil counts calendar days from now's day to due's day, in now's
// location. Rounding absorbs DST transitions.
func daysUntil(now, due time.Time) int {
	from := startOfDay(now)
	to := startOfDay(due.In(now.Location()))
	return int(math.Round(to.Sub(from).Hours() / 24))
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// SortByOrder sorts todos by their Order field. The sort is stable, so
// todos sharing an Order value keep the sequence the server returned
// them in.
func SortByOrder(todos []Todo) {
	sort.SliceStable(todos, func(i, j int) bool {
		return todos[i].Order < todos[j].Order
	})
}
