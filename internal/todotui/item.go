package todotui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Rebornbugkiller/tick/internal/ui"
	"github.com/Rebornbugkiller/tick/todo"
)

type listItem struct {
	todo    todo.Todo
	isDraft bool
}

func (item listItem) FilterValue() string {
	if item.isDraft {
		return "draft"
	}
	return item.todo.Title
}

type itemDelegate struct {
	now           func() time.Time
	normalStyle   lipgloss.Style
	selectedStyle lipgloss.Style
	doneStyle     lipgloss.Style
}

func newItemDelegate(now func() time.Time) itemDelegate {
	return itemDelegate{
		now:           now,
		normalStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		selectedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("24")),
		doneStyle:     valueMuted,
	}
}

func (d itemDelegate) Height() int                             { return 1 }
func (d itemDelegate) Spacing() int                            { return 0 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	current, ok := item.(listItem)
	if !ok {
		return
	}

	line := formatListItem(current, m.Width(), d.now())
	style := d.normalStyle
	if index == m.Index() {
		style = d.selectedStyle
	} else if !current.isDraft && current.todo.Completed {
		style = d.doneStyle
	}
	fmt.Fprint(w, style.Render(line))
}

func formatListItem(item listItem, width int, now time.Time) string {
	if item.isDraft {
		return truncateText("[ ] (new todo)", width)
	}

	check := "[ ]"
	if item.todo.Completed {
		check = "[x]"
	}

	title := strings.TrimSpace(item.todo.Title)
	if title == "" {
		title = "(untitled)"
	}

	parts := []string{check, title}
	if item.todo.Priority == todo.PriorityHigh {
		parts = append(parts, "!")
	}
	if item.todo.DueDate != nil {
		due := ui.FormatDueDate(*item.todo.DueDate, now)
		if !item.todo.Completed && todo.Overdue(item.todo, now) {
			due = "OVERDUE " + due
		}
		parts = append(parts, "("+due+")")
	}
	if item.todo.Category != "" {
		parts = append(parts, "#"+item.todo.Category)
	}

	return truncateText(strings.Join(parts, " "), width)
}

func truncateText(value string, width int) string {
	if width <= 0 {
		return value
	}
	return runewidth.Truncate(value, width, "...")
}
