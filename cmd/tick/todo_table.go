package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Rebornbugkiller/tick/internal/ui"
	"github.com/Rebornbugkiller/tick/todo"
)

// printTodoTable prints todos in a table format.
func printTodoTable(todos []todo.Todo, now time.Time) {
	if len(todos) == 0 {
		fmt.Println("No todos found.")
		return
	}

	fmt.Print(formatTodoTable(todos, now))
}

func formatTodoTable(todos []todo.Todo, now time.Time) string {
	builder := ui.NewTableBuilder([]string{"#", "ID", "DONE", "PRI", "DUE", "CATEGORY", "TITLE"}, len(todos))

	for i, t := range todos {
		row := []string{
			strconv.Itoa(i + 1),
			strconv.FormatInt(t.ID, 10),
			doneMarker(t.Completed),
			ui.HighlightPriority(string(t.Priority)),
			formatTableDue(t, now),
			t.Category,
			formatTableTitle(t),
		}
		builder.AddRow(row)
	}

	return builder.String()
}

func doneMarker(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}

func formatTableDue(t todo.Todo, now time.Time) string {
	if t.DueDate == nil {
		return "-"
	}
	return ui.FormatDueDate(*t.DueDate, now)
}

func formatTableTitle(t todo.Todo) string {
	title := ui.TruncateTableCell(t.Title)
	if t.Completed {
		return ui.Faint(title)
	}
	return title
}
