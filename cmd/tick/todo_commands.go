package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Rebornbugkiller/tick/internal/markdown"
	internalstrings "github.com/Rebornbugkiller/tick/internal/strings"
	"github.com/Rebornbugkiller/tick/internal/todotui"
	"github.com/Rebornbugkiller/tick/internal/ui"
	"github.com/Rebornbugkiller/tick/todo"
)

// list
var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List todos",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

var (
	listFilter string
	listJSON   bool
)

// add
var addCmd = &cobra.Command{
	Use:   "add <title>...",
	Short: "Add a todo",
	Long: `Add a todo. All arguments are joined into the title.

Priority and category default to the values in tick.toml when the
flags are not given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var (
	addPriority    string
	addCategory    string
	addDue         string
	addDescription string
)

// done
var doneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a todo as completed",
	Args:  cobra.ExactArgs(1),
	RunE:  runDone,
}

// undone
var undoneCmd = &cobra.Command{
	Use:   "undone <id>",
	Short: "Mark a completed todo as active again",
	Args:  cobra.ExactArgs(1),
	RunE:  runUndone,
}

// edit
var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change fields of a todo",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

var (
	editTitle       string
	editDescription string
	editPriority    string
	editCategory    string
	editDue         string
	editClearDue    bool
)

// rm
var rmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"remove"},
	Short:   "Delete a todo",
	Args:    cobra.ExactArgs(1),
	RunE:    runRm,
}

var rmYes bool

// clear
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all completed todos",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

var clearYes bool

// move
var moveCmd = &cobra.Command{
	Use:   "move <from> <to>",
	Short: "Move a todo to another position in the list",
	Long: `Move a todo to another position in the list.

Positions are the 1-based row numbers shown by 'tick list'. With
--filter, positions refer to rows of that filtered view; todos outside
the view keep their place.`,
	Args: cobra.ExactArgs(2),
	RunE: runMove,
}

var moveFilter string

// show
var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the full details of a todo",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var showJSON bool

func init() {
	rootCmd.AddCommand(listCmd, addCmd, doneCmd, undoneCmd, editCmd, rmCmd, clearCmd, moveCmd, showCmd)
	addDescriptionFlagAliases(addCmd, editCmd)

	// list flags
	listCmd.Flags().StringVarP(&listFilter, "filter", "f", "all", "Filter (all, active, completed, today, week)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")

	// add flags
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", "", "Priority (low, medium, high)")
	addCmd.Flags().StringVarP(&addCategory, "category", "c", "", "Category label")
	addCmd.Flags().StringVar(&addDue, "due", "", "Due date (YYYY-MM-DD)")
	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "Description (markdown)")

	// edit flags
	editCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	editCmd.Flags().StringVarP(&editDescription, "description", "d", "", "New description")
	editCmd.Flags().StringVarP(&editPriority, "priority", "p", "", "New priority (low, medium, high)")
	editCmd.Flags().StringVarP(&editCategory, "category", "c", "", "New category (empty to remove)")
	editCmd.Flags().StringVar(&editDue, "due", "", "New due date (YYYY-MM-DD)")
	editCmd.Flags().BoolVar(&editClearDue, "clear-due", false, "Remove the due date")

	// rm flags
	rmCmd.Flags().BoolVarP(&rmYes, "yes", "y", false, "Skip the confirmation prompt")

	// clear flags
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "Skip the confirmation prompt")

	// move flags
	moveCmd.Flags().StringVarP(&moveFilter, "filter", "f", "all", "View the positions refer to")

	// show flags
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")
}

// openStore wires up the app and loads todos from the server.
func openStore(cmd *cobra.Command, prompter todo.Prompter) (*app, error) {
	app, err := newApp(prompter)
	if err != nil {
		return nil, err
	}
	if err := app.requireSession(); err != nil {
		return nil, err
	}
	if err := app.store.Load(cmd.Context()); err != nil {
		return nil, err
	}
	return app, nil
}

func runList(cmd *cobra.Command, args []string) error {
	selector, err := parseSelector(listFilter)
	if err != nil {
		return err
	}

	app, err := openStore(cmd, todo.StdioPrompter{})
	if err != nil {
		return err
	}

	now := time.Now()
	items, err := app.store.View(selector, now)
	if err != nil {
		return err
	}

	if listJSON {
		if items == nil {
			items = []todo.Todo{}
		}
		return printJSON(items)
	}

	printTodoTable(items, now)
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	title := internalstrings.NormalizeWhitespace(joinArgs(args))

	app, err := openStore(cmd, todo.StdioPrompter{})
	if err != nil {
		return err
	}

	draft := todo.Draft{
		Title:       title,
		Description: editNormalizeDescription(addDescription),
		Priority:    todo.Priority(addPriority),
		Category:    addCategory,
	}
	if draft.Priority == "" {
		draft.Priority = todo.Priority(app.cfg.Defaults.Priority)
	}
	if draft.Category == "" {
		draft.Category = app.cfg.Defaults.Category
	}
	if addDue != "" {
		due, err := parseDueDate(addDue)
		if err != nil {
			return err
		}
		draft.DueDate = &due
	}

	created, err := app.store.Add(cmd.Context(), draft)
	if err != nil {
		return err
	}
	if created == nil {
		fmt.Println("Nothing to add.")
		return nil
	}

	fmt.Printf("Added todo %d: %s\n", created.ID, created.Title)
	return nil
}

func runDone(cmd *cobra.Command, args []string) error {
	return setCompleted(cmd, args[0], true)
}

func runUndone(cmd *cobra.Command, args []string) error {
	return setCompleted(cmd, args[0], false)
}

func setCompleted(cmd *cobra.Command, arg string, completed bool) error {
	id, err := parseTodoID(arg)
	if err != nil {
		return err
	}

	app, err := openStore(cmd, todo.StdioPrompter{})
	if err != nil {
		return err
	}

	current, err := app.store.Get(id)
	if err != nil {
		return err
	}
	if current.Completed == completed {
		fmt.Printf("Todo %d is already %s: %s\n", current.ID, completedWord(completed), current.Title)
		return nil
	}

	updated, err := app.store.Toggle(cmd.Context(), id)
	if err != nil {
		return err
	}

	fmt.Printf("Marked todo %d %s: %s\n", updated.ID, completedWord(updated.Completed), updated.Title)
	return nil
}

func completedWord(completed bool) string {
	if completed {
		return "done"
	}
	return "active"
}

func runEdit(cmd *cobra.Command, args []string) error {
	id, err := parseTodoID(args[0])
	if err != nil {
		return err
	}

	opts := todo.EditOptions{ClearDueDate: editClearDue}
	if cmd.Flags().Changed("title") {
		opts.Title = &editTitle
	}
	if cmd.Flags().Changed("description") {
		description := editNormalizeDescription(editDescription)
		opts.Description = &description
	}
	if cmd.Flags().Changed("priority") {
		priority := todo.Priority(editPriority)
		opts.Priority = &priority
	}
	if cmd.Flags().Changed("category") {
		opts.Category = &editCategory
	}
	if cmd.Flags().Changed("due") {
		due, err := parseDueDate(editDue)
		if err != nil {
			return err
		}
		opts.DueDate = &due
	}
	if opts.Title == nil && opts.Description == nil && opts.Priority == nil &&
		opts.Category == nil && opts.DueDate == nil && !opts.ClearDueDate {
		return errors.New("nothing to change (see 'tick edit --help' for flags)")
	}

	app, err := openStore(cmd, todo.StdioPrompter{})
	if err != nil {
		return err
	}

	updated, err := app.store.Edit(cmd.Context(), id, opts)
	if err != nil {
		return err
	}

	fmt.Printf("Updated todo %d: %s\n", updated.ID, updated.Title)
	return nil
}

func runRm(cmd *cobra.Command, args []string) error {
	id, err := parseTodoID(args[0])
	if err != nil {
		return err
	}

	app, err := openStore(cmd, todo.StdioPrompter{})
	if err != nil {
		return err
	}

	item, err := app.store.Get(id)
	if err != nil {
		return err
	}

	if !rmYes {
		ok, err := todo.StdioPrompter{}.Confirm(fmt.Sprintf("Delete todo %d (%q)?", item.ID, item.Title))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := app.store.Remove(cmd.Context(), id); err != nil {
		return err
	}

	fmt.Printf("Deleted todo %d: %s\n", item.ID, item.Title)
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	var prompter todo.Prompter = todo.StdioPrompter{}
	if clearYes {
		prompter = todotui.AutoConfirm{}
	}

	app, err := openStore(cmd, prompter)
	if err != nil {
		return err
	}

	count, err := app.store.ClearCompleted(cmd.Context())
	if err != nil {
		if errors.Is(err, todo.ErrNothingToClear) {
			fmt.Println("No completed todos.")
			return nil
		}
		return err
	}
	if count == 0 {
		fmt.Println("Cancelled.")
		return nil
	}

	fmt.Printf("Deleted %d completed %s.\n", count, pluralize("todo", count))
	return nil
}

func runMove(cmd *cobra.Command, args []string) error {
	selector, err := parseSelector(moveFilter)
	if err != nil {
		return err
	}

	from, err := parsePosition(args[0])
	if err != nil {
		return err
	}
	to, err := parsePosition(args[1])
	if err != nil {
		return err
	}

	app, err := openStore(cmd, todo.StdioPrompter{})
	if err != nil {
		return err
	}

	if err := app.store.Move(cmd.Context(), selector, from-1, to-1, time.Now()); err != nil {
		return err
	}

	fmt.Printf("Moved todo from position %d to %d.\n", from, to)
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := parseTodoID(args[0])
	if err != nil {
		return err
	}

	app, err := openStore(cmd, todo.StdioPrompter{})
	if err != nil {
		return err
	}

	item, err := app.store.Get(id)
	if err != nil {
		return err
	}

	if showJSON {
		return printJSON(item)
	}

	printTodoDetail(item, time.Now())
	return nil
}

func printJSON(value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func printTodoDetail(item *todo.Todo, now time.Time) {
	fmt.Printf("Todo %d: %s\n", item.ID, item.Title)
	fmt.Printf("  Status:   %s\n", completedWord(item.Completed))
	fmt.Printf("  Priority: %s\n", ui.HighlightPriority(string(item.Priority)))
	if item.Category != "" {
		fmt.Printf("  Category: %s\n", item.Category)
	}
	if item.DueDate != nil {
		fmt.Printf("  Due:      %s (%s)\n", ui.FormatDate(*item.DueDate), ui.FormatDueDate(*item.DueDate, now))
	}
	fmt.Printf("  Created:  %s\n", ui.FormatTimeAgo(item.CreatedAt, now))
	if item.Description != "" {
		fmt.Println()
		fmt.Print(string(markdown.SafeRender(78, 2, []byte(item.Description))))
	}
}

func pluralize(word string, count int) string {
	if count == 1 {
		return word
	}
	return word + "s"
}
