package todotui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	internalstrings "github.com/Rebornbugkiller/tick/internal/strings"
	"github.com/Rebornbugkiller/tick/internal/ui"
	"github.com/Rebornbugkiller/tick/internal/validation"
	"github.com/Rebornbugkiller/tick/todo"
)

type fieldKind int

const (
	fieldTitle fieldKind = iota
	fieldDescription
	fieldPriority
	fieldCategory
	fieldDueDate
)

type detailField struct {
	kind      fieldKind
	label     string
	input     textinput.Model
	textarea  textarea.Model
	multiLine bool
}

func newDetailField(kind fieldKind, label string, value string) detailField {
	field := detailField{kind: kind, label: label}
	if kind == fieldDescription {
		area := textarea.New()
		// textarea treats \r\n as two line breaks, so normalize first.
		area.SetValue(internalstrings.NormalizeNewlines(value))
		area.ShowLineNumbers = false
		area.Prompt = ""
		field.textarea = area
		field.multiLine = true
		return field
	}
	input := textinput.New()
	input.SetValue(value)
	input.Prompt = ""
	if kind == fieldTitle {
		input.CharLimit = todo.MaxTitleLength
	}
	field.input = input
	return field
}

func (field detailField) Value() string {
	if field.multiLine {
		return field.textarea.Value()
	}
	return field.input.Value()
}

func (field detailField) Focus() detailField {
	if field.multiLine {
		field.textarea.Focus()
		return field
	}
	field.input.Focus()
	return field
}

func (field detailField) Blur() detailField {
	if field.multiLine {
		field.textarea.Blur()
		return field
	}
	field.input.Blur()
	return field
}

func (field detailField) Update(msg tea.Msg) (detailField, tea.Cmd) {
	var cmd tea.Cmd
	if field.multiLine {
		field.textarea, cmd = field.textarea.Update(msg)
		return field, cmd
	}
	field.input, cmd = field.input.Update(msg)
	return field, cmd
}

func (field detailField) View() string {
	if field.multiLine {
		return field.textarea.View()
	}
	return field.input.View()
}

type detailModel struct {
	todo       todo.Todo
	isDraft    bool
	fields     []detailField
	fieldIndex int
	focused    bool
	dirty      bool
	now        func() time.Time
	viewport   viewport.Model
}

func newDetailModel(now func() time.Time) detailModel {
	return detailModel{now: now, viewport: viewport.New(0, 0)}
}

func (model *detailModel) SetTodo(item todo.Todo, isDraft bool) {
	wasFocused := model.focused
	model.todo = item
	model.isDraft = isDraft
	model.fields = buildDetailFields(item)
	model.fieldIndex = 0
	model.focused = false
	model.dirty = false
	if wasFocused {
		model.focused = true
		if len(model.fields) > 0 {
			model.fields[model.fieldIndex] = model.fields[model.fieldIndex].Focus()
		}
	}
	model.refreshViewport(true)
}

func (model *detailModel) SetSize(width, height int) {
	inputWidth := width - 4
	if inputWidth < 10 {
		inputWidth = 10
	}
	for i, field := range model.fields {
		if field.multiLine {
			field.textarea.SetWidth(inputWidth)
			field.textarea.SetHeight(5)
		} else {
			field.input.Width = inputWidth
		}
		model.fields[i] = field
	}
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	model.viewport.Width = width
	model.viewport.Height = height
	model.refreshViewport(false)
}

func (model *detailModel) Focus() {
	if model.focused {
		return
	}
	model.focused = true
	if len(model.fields) > 0 {
		model.fields[model.fieldIndex] = model.fields[model.fieldIndex].Focus()
	}
	model.refreshViewport(false)
}

func (model *detailModel) Blur() {
	model.focused = false
	for i := range model.fields {
		model.fields[i] = model.fields[i].Blur()
	}
	model.refreshViewport(false)
}

func (model detailModel) IsDirty() bool {
	return model.dirty
}

func (model detailModel) Update(msg tea.Msg) (detailModel, tea.Cmd, bool) {
	if !model.focused {
		return model, nil, false
	}

	var cmd tea.Cmd

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab":
			model = model.advanceField(1)
			return model, nil, false
		case "shift+tab", "backtab":
			model = model.advanceField(-1)
			return model, nil, false
		case "ctrl+s":
			return model, nil, true
		}
		if updated, cmd, handled := model.handleViewportKey(key); handled {
			return updated, cmd, false
		}
	}

	if _, ok := msg.(tea.MouseMsg); ok {
		model.viewport, cmd = model.viewport.Update(msg)
		return model, cmd, false
	}

	if len(model.fields) == 0 {
		return model, nil, false
	}

	model.fields[model.fieldIndex], cmd = model.fields[model.fieldIndex].Update(msg)
	model.dirty = model.computeDirty()
	model.refreshViewport(false)
	return model, cmd, false
}

func (model detailModel) advanceField(delta int) detailModel {
	if len(model.fields) == 0 {
		return model
	}
	model.fields[model.fieldIndex] = model.fields[model.fieldIndex].Blur()
	model.fieldIndex = (model.fieldIndex + delta + len(model.fields)) % len(model.fields)
	model.fields[model.fieldIndex] = model.fields[model.fieldIndex].Focus()
	model.refreshViewport(false)
	return model
}

func (model detailModel) computeDirty() bool {
	values := model.valuesByKind()
	if strings.TrimSpace(values[fieldTitle]) != strings.TrimSpace(model.todo.Title) {
		return true
	}
	if values[fieldDescription] != internalstrings.NormalizeNewlines(model.todo.Description) {
		return true
	}
	if strings.TrimSpace(values[fieldPriority]) != string(model.todo.Priority) {
		return true
	}
	if strings.TrimSpace(values[fieldCategory]) != model.todo.Category {
		return true
	}
	if strings.TrimSpace(values[fieldDueDate]) != formatDueValue(model.todo.DueDate) {
		return true
	}
	return false
}

func (model detailModel) valuesByKind() map[fieldKind]string {
	values := make(map[fieldKind]string, len(model.fields))
	for _, field := range model.fields {
		values[field.kind] = field.Value()
	}
	return values
}

func (model detailModel) View() string {
	return model.viewport.View()
}

func (model *detailModel) handleViewportKey(key tea.KeyMsg) (detailModel, tea.Cmd, bool) {
	switch key.String() {
	case "up", "down":
		if model.focused && model.currentFieldIsMultiline() {
			return *model, nil, false
		}
	case "pgup", "pgdown", "home", "end":
	default:
		return *model, nil, false
	}
	var cmd tea.Cmd
	model.viewport, cmd = model.viewport.Update(key)
	return *model, cmd, true
}

func (model detailModel) currentFieldIsMultiline() bool {
	if len(model.fields) == 0 {
		return false
	}
	return model.fields[model.fieldIndex].multiLine
}

func (model *detailModel) refreshViewport(reset bool) {
	model.viewport.SetContent(model.renderContent())
	if reset {
		model.viewport.GotoTop()
	}
}

func (model detailModel) renderContent() string {
	if model.todo.ID == 0 && !model.isDraft {
		return valueMuted.Render("No todo selected")
	}

	now := model.now()

	lines := make([]string, 0, len(model.fields)+8)
	lines = append(lines, labelStyle.Render("Editable"))
	for _, field := range model.fields {
		if field.kind == fieldDescription {
			lines = append(lines, fmt.Sprintf("%s:", labelStyle.Render(field.label)))
			lines = append(lines, field.View())
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", labelStyle.Render(field.label), field.View()))
	}

	lines = append(lines, "")
	lines = append(lines, labelStyle.Render("Read-only"))
	if model.isDraft {
		lines = append(lines, formatDetailRow("ID", "-"))
	} else {
		lines = append(lines, formatDetailRow("ID", fmt.Sprintf("%d", model.todo.ID)))
		lines = append(lines, formatDetailRow("Created", ui.FormatTimeAgo(model.todo.CreatedAt, now)))
		completed := "no"
		if model.todo.Completed {
			completed = "yes"
		}
		lines = append(lines, formatDetailRow("Completed", completed))
		if model.todo.DueDate != nil {
			lines = append(lines, formatDetailRow("Due", ui.FormatDueDate(*model.todo.DueDate, now)))
		}
	}

	content := strings.Join(lines, "\n")
	width := model.viewport.Width
	if width <= 0 {
		return content
	}
	return wordwrap.String(content, width)
}

// buildDraft turns the form values into a draft for creation.
func (model detailModel) buildDraft() (todo.Draft, error) {
	values := model.valuesByKind()
	priority, err := parsePriority(values[fieldPriority])
	if err != nil {
		return todo.Draft{}, err
	}
	due, err := parseDueDate(values[fieldDueDate])
	if err != nil {
		return todo.Draft{}, err
	}
	description := internalstrings.TrimTrailingNewlines(internalstrings.NormalizeNewlines(values[fieldDescription]))
	return todo.Draft{
		Title:       strings.TrimSpace(values[fieldTitle]),
		Description: description,
		Priority:    priority,
		Category:    strings.TrimSpace(values[fieldCategory]),
		DueDate:     due,
	}, nil
}

// buildEditOptions turns the form values into an update for the current
// todo. A blanked due date field clears the due date.
func (model detailModel) buildEditOptions() (todo.EditOptions, error) {
	values := model.valuesByKind()
	priority, err := parsePriority(values[fieldPriority])
	if err != nil {
		return todo.EditOptions{}, err
	}
	due, err := parseDueDate(values[fieldDueDate])
	if err != nil {
		return todo.EditOptions{}, err
	}

	title := strings.TrimSpace(values[fieldTitle])
	description := internalstrings.TrimTrailingNewlines(internalstrings.NormalizeNewlines(values[fieldDescription]))
	category := strings.TrimSpace(values[fieldCategory])

	opts := todo.EditOptions{
		Title:       &title,
		Description: &description,
		Priority:    &priority,
		Category:    &category,
	}
	if due != nil {
		opts.DueDate = due
	} else if model.todo.DueDate != nil {
		opts.ClearDueDate = true
	}
	return opts, nil
}

func buildDetailFields(item todo.Todo) []detailField {
	priority := item.Priority
	if priority == "" {
		priority = todo.PriorityMedium
	}
	return []detailField{
		newDetailField(fieldTitle, "Title", item.Title),
		newDetailField(fieldDescription, "Description", item.Description),
		newDetailField(fieldPriority, "Priority", string(priority)),
		newDetailField(fieldCategory, "Category", item.Category),
		newDetailField(fieldDueDate, "Due (YYYY-MM-DD)", formatDueValue(item.DueDate)),
	}
}

func parsePriority(value string) (todo.Priority, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return todo.PriorityMedium, nil
	}
	priority := todo.Priority(trimmed)
	if !priority.IsValid() {
		return "", fmt.Errorf("invalid priority %q (valid: %s)", value, validation.FormatValidValues(todo.ValidPriorities()))
	}
	return priority, nil
}

func parseDueDate(value string) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := ui.ParseDueDate(trimmed)
	if err != nil {
		return nil, fmt.Errorf("invalid due date %q, want YYYY-MM-DD", value)
	}
	return &parsed, nil
}

func formatDueValue(due *time.Time) string {
	if due == nil {
		return ""
	}
	return due.Format(ui.DueDateLayout)
}

func formatDetailRow(label, value string) string {
	if internalstrings.IsBlank(value) {
		value = "-"
	}
	return fmt.Sprintf("%s: %s", labelStyle.Render(label), valueMuted.Render(value))
}
