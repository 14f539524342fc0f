// Package todotui implements the interactive terminal UI: a filtered
// todo list on the left, an editable detail pane on the right, and
// confirm modals for the destructive actions.
package todotui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	internalstrings "github.com/Rebornbugkiller/tick/internal/strings"
	"github.com/Rebornbugkiller/tick/todo"
)

// AutoConfirm satisfies todo.Prompter by always answering yes. The TUI
// asks its own questions through modals, so the store must not prompt
// again on stdin.
type AutoConfirm struct{}

// Confirm answers yes without asking.
func (AutoConfirm) Confirm(string) (bool, error) { return true, nil }

type focusPane int

const (
	focusList focusPane = iota
	focusDetail
)

type statusLevel int

const (
	statusNone statusLevel = iota
	statusInfo
	statusError
)

type modalKind int

const (
	modalNone modalKind = iota
	modalHelp
	modalDeleteTodo
	modalClearCompleted
	modalDiscardEdits
)

type confirmModal struct {
	kind        modalKind
	message     string
	confirmText string
	cancelText  string
	selected    int
}

type model struct {
	ctx             context.Context
	store           *todo.Store
	now             func() time.Time
	width           int
	height          int
	selectorIndex   int
	focus           focusPane
	list            list.Model
	detail          detailModel
	modal           confirmModal
	status          string
	statusLevel     statusLevel
	selectedID      int64
	pendingDeleteID int64
}

// Run starts the TUI over an already-wired store. The store should use
// AutoConfirm as its prompter; the initial load happens inside.
func Run(ctx context.Context, store *todo.Store) error {
	if store == nil {
		return fmt.Errorf("todo store is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	program := tea.NewProgram(newModel(ctx, store, time.Now), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func newModel(ctx context.Context, store *todo.Store, now func() time.Time) model {
	delegate := newItemDelegate(now)
	todoList := list.New(nil, delegate, 0, 0)
	todoList.Title = "Todos"
	todoList.SetShowStatusBar(false)
	todoList.SetFilteringEnabled(false)
	todoList.SetShowHelp(false)
	todoList.SetShowPagination(false)

	return model{
		ctx:    ctx,
		store:  store,
		now:    now,
		list:   todoList,
		detail: newDetailModel(now),
		modal:  confirmModal{kind: modalNone},
	}
}

func (m model) Init() tea.Cmd {
	return m.loadCmd()
}

func (m model) selector() todo.Selector {
	selectors := todo.ValidSelectors()
	if m.selectorIndex < 0 || m.selectorIndex >= len(selectors) {
		return todo.SelectorAll
	}
	return selectors[m.selectorIndex]
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.modal.kind != modalNone {
		return m.updateModal(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
	case tea.KeyMsg:
		updated, cmd, handled := m.handleKey(msg)
		if handled {
			return updated, cmd
		}
		m = updated
	case todosLoadedMsg:
		m.handleTodosLoaded(msg)
		return m, nil
	case todoSavedMsg:
		return m.handleTodoSaved(msg)
	case todoMutatedMsg:
		return m.handleTodoMutated(msg)
	case completedClearedMsg:
		return m.handleCompletedCleared(msg)
	}

	var cmd tea.Cmd
	if m.focus == focusList {
		m.list, cmd = m.list.Update(msg)
		m.updateSelection()
		return m, cmd
	}

	updated, detailCmd, saveRequested := m.detail.Update(msg)
	m.detail = updated
	if saveRequested {
		return m, tea.Batch(detailCmd, m.saveCmd())
	}
	return m, detailCmd
}

func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading todos..."
	}
	helpLine := m.renderHelpLine()
	statusLine := m.renderStatusLine()
	contentHeight := m.height - 3
	if contentHeight < 1 {
		contentHeight = 1
	}
	leftWidth, rightWidth := splitWidths(m.width)

	listPane := m.renderPane(m.list.View(), leftWidth, contentHeight, m.focus == focusList)
	detailPane := m.renderPane(m.detail.View(), rightWidth, contentHeight, m.focus == focusDetail)
	content := lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)

	view := strings.Join([]string{m.renderTabs(), helpLine, content, statusLine}, "\n")
	if m.modal.kind != modalNone {
		view = m.renderModalOverlay(view)
	}
	return view
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd, bool) {
	key := msg.String()
	if key == "?" && m.focus == focusList {
		return m.openHelp(), nil, true
	}

	if m.focus == focusDetail {
		switch key {
		case "esc":
			return m.exitDetail(), nil, true
		case "ctrl+c":
			return m, tea.Quit, true
		}
		return m, nil, false
	}

	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit, true
	case "1", "2", "3", "4", "5":
		return m.activateSelector(int(key[0] - '1')), nil, true
	case "[":
		return m.switchSelector(-1), nil, true
	case "]", "tab":
		return m.switchSelector(1), nil, true
	case "up", "k":
		return m.moveSelection(-1), nil, true
	case "down", "j":
		return m.moveSelection(1), nil, true
	case "home":
		return m.moveSelection(-len(m.list.Items())), nil, true
	case "end":
		return m.moveSelection(len(m.list.Items())), nil, true
	case "enter", "e":
		return m.enterDetail(), nil, true
	case "c":
		return m.startDraft(), nil, true
	case " ":
		updated, cmd := m.toggleSelected()
		return updated, cmd, true
	case "d":
		return m.promptDelete(), nil, true
	case "x":
		return m.promptClearCompleted(), nil, true
	case "K":
		updated, cmd := m.moveSelected(-1)
		return updated, cmd, true
	case "J":
		updated, cmd := m.moveSelected(1)
		return updated, cmd, true
	case "r":
		m.setStatus("Reloading...", statusInfo)
		return m, m.loadCmd(), true
	}

	return m, nil, false
}

func (m model) switchSelector(delta int) model {
	count := len(todo.ValidSelectors())
	next := (m.selectorIndex + delta + count) % count
	return m.activateSelector(next)
}

func (m model) activateSelector(index int) model {
	if index < 0 || index >= len(todo.ValidSelectors()) {
		return m
	}
	if m.focus == focusDetail {
		m = m.setFocus(focusList)
	}
	m.selectorIndex = index
	m.refreshItems()
	return m
}

func (m model) enterDetail() model {
	if m.focus == focusDetail {
		return m
	}
	if _, ok := m.currentItem(); !ok {
		return m
	}
	return m.setFocus(focusDetail)
}

func (m model) exitDetail() model {
	if m.focus != focusDetail {
		return m
	}
	if m.detail.IsDirty() {
		m.modal = confirmModal{
			kind:        modalDiscardEdits,
			message:     "Discard unsaved changes?",
			confirmText: "Discard",
			cancelText:  "Keep editing",
			selected:    1,
		}
		return m
	}
	return m.setFocus(focusList)
}

func (m model) setFocus(target focusPane) model {
	if m.focus == target {
		return m
	}
	m.focus = target
	if target == focusDetail {
		m.detail.Focus()
	} else {
		m.detail.Blur()
	}
	return m
}

func (m model) startDraft() model {
	for i, item := range m.list.Items() {
		if current, ok := item.(listItem); ok && current.isDraft {
			m.list.Select(i)
			m.detail.SetTodo(current.todo, true)
			return m.setFocus(focusDetail)
		}
	}

	draft := todo.Todo{Priority: todo.PriorityMedium}
	items := append([]list.Item{listItem{todo: draft, isDraft: true}}, m.list.Items()...)
	m.list.SetItems(items)
	m.list.Select(0)
	m.selectedID = 0
	m.detail.SetTodo(draft, true)
	m.setStatus("Editing new todo", statusInfo)
	return m.setFocus(focusDetail)
}

func (m model) toggleSelected() (model, tea.Cmd) {
	item, ok := m.currentItem()
	if !ok || item.isDraft {
		return m, nil
	}
	return m, m.toggleCmd(item.todo.ID)
}

func (m model) promptDelete() model {
	item, ok := m.currentItem()
	if !ok || item.isDraft {
		return m
	}
	title := strings.TrimSpace(item.todo.Title)
	if title == "" {
		title = fmt.Sprintf("todo %d", item.todo.ID)
	}
	m.pendingDeleteID = item.todo.ID
	m.modal = confirmModal{
		kind:        modalDeleteTodo,
		message:     fmt.Sprintf("Delete %q?", title),
		confirmText: "Delete",
		cancelText:  "Cancel",
		selected:    1,
	}
	return m
}

func (m model) promptClearCompleted() model {
	completed := 0
	for _, item := range m.store.All() {
		if item.Completed {
			completed++
		}
	}
	if completed == 0 {
		m.setStatus("No completed todos to clear", statusInfo)
		return m
	}
	m.modal = confirmModal{
		kind:        modalClearCompleted,
		message:     fmt.Sprintf("Delete %d completed todo(s)?", completed),
		confirmText: "Delete",
		cancelText:  "Cancel",
		selected:    1,
	}
	return m
}

func (m model) moveSelected(delta int) (model, tea.Cmd) {
	item, ok := m.currentItem()
	if !ok || item.isDraft || m.detail.isDraft {
		return m, nil
	}
	source := m.list.Index()
	destination := source + delta
	if destination < 0 || destination >= len(m.list.Items()) {
		return m, nil
	}
	m.list.Select(destination)
	return m, m.moveCmd(source, destination)
}

func (m model) moveSelection(delta int) model {
	items := m.list.Items()
	if len(items) == 0 {
		return m
	}
	current := m.list.Index()
	if current < 0 {
		current = 0
	}
	next := current + delta
	if next < 0 {
		next = 0
	}
	if next >= len(items) {
		next = len(items) - 1
	}
	if next == current {
		return m
	}
	m.list.Select(next)
	m.updateSelection()
	return m
}

func (m *model) updateSelection() {
	item, ok := m.currentItem()
	selectedID := int64(0)
	if ok && !item.isDraft {
		selectedID = item.todo.ID
	}
	if selectedID == m.selectedID && ok {
		return
	}
	if ok {
		m.detail.SetTodo(item.todo, item.isDraft)
	} else {
		m.detail.SetTodo(todo.Todo{}, false)
	}
	m.selectedID = selectedID
}

func (m model) currentItem() (listItem, bool) {
	item := m.list.SelectedItem()
	if item == nil {
		return listItem{}, false
	}
	current, ok := item.(listItem)
	return current, ok
}

// refreshItems rebuilds the list from the store's view of the active
// selector, keeping the draft row and the selection where possible.
func (m *model) refreshItems() {
	view, err := m.store.View(m.selector(), m.now())
	if err != nil {
		m.setStatus(err.Error(), statusError)
		return
	}
	items := make([]list.Item, 0, len(view)+1)
	if m.detail.isDraft {
		items = append(items, listItem{todo: m.detail.todo, isDraft: true})
	}
	for _, item := range view {
		items = append(items, listItem{todo: item})
	}
	m.list.SetItems(items)
	if m.selectedID != 0 {
		m.selectByID(m.selectedID)
	}
	if len(m.list.Items()) > 0 && m.list.Index() < 0 {
		m.list.Select(0)
	}
	m.updateSelection()
}

func (m *model) selectByID(id int64) {
	if id == 0 {
		return
	}
	for i, item := range m.list.Items() {
		current, ok := item.(listItem)
		if ok && !current.isDraft && current.todo.ID == id {
			m.list.Select(i)
			return
		}
	}
}

func (m *model) handleTodosLoaded(msg todosLoadedMsg) {
	if msg.err != nil {
		m.setStatus(fmt.Sprintf("Load failed: %v", msg.err), statusError)
		return
	}
	m.refreshItems()
	m.setStatus(m.countSummary(), statusInfo)
}

func (m model) handleTodoSaved(msg todoSavedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setStatus(fmt.Sprintf("Save failed: %v", msg.err), statusError)
		return m, nil
	}
	wasDraft := m.detail.isDraft
	m.detail.SetTodo(msg.todo, false)
	m.selectedID = msg.todo.ID
	m = m.setFocus(focusList)
	m.refreshItems()
	if wasDraft {
		m.setStatus("Todo created", statusInfo)
	} else {
		m.setStatus("Todo saved", statusInfo)
	}
	return m, nil
}

func (m model) handleTodoMutated(msg todoMutatedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setStatus(fmt.Sprintf("%s failed: %v", msg.action, msg.err), statusError)
		m.refreshItems()
		return m, nil
	}
	m.refreshItems()
	m.setStatus(m.countSummary(), statusInfo)
	return m, nil
}

func (m model) handleCompletedCleared(msg completedClearedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setStatus(fmt.Sprintf("Clear failed: %v", msg.err), statusError)
		return m, nil
	}
	m.refreshItems()
	m.setStatus(fmt.Sprintf("Cleared %d completed todo(s)", msg.count), statusInfo)
	return m, nil
}

func (m model) countSummary() string {
	all := m.store.All()
	active := 0
	for _, item := range all {
		if !item.Completed {
			active++
		}
	}
	return fmt.Sprintf("%d todo(s), %d active", len(all), active)
}

func (m model) updateModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.modal.kind == modalHelp {
		switch key.String() {
		case "?", "esc":
			m.modal = confirmModal{kind: modalNone}
			return m, nil
		case "ctrl+c", "q":
			return m, tea.Quit
		}
		return m, nil
	}
	selection := m.modal.selected
	switch key.String() {
	case "left", "right", "tab", "shift+tab", "backtab":
		if selection == 0 {
			selection = 1
		} else {
			selection = 0
		}
		m.modal.selected = selection
		return m, nil
	case "enter":
		confirm := selection == 0
		return m.resolveModal(confirm)
	case "esc":
		return m.resolveModal(false)
	}
	return m, nil
}

func (m model) resolveModal(confirm bool) (tea.Model, tea.Cmd) {
	kind := m.modal.kind
	m.modal = confirmModal{kind: modalNone}
	if !confirm {
		m.pendingDeleteID = 0
		return m, nil
	}
	switch kind {
	case modalDeleteTodo:
		id := m.pendingDeleteID
		m.pendingDeleteID = 0
		return m, m.deleteCmd(id)
	case modalClearCompleted:
		return m, m.clearCompletedCmd()
	case modalDiscardEdits:
		m = m.discardEdits()
		return m, nil
	default:
		return m, nil
	}
}

func (m model) discardEdits() model {
	if m.detail.isDraft {
		m.detail.SetTodo(todo.Todo{}, false)
		m.selectedID = 0
	}
	m.detail.Blur()
	m.focus = focusList
	m.refreshItems()
	m.setStatus("Edits discarded", statusInfo)
	return m
}

func (m *model) resize() {
	contentHeight := m.height - 3
	if contentHeight < 1 {
		contentHeight = 1
	}
	leftWidth, rightWidth := splitWidths(m.width)
	listHeight := contentHeight - 2
	if listHeight < 1 {
		listHeight = 1
	}
	listWidth := leftWidth - 4
	if listWidth < 1 {
		listWidth = 1
	}
	innerDetailWidth := rightWidth - 4
	if innerDetailWidth < 1 {
		innerDetailWidth = 1
	}
	innerDetailHeight := contentHeight - 2
	if innerDetailHeight < 1 {
		innerDetailHeight = 1
	}
	m.list.SetSize(listWidth, listHeight)
	m.detail.SetSize(innerDetailWidth, innerDetailHeight)
}

func splitWidths(width int) (int, int) {
	left := width / 2
	if left < 30 {
		left = 30
	}
	if left > width-20 {
		left = width / 2
	}
	right := width - left
	if right < 20 {
		right = 20
		left = width - right
	}
	return left, right
}

func (m model) renderTabs() string {
	selectors := todo.ValidSelectors()
	parts := make([]string, 0, len(selectors))
	for i, selector := range selectors {
		style := tabInactiveStyle
		if i == m.selectorIndex {
			style = tabActiveStyle
		}
		parts = append(parts, style.Render(fmt.Sprintf("[%d] %s", i+1, selector)))
	}
	content := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	helpHint := valueMuted.Render("Press ? for help")
	spacerWidth := m.width - lipgloss.Width(content) - lipgloss.Width(helpHint)
	if spacerWidth < 1 {
		spacerWidth = 1
	}
	spacer := strings.Repeat(" ", spacerWidth)
	return tabBarStyle.Width(m.width).Render(content + spacer + helpHint)
}

func (m model) renderPane(content string, width, height int, focused bool) string {
	style := paneStyle
	if focused {
		style = paneActiveStyle
	}
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return style.Width(width).Height(height).Render(content)
}

func (m model) renderStatusLine() string {
	text := m.status
	if internalstrings.IsBlank(text) {
		return ""
	}
	style := valueMuted
	if m.statusLevel == statusError {
		style = statusErrorStyle
	} else if m.statusLevel == statusInfo {
		style = statusSuccessStyle
	}
	return style.Render(text)
}

func (m model) renderHelpLine() string {
	text := m.helpSummary()
	if internalstrings.IsBlank(text) {
		return ""
	}
	return helpBarStyle.Width(m.width).Render(truncateText(text, m.width))
}

func (m model) helpSummary() string {
	if m.focus == focusDetail {
		return "Keys: tab next field | shift+tab prev | ctrl+s save | esc back | ? help"
	}
	return "Keys: j/k move | space toggle | enter edit | c new | d delete | J/K reorder | ? help | q quit"
}

func (m *model) setStatus(text string, level statusLevel) {
	m.status = text
	m.statusLevel = level
}

func (m model) renderModalOverlay(content string) string {
	if m.modal.kind == modalNone {
		return content
	}
	modal := m.modalView()
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

func (m model) modalView() string {
	if m.modal.kind == modalHelp {
		modalStyle := lipgloss.NewStyle().Border(borderASCII).Padding(1, 2)
		return modalStyle.Render(m.helpContent())
	}
	options := []string{m.modal.confirmText, m.modal.cancelText}
	buttons := make([]string, 0, 2)
	for i, option := range options {
		style := valueMuted
		if i == m.modal.selected {
			style = selectedBorder
		}
		buttons = append(buttons, style.Render("["+option+"]"))
	}
	content := strings.Join([]string{m.modal.message, "", strings.Join(buttons, " ")}, "\n")
	modalStyle := lipgloss.NewStyle().Border(borderASCII).Padding(1, 2)
	return modalStyle.Render(content)
}

func (m model) openHelp() model {
	m.modal = confirmModal{kind: modalHelp}
	return m
}

func (m model) helpContent() string {
	sections := []string{
		labelStyle.Render("Global"),
		"q or ctrl+c: quit",
		"1-5 / [ or ] / tab: switch filter",
		"r: reload from server",
		"?: toggle help",
		"",
		labelStyle.Render("Navigation"),
		"up/down or j/k: move selection",
		"enter or e: edit selected todo",
		"esc: return to list",
		"",
		labelStyle.Render("Todo"),
		"c: create todo",
		"space: toggle completed",
		"d: delete todo",
		"x: clear completed todos",
		"J/K: move todo down/up",
		"ctrl+s: save edits",
		"",
		labelStyle.Render("Help"),
		"press ? or esc to close",
	}
	return strings.Join(sections, "\n")
}

func (m model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		return todosLoadedMsg{err: m.store.Load(m.ctx)}
	}
}

func (m model) saveCmd() tea.Cmd {
	if m.detail.isDraft {
		draft, err := m.detail.buildDraft()
		if err != nil {
			return func() tea.Msg { return todoSavedMsg{err: err} }
		}
		if draft.Title == "" {
			return func() tea.Msg { return todoSavedMsg{err: fmt.Errorf("title cannot be empty")} }
		}
		return func() tea.Msg {
			created, err := m.store.Add(m.ctx, draft)
			if err != nil {
				return todoSavedMsg{err: err}
			}
			return todoSavedMsg{todo: *created}
		}
	}

	id := m.detail.todo.ID
	opts, err := m.detail.buildEditOptions()
	if err != nil {
		return func() tea.Msg { return todoSavedMsg{err: err} }
	}
	return func() tea.Msg {
		updated, err := m.store.Edit(m.ctx, id, opts)
		if err != nil {
			return todoSavedMsg{err: err}
		}
		return todoSavedMsg{todo: *updated}
	}
}

func (m model) toggleCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		_, err := m.store.Toggle(m.ctx, id)
		return todoMutatedMsg{action: "Toggle", err: err}
	}
}

func (m model) deleteCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		return todoMutatedMsg{action: "Delete", err: m.store.Remove(m.ctx, id)}
	}
}

func (m model) clearCompletedCmd() tea.Cmd {
	return func() tea.Msg {
		count, err := m.store.ClearCompleted(m.ctx)
		return completedClearedMsg{count: count, err: err}
	}
}

func (m model) moveCmd(source, destination int) tea.Cmd {
	selector := m.selector()
	return func() tea.Msg {
		err := m.store.Move(m.ctx, selector, source, destination, m.now())
		return todoMutatedMsg{action: "Move", err: err}
	}
}

type todosLoadedMsg struct {
	err error
}

type todoSavedMsg struct {
	todo todo.Todo
	err  error
}

type todoMutatedMsg struct {
	action string
	err    error
}

type completedClearedMsg struct {
	count int
	err   error
}
