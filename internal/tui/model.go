package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/atotto/clipboard"
	"github.com/hylla/dragboard/internal/app"
	"github.com/hylla/dragboard/internal/domain"
)

// Board is the command surface the model drives.
type Board interface {
	Snapshot() app.Snapshot
	Apply(app.Move) bool
	AddColumn() (domain.Column, bool)
	DeleteColumn(string) bool
	RenameColumn(string, string) bool
	AddTask(string) (domain.Task, bool)
	DeleteTask(string) bool
	EditTaskContent(string, string) bool
}

// ActivityReader lists recent change events, newest first.
type ActivityReader interface {
	ListChangeEvents(context.Context, int) ([]domain.ChangeEvent, error)
}

// inputMode represents a selectable mode.
type inputMode int

// modeNone and related constants define package defaults.
const (
	modeNone inputMode = iota
	modeEditTask
	modeRenameColumn
	modeTaskInfo
	modeActivityLog
)

// model defaults and input limits.
const (
	defaultColumnWidth    = 28
	defaultActivityLimit  = 50
	activityLogViewWindow = 14
	contentCharLimit      = 2000
	titleCharLimit        = 120
)

// activityEntry is one rendered activity-log row.
type activityEntry struct {
	At      time.Time
	Summary string
	Target  string
	Detail  string
}

// Model is the bubbletea model for one board.
type Model struct {
	board Board

	ready  bool
	width  int
	height int

	status string

	help help.Model
	keys keyMap

	snap           app.Snapshot
	selectedColumn int
	selectedTask   int

	mode       inputMode
	input      textinput.Model
	editingID  string
	infoTaskID string

	drag dragState

	columnWidth    int
	renderMarkdown bool
	md             *markdownRenderer

	activity      ActivityReader
	activityLimit int
	activityLog   []activityEntry

	copyText func(string) error
}

// activityLoadedMsg carries ledger entries for the activity overlay.
type activityLoadedMsg struct {
	entries []activityEntry
	err     error
}

// copiedMsg reports the result of one clipboard write.
type copiedMsg struct {
	taskID string
	err    error
}

// NewModel constructs a model over the board.
func NewModel(board Board, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	m := Model{
		board:          board,
		status:         "ready",
		help:           h,
		keys:           newKeyMap(),
		input:          newModalInput("", "", "", titleCharLimit),
		columnWidth:    defaultColumnWidth,
		renderMarkdown: true,
		md:             &markdownRenderer{},
		activityLimit:  defaultActivityLimit,
		activityLog:    []activityEntry{},
		copyText:       clipboard.WriteAll,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	m.refresh()
	return m
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case activityLoadedMsg:
		if msg.err != nil {
			if m.mode == modeActivityLog {
				m.status = "activity log unavailable: " + msg.err.Error()
			}
			return m, nil
		}
		m.activityLog = append([]activityEntry(nil), msg.entries...)
		if m.mode == modeActivityLog {
			m.status = "activity log"
		}
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.status = "copy failed: " + msg.err.Error()
			return m, nil
		}
		m.status = "copied " + msg.taskID
		return m, nil

	case tea.KeyPressMsg:
		switch {
		case m.mode == modeEditTask || m.mode == modeRenameColumn:
			return m.handleInputModeKey(msg)
		case m.mode == modeTaskInfo || m.mode == modeActivityLog:
			return m.handleOverlayKey(msg)
		case m.drag.active():
			return m.handleDragKey(msg)
		}
		return m.handleNormalModeKey(msg)

	default:
		if m.mode == modeEditTask || m.mode == modeRenameColumn {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}
}

// handleNormalModeKey handles board navigation and commands.
func (m Model) handleNormalModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		if m.help.ShowAll {
			m.status = "help"
		} else {
			m.status = "ready"
		}
		return m, nil
	case key.Matches(msg, m.keys.cancel):
		if m.help.ShowAll {
			m.help.ShowAll = false
			m.status = "ready"
		}
		return m, nil
	case key.Matches(msg, m.keys.moveLeft):
		if m.selectedColumn > 0 {
			m.selectedColumn--
			m.selectedTask = 0
		}
		return m, nil
	case key.Matches(msg, m.keys.moveRight):
		if m.selectedColumn < len(m.snap.Columns)-1 {
			m.selectedColumn++
			m.selectedTask = 0
		}
		return m, nil
	case key.Matches(msg, m.keys.moveDown):
		tasks := m.currentColumnTasks()
		if len(tasks) > 0 && m.selectedTask < len(tasks)-1 {
			m.selectedTask++
		}
		return m, nil
	case key.Matches(msg, m.keys.moveUp):
		if m.selectedTask > 0 {
			m.selectedTask--
		}
		return m, nil
	case key.Matches(msg, m.keys.addColumn):
		column, ok := m.board.AddColumn()
		m.refresh()
		if !ok {
			m.status = "column not added"
			return m, nil
		}
		m.focusColumn(column.ID)
		m.status = "added " + column.Title
		return m, nil
	case key.Matches(msg, m.keys.addTask):
		column, ok := m.currentColumn()
		if !ok {
			m.status = "add a column first"
			return m, nil
		}
		task, ok := m.board.AddTask(column.ID)
		m.refresh()
		if !ok {
			m.status = "task not added"
			return m, nil
		}
		m.focusTask(task.ID)
		m.status = "added " + task.Content
		return m, nil
	case key.Matches(msg, m.keys.editTask):
		task, ok := m.selectedTaskInCurrentColumn()
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		return m, m.startInput(modeEditTask, task.ID, "content: ", "task content", task.Content, contentCharLimit)
	case key.Matches(msg, m.keys.renameColumn):
		column, ok := m.currentColumn()
		if !ok {
			m.status = "no column selected"
			return m, nil
		}
		return m, m.startInput(modeRenameColumn, column.ID, "title: ", "column title", column.Title, titleCharLimit)
	case key.Matches(msg, m.keys.deleteTask):
		task, ok := m.selectedTaskInCurrentColumn()
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		if m.board.DeleteTask(task.ID) {
			m.status = "deleted " + truncate(firstLine(task.Content), 28)
		}
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.deleteColumn):
		column, ok := m.currentColumn()
		if !ok {
			m.status = "no column selected"
			return m, nil
		}
		owned := len(m.currentColumnTasks())
		if m.board.DeleteColumn(column.ID) {
			m.status = fmt.Sprintf("deleted %s (%d tasks)", column.Title, owned)
		}
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.taskInfo):
		task, ok := m.selectedTaskInCurrentColumn()
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		m.mode = modeTaskInfo
		m.infoTaskID = task.ID
		m.status = "task info"
		return m, nil
	case key.Matches(msg, m.keys.copyTask):
		task, ok := m.selectedTaskInCurrentColumn()
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		return m, m.copyTaskCmd(task)
	case key.Matches(msg, m.keys.activityLog):
		return m, m.openActivityLog()
	case key.Matches(msg, m.keys.liftTask):
		task, ok := m.selectedTaskInCurrentColumn()
		if !ok {
			m.status = "no task to lift"
			return m, nil
		}
		m.help.ShowAll = false
		m.liftTask(task)
		m.status = "lifted " + truncate(firstLine(task.Content), 28)
		return m, nil
	case key.Matches(msg, m.keys.liftColumn):
		column, ok := m.currentColumn()
		if !ok {
			m.status = "no column to lift"
			return m, nil
		}
		m.help.ShowAll = false
		m.liftColumn(column)
		m.status = "lifted " + column.Title
		return m, nil
	default:
		return m, nil
	}
}

// handleDragKey moves the drop target, drops, or cancels.
func (m Model) handleDragKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.cancel):
		m.drag = dragState{}
		m.status = "drag canceled"
		return m, nil
	case key.Matches(msg, m.keys.drop):
		return m.dropLifted()
	case key.Matches(msg, m.keys.moveLeft):
		m.moveDragTarget(-1, 0)
		return m, nil
	case key.Matches(msg, m.keys.moveRight):
		m.moveDragTarget(1, 0)
		return m, nil
	case key.Matches(msg, m.keys.moveUp):
		m.moveDragTarget(0, -1)
		return m, nil
	case key.Matches(msg, m.keys.moveDown):
		m.moveDragTarget(0, 1)
		return m, nil
	default:
		m.status = "enter drops • esc cancels"
		return m, nil
	}
}

// dropLifted applies the pending move and follows the dropped item.
func (m Model) dropLifted() (tea.Model, tea.Cmd) {
	drag := m.drag
	mv, ok := m.pendingMove()
	m.drag = dragState{}
	if !ok {
		m.status = "nothing to drop"
		return m, nil
	}
	changed := m.board.Apply(mv)
	m.refresh()
	switch drag.kind {
	case dragColumn:
		m.focusColumn(drag.sourceID)
	case dragTask:
		m.focusTask(drag.sourceID)
	}
	if changed {
		m.status = "moved"
	} else {
		m.status = "no change"
	}
	return m, nil
}

// handleInputModeKey handles the text-input modals.
func (m Model) handleInputModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeInput()
		m.status = "cancelled"
		return m, nil
	case "enter":
		return m.submitInputMode()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submitInputMode applies the edited value.
func (m Model) submitInputMode() (tea.Model, tea.Cmd) {
	value := m.input.Value()
	id := m.editingID
	mode := m.mode
	m.closeInput()
	switch mode {
	case modeEditTask:
		if m.board.EditTaskContent(id, value) {
			m.status = "task updated"
		} else {
			m.status = "no change"
		}
		m.refresh()
		m.focusTask(id)
	case modeRenameColumn:
		if m.board.RenameColumn(id, value) {
			m.status = "column renamed"
		} else {
			m.status = "no change"
		}
		m.refresh()
		m.focusColumn(id)
	}
	return m, nil
}

// handleOverlayKey handles the read-only overlays.
func (m Model) handleOverlayKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.cancel),
		m.mode == modeTaskInfo && key.Matches(msg, m.keys.taskInfo),
		m.mode == modeActivityLog && key.Matches(msg, m.keys.activityLog):
		m.mode = modeNone
		m.infoTaskID = ""
		m.status = "ready"
		return m, nil
	case m.mode == modeTaskInfo && key.Matches(msg, m.keys.copyTask):
		task, ok := m.snap.Task(m.infoTaskID)
		if !ok {
			return m, nil
		}
		return m, m.copyTaskCmd(task)
	default:
		return m, nil
	}
}

// newModalInput constructs modal input.
func newModalInput(prompt, placeholder, value string, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.Placeholder = placeholder
	in.CharLimit = limit
	if value != "" {
		in.SetValue(value)
	}
	return in
}

// startInput opens one text-input modal.
func (m *Model) startInput(mode inputMode, id, prompt, placeholder, value string, limit int) tea.Cmd {
	m.help.ShowAll = false
	m.mode = mode
	m.editingID = id
	m.input = newModalInput(prompt, placeholder, value, limit)
	m.input.CursorEnd()
	if mode == modeEditTask {
		m.status = "edit task"
	} else {
		m.status = "rename column"
	}
	return m.input.Focus()
}

// closeInput leaves the current text-input modal.
func (m *Model) closeInput() {
	m.input.Blur()
	m.mode = modeNone
	m.editingID = ""
}

// openActivityLog enters activity-log mode and loads recent events.
func (m *Model) openActivityLog() tea.Cmd {
	if m.activity == nil {
		m.status = "activity log disabled"
		return nil
	}
	m.help.ShowAll = false
	m.mode = modeActivityLog
	m.status = "loading activity..."
	return m.loadActivityLog
}

// loadActivityLog reads the newest ledger events.
func (m Model) loadActivityLog() tea.Msg {
	events, err := m.activity.ListChangeEvents(context.Background(), m.activityLimit)
	if err != nil {
		return activityLoadedMsg{err: err}
	}
	return activityLoadedMsg{entries: mapChangeEventsToActivityEntries(events)}
}

// copyTaskCmd writes task content to the clipboard off the update loop.
func (m Model) copyTaskCmd(task domain.Task) tea.Cmd {
	write := m.copyText
	id, content := task.ID, task.Content
	return func() tea.Msg {
		return copiedMsg{taskID: id, err: write(content)}
	}
}

// refresh reloads the snapshot and clamps the selection into range.
func (m *Model) refresh() {
	if m.board == nil {
		m.snap = app.Snapshot{}
		return
	}
	m.snap = m.board.Snapshot()
	m.clampSelections()
}

// clampSelections keeps selection indexes within the snapshot.
func (m *Model) clampSelections() {
	if len(m.snap.Columns) == 0 {
		m.selectedColumn = 0
		m.selectedTask = 0
		return
	}
	m.selectedColumn = clamp(m.selectedColumn, 0, len(m.snap.Columns)-1)
	tasks := m.currentColumnTasks()
	if len(tasks) == 0 {
		m.selectedTask = 0
		return
	}
	m.selectedTask = clamp(m.selectedTask, 0, len(tasks)-1)
}

// focusColumn selects the column with the given id.
func (m *Model) focusColumn(columnID string) {
	for idx, column := range m.snap.Columns {
		if column.ID == columnID {
			m.selectedColumn = idx
			m.selectedTask = 0
			return
		}
	}
}

// focusTask selects the task with the given id in its column.
func (m *Model) focusTask(taskID string) {
	task, ok := m.snap.Task(taskID)
	if !ok {
		return
	}
	m.focusColumn(task.ColumnID)
	for idx, candidate := range m.currentColumnTasks() {
		if candidate.ID == taskID {
			m.selectedTask = idx
			return
		}
	}
}

// currentColumn returns the selected column.
func (m Model) currentColumn() (domain.Column, bool) {
	if len(m.snap.Columns) == 0 {
		return domain.Column{}, false
	}
	return m.snap.Columns[clamp(m.selectedColumn, 0, len(m.snap.Columns)-1)], true
}

// currentColumnTasks returns the selected column's tasks in display order.
func (m Model) currentColumnTasks() []domain.Task {
	column, ok := m.currentColumn()
	if !ok {
		return nil
	}
	return m.snap.TasksForColumn(column.ID)
}

// selectedTaskInCurrentColumn returns the selected task.
func (m Model) selectedTaskInCurrentColumn() (domain.Task, bool) {
	tasks := m.currentColumnTasks()
	if len(tasks) == 0 {
		return domain.Task{}, false
	}
	return tasks[clamp(m.selectedTask, 0, len(tasks)-1)], true
}

// mapChangeEventsToActivityEntries converts newest-first events into overlay rows.
func mapChangeEventsToActivityEntries(events []domain.ChangeEvent) []activityEntry {
	entries := make([]activityEntry, 0, len(events))
	for _, event := range events {
		entries = append(entries, mapChangeEventToActivityEntry(event))
	}
	return entries
}

// mapChangeEventToActivityEntry derives a compact activity row from one event.
func mapChangeEventToActivityEntry(event domain.ChangeEvent) activityEntry {
	summary := string(event.Operation) + " " + string(event.EntityType)
	target := strings.TrimSpace(event.Metadata["title"])
	if target == "" {
		target = strings.TrimSpace(firstLine(event.Metadata["content"]))
	}
	if target == "" {
		target = strings.TrimSpace(event.EntityID)
	}
	if target == "" {
		target = "-"
	}
	detail := ""
	switch event.Operation {
	case domain.ChangeOperationMove:
		if from, to := event.Metadata["from_column_id"], event.Metadata["to_column_id"]; from != "" && to != "" && from != to {
			detail = from + " → " + to
		} else if from, to := event.Metadata["from"], event.Metadata["to"]; from != "" && to != "" {
			detail = "#" + from + " → #" + to
		}
	case domain.ChangeOperationDelete:
		if n := event.Metadata["cascaded_tasks"]; n != "" && n != "0" {
			detail = "+" + n + " tasks"
		}
	case domain.ChangeOperationUpdate:
		if prev := event.Metadata["previous_title"]; prev != "" {
			detail = "was " + prev
		}
	}
	return activityEntry{
		At:      event.OccurredAt.UTC(),
		Summary: summary,
		Target:  target,
		Detail:  detail,
	}
}

// firstLine returns the first line of s.
func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

// clamp clamps the requested operation.
func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// truncate truncates the requested operation.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	if max <= 1 {
		return string(rs[:max])
	}
	return string(rs[:max-1]) + "…"
}
