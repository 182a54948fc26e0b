package tui

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/hylla/dragboard/internal/app"
	"github.com/hylla/dragboard/internal/domain"
)

// palette groups the colors used by one render pass.
type palette struct {
	accent color.Color
	muted  color.Color
	dim    color.Color
	lifted color.Color
	target color.Color
}

// defaultPalette returns the board colors.
func defaultPalette() palette {
	return palette{
		accent: lipgloss.Color("62"),
		muted:  lipgloss.Color("241"),
		dim:    lipgloss.Color("239"),
		lifted: lipgloss.Color("212"),
		target: lipgloss.Color("214"),
	}
}

// View handles view.
func (m Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render draws the full screen as a string.
func (m Model) render() string {
	if !m.ready {
		return "loading..."
	}
	p := defaultPalette()
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	statusStyle := lipgloss.NewStyle().Foreground(p.dim)

	header := titleStyle.Render("dragboard") +
		statusStyle.Render("  ["+m.modeLabel()+"]") +
		statusStyle.Render(fmt.Sprintf("  %d columns • %d tasks", len(m.snap.Columns), len(m.snap.Tasks)))

	body := m.renderBoard(p)
	if overlay := m.renderModeOverlay(p, m.width-8); overlay != "" {
		body = lipgloss.Place(max(1, m.width), max(lipgloss.Height(body), lipgloss.Height(overlay)), lipgloss.Center, lipgloss.Center, overlay)
	}

	status := statusStyle.Render(m.status)
	if preview := m.dropPreview(); preview != "" {
		status += statusStyle.Render("  " + preview)
	}

	helpBubble := m.help
	helpBubble.SetWidth(max(0, m.width-2))
	helpText := helpBubble.View(m.keys)
	if m.drag.active() {
		helpText = helpBubble.View(dragKeyMap{keys: m.keys})
	}
	helpLine := lipgloss.NewStyle().
		Foreground(p.muted).
		BorderTop(true).
		BorderForeground(p.dim).
		Padding(0, 1).
		Render(helpText)

	return strings.Join([]string{header, "", body, status, helpLine}, "\n")
}

// renderBoard draws the columns left to right.
func (m Model) renderBoard(p palette) string {
	if len(m.snap.Columns) == 0 {
		return lipgloss.NewStyle().Foreground(p.muted).Render("No columns yet. Press A to add one.")
	}
	grouped := m.snap.ColumnTasks()
	views := make([]string, 0, len(m.snap.Columns))
	for idx, column := range m.snap.Columns {
		views = append(views, m.renderColumn(p, idx, column, grouped[column.ID]))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, views...)
}

// renderColumn draws one column and its tasks.
func (m Model) renderColumn(p palette, idx int, column domain.Column, tasks []domain.Task) string {
	border := p.dim
	switch {
	case m.drag.kind == dragColumn && m.isDropTarget(app.TargetColumn, column.ID):
		border = p.target
	case m.drag.kind == dragColumn && m.drag.sourceID == column.ID:
		border = p.lifted
	case m.drag.kind == dragTask && m.isDropTarget(app.TargetColumn, column.ID):
		border = p.target
	case !m.drag.active() && idx == m.selectedColumn:
		border = p.accent
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		MarginRight(1).
		Width(m.columnWidth)

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(p.accent)
	countStyle := lipgloss.NewStyle().Foreground(p.muted)
	lines := []string{
		titleStyle.Render(truncate(column.Title, m.columnWidth-6)) + countStyle.Render(fmt.Sprintf(" %d", len(tasks))),
	}
	if m.drag.kind == dragTask && m.isDropTarget(app.TargetColumn, column.ID) {
		lines = append(lines, lipgloss.NewStyle().Foreground(p.target).Render("▸ drop into column"))
	}
	if len(tasks) == 0 {
		lines = append(lines, countStyle.Render("(empty)"))
	}
	textWidth := max(1, m.columnWidth-4)
	for taskIdx, task := range tasks {
		lines = append(lines, m.renderTaskLine(p, idx, taskIdx, task, textWidth))
	}
	return style.Render(strings.Join(lines, "\n"))
}

// renderTaskLine draws one task row with lift, target, and selection markers.
func (m Model) renderTaskLine(p palette, columnIdx, taskIdx int, task domain.Task, width int) string {
	text := truncate(firstLine(task.Content), width)
	switch {
	case m.drag.kind == dragTask && m.drag.sourceID == task.ID:
		return lipgloss.NewStyle().Foreground(p.lifted).Bold(true).Render("⠿ " + text)
	case m.drag.kind == dragTask && m.isDropTarget(app.TargetTask, task.ID):
		return lipgloss.NewStyle().Foreground(p.target).Render("▸ " + text)
	case !m.drag.active() && columnIdx == m.selectedColumn && taskIdx == m.selectedTask:
		return lipgloss.NewStyle().Foreground(p.lifted).Bold(true).Render("› " + text)
	default:
		return "  " + text
	}
}

// dropPreview describes what enter would do during a drag.
func (m Model) dropPreview() string {
	mv, ok := m.pendingMove()
	if !ok {
		return ""
	}
	switch mv := mv.(type) {
	case app.ColumnMove:
		return "drop " + m.columnTitle(mv.ColumnID) + " at " + m.columnTitle(mv.OverColumnID)
	case app.TaskMove:
		source := mv.TaskID
		if task, ok := m.snap.Task(mv.TaskID); ok {
			source = truncate(firstLine(task.Content), 20)
		}
		if mv.Over.Kind == app.TargetColumn {
			return "drop " + source + " into " + m.columnTitle(mv.Over.ID)
		}
		over := mv.Over.ID
		if task, ok := m.snap.Task(mv.Over.ID); ok {
			over = truncate(firstLine(task.Content), 20)
		}
		return "drop " + source + " before " + over
	default:
		return ""
	}
}

// columnTitle returns the title for a column id, or the id itself.
func (m Model) columnTitle(columnID string) string {
	if column, ok := m.snap.Column(columnID); ok {
		return column.Title
	}
	return columnID
}

// renderModeOverlay renders output for the current model state.
func (m Model) renderModeOverlay(p palette, maxWidth int) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.accent).
		Padding(0, 1)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(p.accent)
	hintStyle := lipgloss.NewStyle().Foreground(p.muted)

	switch m.mode {
	case modeEditTask, modeRenameColumn:
		if maxWidth > 0 {
			boxStyle = boxStyle.Width(clamp(maxWidth, 32, 72))
		}
		title := "Edit Task"
		if m.mode == modeRenameColumn {
			title = "Rename Column"
		}
		return boxStyle.Render(strings.Join([]string{
			titleStyle.Render(title),
			m.input.View(),
			hintStyle.Render("enter save • esc cancel"),
		}, "\n"))

	case modeTaskInfo:
		task, ok := m.snap.Task(m.infoTaskID)
		if !ok {
			return ""
		}
		width := 72
		if maxWidth > 0 {
			width = clamp(maxWidth, 32, 76)
		}
		boxStyle = boxStyle.Width(width)
		content := strings.TrimSpace(task.Content)
		if m.renderMarkdown && m.md != nil {
			content = m.md.render(task.Content, width-4)
		}
		if content == "" {
			content = hintStyle.Render("(no content)")
		}
		return boxStyle.Render(strings.Join([]string{
			titleStyle.Render("Task Info"),
			hintStyle.Render("id: " + task.ID + " • column: " + m.columnTitle(task.ColumnID)),
			hintStyle.Render("updated: " + formatActivityTimestamp(task.UpdatedAt)),
			"",
			content,
			"",
			hintStyle.Render("y copy • esc close"),
		}, "\n"))

	case modeActivityLog:
		if maxWidth > 0 {
			boxStyle = boxStyle.Width(clamp(maxWidth, 44, 96))
		}
		lines := []string{titleStyle.Render("Activity Log")}
		if len(m.activityLog) == 0 {
			lines = append(lines, hintStyle.Render("(no activity yet)"))
		}
		for idx, entry := range m.activityLog {
			if idx >= activityLogViewWindow {
				break
			}
			line := fmt.Sprintf("%s  %s • %s", formatActivityTimestamp(entry.At), entry.Summary, truncate(entry.Target, 32))
			if entry.Detail != "" {
				line += hintStyle.Render("  " + entry.Detail)
			}
			lines = append(lines, line)
		}
		lines = append(lines, hintStyle.Render("esc close"))
		return boxStyle.Render(strings.Join(lines, "\n"))

	default:
		return ""
	}
}

// modeLabel names the current interaction mode for the header.
func (m Model) modeLabel() string {
	if m.drag.active() {
		if m.drag.kind == dragColumn {
			return "moving column"
		}
		return "moving task"
	}
	switch m.mode {
	case modeEditTask:
		return "edit task"
	case modeRenameColumn:
		return "rename column"
	case modeTaskInfo:
		return "task info"
	case modeActivityLog:
		return "activity"
	default:
		return "board"
	}
}

// formatActivityTimestamp formats activity timestamps for compact modal rendering.
func formatActivityTimestamp(at time.Time) string {
	if at.IsZero() {
		return "--:--:--"
	}
	local := at.Local()
	now := time.Now().In(local.Location())
	if local.Year() != now.Year() || local.YearDay() != now.YearDay() {
		return local.Format("01-02 15:04")
	}
	return local.Format("15:04:05")
}
