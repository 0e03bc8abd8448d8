package views

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/daysince/internal/display"
	"github.com/dori/daysince/internal/model"
)

// ListMode represents the current input mode of the list view
type ListMode int

const (
	ListModeNormal ListMode = iota
	ListModeConfirmDelete
)

// Tab selects which counters the list shows
type Tab int

const (
	TabCurrent Tab = iota
	TabPast
)

func (t Tab) String() string {
	if t == TabPast {
		return "Past"
	}
	return "Current"
}

// ListView shows the counters of one tab with their largest unit
type ListView struct {
	ctx    *Context
	width  int
	height int

	tab      Tab
	cursor   int
	offset   int
	mode     ListMode
	deleteID string
}

// NewListView creates a new list view
func NewListView(ctx *Context) ListView {
	return ListView{ctx: ctx}
}

// Init initializes the list view
func (v ListView) Init() tea.Cmd {
	return nil
}

// SetSize updates the view dimensions
func (v ListView) SetSize(width, height int) ListView {
	v.width = width
	v.height = height
	return v
}

// IsInputMode returns true while a delete confirmation is pending
func (v ListView) IsInputMode() bool {
	return v.mode == ListModeConfirmDelete
}

// Tab returns the active tab
func (v ListView) Tab() Tab {
	return v.tab
}

// counters returns the counters of the active tab
func (v ListView) counters() []model.Counter {
	return v.ctx.Store.Displayed(v.tab == TabPast)
}

// Selected returns the counter under the cursor
func (v ListView) Selected() (model.Counter, bool) {
	counters := v.counters()
	if v.cursor < 0 || v.cursor >= len(counters) {
		return model.Counter{}, false
	}
	return counters[v.cursor], true
}

// Focus moves the cursor to id, switching tabs if needed
func (v ListView) Focus(id string) ListView {
	for _, tab := range []Tab{TabCurrent, TabPast} {
		v.tab = tab
		for i, c := range v.counters() {
			if c.ID == id {
				v.cursor = i
				v.ensureCursorVisible()
				return v
			}
		}
	}
	v.tab = TabCurrent
	v.clampCursor()
	return v
}

// visibleCount returns how many rows fit in the viewport
func (v ListView) visibleCount() int {
	// Tabs line, blank line, and a confirmation line
	available := v.height - 4
	if available < 1 {
		available = 1
	}
	return available
}

func (v *ListView) ensureCursorVisible() {
	visible := v.visibleCount()
	if v.cursor < v.offset {
		v.offset = v.cursor
	}
	if v.cursor >= v.offset+visible {
		v.offset = v.cursor - visible + 1
	}
}

// clampCursor keeps the cursor inside the list after it shrinks
func (v *ListView) clampCursor() {
	n := len(v.counters())
	if v.cursor >= n {
		v.cursor = n - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
	if v.offset > v.cursor {
		v.offset = v.cursor
	}
}

// Update handles messages
func (v ListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		v.clampCursor()
		return v, nil
	}
	if v.mode == ListModeConfirmDelete {
		return v.handleDeleteConfirm(keyMsg)
	}
	return v.handleNormalMode(keyMsg)
}

// handleNormalMode handles keypresses in normal mode
func (v ListView) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(v.counters())

	switch msg.String() {
	case "j", "down":
		if v.cursor < n-1 {
			v.cursor++
		}
	case "k", "up":
		if v.cursor > 0 {
			v.cursor--
		}
	case "g", "home":
		v.cursor = 0
	case "G", "end":
		v.cursor = n - 1
	case "tab", "h", "l", "left", "right":
		if v.tab == TabCurrent {
			v.tab = TabPast
		} else {
			v.tab = TabCurrent
		}
		v.cursor, v.offset = 0, 0
		return v, nil

	case "a":
		return v, request(OpenFormMsg{})

	case "enter":
		if c, ok := v.Selected(); ok {
			return v, request(OpenDetailMsg{ID: c.ID})
		}

	case "e":
		c, ok := v.Selected()
		if !ok {
			return v, nil
		}
		if !c.IsEditable() {
			return v, status("Only running count-up counters can be edited")
		}
		return v, request(OpenFormMsg{ID: c.ID})

	case "x", " ":
		c, ok := v.Selected()
		if !ok {
			return v, nil
		}
		if !v.ctx.Store.ToggleArchive(c.ID) {
			return v, status("Completed counters stay in Past")
		}
		v.clampCursor()
		if c.IsArchived {
			return v, status("Restored: %s", c.Name)
		}
		return v, status("Archived: %s", c.Name)

	case "c":
		c, ok := v.Selected()
		if !ok {
			return v, nil
		}
		if !v.ctx.Store.MarkCompleted(c.ID) {
			return v, status("Already completed")
		}
		v.clampCursor()
		return v, status("Completed: %s", c.Name)

	case "d":
		if c, ok := v.Selected(); ok {
			v.mode = ListModeConfirmDelete
			v.deleteID = c.ID
		}
		return v, nil
	}

	v.clampCursor()
	v.ensureCursorVisible()
	return v, nil
}

// handleDeleteConfirm handles keypresses in delete confirmation
func (v ListView) handleDeleteConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.mode = ListModeNormal
		c, _ := v.ctx.Store.Get(v.deleteID)
		v.ctx.Store.Remove(v.deleteID)
		v.deleteID = ""
		v.clampCursor()
		return v, status("Deleted: %s", c.Name)
	case "n", "N", "esc":
		v.mode = ListModeNormal
		v.deleteID = ""
	}
	return v, nil
}

// View renders the list
func (v ListView) View() string {
	styles := v.ctx.Palette.Styles
	t := v.ctx.Palette.Theme
	now := v.ctx.Now()

	var b strings.Builder

	// Tabs
	var tabs []string
	for _, tab := range []Tab{TabCurrent, TabPast} {
		label := fmt.Sprintf("%s (%d)", tab, len(v.ctx.Store.Displayed(tab == TabPast)))
		if tab == v.tab {
			tabs = append(tabs, styles.TabActive.Render(label))
		} else {
			tabs = append(tabs, styles.Tab.Render(label))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	if v.mode == ListModeConfirmDelete {
		c, _ := v.ctx.Store.Get(v.deleteID)
		confirmStyle := lipgloss.NewStyle().
			Foreground(t.Warning).
			Bold(true)
		b.WriteString(confirmStyle.Render(fmt.Sprintf("Delete %q? (y/n)", c.Name)))
		b.WriteString("\n\n")
	}

	counters := v.counters()
	if len(counters) == 0 {
		empty := "No counters yet. Press a to add one."
		if v.tab == TabPast {
			empty = "Nothing archived."
		}
		b.WriteString(styles.Placeholder.Render(empty))
		return b.String()
	}

	end := v.offset + v.visibleCount()
	if end > len(counters) {
		end = len(counters)
	}
	for i := v.offset; i < end; i++ {
		b.WriteString(v.renderRow(counters[i], i == v.cursor, now))
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	if hidden := len(counters) - end; hidden > 0 {
		b.WriteString("\n")
		b.WriteString(styles.Label.Render(fmt.Sprintf("  ... +%d more", hidden)))
	}

	return b.String()
}

// renderRow renders one counter line
func (v ListView) renderRow(c model.Counter, selected bool, now time.Time) string {
	styles := v.ctx.Palette.Styles
	t := v.ctx.Palette.Theme

	compact := display.Largest(display.Compute(c, now), c.Type)

	cursor := "  "
	if selected {
		cursor = "> "
	}

	marker := lipgloss.NewStyle().
		Foreground(t.TypeColor(c.IsCountdown())).
		Render(typeMarker(c))

	value := styles.Value.Render(fmt.Sprintf("%d", compact.Value))
	unit := styles.Unit.Render(" " + compact.Label)

	name := c.Name
	if limit := v.width - 32; limit > 8 {
		name = truncate(name, limit)
	}

	var badges string
	if c.Completed {
		badges += styles.Badge.Background(t.Completed).Render("done")
	}
	if c.HasNotification && !c.Completed {
		badges += styles.Badge.Background(t.Info).Render("alert")
	}

	row := cursor + marker + " " + value + unit + " " + name + badges

	switch {
	case selected:
		return styles.RowSelected.Render(row)
	case c.Completed:
		return styles.RowCompleted.Render(row)
	case c.IsArchived:
		return styles.RowArchived.Render(row)
	default:
		return styles.Row.Render(row)
	}
}

func typeMarker(c model.Counter) string {
	if c.IsCountdown() {
		return "▼"
	}
	return "▲"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
