package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/daysince/internal/display"
	"github.com/dori/daysince/internal/model"
	"github.com/dori/daysince/internal/when"
)

// DetailView shows one counter's live days/hours/minutes/seconds
type DetailView struct {
	ctx    *Context
	width  int
	height int

	id            string
	confirmDelete bool
}

// NewDetailView creates a new detail view
func NewDetailView(ctx *Context) DetailView {
	return DetailView{ctx: ctx}
}

// SetCounter selects the counter to show
func (v DetailView) SetCounter(id string) DetailView {
	v.id = id
	v.confirmDelete = false
	return v
}

// CounterID returns the shown counter's id
func (v DetailView) CounterID() string {
	return v.id
}

// Init initializes the detail view
func (v DetailView) Init() tea.Cmd {
	return nil
}

// SetSize sets the view dimensions
func (v DetailView) SetSize(width, height int) DetailView {
	v.width = width
	v.height = height
	return v
}

// IsInputMode returns whether the view is in input mode
func (v DetailView) IsInputMode() bool {
	return v.confirmDelete
}

// Update handles messages
func (v DetailView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	c, found := v.ctx.Store.Get(v.id)
	if !found {
		return v, request(BackMsg{})
	}

	if v.confirmDelete {
		switch keyMsg.String() {
		case "y", "Y":
			v.confirmDelete = false
			v.ctx.Store.Remove(c.ID)
			return v, tea.Batch(request(BackMsg{}), status("Deleted: %s", c.Name))
		case "n", "N", "esc":
			v.confirmDelete = false
		}
		return v, nil
	}

	switch keyMsg.String() {
	case "esc", "backspace":
		return v, request(BackMsg{})

	case "e":
		if !c.IsEditable() {
			return v, status("Only running count-up counters can be edited")
		}
		return v, request(OpenFormMsg{ID: c.ID})

	case "x", " ":
		if !v.ctx.Store.ToggleArchive(c.ID) {
			return v, status("Completed counters stay in Past")
		}
		if c.IsArchived {
			return v, status("Restored: %s", c.Name)
		}
		return v, status("Archived: %s", c.Name)

	case "c":
		if v.ctx.Store.MarkCompleted(c.ID) {
			return v, status("Completed: %s", c.Name)
		}

	case "d":
		v.confirmDelete = true
	}
	return v, nil
}

// View renders the detail view
func (v DetailView) View() string {
	c, ok := v.ctx.Store.Get(v.id)
	if !ok {
		return v.ctx.Palette.Styles.Placeholder.Render("Counter no longer exists.")
	}

	styles := v.ctx.Palette.Styles
	t := v.ctx.Palette.Theme
	now := v.ctx.Now()
	b := display.Compute(c, now)

	accent := t.TypeColor(c.IsCountdown())
	if c.Completed {
		accent = t.Completed
	}

	var sections []string

	sections = append(sections, styles.Title.Render(c.Name))

	state := strings.ToUpper(string(c.Type))
	switch {
	case c.Completed:
		state += " · COMPLETED"
	case c.IsArchived:
		state += " · ARCHIVED"
	}
	sections = append(sections, lipgloss.NewStyle().Bold(true).Foreground(accent).Render(state))

	clock := styles.Clock.BorderForeground(accent).Render(display.Clock(b))
	sections = append(sections, clock)
	sections = append(sections, v.renderUnits(b))

	compact := display.Largest(b, c.Type)
	sections = append(sections, styles.Subtitle.Render(fmt.Sprintf("%d %s", compact.Value, compact.Label)))

	sections = append(sections, "")
	sections = append(sections, v.renderMeta(c))

	if v.confirmDelete {
		confirmStyle := lipgloss.NewStyle().
			Foreground(t.Warning).
			Bold(true).
			MarginTop(1)
		sections = append(sections, confirmStyle.Render(fmt.Sprintf("Delete %q? (y/n)", c.Name)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderUnits renders the labelled breakdown under the clock
func (v DetailView) renderUnits(b display.Breakdown) string {
	styles := v.ctx.Palette.Styles
	cell := lipgloss.NewStyle().Width(8).Align(lipgloss.Center)

	var cells []string
	for _, u := range []struct {
		label string
		value int64
	}{
		{"days", b.Days},
		{"hours", b.Hours},
		{"min", b.Minutes},
		{"sec", b.Seconds},
	} {
		cells = append(cells, cell.Render(
			fmt.Sprintf("%d\n%s", u.value, styles.Label.Render(u.label))))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

// renderMeta renders the reference instant and alert state
func (v DetailView) renderMeta(c model.Counter) string {
	styles := v.ctx.Palette.Styles
	now := v.ctx.Now()

	label := "Since"
	if c.IsCountdown() {
		label = "Until"
	}

	lines := []string{
		styles.Label.Render(label+": ") + when.Format(c.Reference(), now),
	}
	if c.IsCountdown() && !c.Completed {
		alert := "none"
		if c.HasNotification {
			alert = "scheduled"
		}
		lines = append(lines, styles.Label.Render("Alert: ")+alert)
	}
	lines = append(lines, styles.Label.Render("ID: ")+c.ID)
	return strings.Join(lines, "\n")
}
