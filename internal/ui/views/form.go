package views

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/daysince/internal/model"
	"github.com/dori/daysince/internal/store"
	"github.com/dori/daysince/internal/when"
)

// ErrNeedsTarget is returned when a countdown is submitted without a date
var ErrNeedsTarget = errors.New("a countdown needs a target date")

// editLayout prefills the date field when editing
const editLayout = "2006-01-02 15:04"

// FormField identifies a focusable form field
type FormField int

const (
	FieldName FormField = iota
	FieldWhen
	FieldType
)

// SavedMsg is sent after the form added or changed a counter
type SavedMsg struct {
	ID      string
	Message string
}

// FormView adds a counter or edits a running countup
type FormView struct {
	ctx   *Context
	width int

	editingID string
	prefill   string
	name      textinput.Model
	at        textinput.Model
	countdown bool
	focus     FormField
	err       error
}

// NewFormView creates a new form view
func NewFormView(ctx *Context) FormView {
	name := textinput.New()
	name.Placeholder = "Name"
	name.CharLimit = 120

	at := textinput.New()
	at.Placeholder = "now, yesterday, 2024-01-15, 18:30, in 3d..."
	at.CharLimit = 64

	return FormView{ctx: ctx, name: name, at: at}
}

// Open resets the form. An empty id adds a counter; otherwise the
// counter is loaded for editing.
func (v FormView) Open(id string) FormView {
	v.editingID = ""
	v.prefill = ""
	v.countdown = false
	v.err = nil
	v.name.SetValue("")
	v.at.SetValue("")

	if c, ok := v.ctx.Store.Get(id); ok {
		v.editingID = c.ID
		v.name.SetValue(c.Name)
		v.prefill = c.Reference().Format(editLayout)
		v.at.SetValue(v.prefill)
	}
	return v.setFocus(FieldName)
}

// Editing reports whether the form edits an existing counter
func (v FormView) Editing() bool {
	return v.editingID != ""
}

// Init starts the cursor blink
func (v FormView) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize sets the view dimensions
func (v FormView) SetSize(width, height int) FormView {
	v.width = width
	v.name.Width = width - 8
	v.at.Width = width - 8
	return v
}

// IsInputMode is always true; the form captures text
func (v FormView) IsInputMode() bool {
	return true
}

func (v FormView) fields() []FormField {
	if v.Editing() {
		return []FormField{FieldName, FieldWhen}
	}
	return []FormField{FieldName, FieldWhen, FieldType}
}

func (v FormView) setFocus(f FormField) FormView {
	v.focus = f
	v.name.Blur()
	v.at.Blur()
	switch f {
	case FieldName:
		v.name.Focus()
	case FieldWhen:
		v.at.Focus()
	}
	return v
}

func (v FormView) moveFocus(delta int) FormView {
	fields := v.fields()
	i := 0
	for j, f := range fields {
		if f == v.focus {
			i = j
		}
	}
	i = (i + delta + len(fields)) % len(fields)
	return v.setFocus(fields[i])
}

// Update handles messages
func (v FormView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v.updateInputs(msg)
	}

	switch keyMsg.String() {
	case "esc":
		return v, request(BackMsg{})
	case "tab", "down":
		return v.moveFocus(1), nil
	case "shift+tab", "up":
		return v.moveFocus(-1), nil
	case "enter":
		return v.submit()
	}

	if v.focus == FieldType {
		switch keyMsg.String() {
		case " ", "left", "right", "h", "l":
			v.countdown = !v.countdown
		}
		return v, nil
	}

	v.err = nil
	return v.updateInputs(msg)
}

func (v FormView) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch v.focus {
	case FieldName:
		v.name, cmd = v.name.Update(msg)
	case FieldWhen:
		v.at, cmd = v.at.Update(msg)
	}
	return v, cmd
}

// submit validates the form and applies it to the store
func (v FormView) submit() (tea.Model, tea.Cmd) {
	name := strings.TrimSpace(v.name.Value())
	if name == "" {
		v.err = store.ErrEmptyName
		return v.setFocus(FieldName), nil
	}

	at, err := v.parseWhen()
	if err != nil {
		v.err = err
		return v.setFocus(FieldWhen), nil
	}

	if v.Editing() {
		if err := v.ctx.Store.Edit(v.editingID, store.EditParams{Name: &name, CreatedAt: at}); err != nil {
			v.err = err
			return v, nil
		}
		return v, request(SavedMsg{ID: v.editingID, Message: fmt.Sprintf("Updated: %s", name)})
	}

	typ := model.TypeCountup
	if v.countdown {
		typ = model.TypeCountdown
		if at == nil {
			v.err = ErrNeedsTarget
			return v.setFocus(FieldWhen), nil
		}
	}

	c, err := v.ctx.Store.Add(store.AddParams{Name: name, CreatedAt: at, Type: typ})
	if err != nil {
		v.err = err
		return v, nil
	}
	message := fmt.Sprintf("Added: %s", c.Name)
	if c.Completed {
		message = fmt.Sprintf("Added: %s (already reached)", c.Name)
	}
	return v, request(SavedMsg{ID: c.ID, Message: message})
}

// parseWhen returns nil for an empty or untouched date field
func (v FormView) parseWhen() (*time.Time, error) {
	raw := strings.TrimSpace(v.at.Value())
	if raw == "" || (v.Editing() && raw == v.prefill) {
		return nil, nil
	}
	at, err := when.Parse(raw, v.ctx.Now())
	if err != nil {
		return nil, err
	}
	return &at, nil
}

// View renders the form
func (v FormView) View() string {
	styles := v.ctx.Palette.Styles
	t := v.ctx.Palette.Theme

	title := "New counter"
	if v.Editing() {
		title = "Edit counter"
	}

	field := func(f FormField, label, body string) string {
		box := styles.Input
		if v.focus == f {
			box = styles.InputFocused
		}
		return styles.Label.Render(label) + "\n" + box.Render(body)
	}

	sections := []string{
		styles.Title.Render(title),
		field(FieldName, "Name", v.name.View()),
		field(FieldWhen, v.whenLabel(), v.at.View()),
	}

	if !v.Editing() {
		up, down := "( ) count up", "( ) count down"
		if v.countdown {
			down = "(•) count down"
		} else {
			up = "(•) count up"
		}
		sections = append(sections, field(FieldType, "Type", up+"   "+down))
	}

	if v.err != nil {
		sections = append(sections, styles.Error.Render(v.err.Error()))
	} else if preview := v.preview(); preview != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(t.Info).Render(preview))
	}

	return strings.Join(sections, "\n")
}

func (v FormView) whenLabel() string {
	switch {
	case v.Editing():
		return "Started"
	case v.countdown:
		return "Target"
	default:
		return "Started (empty for now)"
	}
}

// preview shows how the date field is understood
func (v FormView) preview() string {
	raw := strings.TrimSpace(v.at.Value())
	if raw == "" {
		return ""
	}
	at, err := when.Parse(raw, v.ctx.Now())
	if err != nil {
		return ""
	}
	return "→ " + when.Format(at, v.ctx.Now())
}
