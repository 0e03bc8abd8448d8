package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dori/daysince/internal/app"
	"github.com/dori/daysince/internal/notify"
	"github.com/dori/daysince/internal/store"
	"github.com/dori/daysince/internal/ui/theme"
	"github.com/dori/daysince/internal/ui/views"
)

// Tick periods. The fast period runs while a displayed value changes
// faster than daily; the slow one catches counters entering that window.
const (
	FastTick = time.Second
	SlowTick = time.Minute
)

// Options configures a RootModel
type Options struct {
	Store      *store.Store
	Theme      string
	Deliveries <-chan notify.Delivery // nil when alerts are off
	Logger     *log.Logger
	Now        func() time.Time
	// LoadErr is shown once at startup
	LoadErr error
}

// RootModel is the main application model that manages views
type RootModel struct {
	ctx        *views.Context
	deliveries <-chan notify.Delivery
	logger     *log.Logger
	keys       KeyMap
	help       help.Model
	width      int
	height     int

	currentView View
	listView    views.ListView
	detailView  views.DetailView
	formView    views.FormView
	helpVisible bool

	// Status message
	statusMsg string
	errorMsg  string
	saveErr   error

	tickSeq  int
	fastTick bool
}

// NewRootModel creates a root model for a running application
func NewRootModel(application *app.App) RootModel {
	opts := Options{
		Store:   application.Store,
		Theme:   application.Config.Theme,
		Logger:  application.Logger.Logger,
		LoadErr: application.LoadErr,
	}
	if application.Scheduler != nil {
		opts.Deliveries = application.Scheduler.Deliveries()
	}
	return New(opts)
}

// New creates a root model from explicit collaborators
func New(opts Options) RootModel {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	ctx := &views.Context{
		Store:   opts.Store,
		Palette: theme.Named(opts.Theme),
		Now:     opts.Now,
	}

	h := help.New()
	h.ShowAll = true

	m := RootModel{
		ctx:         ctx,
		deliveries:  opts.Deliveries,
		logger:      opts.Logger,
		keys:        DefaultKeyMap(),
		help:        h,
		currentView: ViewList,
		listView:    views.NewListView(ctx),
		detailView:  views.NewDetailView(ctx),
		formView:    views.NewFormView(ctx),
	}
	m.fastTick = m.needsFastTick()
	if opts.LoadErr != nil {
		m.errorMsg = fmt.Sprintf("Saved counters could not be read; starting empty (%v)", opts.LoadErr)
	}
	return m
}

// Init starts the tick chain and the alert listener
func (m RootModel) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.tickSeq, m.interval())}
	if m.deliveries != nil {
		cmds = append(cmds, waitForDelivery(m.deliveries))
	}
	return tea.Batch(cmds...)
}

func tickCmd(seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return TickMsg{seq: seq}
	})
}

// waitForDelivery blocks until the scheduler fires an alert
func waitForDelivery(ch <-chan notify.Delivery) tea.Cmd {
	return func() tea.Msg {
		d, ok := <-ch
		if !ok {
			return nil
		}
		return DeliveryMsg{Delivery: d}
	}
}

// needsFastTick reports whether anything on screen changes every second
func (m RootModel) needsFastTick() bool {
	if m.currentView == ViewDetail {
		return true
	}
	return m.ctx.Store.NeedsTick(m.ctx.Now())
}

func (m RootModel) interval() time.Duration {
	if m.needsFastTick() {
		return FastTick
	}
	return SlowTick
}

// retick replaces a slow tick chain once a fast one is needed
func (m *RootModel) retick() tea.Cmd {
	if m.fastTick || !m.needsFastTick() {
		return nil
	}
	m.tickSeq++
	m.fastTick = true
	return tickCmd(m.tickSeq, FastTick)
}

// Update handles messages
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	root := next.(RootModel)
	root.checkSaveErr()
	return root, tea.Batch(cmd, root.retick())
}

func (m RootModel) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		// Reserve space for header (2 lines) and footer (2 lines)
		contentHeight := m.height - 4
		m.listView = m.listView.SetSize(m.width, contentHeight)
		m.detailView = m.detailView.SetSize(m.width, contentHeight)
		m.formView = m.formView.SetSize(m.width, contentHeight)
		return m, nil

	case TickMsg:
		if msg.seq != m.tickSeq {
			return m, nil
		}
		m.runTick()
		d := m.interval()
		m.fastTick = d == FastTick
		return m, tickCmd(m.tickSeq, d)

	case DeliveryMsg:
		m.handleDelivery(msg.Delivery)
		return m, waitForDelivery(m.deliveries)

	case views.StatusMsg:
		if msg.Err != nil {
			m.errorMsg = msg.Err.Error()
		} else {
			m.statusMsg = msg.Message
		}
		return m, nil

	case views.OpenDetailMsg:
		m.detailView = m.detailView.SetCounter(msg.ID)
		m.currentView = ViewDetail
		return m, nil

	case views.OpenFormMsg:
		m.formView = m.formView.Open(msg.ID)
		m.currentView = ViewForm
		return m, m.formView.Init()

	case views.BackMsg:
		m.currentView = ViewList
		return m, nil

	case views.SavedMsg:
		m.listView = m.listView.Focus(msg.ID)
		m.currentView = ViewList
		m.statusMsg = msg.Message
		return m, nil

	case tea.KeyMsg:
		// Clear status/error on any keypress
		m.statusMsg = ""
		m.errorMsg = ""

		isInputMode := m.isInputMode()

		switch {
		case key.Matches(msg, m.keys.Quit):
			// ctrl+c always quits, but 'q' only quits when not in input mode
			if msg.String() == "ctrl+c" || !isInputMode {
				return m, tea.Quit
			}

		case key.Matches(msg, m.keys.ThemeCycle):
			name := m.ctx.Palette.Next()
			m.statusMsg = fmt.Sprintf("Theme: %s", name)
			return m, nil
		}

		if m.helpVisible {
			if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Back) {
				m.helpVisible = false
			}
			return m, nil
		}
		if !isInputMode && key.Matches(msg, m.keys.Help) {
			m.helpVisible = true
			return m, nil
		}
	}

	return m.delegate(msg)
}

// delegate passes msg to the current view
func (m RootModel) delegate(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentView {
	case ViewList:
		var next tea.Model
		next, cmd = m.listView.Update(msg)
		m.listView = next.(views.ListView)
	case ViewDetail:
		var next tea.Model
		next, cmd = m.detailView.Update(msg)
		m.detailView = next.(views.DetailView)
	case ViewForm:
		var next tea.Model
		next, cmd = m.formView.Update(msg)
		m.formView = next.(views.FormView)
	}
	return m, cmd
}

func (m RootModel) isInputMode() bool {
	switch m.currentView {
	case ViewList:
		return m.listView.IsInputMode()
	case ViewDetail:
		return m.detailView.IsInputMode()
	case ViewForm:
		return m.formView.IsInputMode()
	}
	return false
}

// runTick completes expired countdowns
func (m *RootModel) runTick() {
	var names []string
	for _, c := range m.ctx.Store.Tick(m.ctx.Now()) {
		names = append(names, c.Counter.Name)
		m.logger.Info("countdown finished", "id", c.Counter.ID, "alerted", c.Alerted)
	}
	if len(names) > 0 {
		m.statusMsg = "Countdown finished: " + strings.Join(names, ", ")
	}
}

// handleDelivery reacts to a fired alert
func (m *RootModel) handleDelivery(d notify.Delivery) {
	if d.Err != nil {
		m.logger.Warn("alert could not be shown", "id", d.ID, "err", d.Err)
	}
	c, ok := m.ctx.Store.Get(d.Payload.CounterID)
	if !ok {
		return
	}
	switch d.Payload.Kind {
	case notify.KindToday:
		m.statusMsg = fmt.Sprintf("Reminder: %s ends today", c.Name)
	case notify.KindExactTime:
		if m.ctx.Store.HandleDelivery(d.Payload) {
			m.statusMsg = "Countdown finished: " + c.Name
		}
	}
}

// checkSaveErr surfaces a failed write once
func (m *RootModel) checkSaveErr() {
	err := m.ctx.Store.SaveErr()
	if err != nil && m.saveErr == nil {
		m.errorMsg = fmt.Sprintf("Changes could not be saved: %v", err)
	}
	m.saveErr = err
}

// View renders the UI
func (m RootModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	// Reserve: 1 line for header + 3 lines for footer (status + 2 hint lines)
	contentHeight := m.height - 4
	if m.errorMsg != "" || m.statusMsg != "" {
		contentHeight--
	}

	var content string
	if m.helpVisible {
		content = m.renderHelp()
	} else {
		switch m.currentView {
		case ViewList:
			content = m.listView.View()
		case ViewDetail:
			content = m.detailView.View()
		case ViewForm:
			content = m.formView.View()
		}
	}

	// Ensure content fills available space
	contentLines := strings.Count(content, "\n") + 1
	if contentLines < contentHeight {
		content += strings.Repeat("\n", contentHeight-contentLines)
	}
	sections = append(sections, content)
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

// renderHeader renders the header bar
func (m RootModel) renderHeader() string {
	styles := m.ctx.Palette.Styles
	t := m.ctx.Palette.Theme

	title := styles.Header.Render("daysince")

	viewStyle := lipgloss.NewStyle().
		Foreground(t.Subtle).
		Padding(0, 1)
	viewIndicator := viewStyle.Render(fmt.Sprintf("[%s]", m.currentView))
	themeIndicator := viewStyle.Render(fmt.Sprintf("theme: %s", t.Name))

	leftSide := lipgloss.JoinHorizontal(lipgloss.Center, title, viewIndicator)
	gap := m.width - lipgloss.Width(leftSide) - lipgloss.Width(themeIndicator)
	if gap < 0 {
		gap = 0
	}
	return leftSide + strings.Repeat(" ", gap) + themeIndicator
}

// renderFooter renders the footer/status bar
func (m RootModel) renderFooter() string {
	styles := m.ctx.Palette.Styles

	key := func(k, desc string) string {
		return styles.HelpKey.Render(k) + styles.HelpDesc.Render(" "+desc)
	}
	sep := styles.HelpSeparator.Render(" │ ")

	var lines []string
	if m.errorMsg != "" {
		lines = append(lines, styles.Error.Render(m.errorMsg))
	} else if m.statusMsg != "" {
		lines = append(lines, styles.Status.Render(m.statusMsg))
	}

	var line1, line2 string
	switch {
	case m.helpVisible:
		line1 = key("?/esc", "close help")
	case m.isInputMode() && m.currentView != ViewForm:
		line1 = key("y", "confirm") + sep + key("n", "cancel")
	case m.currentView == ViewForm:
		line1 = key("enter", "save") + sep +
			key("tab", "next field") + sep +
			key("esc", "cancel")
		if !m.formView.Editing() {
			line2 = key("space", "toggle type (on Type)")
		}
	case m.currentView == ViewDetail:
		line1 = key("e", "edit") + sep +
			key("x", "archive") + sep +
			key("c", "complete") + sep +
			key("d", "delete")
		line2 = key("esc", "back") + sep +
			key("ctrl+t", "theme") + sep +
			key("q", "quit")
	default:
		line1 = key("a", "add") + sep +
			key("enter", "open") + sep +
			key("e", "edit") + sep +
			key("x", "archive") + sep +
			key("c", "complete") + sep +
			key("d", "delete")
		line2 = key("tab", "current/past") + sep +
			key("ctrl+t", "theme") + sep +
			key("?", "help") + sep +
			key("q", "quit")
	}

	if line1 != "" {
		lines = append(lines, line1)
	}
	if line2 != "" {
		lines = append(lines, line2)
	}
	return strings.Join(lines, "\n")
}

// renderHelp renders the help overlay
func (m RootModel) renderHelp() string {
	styles := m.ctx.Palette.Styles

	var b strings.Builder
	b.WriteString(styles.Title.Render("daysince help"))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n\n")
	b.WriteString(styles.Label.Render("Dates: now, today, yesterday, monday, last fri, in 3d, 2h ago, 18:30, 2024-01-15"))
	return b.String()
}
