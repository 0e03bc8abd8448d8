package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme and styles for the UI
type Theme struct {
	Name string

	// Base colors
	Background lipgloss.Color
	Foreground lipgloss.Color
	Subtle     lipgloss.Color
	Highlight  lipgloss.Color
	Border     lipgloss.Color

	// Semantic colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Info      lipgloss.Color

	// Counter colors
	Countup   lipgloss.Color
	Countdown lipgloss.Color
	Completed lipgloss.Color
	Archived  lipgloss.Color
}

// Styles holds pre-computed lipgloss styles based on theme
type Styles struct {
	Header lipgloss.Style

	// Counter rows
	Row          lipgloss.Style
	RowSelected  lipgloss.Style
	RowArchived  lipgloss.Style
	RowCompleted lipgloss.Style
	Value        lipgloss.Style
	Unit         lipgloss.Style

	// Tabs
	Tab       lipgloss.Style
	TabActive lipgloss.Style

	// Component styles
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Label    lipgloss.Style
	Clock    lipgloss.Style
	Badge    lipgloss.Style

	// Input styles
	Input        lipgloss.Style
	InputFocused lipgloss.Style
	Placeholder  lipgloss.Style

	Panel lipgloss.Style

	// Help styles
	HelpKey       lipgloss.Style
	HelpDesc      lipgloss.Style
	HelpSeparator lipgloss.Style

	Status lipgloss.Style
	Error  lipgloss.Style
}

// NewStyles creates styles from a theme
func NewStyles(t Theme) Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			Padding(0, 1),

		Row: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Padding(0, 1),

		RowSelected: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Background(t.Highlight).
			Bold(true).
			Padding(0, 1),

		RowArchived: lipgloss.NewStyle().
			Foreground(t.Archived).
			Padding(0, 1),

		RowCompleted: lipgloss.NewStyle().
			Foreground(t.Completed).
			Strikethrough(true).
			Padding(0, 1),

		Value: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			Width(6).
			Align(lipgloss.Right),

		Unit: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Width(16),

		Tab: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Padding(0, 2),

		TabActive: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			Underline(true).
			Padding(0, 2),

		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(t.Secondary).
			Italic(true),

		Label: lipgloss.NewStyle().
			Foreground(t.Subtle),

		Clock: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Bold(true).
			Padding(1, 4).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Primary),

		Badge: lipgloss.NewStyle().
			Foreground(t.Background).
			Padding(0, 1).
			MarginLeft(1),

		Input: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		InputFocused: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Primary).
			Padding(0, 1),

		Placeholder: lipgloss.NewStyle().
			Foreground(t.Subtle),

		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(1, 2),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		HelpDesc: lipgloss.NewStyle().
			Foreground(t.Subtle),

		HelpSeparator: lipgloss.NewStyle().
			Foreground(t.Border),

		Status: lipgloss.NewStyle().
			Foreground(t.Info),

		Error: lipgloss.NewStyle().
			Foreground(t.Error),
	}
}

// TypeColor returns the accent for a counter kind
func (t Theme) TypeColor(countdown bool) lipgloss.Color {
	if countdown {
		return t.Countdown
	}
	return t.Countup
}

// Palette pairs a theme with its computed styles
type Palette struct {
	Theme  Theme
	Styles Styles
}

// New returns the palette for t
func New(t Theme) *Palette {
	return &Palette{Theme: t, Styles: NewStyles(t)}
}

// Named returns the palette for name, falling back to Nord
func Named(name string) *Palette {
	if t, ok := ByName(name); ok {
		return New(t)
	}
	return New(Nord)
}

// Set changes the palette's theme
func (p *Palette) Set(t Theme) {
	p.Theme = t
	p.Styles = NewStyles(t)
}

// Next switches to the theme after the current one and returns its name
func (p *Palette) Next() string {
	themes := Available()
	for i, t := range themes {
		if t.Name == p.Theme.Name {
			p.Set(themes[(i+1)%len(themes)])
			return p.Theme.Name
		}
	}
	p.Set(themes[0])
	return p.Theme.Name
}

// Available returns all available themes
func Available() []Theme {
	return []Theme{
		Nord,
		Dracula,
		Gruvbox,
		Catppuccin,
	}
}

// ByName returns a theme by its name
func ByName(name string) (Theme, bool) {
	for _, t := range Available() {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}
