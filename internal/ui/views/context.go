package views

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/daysince/internal/store"
	"github.com/dori/daysince/internal/ui/theme"
)

// Context is shared by every view. The store is only touched from Update.
type Context struct {
	Store   *store.Store
	Palette *theme.Palette
	Now     func() time.Time
}

// Requests sent to the root model (defined here to avoid an import cycle
// with the ui package)

// OpenDetailMsg asks for the detail screen of a counter
type OpenDetailMsg struct {
	ID string
}

// OpenFormMsg asks for the add form, or the edit form when ID is set
type OpenFormMsg struct {
	ID string
}

// BackMsg returns to the list
type BackMsg struct{}

// StatusMsg reports the outcome of an action
type StatusMsg struct {
	Message string
	Err     error
}

func status(format string, args ...any) tea.Cmd {
	return func() tea.Msg {
		return StatusMsg{Message: fmt.Sprintf(format, args...)}
	}
}

func failure(err error) tea.Cmd {
	return func() tea.Msg {
		return StatusMsg{Err: err}
	}
}

func request(msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return msg
	}
}
