package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNamedFallsBackToNord(t *testing.T) {
	assert.Equal(t, "dracula", Named("dracula").Theme.Name)
	assert.Equal(t, "nord", Named("solarized").Theme.Name)
}

func TestPaletteNextCycles(t *testing.T) {
	p := New(Nord)
	var seen []string
	for range Available() {
		seen = append(seen, p.Next())
	}
	assert.Equal(t, []string{"dracula", "gruvbox", "catppuccin", "nord"}, seen)
}

func TestThemesDefineCounterColors(t *testing.T) {
	for _, th := range Available() {
		t.Run(th.Name, func(t *testing.T) {
			assert.NotEmpty(t, th.Countup)
			assert.NotEmpty(t, th.Countdown)
			assert.NotEmpty(t, th.Completed)
			assert.NotEmpty(t, th.Archived)
			assert.Equal(t, th.Countdown, th.TypeColor(true))
			assert.Equal(t, th.Countup, th.TypeColor(false))
		})
	}
}
