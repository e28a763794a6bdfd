package components

import (
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/pkoerner/revise/internal/ui/theme"
)

// Spinner wraps bubbles/spinner with the app styling, for load phases.
type Spinner struct {
	Model spinner.Model
}

// NewSpinner creates a styled spinner.
func NewSpinner() Spinner {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Primary)),
	)
	return Spinner{Model: s}
}

// Init starts the spinner animation.
func (s Spinner) Init() tea.Cmd {
	return s.Model.Tick
}

// Update advances the animation.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	var cmd tea.Cmd
	s.Model, cmd = s.Model.Update(msg)
	return Spinner{Model: s.Model}, cmd
}

// View renders the current frame.
func (s Spinner) View() string {
	return s.Model.View()
}
