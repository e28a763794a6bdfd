// Package summary shows the statistics of a finished study session.
package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/pkoerner/revise/internal/router"
	"github.com/pkoerner/revise/internal/screen"
	"github.com/pkoerner/revise/internal/session"
	"github.com/pkoerner/revise/internal/ui/components"
	"github.com/pkoerner/revise/internal/ui/layout"
	"github.com/pkoerner/revise/internal/ui/theme"
)

// SummaryScreen renders the post-session statistics. The numbers come from
// local session state, so they show even when the server-side session
// record was lost.
type SummaryScreen struct {
	sum    session.Summary
	course string
}

// New creates the summary screen.
func New(sum session.Summary, course string) *SummaryScreen {
	return &SummaryScreen{sum: sum, course: course}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "space", " ":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render("Session complete"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(s.course))
	b.WriteString("\n\n")

	mins := s.sum.DurationSeconds / 60
	secs := s.sum.DurationSeconds % 60

	rows := []string{
		fmt.Sprintf("Reviews   %d", s.sum.TotalReviews),
		fmt.Sprintf("Correct   %d", s.sum.CorrectReviews),
		fmt.Sprintf("Duration  %d:%02d", mins, secs),
	}
	stats := lipgloss.NewStyle().Foreground(theme.Text).Render(strings.Join(rows, "\n"))

	barWidth := width / 2
	if barWidth > 48 {
		barWidth = 48
	}
	bar := components.NewProgressBar("Accuracy", s.sum.Accuracy, true, barWidth)

	block := stats + "\n\n" + bar.View()
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, block))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Press enter to pick another course"))

	return b.String()
}

func (s *SummaryScreen) Title() string {
	return "Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Done"},
		{Key: "Esc", Description: "Back"},
	}
}
