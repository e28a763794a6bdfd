package study

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/pkoerner/revise/internal/fsrs"
	"github.com/pkoerner/revise/internal/session"
	"github.com/pkoerner/revise/internal/ui/theme"
)

func (s *StudyScreen) View(width, height int) string {
	if s.errMsg != "" {
		return s.renderError(width)
	}

	switch s.st.Phase {
	case session.PhaseLoading:
		return s.renderLoading(width)
	case session.PhaseEmpty:
		return s.renderEmpty(width)
	case session.PhaseStudying:
		return s.renderCard(width, height)
	default:
		return ""
	}
}

func (s *StudyScreen) renderLoading(width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render("\n\n" + s.spinner.View() + " Loading flashcards...")
}

func (s *StudyScreen) renderError(width int) string {
	body := lipgloss.NewStyle().Foreground(theme.Error).Render("Could not load the study queue") +
		"\n\n" + lipgloss.NewStyle().Foreground(theme.TextDim).Render(s.errMsg) +
		"\n\n" + theme.Hint.Render("Press r to retry, Esc to go back")
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render("\n\n" + body)
}

func (s *StudyScreen) renderEmpty(width int) string {
	body := lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render("All caught up!") +
		"\n\n" + lipgloss.NewStyle().Foreground(theme.TextDim).Render("Nothing is due and there are no new cards.")
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render("\n\n" + body)
}

func (s *StudyScreen) renderCard(width, height int) string {
	card := s.st.Current()
	if card == nil {
		return ""
	}

	var b strings.Builder

	// Status line: position, card kind, warnings.
	tag := "review"
	if card.State.State == fsrs.StateNew {
		tag = "new"
	}
	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Card %d/%d", s.st.Index+1, len(s.st.Queue)))
	right := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(tag)

	line := left
	pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if pad > 0 {
		line += strings.Repeat(" ", pad) + right
	}
	b.WriteString(line)
	b.WriteString("\n")

	if n := len(s.st.Warnings); n > 0 {
		b.WriteString(lipgloss.NewStyle().
			Foreground(theme.Accent).
			Render(fmt.Sprintf("  ! %d content source(s) unavailable, studying what loaded", n)))
		b.WriteString("\n")
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	// Card body.
	front := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(card.Card.Front)
	body := front
	if s.st.Revealed {
		sep := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("·", 24))
		back := lipgloss.NewStyle().Foreground(theme.Text).Render(card.Card.Back)
		body += "\n\n" + sep + "\n\n" + back
	}

	cardWidth := width - 8
	if cardWidth > 72 {
		cardWidth = 72
	}
	box := theme.Card.Width(cardWidth).Render(body)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, box))
	b.WriteString("\n\n")

	// Footer area: feedback while the advance delay runs, otherwise hints.
	switch {
	case s.lastGrade >= 0:
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(gradeColor(s.lastGrade)).
			Bold(true).
			Render(fmt.Sprintf("%s · next review %s", gradeLabel(s.lastGrade), fmtUntil(card.State.DueAt))))
	case s.st.Revealed:
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("How well did you know it?  0-1 forgot · 2 hard · 3-4 good · 5 easy"))
	default:
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("Press space to reveal"))
	}

	return b.String()
}

func gradeLabel(uiGrade int) string {
	switch {
	case uiGrade <= 1:
		return "Forgot"
	case uiGrade == 2:
		return "Hard"
	case uiGrade == 5:
		return "Easy"
	default:
		return "Good"
	}
}

func gradeColor(uiGrade int) color.Color {
	if uiGrade >= 3 {
		return theme.Success
	}
	return theme.Error
}

// fmtUntil renders the distance to the next due date in coarse units.
func fmtUntil(due time.Time) string {
	d := time.Until(due)
	switch {
	case d < time.Minute:
		return "in under a minute"
	case d < time.Hour:
		return fmt.Sprintf("in %dm", int(d.Minutes()))
	case d < 48*time.Hour:
		return fmt.Sprintf("in %dh", int(d.Hours()))
	default:
		return fmt.Sprintf("in %dd", int(d.Hours()/24))
	}
}
