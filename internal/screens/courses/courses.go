// Package courses implements the course selection screen, the root of the
// navigation stack.
package courses

import (
	"context"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/pkoerner/revise/internal/apiclient"
	"github.com/pkoerner/revise/internal/apierr"
	"github.com/pkoerner/revise/internal/router"
	"github.com/pkoerner/revise/internal/screen"
	"github.com/pkoerner/revise/internal/ui/components"
	"github.com/pkoerner/revise/internal/ui/layout"
	"github.com/pkoerner/revise/internal/ui/theme"
)

// StudyFactory builds the study screen for the picked course. Injected so
// this package does not depend on the study screen's wiring.
type StudyFactory func(course apiclient.Course) screen.Screen

// coursesLoadedMsg is sent when the course list fetch settles.
type coursesLoadedMsg struct {
	Courses []apiclient.Course
	Err     error
}

// CoursesScreen lists the available courses.
type CoursesScreen struct {
	api      *apiclient.Client
	newStudy StudyFactory

	spinner components.Spinner
	menu    components.Menu
	courses []apiclient.Course

	loading bool
	errMsg  string
	cancel  context.CancelFunc
}

// New creates the course selection screen.
func New(api *apiclient.Client, newStudy StudyFactory) *CoursesScreen {
	return &CoursesScreen{
		api:      api,
		newStudy: newStudy,
		spinner:  components.NewSpinner(),
	}
}

func (s *CoursesScreen) Init() tea.Cmd {
	return tea.Batch(s.spinner.Init(), s.load())
}

// load starts the course list fetch. The cancel func is kept so that
// leaving the screen, or quitting, aborts the request.
func (s *CoursesScreen) load() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.loading = true
	s.errMsg = ""

	return func() tea.Msg {
		courses, err := s.api.Courses(ctx)
		return coursesLoadedMsg{Courses: courses, Err: err}
	}
}

// Close aborts any in-flight fetch.
func (s *CoursesScreen) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *CoursesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case coursesLoadedMsg:
		s.loading = false
		if msg.Err != nil {
			if apierr.IsCanceled(msg.Err) {
				return s, nil
			}
			s.errMsg = apierr.Message(msg.Err)
			return s, nil
		}
		s.courses = msg.Courses
		s.menu = components.NewMenu(s.menuItems(msg.Courses))
		return s, nil

	case tea.KeyMsg:
		if s.errMsg != "" && msg.String() == "r" {
			return s, s.load()
		}
		if !s.loading && s.errMsg == "" {
			var cmd tea.Cmd
			s.menu, cmd = s.menu.Update(msg)
			return s, cmd
		}
	}

	if s.loading {
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *CoursesScreen) menuItems(courses []apiclient.Course) []components.MenuItem {
	items := make([]components.MenuItem, 0, len(courses))
	for _, c := range courses {
		course := c
		items = append(items, components.MenuItem{
			Label: course.Name,
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: s.newStudy(course)}
				}
			},
		})
	}
	return items
}

func (s *CoursesScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	switch {
	case s.loading:
		return center.Render("\n\n" + s.spinner.View() + " Loading courses...")

	case s.errMsg != "":
		body := lipgloss.NewStyle().Foreground(theme.Error).Render("Could not load courses") +
			"\n\n" + lipgloss.NewStyle().Foreground(theme.TextDim).Render(s.errMsg) +
			"\n\n" + theme.Hint.Render("Press r to retry")
		return center.Render("\n\n" + body)

	case len(s.courses) == 0:
		return center.Render("\n\n" + lipgloss.NewStyle().Foreground(theme.TextDim).Render("No courses available"))
	}

	title := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render("  Pick a course to study")
	return "\n" + title + "\n\n" + s.menu.View()
}

func (s *CoursesScreen) Title() string {
	return "Courses"
}

func (s *CoursesScreen) KeyHints() []layout.KeyHint {
	if s.errMsg != "" {
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Study"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
