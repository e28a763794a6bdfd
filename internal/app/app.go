// Package app wires the TUI together: the root Bubble Tea model, the
// screen router and the shared dependencies handed down to screens.
package app

import (
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/pkoerner/revise/internal/apiclient"
	"github.com/pkoerner/revise/internal/config"
	"github.com/pkoerner/revise/internal/router"
	"github.com/pkoerner/revise/internal/screen"
	"github.com/pkoerner/revise/internal/screens/courses"
	"github.com/pkoerner/revise/internal/screens/study"
	"github.com/pkoerner/revise/internal/syncer"
	"github.com/pkoerner/revise/internal/ui/layout"
)

// Options carries the wired dependencies for the TUI.
type Options struct {
	API  *apiclient.Client
	Sync *syncer.Writer
	Log  *zap.SugaredLogger
	Cfg  config.Config
}

// syncTickMsg periodically refreshes the header's sync indicator, which
// otherwise only changes on input.
type syncTickMsg time.Time

const syncTickInterval = 500 * time.Millisecond

func syncTick() tea.Cmd {
	return tea.Tick(syncTickInterval, func(t time.Time) tea.Msg {
		return syncTickMsg(t)
	})
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	sync   *syncer.Writer
	width  int
	height int
}

func newAppModel(opts Options) AppModel {
	newStudy := func(course apiclient.Course) screen.Screen {
		return study.New(opts.API, opts.Sync, opts.Log, opts.Cfg.Scheduler, course)
	}
	root := courses.New(opts.API, newStudy)

	return AppModel{
		router: router.New(root),
		sync:   opts.Sync,
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Active().Init(), syncTick())
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case syncTickMsg:
		return m, syncTick()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	syncStatus := ""
	if m.sync != nil {
		if st := m.sync.Status(); st != syncer.StatusIdle {
			syncStatus = st.String()
		}
	}

	header := layout.RenderHeader(title, syncStatus, m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	} else {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the TUI and, after it exits, waits for outstanding background
// writes so a quit never abandons recorded reviews.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()

	if opts.Sync != nil {
		opts.Sync.Wait()
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
