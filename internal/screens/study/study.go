// Package study implements the study session screen: loading the card
// queue, the reveal/grade loop and the hand-off to the summary screen.
package study

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/pkoerner/revise/internal/apiclient"
	"github.com/pkoerner/revise/internal/apierr"
	"github.com/pkoerner/revise/internal/config"
	"github.com/pkoerner/revise/internal/content"
	"github.com/pkoerner/revise/internal/fsrs"
	"github.com/pkoerner/revise/internal/router"
	"github.com/pkoerner/revise/internal/screen"
	"github.com/pkoerner/revise/internal/screens/summary"
	"github.com/pkoerner/revise/internal/session"
	"github.com/pkoerner/revise/internal/syncer"
	"github.com/pkoerner/revise/internal/ui/components"
	"github.com/pkoerner/revise/internal/ui/layout"
)

// sessionTypeFlashcards is the session_type recorded on the server.
const sessionTypeFlashcards = "flashcards"

// gradeAdvanceDelay is the pause between grading a card and showing the
// next one, long enough for the grade feedback to register.
const gradeAdvanceDelay = 350 * time.Millisecond

// finalizeTimeout bounds the best-effort session finalization write.
const finalizeTimeout = 10 * time.Second

// StudyScreen drives one study session for a course.
type StudyScreen struct {
	api  *apiclient.Client
	sync *syncer.Writer
	log  *zap.SugaredLogger
	cfg  config.Scheduler

	st      *session.State
	spinner components.Spinner

	// lastGrade is the grade applied to the current card, or -1. While it
	// is set the screen waits out the advance delay and ignores input.
	lastGrade int

	errMsg string
	cancel context.CancelFunc
}

// New creates a study screen for the course. Loading starts on Init.
func New(api *apiclient.Client, sync *syncer.Writer, log *zap.SugaredLogger, cfg config.Scheduler, course apiclient.Course) *StudyScreen {
	st := session.NewState()
	st.Params = fsrs.Params{
		HardInterval: cfg.HardInterval,
		EasyInterval: cfg.EasyInterval,
		AgainDelay:   fsrs.DefaultParams().AgainDelay,
	}
	session.StartLoading(st, course)

	return &StudyScreen{
		api:       api,
		sync:      sync,
		log:       log,
		cfg:       cfg,
		st:        st,
		spinner:   components.NewSpinner(),
		lastGrade: -1,
	}
}

func (s *StudyScreen) Init() tea.Cmd {
	return tea.Batch(s.spinner.Init(), s.load())
}

// load aggregates the course's flashcards, loads scheduler state and builds
// the queue. A failed state load degrades to an all-new queue; a failed
// session create degrades to unrecorded reviews. Only the aggregation root
// failing is terminal.
func (s *StudyScreen) load() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.errMsg = ""
	courseID := s.st.Course.ID

	return func() tea.Msg {
		res, err := content.FetchAllFlashcards(ctx, s.api, courseID, func(status string) {
			s.log.Debugw("loading course content", "course_id", courseID, "status", status)
		})
		if err != nil {
			return queueReadyMsg{Err: err}
		}

		warnings := res.Warnings
		now := time.Now()

		states, err := s.api.AllSchedulerStates(ctx)
		if err != nil {
			if apierr.IsCanceled(err) {
				return queueReadyMsg{Err: err}
			}
			// Degraded but continuable: every card studies as unseen.
			s.log.Warnw("scheduler state load failed, treating all cards as new", "error", err)
			warnings = append(warnings, "saved progress unavailable: "+apierr.Message(err))
			states = nil
		}

		queue := session.BuildQueue(res.Cards, states, now, s.cfg.NewCardCap)

		var sessionID string
		if len(queue) > 0 {
			sess, err := s.api.CreateSession(ctx, sessionTypeFlashcards, courseID)
			switch {
			case err == nil:
				sessionID = sess.ID
			case apierr.IsCanceled(err):
				return queueReadyMsg{Err: err}
			default:
				s.log.Warnw("session create failed, reviews will not be recorded", "error", err)
			}
		}

		return queueReadyMsg{Queue: queue, Warnings: warnings, SessionID: sessionID}
	}
}

// Close aborts the in-flight load. Background review writes are unaffected;
// they run detached from this screen.
func (s *StudyScreen) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *StudyScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case queueReadyMsg:
		if msg.Err != nil {
			if apierr.IsCanceled(msg.Err) {
				return s, nil
			}
			s.errMsg = apierr.Message(msg.Err)
			return s, nil
		}
		session.BeginStudy(s.st, msg.SessionID, msg.Queue, msg.Warnings, time.Now())
		return s, nil

	case advanceMsg:
		s.lastGrade = -1
		if !session.Advance(s.st) {
			now := time.Now()
			sum := session.BuildSummary(s.st, now)
			s.finalize(sum, now)
			return s, func() tea.Msg {
				return router.ReplaceScreenMsg{Screen: summary.New(sum, s.st.Course.Name)}
			}
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.st.Phase == session.PhaseLoading {
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *StudyScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.errMsg != "" && msg.String() == "r" {
		return s, s.load()
	}
	if s.st.Phase != session.PhaseStudying || s.lastGrade >= 0 {
		return s, nil
	}

	switch key := msg.String(); key {
	case "space", "enter", " ":
		session.Reveal(s.st)
		return s, nil

	case "0", "1", "2", "3", "4", "5":
		grade := int(key[0] - '0')
		now := time.Now()
		next, ok := session.ApplyGrade(s.st, grade, now)
		if !ok {
			return s, nil
		}
		s.lastGrade = grade
		s.sync.Record(s.st.SessionID, next, grade, now)
		return s, tea.Tick(gradeAdvanceDelay, func(time.Time) tea.Msg {
			return advanceMsg{}
		})
	}
	return s, nil
}

// finalize patches the server-side session record. Best effort: it runs
// detached and a failure only logs, the summary shown to the student comes
// from local state.
func (s *StudyScreen) finalize(sum session.Summary, endedAt time.Time) {
	id := s.st.SessionID
	if id == "" {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), finalizeTimeout)
		defer cancel()

		_, err := s.api.UpdateSession(ctx, id, apiclient.SessionUpdate{
			EndedAt:         &endedAt,
			DurationSeconds: &sum.DurationSeconds,
			TotalReviews:    &sum.TotalReviews,
			CorrectReviews:  &sum.CorrectReviews,
		})
		if err != nil {
			s.log.Warnw("session finalize failed", "session_id", id, "error", err)
		}
	}()
}

func (s *StudyScreen) Title() string {
	return s.st.Course.Name
}

func (s *StudyScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.errMsg != "":
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Esc", Description: "Back"},
		}
	case s.st.Phase == session.PhaseStudying && !s.st.Revealed:
		return []layout.KeyHint{
			{Key: "Space", Description: "Reveal"},
			{Key: "Esc", Description: "Back"},
		}
	case s.st.Phase == session.PhaseStudying:
		return []layout.KeyHint{
			{Key: "0-5", Description: "Grade"},
			{Key: "Esc", Description: "Back"},
		}
	default:
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
		}
	}
}
