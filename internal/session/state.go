// Package session holds the study session state machine: phase transitions,
// card queue selection and summary statistics. Everything here is pure and
// synchronous; I/O lives with the callers.
package session

import (
	"time"

	"github.com/pkoerner/revise/internal/apiclient"
	"github.com/pkoerner/revise/internal/fsrs"
)

// Phase is the current phase of the study flow.
type Phase int

const (
	PhaseCourseSelect Phase = iota // picking a course
	PhaseLoading                   // aggregating cards and scheduler state
	PhaseStudying                  // stepping through the queue
	PhaseEmpty                     // nothing due, nothing new
	PhaseSummary                   // showing session statistics
)

func (p Phase) String() string {
	switch p {
	case PhaseCourseSelect:
		return "course-select"
	case PhaseLoading:
		return "loading-cards"
	case PhaseStudying:
		return "studying"
	case PhaseEmpty:
		return "empty"
	default:
		return "summary"
	}
}

// StudyCard pairs a flashcard with its current scheduler state. Built fresh
// at session-load time and never persisted as its own entity.
type StudyCard struct {
	Card  apiclient.Flashcard
	State fsrs.SchedulerState
}

// State is the runtime state of one study attempt. It is owned by a single
// controller; transitions are functions in this package.
type State struct {
	// Phase is the current state-machine phase.
	Phase Phase

	// Course is the selected course (zero value until picked).
	Course apiclient.Course

	// SessionID is the server-side session id; empty when the best-effort
	// session create failed.
	SessionID string

	// Queue is the selected, ordered study set.
	Queue []StudyCard

	// Index is the position of the current card in Queue.
	Index int

	// Revealed is true once the current card's back is shown.
	Revealed bool

	// Grades is the in-memory sequence of UI grades, strictly in the order
	// the student graded. Summary statistics derive from it even when the
	// server-side session record is lost.
	Grades []int

	// Warnings collects partial hierarchy failures from aggregation.
	Warnings []string

	// StartedAt is when studying began.
	StartedAt time.Time

	// Params is the interval policy applied when grading.
	Params fsrs.Params
}

// NewState creates a session controller state at course selection.
func NewState() *State {
	return &State{
		Phase:  PhaseCourseSelect,
		Params: fsrs.DefaultParams(),
	}
}

// Current returns the card under study, or nil outside the studying phase.
func (st *State) Current() *StudyCard {
	if st.Phase != PhaseStudying || st.Index < 0 || st.Index >= len(st.Queue) {
		return nil
	}
	return &st.Queue[st.Index]
}

// Remaining returns the number of cards left, including the current one.
func (st *State) Remaining() int {
	if st.Phase != PhaseStudying {
		return 0
	}
	return len(st.Queue) - st.Index
}
