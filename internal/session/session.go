package session

import (
	"time"

	"github.com/pkoerner/revise/internal/apiclient"
	"github.com/pkoerner/revise/internal/fsrs"
)

// StartLoading transitions course-select → loading-cards.
func StartLoading(st *State, course apiclient.Course) {
	st.Phase = PhaseLoading
	st.Course = course
	st.SessionID = ""
	st.Queue = nil
	st.Index = 0
	st.Revealed = false
	st.Grades = nil
	st.Warnings = nil
}

// BeginStudy transitions loading-cards → studying (or → empty when the
// queue is empty). sessionID may be empty: the session record is
// best-effort and its absence is tolerated.
func BeginStudy(st *State, sessionID string, queue []StudyCard, warnings []string, now time.Time) {
	st.SessionID = sessionID
	st.Queue = queue
	st.Warnings = warnings
	st.Index = 0
	st.Revealed = false
	st.StartedAt = now

	if len(queue) == 0 {
		st.Phase = PhaseEmpty
		return
	}
	st.Phase = PhaseStudying
}

// Reveal shows the current card's back. It reports whether the state
// changed: revealing an already-revealed card is ignored.
func Reveal(st *State) bool {
	if st.Current() == nil || st.Revealed {
		return false
	}
	st.Revealed = true
	return true
}

// ApplyGrade grades the revealed card: the scheduler runs synchronously,
// the card's state is replaced in the queue, and the grade is appended to
// the session sequence. It returns the new scheduler state for persistence
// and false when there is nothing to grade (no card, or not yet revealed).
//
// Advancing to the next card is a separate step so hosts can insert their
// visual transition delay.
func ApplyGrade(st *State, uiGrade int, now time.Time) (fsrs.SchedulerState, bool) {
	card := st.Current()
	if card == nil || !st.Revealed {
		return fsrs.SchedulerState{}, false
	}

	next := fsrs.ScheduleWith(st.Params, card.State, uiGrade, now)
	card.State = next
	st.Grades = append(st.Grades, uiGrade)
	return next, true
}

// Advance moves to the next card, transitioning studying → summary after
// the final one. It reports whether a card remains.
func Advance(st *State) bool {
	if st.Phase != PhaseStudying {
		return false
	}
	st.Revealed = false
	st.Index++
	if st.Index >= len(st.Queue) {
		st.Phase = PhaseSummary
		return false
	}
	return true
}

// BackToCourses transitions summary | empty → course-select.
func BackToCourses(st *State) {
	st.Phase = PhaseCourseSelect
	st.Course = apiclient.Course{}
	st.SessionID = ""
	st.Queue = nil
	st.Index = 0
	st.Revealed = false
	st.Grades = nil
	st.Warnings = nil
}
