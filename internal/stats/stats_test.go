package stats

import (
	"testing"
	"time"

	"github.com/pkoerner/revise/internal/fsrs"
)

var now = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func state(id string, cs fsrs.CardState, due time.Time, stability, difficulty float64, reps, lapses int) fsrs.SchedulerState {
	return fsrs.SchedulerState{
		FlashcardID: id,
		State:       cs,
		DueAt:       due,
		Stability:   stability,
		Difficulty:  difficulty,
		Reps:        reps,
		Lapses:      lapses,
	}
}

func TestReduce(t *testing.T) {
	states := []fsrs.SchedulerState{
		state("a", fsrs.StateReview, now.Add(-time.Hour), 10, 4, 5, 1),     // due now
		state("b", fsrs.StateReview, now.Add(12*time.Hour), 20, 6, 8, 0),   // due today
		state("c", fsrs.StateLearning, now.Add(36*time.Hour), 1, 5, 1, 0),  // not due
		state("d", fsrs.StateRelearning, now.Add(-time.Minute), 2, 7, 4, 2), // due now
	}

	d := Reduce(states, now)

	if d.TrackedCards != 4 {
		t.Errorf("tracked: got %d, want 4", d.TrackedCards)
	}
	if d.DueNow != 2 {
		t.Errorf("due now: got %d, want 2", d.DueNow)
	}
	// Due-today includes the overdue ones.
	if d.DueToday != 3 {
		t.Errorf("due today: got %d, want 3", d.DueToday)
	}
	if d.Learning != 1 || d.Review != 2 || d.Relearning != 1 {
		t.Errorf("state counts: learning=%d review=%d relearning=%d", d.Learning, d.Review, d.Relearning)
	}
	if d.TotalReps != 18 || d.TotalLapses != 3 {
		t.Errorf("totals: reps=%d lapses=%d", d.TotalReps, d.TotalLapses)
	}
	if d.AvgStability != 8.25 {
		t.Errorf("avg stability: got %f, want 8.25", d.AvgStability)
	}
	if d.AvgDifficulty != 5.5 {
		t.Errorf("avg difficulty: got %f, want 5.5", d.AvgDifficulty)
	}
}

func TestReduceNewCardsNeverDue(t *testing.T) {
	states := []fsrs.SchedulerState{
		state("a", fsrs.StateNew, now.Add(-time.Hour), 0, 0, 0, 0),
	}
	d := Reduce(states, now)
	if d.DueNow != 0 || d.DueToday != 0 {
		t.Errorf("new cards must not count as due: %+v", d)
	}
	if d.TrackedCards != 1 {
		t.Errorf("new cards still count as tracked: %+v", d)
	}
}

func TestReduceEmpty(t *testing.T) {
	d := Reduce(nil, now)
	if d.TrackedCards != 0 || d.AvgStability != 0 || d.AvgDifficulty != 0 {
		t.Errorf("expected zero dashboard, got %+v", d)
	}
}
