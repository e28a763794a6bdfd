// Package stats reduces the full scheduler-state set into dashboard
// metrics. It consumes the paginated state loader's output and does no I/O
// of its own.
package stats

import (
	"time"

	"github.com/pkoerner/revise/internal/fsrs"
)

// Dashboard is the reduced metric set shown by `revise stats`.
type Dashboard struct {
	TrackedCards int

	DueNow   int // due date passed
	DueToday int // due within the next 24 hours, including overdue

	Learning   int
	Review     int
	Relearning int

	TotalReps   int
	TotalLapses int

	AvgStability  float64
	AvgDifficulty float64
}

// Reduce folds the state set into a Dashboard.
func Reduce(states []fsrs.SchedulerState, now time.Time) Dashboard {
	var d Dashboard
	var sumStability, sumDifficulty float64

	for _, s := range states {
		d.TrackedCards++
		d.TotalReps += s.Reps
		d.TotalLapses += s.Lapses
		sumStability += s.Stability
		sumDifficulty += s.Difficulty

		switch s.State {
		case fsrs.StateLearning:
			d.Learning++
		case fsrs.StateReview:
			d.Review++
		case fsrs.StateRelearning:
			d.Relearning++
		}

		if s.IsDue(now) {
			d.DueNow++
		}
		if s.State != fsrs.StateNew && s.DueAt.Before(now.Add(24*time.Hour)) {
			d.DueToday++
		}
	}

	if d.TrackedCards > 0 {
		d.AvgStability = sumStability / float64(d.TrackedCards)
		d.AvgDifficulty = sumDifficulty / float64(d.TrackedCards)
	}
	return d
}
