// Package fsrs implements the FSRS-style memory model that converts a review
// grade into updated stability, difficulty and due-date state. Scheduling is
// a pure function of (state, grade, now): no I/O, no shared state.
package fsrs

import (
	"math"
	"time"
)

// Params holds the tunable interval policy. The multipliers are deliberate
// constants with no documented tuning rationale upstream; they are exposed
// here so deployments can override them without touching the model weights.
type Params struct {
	// HardInterval scales the next interval for Hard grades.
	HardInterval float64
	// EasyInterval scales the next interval for Easy grades.
	EasyInterval float64
	// AgainDelay is the short relearning delay after a failed (Again) grade.
	AgainDelay time.Duration
}

// DefaultParams returns the interval policy used by the hosted scheduler.
func DefaultParams() Params {
	return Params{
		HardInterval: 1.2,
		EasyInterval: 1.3,
		AgainDelay:   10 * time.Minute,
	}
}

// Schedule applies a review with the default interval policy.
func Schedule(s SchedulerState, uiGrade int, now time.Time) SchedulerState {
	return ScheduleWith(DefaultParams(), s, uiGrade, now)
}

// ScheduleWith computes the next scheduler state for a card reviewed at now
// with the given 0–5 UI grade. Same inputs always produce the same output.
func ScheduleWith(p Params, s SchedulerState, uiGrade int, now time.Time) SchedulerState {
	g := MapGrade(uiGrade)
	passed := g.Passed()

	next := s
	reviewedAt := now
	next.LastReviewAt = &reviewedAt

	if s.State == StateNew {
		next.Stability = initStability(g)
		next.Difficulty = initDifficulty(g)
		next.Reps = 1
		if passed {
			next.State = StateReview
		} else {
			next.State = StateLearning
			next.Lapses = s.Lapses + 1
		}
	} else {
		elapsed := elapsedDays(s, now)
		r := retrievability(elapsed, s.Stability)

		next.Difficulty = nextDifficulty(s.Difficulty, g)
		next.Reps = s.Reps + 1

		if passed {
			next.Stability = nextRecallStability(s.Difficulty, s.Stability, r, g)
			next.State = StateReview
		} else {
			// Failure never increases stability.
			next.Stability = math.Min(s.Stability, nextForgetStability(s.Difficulty, s.Stability, r))
			next.Lapses = s.Lapses + 1
			if s.State == StateReview {
				next.State = StateRelearning
			} else {
				next.State = StateLearning
			}
		}
	}

	// Stored values are rounded so repeated round-trips through the API do
	// not accumulate float noise.
	next.Stability = round2(math.Max(next.Stability, MinStability))
	next.Difficulty = round2(clampDifficulty(next.Difficulty))
	next.DueAt = nextDue(p, next.Stability, g, now)

	return next
}

// elapsedDays returns the days since the last review, never negative, and
// zero for a card that has no recorded review.
func elapsedDays(s SchedulerState, now time.Time) float64 {
	if s.LastReviewAt == nil {
		return 0
	}
	d := now.Sub(*s.LastReviewAt).Hours() / 24
	return math.Max(0, d)
}

// retrievability computes R = (1 + t/(9S))^-1, defined as 1 when the card
// has no usable stability or no elapsed time.
func retrievability(elapsed, stability float64) float64 {
	if stability <= 0 || elapsed <= 0 {
		return 1
	}
	return 1 / (1 + elapsed/(9*stability))
}

// initStability seeds stability for a first review from the per-grade table.
func initStability(g Grade) float64 {
	var s float64
	switch g {
	case Again:
		s = w0
	case Hard:
		s = w1
	case Good:
		s = w2
	default:
		s = w3
	}
	return math.Max(s, MinStability)
}

// initDifficulty seeds difficulty for a first review.
func initDifficulty(g Grade) float64 {
	return clampDifficulty(w4 - float64(g-Good)*w5)
}

// nextDifficulty blends the grade-adjusted previous difficulty with the
// re-derived ideal (Easy) difficulty, a mean reversion that keeps repeated
// identical grades from pinning difficulty at a bound.
func nextDifficulty(d float64, g Grade) float64 {
	adjusted := d - w6*float64(g-Good)
	ideal := w4 - float64(Easy-Good)*w5
	return clampDifficulty(w7*ideal + (1-w7)*adjusted)
}

// nextRecallStability grows stability after a successful recall. Harder
// items, saturated stabilities and high retrievability all slow the growth.
func nextRecallStability(d, s, r float64, g Grade) float64 {
	hardPenalty := 1.0
	if g == Hard {
		hardPenalty = w15
	}
	easyBonus := 1.0
	if g == Easy {
		easyBonus = w16
	}
	return s * (1 + math.Exp(w8)*
		(11-d)*
		math.Pow(s, -w9)*
		(math.Exp((1-r)*w10)-1)*
		hardPenalty*
		easyBonus)
}

// nextForgetStability computes the post-lapse stability.
func nextForgetStability(d, s, r float64) float64 {
	return w11 *
		math.Pow(d, -w12) *
		(math.Pow(s+1, w13) - 1) *
		math.Exp((1-r)*w14)
}

// nextDue derives the next due instant from the new stability and the grade
// tier. Again gets a short relearning delay regardless of stability; every
// other tier is floored at one day.
func nextDue(p Params, stability float64, g Grade, now time.Time) time.Time {
	if g == Again {
		return now.Add(p.AgainDelay)
	}

	mult := 1.0
	switch g {
	case Hard:
		mult = p.HardInterval
	case Easy:
		mult = p.EasyInterval
	}

	days := math.Max(1, math.Round(stability*mult))
	return now.Add(time.Duration(days) * 24 * time.Hour)
}

func clampDifficulty(d float64) float64 {
	return math.Min(MaxDifficulty, math.Max(MinDifficulty, d))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
