package session

import "time"

// Summary holds the statistics displayed when the queue is exhausted. It is
// computed from the in-memory grade sequence, so it survives a failed
// server-side session update.
type Summary struct {
	TotalReviews    int
	CorrectReviews  int
	DurationSeconds int
	Accuracy        float64
}

// BuildSummary reduces the session's grade sequence. A UI grade of 3 or
// higher counts as correct.
func BuildSummary(st *State, now time.Time) Summary {
	correct := 0
	for _, g := range st.Grades {
		if g >= 3 {
			correct++
		}
	}

	var accuracy float64
	if len(st.Grades) > 0 {
		accuracy = float64(correct) / float64(len(st.Grades))
	}

	return Summary{
		TotalReviews:    len(st.Grades),
		CorrectReviews:  correct,
		DurationSeconds: int(now.Sub(st.StartedAt).Seconds()),
		Accuracy:        accuracy,
	}
}
