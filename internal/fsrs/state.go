package fsrs

import "time"

// CardState is the lifecycle state of a card's memory schedule.
type CardState string

const (
	StateNew        CardState = "new"
	StateLearning   CardState = "learning"
	StateReview     CardState = "review"
	StateRelearning CardState = "relearning"
)

// SchedulerState is the per-flashcard memory state, one per student×card pair.
type SchedulerState struct {
	FlashcardID  string     `json:"flashcard_id"`
	Stability    float64    `json:"stability"`
	Difficulty   float64    `json:"difficulty"`
	DueAt        time.Time  `json:"due_at"`
	LastReviewAt *time.Time `json:"last_review_at,omitempty"`
	Reps         int        `json:"reps"`
	Lapses       int        `json:"lapses"`
	State        CardState  `json:"state"`
}

// NewState is the default constructor for a flashcard that has never been
// reviewed: state new, zero reps and lapses, due immediately.
func NewState(flashcardID string, now time.Time) SchedulerState {
	return SchedulerState{
		FlashcardID: flashcardID,
		State:       StateNew,
		DueAt:       now,
	}
}

// IsDue reports whether the card's stored due date has passed.
func (s SchedulerState) IsDue(now time.Time) bool {
	return s.State != StateNew && !s.DueAt.After(now)
}

// Grade is the internal 1–4 review grade used by the scheduling math.
type Grade int

const (
	Again Grade = 1
	Hard  Grade = 2
	Good  Grade = 3
	Easy  Grade = 4
)

// MapGrade converts the 0–5 UI grade to the internal scale. The raw UI value
// never reaches the scheduling math.
func MapGrade(uiGrade int) Grade {
	switch {
	case uiGrade <= 1:
		return Again
	case uiGrade == 2:
		return Hard
	case uiGrade <= 4:
		return Good
	default:
		return Easy
	}
}

// Passed reports whether the grade counts as a successful recall.
func (g Grade) Passed() bool {
	return g >= Good
}
