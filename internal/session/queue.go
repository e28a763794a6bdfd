package session

import (
	"sort"
	"time"

	"github.com/pkoerner/revise/internal/apiclient"
	"github.com/pkoerner/revise/internal/fsrs"
)

// DefaultNewCardCap bounds new-card intake per session. Fixed upstream with
// no documented tuning rationale; overridable via config.
const DefaultNewCardCap = 20

// BuildQueue merges flashcards with their stored scheduler states and
// selects the study set: every due non-new card plus the first newCardCap
// new cards in aggregation order. Cards with no stored state are seeded as
// new via the explicit default constructor.
//
// Ordering: non-new cards first, most overdue first; new cards keep
// aggregation order.
func BuildQueue(cards []apiclient.Flashcard, states []fsrs.SchedulerState, now time.Time, newCardCap int) []StudyCard {
	byID := make(map[string]fsrs.SchedulerState, len(states))
	for _, s := range states {
		byID[s.FlashcardID] = s
	}

	var due, fresh []StudyCard
	for _, card := range cards {
		state, ok := byID[card.ID]
		if !ok {
			state = fsrs.NewState(card.ID, now)
		}

		sc := StudyCard{Card: card, State: state}
		switch {
		case state.State == fsrs.StateNew:
			if len(fresh) < newCardCap {
				fresh = append(fresh, sc)
			}
		case state.IsDue(now):
			due = append(due, sc)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].State.DueAt.Before(due[j].State.DueAt)
	})

	return append(due, fresh...)
}
