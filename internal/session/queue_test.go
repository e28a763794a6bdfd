package session

import (
	"fmt"
	"testing"
	"time"

	"github.com/pkoerner/revise/internal/apiclient"
	"github.com/pkoerner/revise/internal/fsrs"
)

var qNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func card(id string) apiclient.Flashcard {
	return apiclient.Flashcard{ID: id, Front: "f", Back: "b", IsActive: true}
}

func reviewDue(id string, due time.Time) fsrs.SchedulerState {
	last := due.AddDate(0, 0, -3)
	return fsrs.SchedulerState{
		FlashcardID:  id,
		Stability:    3,
		Difficulty:   5,
		DueAt:        due,
		LastReviewAt: &last,
		Reps:         2,
		State:        fsrs.StateReview,
	}
}

func queueIDs(q []StudyCard) []string {
	out := make([]string, len(q))
	for i, sc := range q {
		out[i] = sc.Card.ID
	}
	return out
}

func TestBuildQueueDueBeforeNew(t *testing.T) {
	cards := []apiclient.Flashcard{card("new1"), card("due1"), card("new2")}
	states := []fsrs.SchedulerState{reviewDue("due1", qNow.Add(-time.Hour))}

	q := BuildQueue(cards, states, qNow, DefaultNewCardCap)
	got := queueIDs(q)
	want := []string{"due1", "new1", "new2"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestBuildQueueDueSortedMostOverdueFirst(t *testing.T) {
	cards := []apiclient.Flashcard{card("a"), card("b"), card("c")}
	states := []fsrs.SchedulerState{
		reviewDue("a", qNow.Add(-time.Hour)),
		reviewDue("b", qNow.Add(-72*time.Hour)),
		reviewDue("c", qNow.Add(-24*time.Hour)),
	}

	q := BuildQueue(cards, states, qNow, DefaultNewCardCap)
	got := queueIDs(q)
	want := []string{"b", "c", "a"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestBuildQueueNotDueExcluded(t *testing.T) {
	cards := []apiclient.Flashcard{card("future")}
	states := []fsrs.SchedulerState{reviewDue("future", qNow.Add(48*time.Hour))}

	q := BuildQueue(cards, states, qNow, DefaultNewCardCap)
	if len(q) != 0 {
		t.Errorf("expected empty queue, got %v", queueIDs(q))
	}
}

func TestBuildQueueNewCardCap(t *testing.T) {
	var cards []apiclient.Flashcard
	for i := 0; i < 30; i++ {
		cards = append(cards, card(fmt.Sprintf("n%02d", i)))
	}

	q := BuildQueue(cards, nil, qNow, 20)
	if len(q) != 20 {
		t.Fatalf("expected 20 new cards, got %d", len(q))
	}
	// The cap keeps the first cards in aggregation order.
	if q[0].Card.ID != "n00" || q[19].Card.ID != "n19" {
		t.Errorf("cap should keep aggregation order, got first=%s last=%s", q[0].Card.ID, q[19].Card.ID)
	}
}

func TestBuildQueueCapDoesNotLimitDueCards(t *testing.T) {
	var cards []apiclient.Flashcard
	var states []fsrs.SchedulerState
	for i := 0; i < 25; i++ {
		id := fmt.Sprintf("d%02d", i)
		cards = append(cards, card(id))
		states = append(states, reviewDue(id, qNow.Add(-time.Hour)))
	}

	q := BuildQueue(cards, states, qNow, 5)
	if len(q) != 25 {
		t.Errorf("due cards must not be capped, got %d", len(q))
	}
}

func TestBuildQueueSeedsMissingState(t *testing.T) {
	q := BuildQueue([]apiclient.Flashcard{card("x")}, nil, qNow, DefaultNewCardCap)
	if len(q) != 1 {
		t.Fatalf("expected 1 card, got %d", len(q))
	}
	st := q[0].State
	if st.State != fsrs.StateNew || st.Reps != 0 || st.Lapses != 0 || st.FlashcardID != "x" {
		t.Errorf("unexpected seeded state: %+v", st)
	}
}
