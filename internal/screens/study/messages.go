package study

import (
	"github.com/pkoerner/revise/internal/session"
)

// queueReadyMsg is sent when aggregation, state loading and queue building
// have settled. SessionID is empty when the best-effort session create
// failed.
type queueReadyMsg struct {
	Queue     []session.StudyCard
	Warnings  []string
	SessionID string
	Err       error
}

// advanceMsg fires after the post-grade pause to move on to the next card.
type advanceMsg struct{}
