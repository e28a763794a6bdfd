package apiclient

import (
	"context"
	"net/http"
	"time"
)

// InstrumentFlashcard is the instrument type recorded for flashcard reviews.
const InstrumentFlashcard = "flashcard"

type createSessionRequest struct {
	SessionType string `json:"session_type"`
	CourseID    string `json:"course_id,omitempty"`
}

// CreateSession opens a server-side study session and returns its id.
func (c *Client) CreateSession(ctx context.Context, sessionType, courseID string) (StudySession, error) {
	var s StudySession
	err := c.send(ctx, http.MethodPost, "/study-sessions", createSessionRequest{
		SessionType: sessionType,
		CourseID:    courseID,
	}, &s)
	if err != nil {
		return StudySession{}, err
	}
	return s, nil
}

// SessionUpdate carries the finalization fields; nil fields are left as-is
// by the server.
type SessionUpdate struct {
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	DurationSeconds *int       `json:"duration_seconds,omitempty"`
	TotalReviews    *int       `json:"total_reviews,omitempty"`
	CorrectReviews  *int       `json:"correct_reviews,omitempty"`
}

// UpdateSession finalizes a study session.
func (c *Client) UpdateSession(ctx context.Context, id string, upd SessionUpdate) (StudySession, error) {
	var s StudySession
	if err := c.send(ctx, http.MethodPatch, "/study-sessions/"+id, upd, &s); err != nil {
		return StudySession{}, err
	}
	return s, nil
}

type createReviewRequest struct {
	SessionID      string `json:"session_id"`
	ItemID         string `json:"item_id"`
	InstrumentType string `json:"instrument_type"`
	Grade          int    `json:"grade"`
}

// CreateReview records one graded review against a session.
func (c *Client) CreateReview(ctx context.Context, sessionID, itemID string, grade int) (ReviewRecord, error) {
	var r ReviewRecord
	err := c.send(ctx, http.MethodPost, "/reviews", createReviewRequest{
		SessionID:      sessionID,
		ItemID:         itemID,
		InstrumentType: InstrumentFlashcard,
		Grade:          grade,
	}, &r)
	if err != nil {
		return ReviewRecord{}, err
	}
	return r, nil
}
