// Package syncer records graded reviews in the background. Each grade
// triggers two remote writes (review record and scheduler-state upsert),
// both retried a bounded number of times, without ever blocking the UI
// transition to the next card. Outcomes surface only through a tri-state
// sync indicator.
package syncer

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/pkoerner/revise/internal/apiclient"
	"github.com/pkoerner/revise/internal/fsrs"
	"github.com/pkoerner/revise/internal/journal"
	"github.com/pkoerner/revise/internal/retry"
)

// Remote is the slice of the study API the writer needs.
type Remote interface {
	CreateReview(ctx context.Context, sessionID, itemID string, grade int) (apiclient.ReviewRecord, error)
	UpsertSchedulerState(ctx context.Context, state fsrs.SchedulerState) (fsrs.SchedulerState, error)
}

// ReviewJournal is the local trace; satisfied by *journal.Journal.
type ReviewJournal interface {
	Append(ctx context.Context, e journal.Entry) (string, error)
	MarkSynced(ctx context.Context, id string) error
}

// Status is the externally observable sync state.
type Status int

const (
	StatusIdle Status = iota
	StatusSyncing
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusSyncing:
		return "syncing"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Writer dispatches background persistence for graded cards.
type Writer struct {
	remote  Remote
	journal ReviewJournal
	log     *zap.SugaredLogger

	maxRetries int
	baseDelay  time.Duration

	pending atomic.Int64
	failed  atomic.Int64
	wg      sync.WaitGroup
}

// New creates a Writer. journal may be nil.
func New(remote Remote, jnl ReviewJournal, log *zap.SugaredLogger, maxRetries int, baseDelay time.Duration) *Writer {
	return &Writer{
		remote:     remote,
		journal:    jnl,
		log:        log,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
	}
}

// Record fires off the background writes for one graded card and returns
// immediately. sessionID may be empty when no server session was obtained;
// the review record is skipped then, the state upsert still runs.
//
// The writes deliberately use a fresh background context: navigation away
// must not abandon them.
func (w *Writer) Record(sessionID string, state fsrs.SchedulerState, uiGrade int, reviewedAt time.Time) {
	// A dispatch from a fully idle point starts a new batch; the error
	// latch from the previous batch is cleared.
	if w.pending.Load() == 0 {
		w.failed.Store(0)
	}

	w.pending.Add(1)
	w.wg.Add(1)

	go func() {
		defer w.wg.Done()
		defer w.pending.Add(-1)

		ctx := context.Background()
		ok := true

		if sessionID != "" {
			_, err := retry.Do(ctx, w.retryConfig("create review"), func(ctx context.Context) (apiclient.ReviewRecord, error) {
				return w.remote.CreateReview(ctx, sessionID, state.FlashcardID, uiGrade)
			})
			if err != nil {
				ok = false
				w.log.Warnw("review write failed after retries",
					"flashcard_id", state.FlashcardID, "error", err)
			}
		}

		_, err := retry.Do(ctx, w.retryConfig("upsert scheduler state"), func(ctx context.Context) (fsrs.SchedulerState, error) {
			return w.remote.UpsertSchedulerState(ctx, state)
		})
		if err != nil {
			ok = false
			w.log.Warnw("scheduler state write failed after retries",
				"flashcard_id", state.FlashcardID, "error", err)
		}

		if !ok {
			w.failed.Add(1)
		}

		if w.journal != nil {
			_, jerr := w.journal.Append(ctx, journal.Entry{
				SessionID:   sessionID,
				FlashcardID: state.FlashcardID,
				Grade:       uiGrade,
				Correct:     uiGrade >= 3,
				ReviewedAt:  reviewedAt,
				Synced:      ok,
			})
			if jerr != nil {
				w.log.Warnw("journal append failed", "flashcard_id", state.FlashcardID, "error", jerr)
			}
		}
	}()
}

// Status derives the tri-state indicator: syncing while writes are in
// flight, error if any write in the current batch exhausted its retries,
// idle otherwise.
func (w *Writer) Status() Status {
	if w.pending.Load() > 0 {
		return StatusSyncing
	}
	if w.failed.Load() > 0 {
		return StatusError
	}
	return StatusIdle
}

// Wait blocks until every outstanding write has settled. Called on
// shutdown; normal operation never cancels background writes.
func (w *Writer) Wait() {
	w.wg.Wait()
}

func (w *Writer) retryConfig(label string) retry.Config {
	return retry.Config{MaxRetries: w.maxRetries, BaseDelay: w.baseDelay, Label: label}
}
