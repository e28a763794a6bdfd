package syncer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pkoerner/revise/internal/apiclient"
	"github.com/pkoerner/revise/internal/fsrs"
	"github.com/pkoerner/revise/internal/journal"
	"github.com/pkoerner/revise/internal/logging"
)

type fakeRemote struct {
	mu             sync.Mutex
	reviewCalls    int
	upsertCalls    int
	reviewErr      error
	upsertErr      error
	lastGrade      int
	lastSessionID  string
	lastUpsertedID string
}

func (f *fakeRemote) CreateReview(ctx context.Context, sessionID, itemID string, grade int) (apiclient.ReviewRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reviewCalls++
	f.lastSessionID = sessionID
	f.lastGrade = grade
	if f.reviewErr != nil {
		return apiclient.ReviewRecord{}, f.reviewErr
	}
	return apiclient.ReviewRecord{ID: "r1", SessionID: sessionID, ItemID: itemID, Grade: grade}, nil
}

func (f *fakeRemote) UpsertSchedulerState(ctx context.Context, state fsrs.SchedulerState) (fsrs.SchedulerState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upsertCalls++
	f.lastUpsertedID = state.FlashcardID
	if f.upsertErr != nil {
		return fsrs.SchedulerState{}, f.upsertErr
	}
	return state, nil
}

type fakeJournal struct {
	mu      sync.Mutex
	entries []journal.Entry
}

func (f *fakeJournal) Append(ctx context.Context, e journal.Entry) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, e)
	return "id", nil
}

func (f *fakeJournal) MarkSynced(ctx context.Context, id string) error { return nil }

func newTestWriter(remote Remote, jnl ReviewJournal) *Writer {
	return New(remote, jnl, logging.Nop(), 2, time.Millisecond)
}

func TestRecordWritesReviewAndState(t *testing.T) {
	remote := &fakeRemote{}
	jnl := &fakeJournal{}
	w := newTestWriter(remote, jnl)

	state := fsrs.NewState("card-1", time.Now())
	w.Record("sess-1", state, 4, time.Now())
	w.Wait()

	if remote.reviewCalls != 1 || remote.upsertCalls != 1 {
		t.Errorf("expected 1 review + 1 upsert, got %d/%d", remote.reviewCalls, remote.upsertCalls)
	}
	if remote.lastGrade != 4 || remote.lastSessionID != "sess-1" || remote.lastUpsertedID != "card-1" {
		t.Errorf("unexpected write payload: %+v", remote)
	}
	if w.Status() != StatusIdle {
		t.Errorf("expected idle after drain, got %v", w.Status())
	}
	if len(jnl.entries) != 1 || !jnl.entries[0].Synced || !jnl.entries[0].Correct {
		t.Errorf("unexpected journal entries: %+v", jnl.entries)
	}
}

func TestEmptySessionSkipsReviewWrite(t *testing.T) {
	remote := &fakeRemote{}
	w := newTestWriter(remote, nil)

	w.Record("", fsrs.NewState("card-1", time.Now()), 3, time.Now())
	w.Wait()

	if remote.reviewCalls != 0 {
		t.Errorf("expected no review write without a session, got %d", remote.reviewCalls)
	}
	if remote.upsertCalls != 1 {
		t.Errorf("state upsert must still run, got %d", remote.upsertCalls)
	}
}

func TestRetriesAreBounded(t *testing.T) {
	remote := &fakeRemote{upsertErr: errors.New("unavailable")}
	jnl := &fakeJournal{}
	w := newTestWriter(remote, jnl)

	w.Record("", fsrs.NewState("card-1", time.Now()), 4, time.Now())
	w.Wait()

	// MaxRetries 2 means three total attempts, then give up.
	if remote.upsertCalls != 3 {
		t.Errorf("expected 3 attempts, got %d", remote.upsertCalls)
	}
	if w.Status() != StatusError {
		t.Errorf("expected error status, got %v", w.Status())
	}
	if len(jnl.entries) != 1 || jnl.entries[0].Synced {
		t.Errorf("failed write must journal as unsynced: %+v", jnl.entries)
	}
}

func TestErrorLatchClearsOnNextBatch(t *testing.T) {
	remote := &fakeRemote{upsertErr: errors.New("unavailable")}
	w := newTestWriter(remote, nil)

	w.Record("", fsrs.NewState("card-1", time.Now()), 4, time.Now())
	w.Wait()
	if w.Status() != StatusError {
		t.Fatalf("expected error status, got %v", w.Status())
	}

	remote.mu.Lock()
	remote.upsertErr = nil
	remote.mu.Unlock()

	// A new dispatch from a fully idle point starts a fresh batch.
	w.Record("", fsrs.NewState("card-2", time.Now()), 4, time.Now())
	w.Wait()
	if w.Status() != StatusIdle {
		t.Errorf("expected idle after clean batch, got %v", w.Status())
	}
}

func TestPartialFailureStillUpserts(t *testing.T) {
	remote := &fakeRemote{reviewErr: errors.New("review endpoint down")}
	w := newTestWriter(remote, nil)

	w.Record("sess-1", fsrs.NewState("card-1", time.Now()), 4, time.Now())
	w.Wait()

	if remote.upsertCalls < 1 {
		t.Error("state upsert must run even when the review write fails")
	}
	if w.Status() != StatusError {
		t.Errorf("expected error status, got %v", w.Status())
	}
}

func TestStatusSyncingWhileInFlight(t *testing.T) {
	block := make(chan struct{})
	remote := &blockingRemote{release: block}
	w := newTestWriter(remote, nil)

	w.Record("", fsrs.NewState("card-1", time.Now()), 4, time.Now())

	deadline := time.After(time.Second)
	for w.Status() != StatusSyncing {
		select {
		case <-deadline:
			t.Fatal("never observed syncing status")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	close(block)
	w.Wait()
	if w.Status() != StatusIdle {
		t.Errorf("expected idle after release, got %v", w.Status())
	}
}

type blockingRemote struct {
	release chan struct{}
}

func (b *blockingRemote) CreateReview(ctx context.Context, sessionID, itemID string, grade int) (apiclient.ReviewRecord, error) {
	return apiclient.ReviewRecord{}, nil
}

func (b *blockingRemote) UpsertSchedulerState(ctx context.Context, state fsrs.SchedulerState) (fsrs.SchedulerState, error) {
	<-b.release
	return state, nil
}
