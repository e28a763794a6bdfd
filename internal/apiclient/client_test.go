package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkoerner/revise/internal/apierr"
	"github.com/pkoerner/revise/internal/fsrs"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL, Token: "secret", Timeout: 5 * time.Second}), srv
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func TestCoursesSendsBearerToken(t *testing.T) {
	var gotAuth string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(t, w, map[string]any{"items": []Course{{ID: "c1", Name: "Biology"}}})
	}))

	courses, err := c.Courses(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("expected bearer auth, got %q", gotAuth)
	}
	if len(courses) != 1 || courses[0].Name != "Biology" {
		t.Errorf("unexpected courses: %+v", courses)
	}
}

func TestMissingItemsFieldIsEmptyResult(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{})
	}))

	cards, err := c.Flashcards(context.Background(), "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cards) != 0 {
		t.Errorf("expected empty result, got %+v", cards)
	}
}

func TestHierarchyFilterQuery(t *testing.T) {
	var gotQuery string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("semester_id")
		writeJSON(t, w, map[string]any{"items": []Section{}})
	}))

	if _, err := c.Sections(context.Background(), "sem-9"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "sem-9" {
		t.Errorf("expected semester_id=sem-9, got %q", gotQuery)
	}
}

func TestNonSuccessStatusIsError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := c.Courses(context.Background())
	var serr *StatusError
	if !errors.As(err, &serr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if serr.Status != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", serr.Status)
	}
}

func TestAllSchedulerStatesPaginates(t *testing.T) {
	const pageSize = 2
	states := make([]fsrs.SchedulerState, 5)
	for i := range states {
		states[i] = fsrs.NewState(fmt.Sprintf("card-%d", i), time.Now())
	}

	var requests [][2]string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		requests = append(requests, [2]string{q.Get("limit"), q.Get("offset")})

		offset := 0
		fmt.Sscanf(q.Get("offset"), "%d", &offset)
		end := offset + pageSize
		if end > len(states) {
			end = len(states)
		}
		if offset > len(states) {
			offset = len(states)
		}
		writeJSON(t, w, states[offset:end])
	}))
	c.SetPageSize(pageSize)

	all, err := c.AllSchedulerStates(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected 5 states, got %d", len(all))
	}
	// Pages of 2, 2, 1; the short page stops the loop.
	if len(requests) != 3 {
		t.Fatalf("expected 3 page requests, got %d: %v", len(requests), requests)
	}
	wantOffsets := []string{"0", "2", "4"}
	for i, req := range requests {
		if req[0] != "2" || req[1] != wantOffsets[i] {
			t.Errorf("request %d: got limit=%s offset=%s, want limit=2 offset=%s", i, req[0], req[1], wantOffsets[i])
		}
	}
	for i, s := range all {
		want := fmt.Sprintf("card-%d", i)
		if s.FlashcardID != want {
			t.Errorf("state %d: got %q, want %q", i, s.FlashcardID, want)
		}
	}
}

func TestAllSchedulerStatesFullFinalPage(t *testing.T) {
	const pageSize = 2
	states := make([]fsrs.SchedulerState, 4)
	for i := range states {
		states[i] = fsrs.NewState(fmt.Sprintf("card-%d", i), time.Now())
	}

	pages := 0
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages++
		offset := 0
		fmt.Sscanf(r.URL.Query().Get("offset"), "%d", &offset)
		end := offset + pageSize
		if offset > len(states) {
			offset = len(states)
		}
		if end > len(states) {
			end = len(states)
		}
		writeJSON(t, w, states[offset:end])
	}))
	c.SetPageSize(pageSize)

	all, err := c.AllSchedulerStates(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("expected 4 states, got %d", len(all))
	}
	// A full final page needs one extra empty page to detect exhaustion.
	if pages != 3 {
		t.Errorf("expected 3 page requests, got %d", pages)
	}
}

func TestAllSchedulerStatesNoPartialOnError(t *testing.T) {
	page := 0
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page++
		if page == 2 {
			http.Error(w, "boom", http.StatusBadGateway)
			return
		}
		states := []fsrs.SchedulerState{
			fsrs.NewState("a", time.Now()),
			fsrs.NewState("b", time.Now()),
		}
		writeJSON(t, w, states)
	}))
	c.SetPageSize(2)

	all, err := c.AllSchedulerStates(context.Background())
	if err == nil {
		t.Fatal("expected error from failed page")
	}
	if all != nil {
		t.Errorf("expected no partial result, got %d states", len(all))
	}
}

func TestCanceledRequestClassifiesAsCancellation(t *testing.T) {
	started := make(chan struct{})
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := c.Courses(ctx)
	if err == nil {
		t.Fatal("expected error")
	}
	if !apierr.IsCanceled(err) {
		t.Errorf("expected cancellation classification, got %v", err)
	}
}

func TestUpsertSchedulerStateUsesPut(t *testing.T) {
	var gotMethod, gotPath string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		var st fsrs.SchedulerState
		json.NewDecoder(r.Body).Decode(&st)
		writeJSON(t, w, st)
	}))

	in := fsrs.NewState("card-1", time.Now())
	out, err := c.UpsertSchedulerState(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/scheduler-states" {
		t.Errorf("got %s %s, want PUT /scheduler-states", gotMethod, gotPath)
	}
	if out.FlashcardID != "card-1" {
		t.Errorf("unexpected echo: %+v", out)
	}
}

func TestCreateReviewPayload(t *testing.T) {
	var got createReviewRequest
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		writeJSON(t, w, ReviewRecord{ID: "r1", SessionID: got.SessionID})
	}))

	rec, err := c.CreateReview(context.Background(), "sess-1", "card-1", 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.InstrumentType != InstrumentFlashcard {
		t.Errorf("expected instrument %q, got %q", InstrumentFlashcard, got.InstrumentType)
	}
	if got.SessionID != "sess-1" || got.ItemID != "card-1" || got.Grade != 4 {
		t.Errorf("unexpected payload: %+v", got)
	}
	if rec.ID != "r1" {
		t.Errorf("unexpected record: %+v", rec)
	}
}

func TestCreateAndUpdateSession(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/study-sessions":
			var req createSessionRequest
			json.NewDecoder(r.Body).Decode(&req)
			writeJSON(t, w, StudySession{ID: "sess-1", SessionType: req.SessionType, CourseID: req.CourseID})
		case r.Method == http.MethodPatch && r.URL.Path == "/study-sessions/sess-1":
			var upd SessionUpdate
			json.NewDecoder(r.Body).Decode(&upd)
			writeJSON(t, w, StudySession{ID: "sess-1", TotalReviews: *upd.TotalReviews})
		default:
			http.NotFound(w, r)
		}
	}))

	sess, err := c.CreateSession(context.Background(), "flashcards", "course-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if sess.ID != "sess-1" || sess.CourseID != "course-1" {
		t.Errorf("unexpected session: %+v", sess)
	}

	total := 12
	updated, err := c.UpdateSession(context.Background(), sess.ID, SessionUpdate{TotalReviews: &total})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.TotalReviews != 12 {
		t.Errorf("expected 12 reviews, got %d", updated.TotalReviews)
	}
}
