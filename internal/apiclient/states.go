package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkoerner/revise/internal/fsrs"
)

// DefaultPageSize is the scheduler-state page size.
const DefaultPageSize = 500

// SchedulerStates fetches one page of the student's scheduler states.
// Unlike the hierarchy reads, this endpoint returns a bare array.
func (c *Client) SchedulerStates(ctx context.Context, limit, offset int) ([]fsrs.SchedulerState, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))

	var page []fsrs.SchedulerState
	if err := c.get(ctx, "/scheduler-states", q, &page); err != nil {
		return nil, err
	}
	return page, nil
}

// AllSchedulerStates pages through the full state set until a short page
// signals exhaustion. Cancellation propagates into every page request and
// aborts without returning a partial result.
func (c *Client) AllSchedulerStates(ctx context.Context) ([]fsrs.SchedulerState, error) {
	var all []fsrs.SchedulerState
	for offset := 0; ; offset += c.pageSize {
		page, err := c.SchedulerStates(ctx, c.pageSize, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < c.pageSize {
			return all, nil
		}
	}
}

// UpsertSchedulerState writes a card's new scheduler state. The server
// decides create-vs-update; partial field sets are permitted by the API but
// the engine always holds the full state, so it sends everything.
func (c *Client) UpsertSchedulerState(ctx context.Context, state fsrs.SchedulerState) (fsrs.SchedulerState, error) {
	var saved fsrs.SchedulerState
	if err := c.send(ctx, http.MethodPut, "/scheduler-states", state, &saved); err != nil {
		return fsrs.SchedulerState{}, err
	}
	return saved, nil
}
