// Package content flattens the curriculum hierarchy (semester → section →
// topic → summary) into the set of active flashcards for a course.
//
// Each level fans out concurrently over the previous level's results. A
// failed branch degrades to an empty result plus a warning: one broken topic
// must not hide flashcards under its siblings.
package content

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pkoerner/revise/internal/apiclient"
	"github.com/pkoerner/revise/internal/apierr"
)

// fanOutLimit caps concurrently in-flight requests per level.
const fanOutLimit = 8

// Source is the slice of the study API the aggregator needs.
type Source interface {
	Semesters(ctx context.Context, courseID string) ([]apiclient.Semester, error)
	Sections(ctx context.Context, semesterID string) ([]apiclient.Section, error)
	Topics(ctx context.Context, sectionID string) ([]apiclient.Topic, error)
	Summaries(ctx context.Context, topicID string) ([]apiclient.Summary, error)
	Flashcards(ctx context.Context, summaryID string) ([]apiclient.Flashcard, error)
}

// Result is the flattened card set plus any per-branch warnings.
type Result struct {
	Cards    []apiclient.Flashcard
	Warnings []string
}

// ProgressFunc receives a status line before each level's fan-out. It is
// called synchronously and has no effect on control flow.
type ProgressFunc func(status string)

// FetchAllFlashcards collects every active flashcard reachable under a
// course. The root semester fetch is terminal on failure; deeper levels
// isolate failures per branch. If any level comes back empty, aggregation
// short-circuits with an empty result.
func FetchAllFlashcards(ctx context.Context, src Source, courseID string, onProgress ProgressFunc) (Result, error) {
	progress := func(status string) {
		if onProgress != nil {
			onProgress(status)
		}
	}

	progress("Loading semesters...")
	semesters, err := src.Semesters(ctx, courseID)
	if err != nil {
		return Result{}, err
	}
	if len(semesters) == 0 {
		return Result{}, nil
	}

	var warnings []string

	progress("Loading sections...")
	sections, warns, err := fanOut(ctx, semesters, func(ctx context.Context, s apiclient.Semester) ([]apiclient.Section, error) {
		return src.Sections(ctx, s.ID)
	}, func(s apiclient.Semester, err error) string {
		return fmt.Sprintf("sections for semester %q: %s", labelOr(s.Name, s.ID), apierr.Message(err))
	})
	if err != nil {
		return Result{}, err
	}
	warnings = append(warnings, warns...)
	if len(sections) == 0 {
		return Result{Warnings: warnings}, nil
	}

	progress("Loading topics...")
	topics, warns, err := fanOut(ctx, sections, func(ctx context.Context, s apiclient.Section) ([]apiclient.Topic, error) {
		return src.Topics(ctx, s.ID)
	}, func(s apiclient.Section, err error) string {
		return fmt.Sprintf("topics for section %q: %s", labelOr(s.Name, s.ID), apierr.Message(err))
	})
	if err != nil {
		return Result{}, err
	}
	warnings = append(warnings, warns...)
	if len(topics) == 0 {
		return Result{Warnings: warnings}, nil
	}

	progress("Loading summaries...")
	summaries, warns, err := fanOut(ctx, topics, func(ctx context.Context, t apiclient.Topic) ([]apiclient.Summary, error) {
		return src.Summaries(ctx, t.ID)
	}, func(t apiclient.Topic, err error) string {
		return fmt.Sprintf("summaries for topic %q: %s", labelOr(t.Name, t.ID), apierr.Message(err))
	})
	if err != nil {
		return Result{}, err
	}
	warnings = append(warnings, warns...)
	if len(summaries) == 0 {
		return Result{Warnings: warnings}, nil
	}

	progress("Loading flashcards...")
	cards, warns, err := fanOut(ctx, summaries, func(ctx context.Context, s apiclient.Summary) ([]apiclient.Flashcard, error) {
		return src.Flashcards(ctx, s.ID)
	}, func(s apiclient.Summary, err error) string {
		return fmt.Sprintf("flashcards for summary %q: %s", labelOr(s.Name, s.ID), apierr.Message(err))
	})
	if err != nil {
		return Result{}, err
	}
	warnings = append(warnings, warns...)

	return Result{Cards: dedupeActive(cards), Warnings: warnings}, nil
}

// fanOut fetches children for every parent concurrently. Results keep parent
// order so downstream "aggregation order" is deterministic. Branch failures
// become warnings; cancellation aborts the whole level without warnings.
func fanOut[P, C any](
	ctx context.Context,
	parents []P,
	fetch func(ctx context.Context, parent P) ([]C, error),
	warn func(parent P, err error) string,
) ([]C, []string, error) {
	slots := make([][]C, len(parents))
	var (
		mu       sync.Mutex
		warnings []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit)

	for i, parent := range parents {
		g.Go(func() error {
			children, err := fetch(gctx, parent)
			if err != nil {
				if apierr.IsCanceled(err) || gctx.Err() != nil {
					// Propagated so the group context tears down siblings.
					return err
				}
				mu.Lock()
				warnings = append(warnings, warn(parent, err))
				mu.Unlock()
				return nil
			}
			slots[i] = children
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	var out []C
	for _, s := range slots {
		out = append(out, s...)
	}
	return out, warnings, nil
}

// dedupeActive drops duplicates by id (first occurrence wins) and inactive
// cards, preserving aggregation order.
func dedupeActive(cards []apiclient.Flashcard) []apiclient.Flashcard {
	seen := make(map[string]bool, len(cards))
	var out []apiclient.Flashcard
	for _, c := range cards {
		if !c.IsActive || seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		out = append(out, c)
	}
	return out
}

func labelOr(name, id string) string {
	if name != "" {
		return name
	}
	return id
}
