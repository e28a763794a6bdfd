package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "revise.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestAppendAndRecent(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()
	base := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := j.Append(ctx, Entry{
			SessionID:   "sess-1",
			FlashcardID: "card",
			Grade:       3 + i,
			Correct:     true,
			ReviewedAt:  base.Add(time.Duration(i) * time.Minute),
			Synced:      i%2 == 0,
		})
		require.NoError(t, err)
	}

	recent, err := j.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	// Newest first.
	require.Equal(t, 5, recent[0].Grade)
	require.Equal(t, 4, recent[1].Grade)
	require.False(t, recent[1].Synced)
}

func TestAppendGeneratesID(t *testing.T) {
	j := openTestJournal(t)
	id, err := j.Append(context.Background(), Entry{FlashcardID: "c1", Grade: 4, Correct: true, ReviewedAt: time.Now()})
	require.NoError(t, err)
	require.NotEmpty(t, id)
}

func TestCountSince(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()
	now := time.Now()

	entries := []Entry{
		{FlashcardID: "a", Grade: 5, Correct: true, ReviewedAt: now.Add(-time.Hour)},
		{FlashcardID: "b", Grade: 1, Correct: false, ReviewedAt: now.Add(-2 * time.Hour)},
		{FlashcardID: "c", Grade: 4, Correct: true, ReviewedAt: now.Add(-48 * time.Hour)},
	}
	for _, e := range entries {
		_, err := j.Append(ctx, e)
		require.NoError(t, err)
	}

	total, correct, err := j.CountSince(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Equal(t, 1, correct)
}

func TestMarkSyncedAndUnsyncedCount(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	id, err := j.Append(ctx, Entry{FlashcardID: "a", Grade: 2, ReviewedAt: time.Now(), Synced: false})
	require.NoError(t, err)
	_, err = j.Append(ctx, Entry{FlashcardID: "b", Grade: 4, Correct: true, ReviewedAt: time.Now(), Synced: true})
	require.NoError(t, err)

	n, err := j.UnsyncedCount(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	require.NoError(t, j.MarkSynced(ctx, id))

	n, err = j.UnsyncedCount(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, n)
}
