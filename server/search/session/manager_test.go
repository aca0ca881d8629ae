package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lifeinbox/lifeinbox/server/search/ranking"
	"github.com/lifeinbox/lifeinbox/store"
)

func makeResults(n int) []ranking.RankedResult {
	results := make([]ranking.RankedResult, 0, n)
	for i := 1; i <= n; i++ {
		results = append(results, ranking.RankedResult{
			Record: &store.Record{
				ID:      int32(i),
				Content: fmt.Sprintf("record %d", i),
			},
			Score:    1 - float64(i)*0.01,
			Strategy: ranking.StrategyLexical,
		})
	}
	return results
}

func TestPaginationWalk(t *testing.T) {
	ctx := context.Background()
	manager := NewManager(NewMemoryStore(), 5, time.Minute)

	// 12 results at page size 5 means 3 pages: 5, 5, 2.
	window, err := manager.Begin(ctx, 1, "bills", "telegram", makeResults(12))
	require.NoError(t, err)
	require.Len(t, window.Results, 5)
	require.Equal(t, 0, window.Offset)
	require.Equal(t, 12, window.Total)
	require.True(t, window.HasMore)
	require.Equal(t, int32(1), window.Results[0].Record.ID)

	window, err = manager.Advance(ctx, 1)
	require.NoError(t, err)
	require.Len(t, window.Results, 5)
	require.Equal(t, 5, window.Offset)
	require.True(t, window.HasMore)
	require.Equal(t, int32(6), window.Results[0].Record.ID)

	window, err = manager.Advance(ctx, 1)
	require.NoError(t, err)
	require.Len(t, window.Results, 2)
	require.Equal(t, 10, window.Offset)
	require.False(t, window.HasMore)
	require.Equal(t, int32(12), window.Results[1].Record.ID)

	// A further advance is the explicit end-of-results condition, and the
	// session is gone afterwards.
	_, err = manager.Advance(ctx, 1)
	require.ErrorIs(t, err, ErrExhausted)

	_, err = manager.Advance(ctx, 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestBeginSinglePageThenEndOfResults(t *testing.T) {
	ctx := context.Background()
	memory := NewMemoryStore()
	manager := NewManager(memory, 5, time.Minute)

	window, err := manager.Begin(ctx, 1, "bills", "telegram", makeResults(3))
	require.NoError(t, err)
	require.Len(t, window.Results, 3)
	require.False(t, window.HasMore)
	require.Equal(t, 1, memory.Len())

	// The session survives the single page, so the next advance is the
	// explicit end-of-results condition rather than an absent session.
	_, err = manager.Advance(ctx, 1)
	require.ErrorIs(t, err, ErrExhausted)

	_, err = manager.Advance(ctx, 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestBeginReplacesPriorSession(t *testing.T) {
	ctx := context.Background()
	manager := NewManager(NewMemoryStore(), 5, time.Minute)

	_, err := manager.Begin(ctx, 1, "bills", "telegram", makeResults(12))
	require.NoError(t, err)

	_, err = manager.Begin(ctx, 1, "receipts", "telegram", makeResults(8))
	require.NoError(t, err)

	window, err := manager.Advance(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "receipts", window.Query)
	require.Equal(t, 8, window.Total)
}

func TestAdvanceExpiry(t *testing.T) {
	ctx := context.Background()
	current := time.Date(2024, 12, 4, 12, 0, 0, 0, time.UTC)
	manager := NewManager(NewMemoryStore(), 5, 10*time.Minute).
		WithClock(func() time.Time { return current })

	_, err := manager.Begin(ctx, 1, "bills", "telegram", makeResults(12))
	require.NoError(t, err)

	// Just inside the idle timeout still works and refreshes the clock.
	current = current.Add(9 * time.Minute)
	_, err = manager.Advance(ctx, 1)
	require.NoError(t, err)

	// The refresh means another 9 minutes is still fine.
	current = current.Add(9 * time.Minute)
	_, err = manager.Advance(ctx, 1)
	require.NoError(t, err)

	current = current.Add(11 * time.Minute)
	_, err = manager.Advance(ctx, 1)
	require.ErrorIs(t, err, ErrExpired)

	// Expiry deletes the session, so the next attempt is absent, not expired.
	_, err = manager.Advance(ctx, 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSessionsAreIsolatedPerUser(t *testing.T) {
	ctx := context.Background()
	manager := NewManager(NewMemoryStore(), 5, time.Minute)

	_, err := manager.Begin(ctx, 1, "bills", "telegram", makeResults(12))
	require.NoError(t, err)
	_, err = manager.Begin(ctx, 2, "receipts", "web", makeResults(7))
	require.NoError(t, err)

	window, err := manager.Advance(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, "receipts", window.Query)
	require.Len(t, window.Results, 2)

	window, err = manager.Advance(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "bills", window.Query)
}

func TestMemoryStoreSweep(t *testing.T) {
	ctx := context.Background()
	memory := NewMemoryStore()

	now := time.Date(2024, 12, 4, 12, 0, 0, 0, time.UTC)
	require.NoError(t, memory.Put(ctx, 1, &Session{UserID: 1, LastAccessTs: now.Add(-20 * time.Minute).Unix()}))
	require.NoError(t, memory.Put(ctx, 2, &Session{UserID: 2, LastAccessTs: now.Unix()}))

	removed, err := memory.Sweep(ctx, now.Add(-10*time.Minute))
	require.NoError(t, err)
	require.Equal(t, 1, removed)
	require.Equal(t, 1, memory.Len())

	_, err = memory.Get(ctx, 1)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = memory.Get(ctx, 2)
	require.NoError(t, err)
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	memory := NewMemoryStore()

	require.NoError(t, memory.Put(ctx, 1, &Session{UserID: 1, Offset: 5}))

	got, err := memory.Get(ctx, 1)
	require.NoError(t, err)
	got.Offset = 99

	again, err := memory.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 5, again.Offset)
}
