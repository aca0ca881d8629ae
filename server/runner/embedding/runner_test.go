package embedding

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lifeinbox/lifeinbox/internal/profile"
	"github.com/lifeinbox/lifeinbox/server/search/embedindex"
	"github.com/lifeinbox/lifeinbox/store"
	"github.com/lifeinbox/lifeinbox/store/db/sqlite"
)

// countingEmbedder fails for texts listed in failFor and counts calls.
type countingEmbedder struct {
	failFor map[string]bool
	calls   int
}

func (c *countingEmbedder) Embedding(_ context.Context, text string) ([]float32, error) {
	c.calls++
	if c.failFor[text] {
		return nil, fmt.Errorf("backend refused")
	}
	return []float32{1, 0, 0}, nil
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	driver, err := sqlite.NewDB(&profile.Profile{Mode: "dev", Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = driver.Close() })
	return store.New(driver, &profile.Profile{Mode: "dev"})
}

func seed(t *testing.T, st *store.Store, uid, content string) *store.Record {
	t.Helper()
	record, err := st.CreateRecord(context.Background(), &store.Record{
		UID:         uid,
		CreatorID:   1,
		Content:     content,
		ContentType: store.ContentTypeText,
		CreatedTs:   time.Now().Unix(),
	})
	require.NoError(t, err)
	return record
}

func TestRunOnceBackfillsMissingEmbeddings(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	a := seed(t, st, "a", "electricity bill")
	b := seed(t, st, "b", "dentist visit")

	embedder := &countingEmbedder{}
	runner, err := NewRunner(st, embedindex.NewIndex(embedder, "m1"), 2)
	require.NoError(t, err)
	defer runner.Close()

	runner.RunOnce(ctx)

	for _, record := range []*store.Record{a, b} {
		got, err := st.GetRecordEmbedding(ctx, record.ID, "m1")
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Equal(t, []float32{1, 0, 0}, got.Embedding)
	}

	// Nothing left to do: a second run embeds nothing.
	before := embedder.calls
	runner.RunOnce(ctx)
	require.Equal(t, before, embedder.calls)
}

func TestRunOnceSkipsFailedRecords(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	good := seed(t, st, "good", "electricity bill")
	bad := seed(t, st, "bad", "corrupted entry")

	embedder := &countingEmbedder{failFor: map[string]bool{"corrupted entry": true}}
	runner, err := NewRunner(st, embedindex.NewIndex(embedder, "m1"), 2)
	require.NoError(t, err)
	defer runner.Close()

	runner.RunOnce(ctx)

	got, err := st.GetRecordEmbedding(ctx, good.ID, "m1")
	require.NoError(t, err)
	require.NotNil(t, got)

	// The failed record stays unembedded and is picked up again next run.
	got, err = st.GetRecordEmbedding(ctx, bad.ID, "m1")
	require.NoError(t, err)
	require.Nil(t, got)

	missing, err := st.FindRecordsWithoutEmbeddingForModel(ctx, &store.FindRecordsWithoutEmbedding{Model: "m1", Limit: 10})
	require.NoError(t, err)
	require.Len(t, missing, 1)
	require.Equal(t, bad.ID, missing[0].ID)
}
