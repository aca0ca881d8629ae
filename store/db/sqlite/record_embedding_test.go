package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lifeinbox/lifeinbox/internal/profile"
	"github.com/lifeinbox/lifeinbox/store"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	driver, err := NewDB(&profile.Profile{Mode: "dev", Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = driver.Close() })
	return driver.(*DB)
}

func TestVectorCodecRoundTrip(t *testing.T) {
	v := []float32{0.1, -2.5, 3.75, 0}
	require.Equal(t, v, decodeVector(encodeVector(v)))
	require.Empty(t, decodeVector(nil))
}

func TestCosineSimilarity(t *testing.T) {
	a := []float32{1, 2, 3}
	require.InDelta(t, 1.0, cosineSimilarity(a, a), 1e-6)
	require.InDelta(t, 0.0, cosineSimilarity(a, []float32{0, 0, 0}), 1e-6)
	require.Zero(t, cosineSimilarity(a, []float32{1, 2}))
	require.InDelta(t, -1.0, cosineSimilarity(a, []float32{-1, -2, -3}), 1e-6)
}

func TestEmbeddingLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Now().Unix()

	record, err := db.CreateRecord(ctx, &store.Record{
		UID:         "r1",
		CreatorID:   1,
		Content:     "electricity bill due December 1st",
		Category:    "finance",
		ContentType: store.ContentTypeText,
		CreatedTs:   now,
	})
	require.NoError(t, err)

	// Record shows up as missing an embedding until one is upserted.
	missing, err := db.FindRecordsWithoutEmbedding(ctx, &store.FindRecordsWithoutEmbedding{Model: "m1", Limit: 10})
	require.NoError(t, err)
	require.Len(t, missing, 1)

	_, err = db.UpsertRecordEmbedding(ctx, &store.RecordEmbedding{
		RecordID:  record.ID,
		Embedding: []float32{1, 0, 0},
		Model:     "m1",
		CreatedTs: now,
		UpdatedTs: now,
	})
	require.NoError(t, err)

	missing, err = db.FindRecordsWithoutEmbedding(ctx, &store.FindRecordsWithoutEmbedding{Model: "m1", Limit: 10})
	require.NoError(t, err)
	require.Empty(t, missing)

	// A different model still sees the record as unembedded.
	missing, err = db.FindRecordsWithoutEmbedding(ctx, &store.FindRecordsWithoutEmbedding{Model: "m2", Limit: 10})
	require.NoError(t, err)
	require.Len(t, missing, 1)

	results, err := db.VectorSearch(ctx, &store.VectorSearchOptions{
		CreatorID: 1,
		Vector:    []float32{1, 0, 0},
		Model:     "m1",
		Limit:     5,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.InDelta(t, 1.0, float64(results[0].Score), 1e-6)

	// Model filter keeps vectors from different models out of one comparison.
	results, err = db.VectorSearch(ctx, &store.VectorSearchOptions{
		CreatorID: 1,
		Vector:    []float32{1, 0, 0},
		Model:     "m2",
		Limit:     5,
	})
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestListRecentCategories(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for i, category := range []string{"finance", "health", "finance"} {
		_, err := db.CreateRecord(ctx, &store.Record{
			UID:         "c" + string(rune('a'+i)),
			CreatorID:   7,
			Content:     "note",
			Category:    category,
			ContentType: store.ContentTypeText,
			CreatedTs:   int64(100 + i),
		})
		require.NoError(t, err)
	}

	categories, err := db.ListRecentCategories(ctx, 7, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"finance", "health"}, categories)
}
