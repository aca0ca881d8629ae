package sqlite

import (
	"context"
	"encoding/binary"
	"math"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/lifeinbox/lifeinbox/store"
)

// encodeVector serializes a float32 vector as a little-endian blob.
func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// decodeVector deserializes a little-endian blob into a float32 vector.
func decodeVector(buf []byte) []float32 {
	v := make([]float32, len(buf)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return v
}

// cosineSimilarity returns the cosine of the angle between a and b,
// or 0 when either vector has zero magnitude or dimensions differ.
func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

// UpsertRecordEmbedding inserts or updates a record embedding.
func (d *DB) UpsertRecordEmbedding(ctx context.Context, embedding *store.RecordEmbedding) (*store.RecordEmbedding, error) {
	stmt := `
		INSERT INTO record_embedding (record_id, embedding, model, created_ts, updated_ts)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (record_id, model)
		DO UPDATE SET
			embedding = excluded.embedding,
			updated_ts = excluded.updated_ts
		RETURNING id, created_ts, updated_ts
	`

	err := d.db.QueryRowContext(ctx, stmt,
		embedding.RecordID,
		encodeVector(embedding.Embedding),
		embedding.Model,
		embedding.CreatedTs,
		embedding.UpdatedTs,
	).Scan(&embedding.ID, &embedding.CreatedTs, &embedding.UpdatedTs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to upsert record embedding")
	}

	return embedding, nil
}

// ListRecordEmbeddings lists record embeddings.
func (d *DB) ListRecordEmbeddings(ctx context.Context, find *store.FindRecordEmbedding) ([]*store.RecordEmbedding, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.RecordID != nil {
		where, args = append(where, "record_id = ?"), append(args, *find.RecordID)
	}
	if find.Model != nil {
		where, args = append(where, "model = ?"), append(args, *find.Model)
	}

	query := `
		SELECT id, record_id, embedding, model, created_ts, updated_ts
		FROM record_embedding
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts DESC
	`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list record embeddings")
	}
	defer rows.Close()

	list := []*store.RecordEmbedding{}
	for rows.Next() {
		var embedding store.RecordEmbedding
		var blob []byte
		if err := rows.Scan(
			&embedding.ID,
			&embedding.RecordID,
			&blob,
			&embedding.Model,
			&embedding.CreatedTs,
			&embedding.UpdatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan record embedding")
		}
		embedding.Embedding = decodeVector(blob)
		list = append(list, &embedding)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

// DeleteRecordEmbedding deletes all embeddings of a record.
func (d *DB) DeleteRecordEmbedding(ctx context.Context, recordID int32) error {
	stmt := `DELETE FROM record_embedding WHERE record_id = ?`
	if _, err := d.db.ExecContext(ctx, stmt, recordID); err != nil {
		return errors.Wrap(err, "failed to delete record embedding")
	}
	return nil
}

// VectorSearch scans the user's embeddings and ranks them by cosine similarity
// in-process. SQLite has no vector index; this is a full scan over one user's
// rows, acceptable at personal-inbox scale.
func (d *DB) VectorSearch(ctx context.Context, opts *store.VectorSearchOptions) ([]*store.RecordWithScore, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT
			r.id, r.uid, r.creator_id, r.content, r.summary, r.category, r.content_type, r.created_ts,
			e.embedding
		FROM record r
		INNER JOIN record_embedding e ON r.id = e.record_id
		WHERE r.creator_id = ? AND e.model = ?
	`

	rows, err := d.db.QueryContext(ctx, query, opts.CreatorID, opts.Model)
	if err != nil {
		return nil, errors.Wrap(err, "failed to vector search")
	}
	defer rows.Close()

	results := []*store.RecordWithScore{}
	for rows.Next() {
		var record store.Record
		var blob []byte
		if err := rows.Scan(
			&record.ID,
			&record.UID,
			&record.CreatorID,
			&record.Content,
			&record.Summary,
			&record.Category,
			&record.ContentType,
			&record.CreatedTs,
			&blob,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan vector search result")
		}
		results = append(results, &store.RecordWithScore{
			Record: &record,
			Score:  cosineSimilarity(opts.Vector, decodeVector(blob)),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// FindRecordsWithoutEmbedding finds records missing an embedding for the model.
func (d *DB) FindRecordsWithoutEmbedding(ctx context.Context, find *store.FindRecordsWithoutEmbedding) ([]*store.Record, error) {
	limit := find.Limit
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT
			r.id, r.uid, r.creator_id, r.content, r.summary, r.category, r.content_type, r.created_ts
		FROM record r
		LEFT JOIN record_embedding e ON r.id = e.record_id AND e.model = ?
		WHERE e.id IS NULL
			AND LENGTH(r.content) > 0
		ORDER BY r.created_ts DESC
		LIMIT ?
	`

	rows, err := d.db.QueryContext(ctx, query, find.Model, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find records without embedding")
	}
	defer rows.Close()

	list := []*store.Record{}
	for rows.Next() {
		var record store.Record
		if err := rows.Scan(
			&record.ID,
			&record.UID,
			&record.CreatorID,
			&record.Content,
			&record.Summary,
			&record.Category,
			&record.ContentType,
			&record.CreatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan record")
		}
		list = append(list, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}
