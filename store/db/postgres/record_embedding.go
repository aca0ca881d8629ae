package postgres

import (
	"context"
	"strings"

	"github.com/pgvector/pgvector-go"
	"github.com/pkg/errors"

	"github.com/lifeinbox/lifeinbox/store"
)

// UpsertRecordEmbedding inserts or updates a record embedding.
func (d *DB) UpsertRecordEmbedding(ctx context.Context, embedding *store.RecordEmbedding) (*store.RecordEmbedding, error) {
	stmt := `
		INSERT INTO record_embedding (record_id, embedding, model, created_ts, updated_ts)
		VALUES (` + placeholders(5) + `)
		ON CONFLICT (record_id, model)
		DO UPDATE SET
			embedding = EXCLUDED.embedding,
			updated_ts = EXCLUDED.updated_ts
		RETURNING id, created_ts, updated_ts
	`

	vector := pgvector.NewVector(embedding.Embedding)
	err := d.db.QueryRowContext(ctx, stmt,
		embedding.RecordID,
		vector,
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
		where, args = append(where, "record_id = "+placeholder(len(args)+1)), append(args, *find.RecordID)
	}
	if find.Model != nil {
		where, args = append(where, "model = "+placeholder(len(args)+1)), append(args, *find.Model)
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
		var vector pgvector.Vector
		if err := rows.Scan(
			&embedding.ID,
			&embedding.RecordID,
			&vector,
			&embedding.Model,
			&embedding.CreatedTs,
			&embedding.UpdatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan record embedding")
		}
		embedding.Embedding = vector.Slice()
		list = append(list, &embedding)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

// DeleteRecordEmbedding deletes all embeddings of a record.
func (d *DB) DeleteRecordEmbedding(ctx context.Context, recordID int32) error {
	stmt := `DELETE FROM record_embedding WHERE record_id = ` + placeholder(1)
	if _, err := d.db.ExecContext(ctx, stmt, recordID); err != nil {
		return errors.Wrap(err, "failed to delete record embedding")
	}
	return nil
}

// VectorSearch performs vector similarity search using pgvector.
// The <=> operator computes cosine distance (1 - cosine_similarity),
// so ordering by distance ASC yields the most similar records first.
func (d *DB) VectorSearch(ctx context.Context, opts *store.VectorSearchOptions) ([]*store.RecordWithScore, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT
			r.id, r.uid, r.creator_id, r.content, r.summary, r.category, r.content_type, r.created_ts,
			1 - (e.embedding <=> ` + placeholder(1) + `) AS score
		FROM record r
		INNER JOIN record_embedding e ON r.id = e.record_id
		WHERE r.creator_id = ` + placeholder(2) + `
			AND e.model = ` + placeholder(3) + `
		ORDER BY e.embedding <=> ` + placeholder(4) + `
		LIMIT ` + placeholder(5)

	vector := pgvector.NewVector(opts.Vector)
	rows, err := d.db.QueryContext(ctx, query,
		vector,
		opts.CreatorID,
		opts.Model,
		vector,
		limit,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to vector search")
	}
	defer rows.Close()

	results := []*store.RecordWithScore{}
	for rows.Next() {
		var result store.RecordWithScore
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
			&result.Score,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan vector search result")
		}
		result.Record = &record
		results = append(results, &result)
	}

	if err := rows.Err(); err != nil {
		return nil, err
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
		LEFT JOIN record_embedding e ON r.id = e.record_id AND e.model = ` + placeholder(1) + `
		WHERE e.id IS NULL
			AND LENGTH(r.content) > 0
		ORDER BY r.created_ts DESC
		LIMIT ` + placeholder(2)

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
