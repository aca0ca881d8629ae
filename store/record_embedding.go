package store

import "context"

// RecordEmbedding represents the vector embedding of a record's text content.
// Embeddings are keyed by (record_id, model) so vectors produced by different
// model versions are never mixed in one similarity comparison.
type RecordEmbedding struct {
	ID        int32
	RecordID  int32
	Embedding []float32
	Model     string
	CreatedTs int64
	UpdatedTs int64
}

// FindRecordEmbedding is the find condition for record embeddings.
type FindRecordEmbedding struct {
	RecordID *int32
	Model    *string
}

// RecordWithScore is a vector search result with its similarity score.
type RecordWithScore struct {
	Record *Record
	Score  float32
}

// VectorSearchOptions represents the options for vector nearest-neighbor search.
type VectorSearchOptions struct {
	CreatorID int32
	Vector    []float32
	Model     string
	Limit     int
}

// FindRecordsWithoutEmbedding scans records lacking a vector for the model.
type FindRecordsWithoutEmbedding struct {
	Model string
	Limit int
}

// UpsertRecordEmbedding inserts or updates a record embedding.
func (s *Store) UpsertRecordEmbedding(ctx context.Context, embedding *RecordEmbedding) (*RecordEmbedding, error) {
	return s.driver.UpsertRecordEmbedding(ctx, embedding)
}

// GetRecordEmbedding gets the embedding of a specific record, or nil.
func (s *Store) GetRecordEmbedding(ctx context.Context, recordID int32, model string) (*RecordEmbedding, error) {
	list, err := s.driver.ListRecordEmbeddings(ctx, &FindRecordEmbedding{
		RecordID: &recordID,
		Model:    &model,
	})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// ListRecordEmbeddings lists record embeddings.
func (s *Store) ListRecordEmbeddings(ctx context.Context, find *FindRecordEmbedding) ([]*RecordEmbedding, error) {
	return s.driver.ListRecordEmbeddings(ctx, find)
}

// DeleteRecordEmbedding deletes a record embedding.
func (s *Store) DeleteRecordEmbedding(ctx context.Context, recordID int32) error {
	return s.driver.DeleteRecordEmbedding(ctx, recordID)
}

// VectorSearch performs vector similarity search.
func (s *Store) VectorSearch(ctx context.Context, opts *VectorSearchOptions) ([]*RecordWithScore, error) {
	return s.driver.VectorSearch(ctx, opts)
}

// FindRecordsWithoutEmbeddingForModel finds records that have no embedding row
// for the given model. Used by the backfill runner.
func (s *Store) FindRecordsWithoutEmbeddingForModel(ctx context.Context, find *FindRecordsWithoutEmbedding) ([]*Record, error) {
	return s.driver.FindRecordsWithoutEmbedding(ctx, find)
}
