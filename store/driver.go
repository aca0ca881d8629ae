package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for the database driver.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	CreateRecord(ctx context.Context, create *Record) (*Record, error)
	ListRecords(ctx context.Context, find *FindRecord) ([]*Record, error)
	ListRecentCategories(ctx context.Context, creatorID int32, limit int) ([]string, error)

	UpsertRecordEmbedding(ctx context.Context, embedding *RecordEmbedding) (*RecordEmbedding, error)
	ListRecordEmbeddings(ctx context.Context, find *FindRecordEmbedding) ([]*RecordEmbedding, error)
	DeleteRecordEmbedding(ctx context.Context, recordID int32) error
	VectorSearch(ctx context.Context, opts *VectorSearchOptions) ([]*RecordWithScore, error)
	FindRecordsWithoutEmbedding(ctx context.Context, find *FindRecordsWithoutEmbedding) ([]*Record, error)
}
