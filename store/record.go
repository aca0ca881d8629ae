package store

import "context"

// ContentType describes how a record entered the inbox.
type ContentType string

const (
	ContentTypeText  ContentType = "text"
	ContentTypeVoice ContentType = "voice"
	ContentTypeImage ContentType = "image"
	ContentTypeEmail ContentType = "email"
)

// Record is one stored piece of user content. Once processed it is immutable;
// the embedding lives in a separate row so a record is searchable lexically
// before the backfill catches up.
type Record struct {
	ID          int32
	UID         string
	CreatorID   int32
	Content     string
	Summary     string
	Category    string
	ContentType ContentType
	CreatedTs   int64
}

// FindRecord is the find condition for records.
type FindRecord struct {
	ID              *int32
	UID             *string
	CreatorID       *int32
	Category        *string
	ContentType     *ContentType
	CreatedTsAfter  *int64
	CreatedTsBefore *int64
	Limit           *int
}

// CreateRecord creates a record.
func (s *Store) CreateRecord(ctx context.Context, create *Record) (*Record, error) {
	return s.driver.CreateRecord(ctx, create)
}

// ListRecords lists records matching the find condition.
func (s *Store) ListRecords(ctx context.Context, find *FindRecord) ([]*Record, error) {
	return s.driver.ListRecords(ctx, find)
}

// GetRecord gets a single record, or nil when not found.
func (s *Store) GetRecord(ctx context.Context, find *FindRecord) (*Record, error) {
	list, err := s.driver.ListRecords(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// ListRecentCategories lists the most recently used category labels for a user.
// The planner matches query tokens against this list to derive category filters.
func (s *Store) ListRecentCategories(ctx context.Context, creatorID int32, limit int) ([]string, error) {
	return s.driver.ListRecentCategories(ctx, creatorID, limit)
}
