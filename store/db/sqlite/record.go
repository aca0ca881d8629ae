package sqlite

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/lifeinbox/lifeinbox/store"
)

// CreateRecord inserts a record.
func (d *DB) CreateRecord(ctx context.Context, create *store.Record) (*store.Record, error) {
	stmt := `
		INSERT INTO record (uid, creator_id, content, summary, category, content_type, created_ts)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`

	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID,
		create.CreatorID,
		create.Content,
		create.Summary,
		create.Category,
		create.ContentType,
		create.CreatedTs,
	).Scan(&create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create record")
	}

	return create, nil
}

// ListRecords lists records matching the find condition.
func (d *DB) ListRecords(ctx context.Context, find *store.FindRecord) ([]*store.Record, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = ?"), append(args, *find.ID)
	}
	if find.UID != nil {
		where, args = append(where, "uid = ?"), append(args, *find.UID)
	}
	if find.CreatorID != nil {
		where, args = append(where, "creator_id = ?"), append(args, *find.CreatorID)
	}
	if find.Category != nil {
		where, args = append(where, "category = ?"), append(args, *find.Category)
	}
	if find.ContentType != nil {
		where, args = append(where, "content_type = ?"), append(args, *find.ContentType)
	}
	if find.CreatedTsAfter != nil {
		where, args = append(where, "created_ts >= ?"), append(args, *find.CreatedTsAfter)
	}
	if find.CreatedTsBefore != nil {
		where, args = append(where, "created_ts < ?"), append(args, *find.CreatedTsBefore)
	}

	query := `
		SELECT id, uid, creator_id, content, summary, category, content_type, created_ts
		FROM record
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts DESC
	`
	if find.Limit != nil {
		query += " LIMIT ?"
		args = append(args, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list records")
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

// ListRecentCategories lists distinct category labels by most recent use.
func (d *DB) ListRecentCategories(ctx context.Context, creatorID int32, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT category, MAX(created_ts) AS last_used
		FROM record
		WHERE creator_id = ? AND category <> ''
		GROUP BY category
		ORDER BY last_used DESC
		LIMIT ?
	`

	rows, err := d.db.QueryContext(ctx, query, creatorID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list recent categories")
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var category string
		var lastUsed int64
		if err := rows.Scan(&category, &lastUsed); err != nil {
			return nil, errors.Wrap(err, "failed to scan category")
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return categories, nil
}
