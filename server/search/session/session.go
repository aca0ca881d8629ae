// Package session holds server-side pagination state for search results.
// Each user has at most one live session; a new search replaces it.
package session

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/lifeinbox/lifeinbox/server/search/ranking"
)

var (
	// ErrNotFound means the user has no stored session.
	ErrNotFound = errors.New("session not found")
	// ErrExpired means the session existed but sat idle past the timeout.
	ErrExpired = errors.New("session expired")
	// ErrExhausted means every result has already been served.
	ErrExhausted = errors.New("no results remaining")
)

// Session is the durable pagination state for one user's last search.
type Session struct {
	UserID       int32                  `json:"userId"`
	Query        string                 `json:"query"`
	Channel      string                 `json:"channel"`
	Results      []ranking.RankedResult `json:"results"`
	Offset       int                    `json:"offset"`
	PageSize     int                    `json:"pageSize"`
	LastAccessTs int64                  `json:"lastAccessTs"`
}

// Store persists sessions keyed by user. Implementations must tolerate
// concurrent calls; callers serialize per-user read-modify-write cycles.
type Store interface {
	Get(ctx context.Context, userID int32) (*Session, error)
	Put(ctx context.Context, userID int32, s *Session) error
	Delete(ctx context.Context, userID int32) error
	// Sweep removes sessions whose last access predates the cutoff and
	// returns how many it removed. Backends with native expiry may no-op.
	Sweep(ctx context.Context, cutoff time.Time) (int, error)
}
