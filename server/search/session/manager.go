package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lifeinbox/lifeinbox/server/search/ranking"
)

const (
	DefaultPageSize    = 5
	DefaultIdleTimeout = 10 * time.Minute
)

// Window is one page-sized slice of a session's results, with enough
// bookkeeping to render it.
type Window struct {
	Query   string
	Channel string
	Results []ranking.RankedResult
	Offset  int
	Total   int
	HasMore bool
}

// Manager implements the pagination protocol on top of a Store. Per-user
// read-modify-write cycles are serialized with a keyed mutex so concurrent
// continuation requests cannot double-serve a page.
type Manager struct {
	store       Store
	pageSize    int
	idleTimeout time.Duration
	now         func() time.Time

	mu    sync.Mutex
	locks map[int32]*sync.Mutex
}

// NewManager creates a manager. Non-positive pageSize or idleTimeout fall
// back to the defaults.
func NewManager(store Store, pageSize int, idleTimeout time.Duration) *Manager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	return &Manager{
		store:       store,
		pageSize:    pageSize,
		idleTimeout: idleTimeout,
		now:         time.Now,
		locks:       make(map[int32]*sync.Mutex),
	}
}

// WithClock replaces the manager's clock. Used to drive expiry in tests.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// PageSize returns the configured page size.
func (m *Manager) PageSize() int {
	return m.pageSize
}

func (m *Manager) userLock(userID int32) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	lock, ok := m.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[userID] = lock
	}
	return lock
}

// Begin stores a fresh session for the user, replacing any prior one, and
// returns the first window. The session is kept even when everything fits on
// one page, so a continuation request still gets the end-of-results condition
// rather than an absent session.
func (m *Manager) Begin(ctx context.Context, userID int32, query, channel string, results []ranking.RankedResult) (Window, error) {
	lock := m.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	first := results
	if len(first) > m.pageSize {
		first = first[:m.pageSize]
	}
	window := Window{
		Query:   query,
		Channel: channel,
		Results: first,
		Offset:  0,
		Total:   len(results),
		HasMore: len(results) > m.pageSize,
	}

	session := &Session{
		UserID:       userID,
		Query:        query,
		Channel:      channel,
		Results:      results,
		Offset:       len(first),
		PageSize:     m.pageSize,
		LastAccessTs: m.now().Unix(),
	}
	if err := m.store.Put(ctx, userID, session); err != nil {
		return Window{}, fmt.Errorf("store session: %w", err)
	}
	return window, nil
}

// Advance serves the next window of the user's session. It returns
// ErrNotFound when no session exists, ErrExpired when the session idled out,
// and ErrExhausted when every result has been served.
func (m *Manager) Advance(ctx context.Context, userID int32) (Window, error) {
	lock := m.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	session, err := m.store.Get(ctx, userID)
	if err != nil {
		return Window{}, err
	}

	now := m.now()
	if now.Unix()-session.LastAccessTs > int64(m.idleTimeout.Seconds()) {
		_ = m.store.Delete(ctx, userID)
		return Window{}, ErrExpired
	}

	if session.Offset >= len(session.Results) {
		_ = m.store.Delete(ctx, userID)
		return Window{}, ErrExhausted
	}

	end := session.Offset + session.PageSize
	if end > len(session.Results) {
		end = len(session.Results)
	}
	window := Window{
		Query:   session.Query,
		Channel: session.Channel,
		Results: session.Results[session.Offset:end],
		Offset:  session.Offset,
		Total:   len(session.Results),
		HasMore: end < len(session.Results),
	}

	session.Offset = end
	session.LastAccessTs = now.Unix()
	if err := m.store.Put(ctx, userID, session); err != nil {
		return Window{}, fmt.Errorf("store session: %w", err)
	}
	return window, nil
}

// End drops the user's session, if any.
func (m *Manager) End(ctx context.Context, userID int32) error {
	lock := m.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	return m.store.Delete(ctx, userID)
}
