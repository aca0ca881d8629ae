// Package store provides the data access layer for records and embeddings.
package store

import (
	"context"

	"github.com/lifeinbox/lifeinbox/internal/profile"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		profile: profile,
		driver:  driver,
	}
}

// GetDriver returns the store driver.
func (s *Store) GetDriver() Driver {
	return s.driver
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.driver.Close()
}

// Ping verifies the datastore is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.driver.GetDB().PingContext(ctx)
}
