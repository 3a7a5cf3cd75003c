// Package store persists entity profiles and their history records.
package store

import (
	"context"
	"errors"

	"github.com/praxis-pr/entity-intel/internal/models"
)

// ErrNotFound is returned by GetProfile and UpdateProfile when the
// requested entity does not exist.
var ErrNotFound = errors.New("entity not found")

// ErrConflict is returned by UpdateProfile when the profile's version
// does not match the stored version. The write is rejected rather than
// silently applying last-write-wins.
var ErrConflict = errors.New("profile version conflict")

// Store defines the persistence interface for entity profiles.
// Profiles are permanent: there is no delete operation.
type Store interface {
	// GetProfile retrieves a single profile by entity id.
	GetProfile(ctx context.Context, id string) (*models.EntityProfile, error)

	// UpsertProfile inserts a profile, or replaces it unconditionally.
	// The stored version is incremented on every call and the stored
	// profile is returned.
	UpsertProfile(ctx context.Context, profile *models.EntityProfile) (*models.EntityProfile, error)

	// UpdateProfile replaces an existing profile only when the given
	// profile's Version matches the stored one, then increments it.
	// Returns ErrNotFound for unknown ids and ErrConflict for stale writes.
	UpdateProfile(ctx context.Context, profile *models.EntityProfile) (*models.EntityProfile, error)

	// QueryHistory returns the entity's history records ordered by
	// timestamp descending. An entity with no history yields an empty slice.
	QueryHistory(ctx context.Context, entityID string) ([]models.HistoryRecord, error)

	// AppendHistory adds one history record. History is append-only and
	// written by external collaborators; this core only reads it back.
	AppendHistory(ctx context.Context, record models.HistoryRecord) error

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error

	// Close cleans up resources.
	Close(ctx context.Context) error
}
