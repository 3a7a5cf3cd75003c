package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/praxis-pr/entity-intel/internal/models"
)

// MemoryStore is an in-process implementation of Store used in tests and
// for single-node development runs.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]*models.EntityProfile
	history  map[string][]models.HistoryRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[string]*models.EntityProfile),
		history:  make(map[string][]models.HistoryRecord),
	}
}

// GetProfile retrieves a single profile by entity id.
func (m *MemoryStore) GetProfile(_ context.Context, id string) (*models.EntityProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	// Deep-copy so callers cannot mutate stored state.
	return p.Clone(), nil
}

// UpsertProfile inserts or unconditionally replaces a profile.
func (m *MemoryStore) UpsertProfile(_ context.Context, profile *models.EntityProfile) (*models.EntityProfile, error) {
	if profile.ID == "" {
		return nil, fmt.Errorf("upsert: profile id must not be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := profile.Clone()
	if prev, ok := m.profiles[profile.ID]; ok {
		stored.Version = prev.Version + 1
	} else {
		stored.Version = 1
	}
	m.profiles[profile.ID] = stored
	return stored.Clone(), nil
}

// UpdateProfile replaces an existing profile iff the version matches.
func (m *MemoryStore) UpdateProfile(_ context.Context, profile *models.EntityProfile) (*models.EntityProfile, error) {
	if profile.ID == "" {
		return nil, fmt.Errorf("update: profile id must not be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, ok := m.profiles[profile.ID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, profile.ID)
	}
	if prev.Version != profile.Version {
		return nil, fmt.Errorf("%w: %s: stored version %d, submitted %d",
			ErrConflict, profile.ID, prev.Version, profile.Version)
	}
	stored := profile.Clone()
	stored.Version = prev.Version + 1
	m.profiles[profile.ID] = stored
	return stored.Clone(), nil
}

// QueryHistory returns history records newest first.
func (m *MemoryStore) QueryHistory(_ context.Context, entityID string) ([]models.HistoryRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	records := m.history[entityID]
	out := make([]models.HistoryRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

// AppendHistory adds one history record.
func (m *MemoryStore) AppendHistory(_ context.Context, record models.HistoryRecord) error {
	if record.EntityID == "" {
		return fmt.Errorf("append history: entity id must not be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history[record.EntityID] = append(m.history[record.EntityID], record)
	return nil
}

// Ping is a no-op for the in-memory store.
func (m *MemoryStore) Ping(_ context.Context) error { return nil }

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close(_ context.Context) error { return nil }

// Len returns the number of stored profiles. Test helper.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.profiles)
}
