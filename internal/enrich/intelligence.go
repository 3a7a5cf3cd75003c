package enrich

import (
	"context"
	"errors"
	"fmt"

	"github.com/praxis-pr/entity-intel/internal/metrics"
	"github.com/praxis-pr/entity-intel/internal/models"
	"github.com/praxis-pr/entity-intel/internal/store"
)

// ErrUnknownIntelligenceType is returned for an unrecognized intelligence list name.
var ErrUnknownIntelligenceType = errors.New("unknown intelligence type")

// ErrNoItems is returned when an intelligence update carries no items.
var ErrNoItems = errors.New("at least one intelligence item is required")

// UpdateIntelligence appends items to the named intelligence list of an
// entity. Intelligence lists are append-only: existing entries are never
// rewritten or removed. The write is version-checked; a concurrent
// update surfaces as store.ErrConflict rather than losing either
// writer's items.
func (p *Pipeline) UpdateIntelligence(ctx context.Context, entityID string, intelType models.IntelligenceType, items []string) (*models.EntityProfile, error) {
	if !intelType.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownIntelligenceType, intelType)
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	profile, err := p.store.GetProfile(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("update intelligence: reading profile %s: %w", entityID, err)
	}

	list := profile.Intelligence.List(intelType)
	*list = append(*list, items...)
	profile.LastUpdated = p.now().UTC()

	stored, err := p.store.UpdateProfile(ctx, profile)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			metrics.Inc(metrics.WriteConflicts)
			p.cache.Invalidate(entityID)
		}
		return nil, fmt.Errorf("update intelligence: writing profile %s: %w", entityID, err)
	}

	p.cache.Put(stored)
	metrics.Inc(metrics.IntelUpdates)
	p.logger.Info("appended intelligence", "id", entityID, "type", intelType, "items", len(items))
	return stored, nil
}
