// Package evolution summarizes how an entity has changed over time.
package evolution

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/praxis-pr/entity-intel/internal/models"
	"github.com/praxis-pr/entity-intel/internal/store"
)

const (
	// maxKeyChanges bounds the change types listed in trend analysis.
	maxKeyChanges = 5

	// maxMilestones bounds the high-significance milestones returned.
	maxMilestones = 10
)

// Tracker reads an entity's append-only history and summarizes it.
type Tracker struct {
	store  store.Store
	logger *slog.Logger
}

// NewTracker creates an evolution tracker.
func NewTracker(st store.Store, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{store: st, logger: logger}
}

// Evolution summarizes the entity's history for the given timeframe
// label. Records come back newest first. The trend analysis is a fixed
// heuristic whose output shape callers rely on: "stable" with no
// history, otherwise "evolving" with the first five change types.
func (t *Tracker) Evolution(ctx context.Context, entityID, timeframe string) (*models.Evolution, error) {
	if entityID == "" {
		return nil, fmt.Errorf("evolution: entity id must not be empty")
	}

	records, err := t.store.QueryHistory(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("evolution: querying history for %s: %w", entityID, err)
	}

	ev := &models.Evolution{
		EntityID:      entityID,
		Timeframe:     timeframe,
		Changes:       records,
		TrendAnalysis: analyzeTrend(records),
		KeyMilestones: keyMilestones(records),
	}

	t.logger.Debug("tracked evolution", "id", entityID,
		"changes", len(records), "milestones", len(ev.KeyMilestones))
	return ev, nil
}

func analyzeTrend(records []models.HistoryRecord) models.TrendAnalysis {
	if len(records) == 0 {
		return models.TrendAnalysis{Trend: "stable"}
	}

	keyChanges := make([]string, 0, maxKeyChanges)
	for i := range records {
		if len(keyChanges) == maxKeyChanges {
			break
		}
		keyChanges = append(keyChanges, records[i].ChangeType)
	}

	return models.TrendAnalysis{
		Trend:      "evolving",
		Direction:  "positive",
		Velocity:   "moderate",
		KeyChanges: keyChanges,
	}
}

func keyMilestones(records []models.HistoryRecord) []models.Milestone {
	milestones := make([]models.Milestone, 0, maxMilestones)
	for i := range records {
		if records[i].Significance != models.SignificanceHigh {
			continue
		}
		milestones = append(milestones, models.Milestone{
			Date:   records[i].Timestamp,
			Event:  records[i].Description,
			Impact: records[i].ImpactScore,
		})
		if len(milestones) == maxMilestones {
			break
		}
	}
	return milestones
}
