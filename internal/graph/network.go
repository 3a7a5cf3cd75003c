// Package graph maps the relationship network between organizations.
package graph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/praxis-pr/entity-intel/internal/influence"
	"github.com/praxis-pr/entity-intel/internal/metrics"
	"github.com/praxis-pr/entity-intel/internal/models"
	"github.com/praxis-pr/entity-intel/internal/store"
)

// DefaultDepth is the traversal depth used when the caller does not set one.
const DefaultDepth = 2

// edgeWeights is the fixed weight table for relationship types.
var edgeWeights = map[models.RelationType]float64{
	models.RelationSubsidiary:   1.0,
	models.RelationParent:       1.0,
	models.RelationJointVenture: 0.7,
	models.RelationPartnership:  0.5,
	models.RelationCompetitor:   0.3,
}

// unknownEdgeWeight applies to relationship types outside the table.
const unknownEdgeWeight = 0.1

// EdgeWeight returns the traversal weight for a relationship type.
func EdgeWeight(t models.RelationType) float64 {
	if w, ok := edgeWeights[t]; ok {
		return w
	}
	return unknownEdgeWeight
}

// Mapper traverses declared relationships between organizations.
type Mapper struct {
	store  store.Store
	logger *slog.Logger
}

// NewMapper creates a network mapper.
func NewMapper(st store.Store, logger *slog.Logger) *Mapper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mapper{store: st, logger: logger}
}

type queueItem struct {
	id    string
	level int
}

// MapNetwork performs a breadth-first traversal of declared
// relationships starting at rootID, bounded by depth. The visited set
// guarantees each organization is fetched and emitted at most once, so
// cycles and mutual references terminate. Related organizations without
// a stored profile contribute an edge but no node.
func (m *Mapper) MapNetwork(ctx context.Context, rootID string, depth int) (*models.NetworkMap, error) {
	if rootID == "" {
		return nil, fmt.Errorf("map network: root id must not be empty")
	}
	if depth <= 0 {
		depth = DefaultDepth
	}
	metrics.Inc(metrics.NetworkMaps)

	nm := &models.NetworkMap{
		RootID:   rootID,
		Depth:    depth,
		Nodes:    []models.NetworkNode{},
		Edges:    []models.NetworkEdge{},
		Clusters: []models.IndustryCluster{},
	}

	visited := make(map[string]bool)
	queue := []queueItem{{id: rootID, level: 0}}

	for len(queue) > 0 && queue[0].level < depth {
		current := queue[0]
		queue = queue[1:]

		if visited[current.id] {
			continue
		}
		visited[current.id] = true

		profile, err := m.store.GetProfile(ctx, current.id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				if current.id == rootID {
					return nil, fmt.Errorf("map network: %w", err)
				}
				m.logger.Debug("network: related entity has no profile, skipping", "id", current.id)
				continue
			}
			return nil, fmt.Errorf("map network: fetching %s: %w", current.id, err)
		}

		nm.Nodes = append(nm.Nodes, models.NetworkNode{
			ID:        profile.ID,
			Name:      profile.Name,
			Industry:  profile.Industry,
			Level:     current.level,
			Influence: influence.Score(profile),
		})

		for _, rel := range declaredRelations(profile) {
			for _, target := range rel.targets {
				nm.Edges = append(nm.Edges, models.NetworkEdge{
					Source: current.id,
					Target: target,
					Type:   rel.relType,
					Weight: EdgeWeight(rel.relType),
				})
				if current.level+1 < depth {
					queue = append(queue, queueItem{id: target, level: current.level + 1})
				}
			}
		}
	}

	nm.Clusters = groupByIndustry(nm.Nodes)

	m.logger.Info("mapped network", "root", rootID, "depth", depth,
		"nodes", len(nm.Nodes), "edges", len(nm.Edges))
	return nm, nil
}

// Connections lists the direct relationships of an entity, optionally
// filtered to the given relationship types.
func (m *Mapper) Connections(ctx context.Context, entityID string, types []models.RelationType) ([]models.Connection, error) {
	profile, err := m.store.GetProfile(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("connections: fetching %s: %w", entityID, err)
	}

	wanted := make(map[models.RelationType]bool, len(types))
	for _, t := range types {
		wanted[t] = true
	}

	var out []models.Connection
	for _, rel := range declaredRelations(profile) {
		if len(wanted) > 0 && !wanted[rel.relType] {
			continue
		}
		for _, target := range rel.targets {
			out = append(out, models.Connection{
				EntityID: target,
				Type:     rel.relType,
				Weight:   EdgeWeight(rel.relType),
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].EntityID < out[j].EntityID
	})
	return out, nil
}

type relationGroup struct {
	relType models.RelationType
	targets []string
}

// declaredRelations returns the profile's relationship lists in a fixed
// order so that traversal output is deterministic.
func declaredRelations(p *models.EntityProfile) []relationGroup {
	return []relationGroup{
		{models.RelationSubsidiary, p.Relationships.Subsidiaries},
		{models.RelationJointVenture, p.Relationships.JointVentures},
		{models.RelationPartnership, p.Relationships.StrategicPartnerships},
	}
}

// groupByIndustry partitions nodes by primary industry. This is a
// coarse industry grouping, deliberately not a community-detection
// algorithm.
func groupByIndustry(nodes []models.NetworkNode) []models.IndustryCluster {
	byIndustry := make(map[string][]string)
	for i := range nodes {
		industry := nodes[i].Industry.Primary
		byIndustry[industry] = append(byIndustry[industry], nodes[i].ID)
	}

	industries := make([]string, 0, len(byIndustry))
	for industry := range byIndustry {
		industries = append(industries, industry)
	}
	sort.Strings(industries)

	clusters := make([]models.IndustryCluster, 0, len(industries))
	for _, industry := range industries {
		members := byIndustry[industry]
		clusters = append(clusters, models.IndustryCluster{
			Industry: industry,
			Members:  members,
			Size:     len(members),
		})
	}
	return clusters
}
