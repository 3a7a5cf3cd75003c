// Package match scores external entity mentions against an organization.
package match

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/praxis-pr/entity-intel/internal/models"
	"github.com/praxis-pr/entity-intel/internal/store"
)

// Weights controls the score assigned to each kind of match evidence.
type Weights struct {
	Exact       float64 `json:"exact" mapstructure:"exact"`
	Substring   float64 `json:"substring" mapstructure:"substring"`
	Alias       float64 `json:"alias" mapstructure:"alias"`
	WordOverlap float64 `json:"word_overlap" mapstructure:"word_overlap"`
}

// DefaultWeights returns the standard match evidence weights.
func DefaultWeights() Weights {
	return Weights{
		Exact:       1.0,
		Substring:   0.8,
		Alias:       0.7,
		WordOverlap: 0.6,
	}
}

const (
	strongThreshold    = 0.8
	potentialThreshold = 0.4
)

// Matcher buckets candidate entity names by how well they match an
// organization's name and aliases, using a name-substring and
// word-overlap heuristic.
type Matcher struct {
	store   store.Store
	weights Weights
	logger  *slog.Logger
}

// NewMatcher creates a matcher with the given weights.
func NewMatcher(st store.Store, weights Weights, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{store: st, weights: weights, logger: logger}
}

// Match scores every candidate against the organization and buckets the
// results. Candidates scoring at or above 0.8 are strong matches, at or
// above 0.4 potential matches, anything lower no match.
func (m *Matcher) Match(ctx context.Context, organizationID string, candidates []string) (*models.MatchResult, error) {
	profile, err := m.store.GetProfile(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("match: loading organization %s: %w", organizationID, err)
	}

	result := &models.MatchResult{
		OrganizationID:   organizationID,
		StrongMatches:    []models.ScoredMatch{},
		PotentialMatches: []models.ScoredMatch{},
		NoMatch:          []models.ScoredMatch{},
	}

	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		scored := models.ScoredMatch{
			Name:  candidate,
			Score: m.score(candidate, profile),
		}
		switch {
		case scored.Score >= strongThreshold:
			result.StrongMatches = append(result.StrongMatches, scored)
		case scored.Score >= potentialThreshold:
			result.PotentialMatches = append(result.PotentialMatches, scored)
		default:
			result.NoMatch = append(result.NoMatch, scored)
		}
	}

	sortMatches(result.StrongMatches)
	sortMatches(result.PotentialMatches)
	sortMatches(result.NoMatch)

	m.logger.Debug("matched entities", "organization", organizationID,
		"strong", len(result.StrongMatches), "potential", len(result.PotentialMatches))
	return result, nil
}

// score takes the strongest single piece of evidence for the candidate.
func (m *Matcher) score(candidate string, profile *models.EntityProfile) float64 {
	candLower := strings.ToLower(candidate)
	nameLower := strings.ToLower(profile.Name)

	if candLower == nameLower {
		return m.weights.Exact
	}

	best := 0.0
	if strings.Contains(nameLower, candLower) || strings.Contains(candLower, nameLower) {
		best = m.weights.Substring
	}

	for _, alias := range profile.Aliases {
		aliasLower := strings.ToLower(alias)
		if candLower == aliasLower {
			best = max(best, m.weights.Exact)
		} else if strings.Contains(aliasLower, candLower) || strings.Contains(candLower, aliasLower) {
			best = max(best, m.weights.Alias)
		}
	}

	if overlap := wordOverlap(candLower, nameLower); overlap > 0 {
		best = max(best, m.weights.WordOverlap*overlap)
	}

	return best
}

// wordOverlap is the fraction of candidate words present in the name.
func wordOverlap(candidate, name string) float64 {
	candWords := strings.Fields(candidate)
	if len(candWords) == 0 {
		return 0
	}
	nameWords := make(map[string]bool)
	for _, w := range strings.Fields(name) {
		nameWords[w] = true
	}
	hits := 0
	for _, w := range candWords {
		if nameWords[w] {
			hits++
		}
	}
	return float64(hits) / float64(len(candWords))
}

func sortMatches(matches []models.ScoredMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
}
