// Package enrich builds and refreshes entity profiles.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/praxis-pr/entity-intel/internal/cache"
	"github.com/praxis-pr/entity-intel/internal/metrics"
	"github.com/praxis-pr/entity-intel/internal/models"
	"github.com/praxis-pr/entity-intel/internal/store"
	"github.com/praxis-pr/entity-intel/internal/taxonomy"
	"github.com/praxis-pr/entity-intel/pkg/slug"
)

// ErrEmptyName is returned when an enrichment request has no organization name.
var ErrEmptyName = errors.New("organization name must not be empty")

// corporateSuffixes are stripped when deriving aliases and keyword phrases.
var corporateSuffixes = []string{
	"inc", "corp", "llc", "ltd", "company", "co", "group", "partners", "lp", "llp",
}

// keywordStopWords are excluded from the derived keyword phrase.
var keywordStopWords = map[string]bool{
	"the": true, "and": true, "of": true, "in": true, "for": true,
}

// Pipeline builds, merges and persists entity profiles. The cache is an
// injected, explicit dependency; deep enrichment always bypasses it so a
// refresh request can never be served stale.
type Pipeline struct {
	store      store.Store
	cache      cache.ProfileCache
	classifier *taxonomy.Classifier
	logger     *slog.Logger
	now        func() time.Time
}

// NewPipeline creates an enrichment pipeline.
func NewPipeline(st store.Store, c cache.ProfileCache, cls *taxonomy.Classifier, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		store:      st,
		cache:      c,
		classifier: cls,
		logger:     logger,
		now:        time.Now,
	}
}

// Enrich returns the profile for name, creating or refreshing it as needed.
//
// With deep=false a cached or stored profile is returned as-is. With
// deep=true the cache is bypassed and the profile's derived fields are
// rebuilt and merged over the stored record. Stored list fields are
// additive; scalar metadata is never overwritten by enrichment.
func (p *Pipeline) Enrich(ctx context.Context, name string, deep bool) (*models.EntityProfile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	metrics.Inc(metrics.EnrichTotal)

	id := slug.Make(name)

	if !deep {
		if cached := p.cache.Get(id); cached != nil {
			metrics.Inc(metrics.CacheHits)
			p.logger.Debug("enrich: cache hit", "id", id)
			return cached, nil
		}
		metrics.Inc(metrics.CacheMisses)
	}

	existing, err := p.store.GetProfile(ctx, id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("enrich: reading profile %s: %w", id, err)
	}

	if existing != nil && !deep {
		p.cache.Put(existing)
		return existing, nil
	}

	built := p.buildProfile(name, existing)

	var stored *models.EntityProfile
	if existing == nil {
		stored, err = p.store.UpsertProfile(ctx, built)
	} else {
		stored, err = p.store.UpdateProfile(ctx, built)
		if errors.Is(err, store.ErrConflict) {
			metrics.Inc(metrics.WriteConflicts)
			p.cache.Invalidate(id)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("enrich: writing profile %s: %w", id, err)
	}

	p.cache.Put(stored)
	p.logger.Info("enriched profile", "id", id, "deep", deep, "version", stored.Version)
	return stored, nil
}

// buildProfile derives a profile for name, carrying forward everything
// from existing that enrichment does not own.
func (p *Pipeline) buildProfile(name string, existing *models.EntityProfile) *models.EntityProfile {
	industry := p.classifier.Classify(name, "")
	aliases := FindAliases(name)
	keywords := GenerateKeywords(name)
	crisis := taxonomy.CrisisIndicators(industry.Primary)

	profile := &models.EntityProfile{
		ID:       slug.Make(name),
		Name:     name,
		Industry: industry,
		Monitoring: models.MonitoringConfig{
			Keywords:          keywords,
			RegulatoryFilings: industry.Primary == "financial_services",
			ExecutiveChanges:  true,
			MAActivity:        true,
			CrisisIndicators:  crisis,
		},
		LastUpdated:      p.now().UTC(),
		EnrichmentStatus: models.EnrichmentPartial,
	}

	if existing != nil {
		profile.Aliases = mergeSets(existing.Aliases, aliases)
		profile.Monitoring.Keywords = mergeSets(existing.Monitoring.Keywords, keywords)
		profile.Monitoring.Feeds = existing.Monitoring.Feeds
		profile.Monitoring.Endpoints = existing.Monitoring.Endpoints
		profile.Metadata = existing.Metadata
		profile.Stakeholders = existing.Stakeholders
		profile.Intelligence = existing.Intelligence
		profile.Relationships = existing.Relationships
		profile.Version = existing.Version
	} else {
		profile.Aliases = aliases
	}

	return profile
}

// FindAliases derives alias variants for an organization name: the
// initials of a multi-word name and the name with any corporate suffix
// removed. The result is deduplicated and never contains the name itself.
func FindAliases(name string) []string {
	words := strings.Fields(name)
	var aliases []string

	if len(words) > 1 {
		var initials strings.Builder
		for _, w := range words {
			r := []rune(w)
			initials.WriteString(strings.ToUpper(string(r[0])))
		}
		aliases = append(aliases, initials.String())
	}

	if stripped := StripCorporateSuffix(name); stripped != name && stripped != "" {
		aliases = append(aliases, stripped)
	}

	return dedupeKeepOrder(aliases, name)
}

// GenerateKeywords derives monitoring keywords: each lower-cased word of
// the name, plus the phrase formed from the suffix-stripped name's words
// that are longer than two characters and not stop words.
func GenerateKeywords(name string) []string {
	var keywords []string
	for _, w := range strings.Fields(strings.ToLower(name)) {
		keywords = append(keywords, w)
	}

	var phraseWords []string
	for _, w := range strings.Fields(strings.ToLower(StripCorporateSuffix(name))) {
		if len(w) > 2 && !keywordStopWords[w] {
			phraseWords = append(phraseWords, w)
		}
	}
	if len(phraseWords) > 0 {
		keywords = append(keywords, strings.Join(phraseWords, " "))
	}

	return dedupeKeepOrder(keywords, "")
}

// StripCorporateSuffix removes a trailing corporate suffix (Inc, Corp,
// LLC, ...) from name, if present.
func StripCorporateSuffix(name string) string {
	words := strings.Fields(name)
	if len(words) < 2 {
		return name
	}
	last := strings.ToLower(strings.TrimRight(words[len(words)-1], "."))
	for _, suffix := range corporateSuffixes {
		if last == suffix {
			return strings.Join(words[:len(words)-1], " ")
		}
	}
	return name
}

// mergeSets unions existing and extra, preserving existing order and
// dropping duplicates.
func mergeSets(existing, extra []string) []string {
	return dedupeKeepOrder(append(append([]string(nil), existing...), extra...), "")
}

func dedupeKeepOrder(in []string, exclude string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || s == exclude || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
