// Package recognizer identifies organizations and people in free text.
package recognizer

import (
	"context"
	"log/slog"
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/praxis-pr/entity-intel/internal/models"
)

// Recognizer is the capability interface for entity recognition. The
// pattern implementation is the default; an LLM-backed implementation
// can be swapped in without the rest of the pipeline noticing.
type Recognizer interface {
	Recognize(ctx context.Context, text string) (*models.Recognition, error)
}

const (
	confidenceFloor = 0.70
	confidenceSpan  = 0.30
)

// orgPattern matches capitalized word sequences ending in a corporate
// suffix, e.g. "Acme Widget Corp" or "Northwind Trading Co".
var orgPattern = regexp.MustCompile(
	`\b[A-Z][A-Za-z&]*(?:[ \t][A-Z][A-Za-z&]*)*[ \t](?:Inc|Corp|LLC|Ltd|Company|Co|Group|Partners|LP|LLP)\b\.?`)

// acronymPattern matches bare all-caps acronyms of two or more letters.
var acronymPattern = regexp.MustCompile(`\b[A-Z]{2,}\b`)

// personPattern matches sequences of two or three capitalized words.
var personPattern = regexp.MustCompile(`\b[A-Z][a-z]+(?:[ \t][A-Z][a-z]+){1,2}\b`)

// PatternRecognizer recognizes entities with regular-expression passes.
// It is explicitly a stand-in for real NLP extraction: organizations are
// suffix-anchored capitalized runs plus acronyms, people are short
// capitalized sequences not already captured as organizations.
// Locations, products and events have no matcher yet.
type PatternRecognizer struct {
	mu     sync.Mutex
	rng    *rand.Rand
	logger *slog.Logger
}

// NewPatternRecognizer creates a pattern recognizer. Confidence values
// are placeholders drawn from rng; pass a seeded source for
// reproducible output, or nil for a time-seeded one.
func NewPatternRecognizer(rng *rand.Rand, logger *slog.Logger) *PatternRecognizer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PatternRecognizer{rng: rng, logger: logger}
}

// Recognize runs the pattern passes over text and returns categorized,
// deduplicated entities with placeholder confidence scores.
func (r *PatternRecognizer) Recognize(_ context.Context, text string) (*models.Recognition, error) {
	orgs := dedupe(append(orgPattern.FindAllString(text, -1), acronymPattern.FindAllString(text, -1)...))

	orgSet := make(map[string]bool, len(orgs))
	for _, o := range orgs {
		orgSet[o] = true
	}

	var people []string
	for _, candidate := range personPattern.FindAllString(text, -1) {
		if capturedAsOrg(candidate, orgs, orgSet) {
			continue
		}
		people = append(people, candidate)
	}
	people = dedupe(people)

	rec := &models.Recognition{
		Organizations: orgs,
		People:        people,
		Locations:     []string{},
		Products:      []string{},
		Events:        []string{},
		Confidence:    make(map[string]float64, len(orgs)+len(people)),
	}
	for _, name := range orgs {
		rec.Confidence[name] = r.confidence()
	}
	for _, name := range people {
		rec.Confidence[name] = r.confidence()
	}

	r.logger.Debug("recognized entities",
		"organizations", len(rec.Organizations), "people", len(rec.People))
	return rec, nil
}

func (r *PatternRecognizer) confidence() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return confidenceFloor + r.rng.Float64()*confidenceSpan
}

// capturedAsOrg reports whether candidate was already captured as an
// organization, either exactly or as a prefix of a suffixed org name
// ("Acme Widget" inside "Acme Widget Corp").
func capturedAsOrg(candidate string, orgs []string, orgSet map[string]bool) bool {
	if orgSet[candidate] {
		return true
	}
	for _, o := range orgs {
		if strings.Contains(o, candidate) {
			return true
		}
	}
	return false
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
