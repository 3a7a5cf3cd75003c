// Package predict forecasts entity behavior under hypothetical scenarios.
package predict

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/praxis-pr/entity-intel/internal/metrics"
	"github.com/praxis-pr/entity-intel/internal/models"
	"github.com/praxis-pr/entity-intel/internal/store"
)

const (
	probabilityFloor = 0.60
	probabilitySpan  = 0.30
)

// scenarioBucket pairs trigger keywords with a canned reaction.
// Buckets are evaluated in order; the first match wins.
type scenarioBucket struct {
	keywords []string
	reaction string
}

var scenarioBuckets = []scenarioBucket{
	{
		keywords: []string{"crisis", "scandal"},
		reaction: "Immediate crisis containment and coordinated public acknowledgment",
	},
	{
		keywords: []string{"opportunity", "partnership"},
		reaction: "Proactive engagement with expansion-focused messaging",
	},
	{
		keywords: []string{"competition", "threat"},
		reaction: "Aggressive counter-positioning",
	},
}

const defaultReaction = "Measured public statement pending internal review"

// keyFactors is the fixed factor list attached to every prediction.
var keyFactors = []string{
	"industry position",
	"executive leadership stability",
	"prior crisis handling",
	"media relationships",
	"regulatory exposure",
}

const recommendedApproach = "Coordinate messaging through primary channels before external inquiries arrive."

// Predictor is a rule-based scenario classifier. The output shape is a
// stable contract; the heuristic internals are a placeholder for a real
// model. Probability is a placeholder confidence drawn from an
// injectable random source.
type Predictor struct {
	store  store.Store
	mu     sync.Mutex
	rng    *rand.Rand
	logger *slog.Logger
}

// NewPredictor creates a predictor. Pass a seeded rng for deterministic
// probabilities in tests, or nil for a time-seeded one.
func NewPredictor(st store.Store, rng *rand.Rand, logger *slog.Logger) *Predictor {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Predictor{store: st, rng: rng, logger: logger}
}

// Predict loads the entity's profile and classifies the scenario text
// against the ordered keyword buckets. A missing profile is an error:
// predictions are only made for known entities.
func (p *Predictor) Predict(ctx context.Context, entityID, scenario string) (*models.Prediction, error) {
	if strings.TrimSpace(scenario) == "" {
		return nil, fmt.Errorf("predict: scenario must not be empty")
	}

	if _, err := p.store.GetProfile(ctx, entityID); err != nil {
		return nil, fmt.Errorf("predict: loading profile %s: %w", entityID, err)
	}

	reaction := defaultReaction
	lower := strings.ToLower(scenario)
	for _, bucket := range scenarioBuckets {
		if containsAny(lower, bucket.keywords) {
			reaction = bucket.reaction
			break
		}
	}

	metrics.Inc(metrics.Predictions)
	p.logger.Debug("predicted behavior", "id", entityID, "reaction", reaction)

	return &models.Prediction{
		EntityID:            entityID,
		LikelyReaction:      reaction,
		Probability:         p.probability(),
		KeyFactors:          append([]string(nil), keyFactors...),
		RecommendedApproach: recommendedApproach,
	}, nil
}

func (p *Predictor) probability() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return probabilityFloor + p.rng.Float64()*probabilitySpan
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
