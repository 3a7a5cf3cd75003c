package recognizer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/praxis-pr/entity-intel/internal/models"
	"github.com/praxis-pr/entity-intel/pkg/xmlutil"
)

// recognitionPromptTemplate asks Claude for categorized entities.
// User content is injected via an XML tag to prevent prompt injection.
const recognitionPromptTemplate = `You are an entity recognition system for a PR intelligence platform. Analyze the text and identify named entities.

Categories:
- organizations: companies, agencies, institutions
- people: named individuals
- locations: cities, regions, countries
- products: named products or services
- events: named events, conferences, incidents

Return ONLY a JSON object with this exact schema:
{"organizations": [], "people": [], "locations": [], "products": [], "events": []}

<content>%s</content>

Extract entities as JSON:`

// claudeRecognition is the raw JSON shape returned by Claude.
type claudeRecognition struct {
	Organizations []string `json:"organizations"`
	People        []string `json:"people"`
	Locations     []string `json:"locations"`
	Products      []string `json:"products"`
	Events        []string `json:"events"`
}

// ClaudeRecognizer identifies entities using the Claude API. It is the
// pluggable NLP variant behind the Recognizer interface; on API or
// parse errors it degrades gracefully to an empty result so callers can
// always proceed.
type ClaudeRecognizer struct {
	client *anthropic.Client
	model  string
	mu     sync.Mutex
	rng    *rand.Rand
	logger *slog.Logger
}

// NewClaudeRecognizer creates a Claude-backed recognizer. Confidence
// values remain placeholders drawn from rng, keeping the output
// contract identical to the pattern recognizer.
func NewClaudeRecognizer(apiKey, model string, rng *rand.Rand, logger *slog.Logger) *ClaudeRecognizer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &ClaudeRecognizer{
		client: &c,
		model:  model,
		rng:    rng,
		logger: logger,
	}
}

// Recognize asks Claude for categorized entities in the given text.
func (r *ClaudeRecognizer) Recognize(ctx context.Context, text string) (*models.Recognition, error) {
	prompt := fmt.Sprintf(recognitionPromptTemplate, xmlutil.Escape(text))

	resp, err := r.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(r.model),
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		System: []anthropic.TextBlockParam{
			{Text: "You are a precise entity recognition system. Output only valid JSON."},
		},
	})
	if err != nil {
		r.logger.Warn("claude recognizer: API error, returning empty result", "error", err)
		return emptyRecognition(), nil
	}

	var responseText string
	for i := range resp.Content {
		if resp.Content[i].Type == "text" {
			responseText = resp.Content[i].Text
			break
		}
	}
	if responseText == "" {
		r.logger.Warn("claude recognizer: empty response")
		return emptyRecognition(), nil
	}

	var raw claudeRecognition
	if jsonErr := json.Unmarshal([]byte(responseText), &raw); jsonErr != nil {
		r.logger.Warn("claude recognizer: could not parse response, returning empty result",
			"error", jsonErr, "response", responseText)
		return emptyRecognition(), nil
	}

	rec := &models.Recognition{
		Organizations: dedupe(raw.Organizations),
		People:        dedupe(raw.People),
		Locations:     dedupe(raw.Locations),
		Products:      dedupe(raw.Products),
		Events:        dedupe(raw.Events),
		Confidence:    make(map[string]float64),
	}
	for _, list := range [][]string{rec.Organizations, rec.People, rec.Locations, rec.Products, rec.Events} {
		for _, name := range list {
			rec.Confidence[name] = r.confidence()
		}
	}

	r.logger.Info("claude recognizer: extracted entities",
		"organizations", len(rec.Organizations), "people", len(rec.People))
	return rec, nil
}

func (r *ClaudeRecognizer) confidence() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return confidenceFloor + r.rng.Float64()*confidenceSpan
}

func emptyRecognition() *models.Recognition {
	return &models.Recognition{
		Organizations: []string{},
		People:        []string{},
		Locations:     []string{},
		Products:      []string{},
		Events:        []string{},
		Confidence:    map[string]float64{},
	}
}
