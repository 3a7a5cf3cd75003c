package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand"
	"os"
	"testing"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxis-pr/entity-intel/internal/cache"
	"github.com/praxis-pr/entity-intel/internal/enrich"
	"github.com/praxis-pr/entity-intel/internal/evolution"
	"github.com/praxis-pr/entity-intel/internal/graph"
	"github.com/praxis-pr/entity-intel/internal/match"
	"github.com/praxis-pr/entity-intel/internal/models"
	"github.com/praxis-pr/entity-intel/internal/predict"
	"github.com/praxis-pr/entity-intel/internal/recognizer"
	"github.com/praxis-pr/entity-intel/internal/store"
	"github.com/praxis-pr/entity-intel/internal/taxonomy"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestServer(t *testing.T) (*Server, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	c := cache.NewTTLCache(0)
	cls := taxonomy.NewClassifier(testLogger())
	rng := rand.New(rand.NewSource(11))

	srv := NewServer(Deps{
		Store:      st,
		Recognizer: recognizer.NewPatternRecognizer(rng, testLogger()),
		Pipeline:   enrich.NewPipeline(st, c, cls, testLogger()),
		Classifier: cls,
		Mapper:     graph.NewMapper(st, testLogger()),
		Tracker:    evolution.NewTracker(st, testLogger()),
		Predictor:  predict.NewPredictor(st, rand.New(rand.NewSource(12)), testLogger()),
		Matcher:    match.NewMatcher(st, match.DefaultWeights(), testLogger()),
	}, testLogger())
	return srv, st
}

func makeReq(toolName string, args map[string]any) mcpgo.CallToolRequest {
	req := mcpgo.CallToolRequest{}
	req.Params.Name = toolName
	req.Params.Arguments = args
	return req
}

func textContent(t *testing.T, result *mcpgo.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	tc, ok := result.Content[0].(mcpgo.TextContent)
	require.True(t, ok, "expected text content")
	return tc.Text
}

func TestHandleRecognize(t *testing.T) {
	srv, _ := newTestServer(t)

	result, err := srv.HandleRecognize(context.Background(), makeReq("recognize_entities", map[string]any{
		"text": "Jane Smith left Acme Widget Corp to advise the SEC.",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var rec models.Recognition
	require.NoError(t, json.Unmarshal([]byte(textContent(t, result)), &rec))
	assert.Contains(t, rec.Organizations, "Acme Widget Corp")
	assert.Contains(t, rec.Organizations, "SEC")
	assert.Contains(t, rec.People, "Jane Smith")
	for _, conf := range rec.Confidence {
		assert.GreaterOrEqual(t, conf, 0.70)
		assert.Less(t, conf, 1.0)
	}
}

func TestHandleRecognize_CategoryFilter(t *testing.T) {
	srv, _ := newTestServer(t)

	result, err := srv.HandleRecognize(context.Background(), makeReq("recognize_entities", map[string]any{
		"text":         "Jane Smith left Acme Widget Corp.",
		"entity_types": "people",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var rec models.Recognition
	require.NoError(t, json.Unmarshal([]byte(textContent(t, result)), &rec))
	assert.Empty(t, rec.Organizations)
	assert.Contains(t, rec.People, "Jane Smith")
	assert.NotContains(t, rec.Confidence, "Acme Widget Corp")
}

func TestHandleRecognize_InvalidCategory(t *testing.T) {
	srv, _ := newTestServer(t)

	result, err := srv.HandleRecognize(context.Background(), makeReq("recognize_entities", map[string]any{
		"text":         "Acme Corp",
		"entity_types": "unicorns",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, textContent(t, result), "validation:")
}

func TestHandleRecognize_MissingText(t *testing.T) {
	srv, _ := newTestServer(t)

	result, err := srv.HandleRecognize(context.Background(), makeReq("recognize_entities", map[string]any{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleEnrich(t *testing.T) {
	srv, _ := newTestServer(t)

	result, err := srv.HandleEnrich(context.Background(), makeReq("enrich_entity_profile", map[string]any{
		"organization_name": "Gamma Systems Inc",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var profile models.EntityProfile
	require.NoError(t, json.Unmarshal([]byte(textContent(t, result)), &profile))
	assert.Equal(t, "gamma_systems_inc", profile.ID)
	assert.ElementsMatch(t, []string{"GSI", "Gamma Systems"}, profile.Aliases)
	assert.Contains(t, profile.Monitoring.Keywords, "gamma systems")
}

func TestHandleClassify(t *testing.T) {
	srv, _ := newTestServer(t)

	result, err := srv.HandleClassify(context.Background(), makeReq("classify_industry", map[string]any{
		"organization_name": "Acme Bank Corp",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var cls models.IndustryClassification
	require.NoError(t, json.Unmarshal([]byte(textContent(t, result)), &cls))
	assert.Equal(t, "financial_services", cls.Primary)
	assert.Equal(t, []string{"banking", "insurance"}, cls.Subcategories)
}

func TestHandleIntelligence_AppendAndConflictKinds(t *testing.T) {
	srv, st := newTestServer(t)
	ctx := context.Background()

	_, err := st.UpsertProfile(ctx, &models.EntityProfile{ID: "acme_corp", Name: "Acme Corp"})
	require.NoError(t, err)

	result, err := srv.HandleIntelligence(ctx, makeReq("update_entity_intelligence", map[string]any{
		"entity_id":         "acme_corp",
		"intelligence_type": "risk_factors",
		"data":              "pending lawsuit, union vote",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	profile, err := st.GetProfile(ctx, "acme_corp")
	require.NoError(t, err)
	assert.Equal(t, []string{"pending lawsuit", "union vote"}, profile.Intelligence.RiskFactors)

	// Unknown list name surfaces as a validation error.
	result, err = srv.HandleIntelligence(ctx, makeReq("update_entity_intelligence", map[string]any{
		"entity_id":         "acme_corp",
		"intelligence_type": "rumors",
		"data":              "x",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, textContent(t, result), "validation:")

	// Missing entity surfaces as not_found.
	result, err = srv.HandleIntelligence(ctx, makeReq("update_entity_intelligence", map[string]any{
		"entity_id":         "ghost",
		"intelligence_type": "risk_factors",
		"data":              "x",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, textContent(t, result), "not_found:")
}

func TestHandleConnections(t *testing.T) {
	srv, st := newTestServer(t)
	ctx := context.Background()

	_, err := st.UpsertProfile(ctx, &models.EntityProfile{
		ID:   "acme_corp",
		Name: "Acme Corp",
		Relationships: models.Relationships{
			Subsidiaries:  []string{"acme_labs"},
			JointVentures: []string{"acme_jv"},
		},
	})
	require.NoError(t, err)

	result, err := srv.HandleConnections(ctx, makeReq("find_entity_connections", map[string]any{
		"entity_id":        "acme_corp",
		"connection_types": "subsidiary",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var payload struct {
		EntityID    string              `json:"entity_id"`
		Connections []models.Connection `json:"connections"`
	}
	require.NoError(t, json.Unmarshal([]byte(textContent(t, result)), &payload))
	require.Len(t, payload.Connections, 1)
	assert.Equal(t, "acme_labs", payload.Connections[0].EntityID)
	assert.Equal(t, models.RelationSubsidiary, payload.Connections[0].Type)
}

func TestHandleNetwork(t *testing.T) {
	srv, st := newTestServer(t)
	ctx := context.Background()

	_, err := st.UpsertProfile(ctx, &models.EntityProfile{
		ID:            "acme_corp",
		Name:          "Acme Corp",
		Relationships: models.Relationships{Subsidiaries: []string{"acme_labs"}},
	})
	require.NoError(t, err)
	_, err = st.UpsertProfile(ctx, &models.EntityProfile{ID: "acme_labs", Name: "Acme Labs"})
	require.NoError(t, err)

	result, err := srv.HandleNetwork(ctx, makeReq("map_organization_network", map[string]any{
		"organization_id": "acme_corp",
		"depth":           float64(2),
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var nm models.NetworkMap
	require.NoError(t, json.Unmarshal([]byte(textContent(t, result)), &nm))
	assert.Len(t, nm.Nodes, 2)
	assert.Len(t, nm.Edges, 1)
}

func TestHandleNetwork_MissingRoot(t *testing.T) {
	srv, _ := newTestServer(t)

	result, err := srv.HandleNetwork(context.Background(), makeReq("map_organization_network", map[string]any{
		"organization_id": "ghost",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, textContent(t, result), "not_found:")
}

func TestHandleInfluence(t *testing.T) {
	srv, st := newTestServer(t)
	ctx := context.Background()

	_, err := st.UpsertProfile(ctx, &models.EntityProfile{
		ID:   "acme_corp",
		Name: "Acme Corp",
		Metadata: models.OrgMetadata{
			Ownership: "public",
			Revenue:   "$2 billion",
		},
		Stakeholders: models.Stakeholders{
			MediaOutlets: []string{"Wire A", "Wire B", "Wire C"},
			Regulators:   []string{"SEC"},
		},
	})
	require.NoError(t, err)

	result, err := srv.HandleInfluence(ctx, makeReq("calculate_influence_score", map[string]any{
		"organization_id": "acme_corp",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var report models.InfluenceReport
	require.NoError(t, json.Unmarshal([]byte(textContent(t, result)), &report))
	assert.Equal(t, 75, report.Score)
	assert.Equal(t, 30, report.Factors["revenue_scale"])
}

func TestHandlePredict(t *testing.T) {
	srv, st := newTestServer(t)
	ctx := context.Background()

	_, err := st.UpsertProfile(ctx, &models.EntityProfile{ID: "acme_corp", Name: "Acme Corp"})
	require.NoError(t, err)

	result, err := srv.HandlePredict(ctx, makeReq("predict_entity_behavior", map[string]any{
		"entity_id": "acme_corp",
		"scenario":  "A competitor launches a threatening campaign",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var pred models.Prediction
	require.NoError(t, json.Unmarshal([]byte(textContent(t, result)), &pred))
	assert.Equal(t, "Aggressive counter-positioning", pred.LikelyReaction)
	assert.Len(t, pred.KeyFactors, 5)
}

func TestHandleMatch(t *testing.T) {
	srv, st := newTestServer(t)
	ctx := context.Background()

	_, err := st.UpsertProfile(ctx, &models.EntityProfile{
		ID:      "gamma_systems_inc",
		Name:    "Gamma Systems Inc",
		Aliases: []string{"GSI"},
	})
	require.NoError(t, err)

	result, err := srv.HandleMatch(ctx, makeReq("match_entities_to_org", map[string]any{
		"organization_id": "gamma_systems_inc",
		"entity_list":     "Gamma Systems Inc, Delta Forge",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var mr models.MatchResult
	require.NoError(t, json.Unmarshal([]byte(textContent(t, result)), &mr))
	require.Len(t, mr.StrongMatches, 1)
	assert.Equal(t, "Gamma Systems Inc", mr.StrongMatches[0].Name)
	require.Len(t, mr.NoMatch, 1)
	assert.Equal(t, "Delta Forge", mr.NoMatch[0].Name)
}

func TestHandleEvolution(t *testing.T) {
	srv, _ := newTestServer(t)

	result, err := srv.HandleEvolution(context.Background(), makeReq("track_entity_evolution", map[string]any{
		"entity_id": "acme_corp",
		"timeframe": "90d",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var ev models.Evolution
	require.NoError(t, json.Unmarshal([]byte(textContent(t, result)), &ev))
	assert.Equal(t, "stable", ev.TrendAnalysis.Trend)
}

func TestNilDependenciesReturnToolErrors(t *testing.T) {
	srv := NewServer(Deps{}, testLogger())

	result, err := srv.HandleEnrich(context.Background(), makeReq("enrich_entity_profile", map[string]any{
		"organization_name": "Acme Corp",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}
