package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

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

func newTestServer(t *testing.T, authToken string) (http.Handler, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	c := cache.NewTTLCache(0)
	cls := taxonomy.NewClassifier(testLogger())

	srv := NewServer(
		st,
		recognizer.NewPatternRecognizer(rand.New(rand.NewSource(3)), testLogger()),
		enrich.NewPipeline(st, c, cls, testLogger()),
		cls,
		graph.NewMapper(st, testLogger()),
		evolution.NewTracker(st, testLogger()),
		predict.NewPredictor(st, rand.New(rand.NewSource(4)), testLogger()),
		match.NewMatcher(st, match.DefaultWeights(), testLogger()),
		testLogger(),
		authToken,
	)
	return srv.Handler(), st
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealthz(t *testing.T) {
	h, _ := newTestServer(t, "")

	rr := doJSON(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"ok"`)
}

func TestAuthRequired(t *testing.T) {
	h, _ := newTestServer(t, "secret-token")

	rr := doJSON(t, h, http.MethodPost, "/v1/recognize", map[string]string{"text": "Acme Corp"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest(http.MethodPost, "/v1/recognize", bytes.NewBufferString(`{"text":"Acme Corp"}`))
	req.Header.Set("Authorization", "Bearer secret-token")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	// Health never requires auth.
	rr = doJSON(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRecognizeEndpoint(t *testing.T) {
	h, _ := newTestServer(t, "")

	rr := doJSON(t, h, http.MethodPost, "/v1/recognize", map[string]any{
		"text": "Jane Smith left Acme Widget Corp in May.",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var rec models.Recognition
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rec))
	assert.Contains(t, rec.Organizations, "Acme Widget Corp")
	assert.Contains(t, rec.People, "Jane Smith")
}

func TestRecognizeEndpoint_Validation(t *testing.T) {
	h, _ := newTestServer(t, "")

	rr := doJSON(t, h, http.MethodPost, "/v1/recognize", map[string]any{"text": "  "})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "validation")

	rr = doJSON(t, h, http.MethodPost, "/v1/recognize", map[string]any{
		"text":         "Acme Corp",
		"entity_types": []string{"unicorns"},
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestEnrichAndGetEntity(t *testing.T) {
	h, _ := newTestServer(t, "")

	rr := doJSON(t, h, http.MethodPost, "/v1/enrich", map[string]any{
		"organization_name": "Gamma Systems Inc",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var profile models.EntityProfile
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &profile))
	assert.Equal(t, "gamma_systems_inc", profile.ID)

	rr = doJSON(t, h, http.MethodGet, "/v1/entities/gamma_systems_inc", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, h, http.MethodGet, "/v1/entities/ghost", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "not_found")
}

func TestClassifyEndpoint(t *testing.T) {
	h, _ := newTestServer(t, "")

	rr := doJSON(t, h, http.MethodPost, "/v1/classify", map[string]any{
		"organization_name": "Acme Bank Corp",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var cls models.IndustryClassification
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &cls))
	assert.Equal(t, "financial_services", cls.Primary)
}

func TestIntelligenceEndpoint(t *testing.T) {
	h, st := newTestServer(t, "")
	ctx := context.Background()

	_, err := st.UpsertProfile(ctx, &models.EntityProfile{ID: "acme_corp", Name: "Acme Corp"})
	require.NoError(t, err)

	rr := doJSON(t, h, http.MethodPost, "/v1/entities/acme_corp/intelligence", map[string]any{
		"intelligence_type": "opportunities",
		"data":              []string{"new market entry"},
	})
	require.Equal(t, http.StatusOK, rr.Code)

	profile, err := st.GetProfile(ctx, "acme_corp")
	require.NoError(t, err)
	assert.Equal(t, []string{"new market entry"}, profile.Intelligence.Opportunities)

	rr = doJSON(t, h, http.MethodPost, "/v1/entities/acme_corp/intelligence", map[string]any{
		"intelligence_type": "rumors",
		"data":              []string{"x"},
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestNetworkEndpoint(t *testing.T) {
	h, st := newTestServer(t, "")
	ctx := context.Background()

	_, err := st.UpsertProfile(ctx, &models.EntityProfile{
		ID:            "acme_corp",
		Name:          "Acme Corp",
		Relationships: models.Relationships{Subsidiaries: []string{"acme_labs"}},
	})
	require.NoError(t, err)
	_, err = st.UpsertProfile(ctx, &models.EntityProfile{ID: "acme_labs", Name: "Acme Labs"})
	require.NoError(t, err)

	rr := doJSON(t, h, http.MethodGet, "/v1/entities/acme_corp/network?depth=2", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var nm models.NetworkMap
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &nm))
	assert.Len(t, nm.Nodes, 2)

	rr = doJSON(t, h, http.MethodGet, "/v1/entities/acme_corp/network?depth=zero", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPredictEndpoint(t *testing.T) {
	h, st := newTestServer(t, "")

	_, err := st.UpsertProfile(context.Background(), &models.EntityProfile{ID: "acme_corp", Name: "Acme Corp"})
	require.NoError(t, err)

	rr := doJSON(t, h, http.MethodPost, "/v1/entities/acme_corp/predict", map[string]any{
		"scenario": "A brewing scandal over expense reports",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var pred models.Prediction
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &pred))
	assert.Equal(t, "Immediate crisis containment and coordinated public acknowledgment", pred.LikelyReaction)
}

func TestInfluenceEndpoint(t *testing.T) {
	h, st := newTestServer(t, "")

	_, err := st.UpsertProfile(context.Background(), &models.EntityProfile{
		ID:           "acme_corp",
		Name:         "Acme Corp",
		Metadata:     models.OrgMetadata{Ownership: "public", Revenue: "$2 billion"},
		Stakeholders: models.Stakeholders{MediaOutlets: []string{"a", "b", "c"}, Regulators: []string{"SEC"}},
	})
	require.NoError(t, err)

	rr := doJSON(t, h, http.MethodGet, "/v1/entities/acme_corp/influence", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var report models.InfluenceReport
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	assert.Equal(t, 75, report.Score)
}

func TestMatchEndpoint(t *testing.T) {
	h, st := newTestServer(t, "")

	_, err := st.UpsertProfile(context.Background(), &models.EntityProfile{
		ID:      "gamma_systems_inc",
		Name:    "Gamma Systems Inc",
		Aliases: []string{"GSI"},
	})
	require.NoError(t, err)

	rr := doJSON(t, h, http.MethodPost, "/v1/entities/gamma_systems_inc/match", map[string]any{
		"entity_list": []string{"GSI", "Delta Forge"},
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var mr models.MatchResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &mr))
	require.Len(t, mr.StrongMatches, 1)
	assert.Equal(t, "GSI", mr.StrongMatches[0].Name)
}

func TestConflictMapsTo409(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	first, err := st.UpsertProfile(ctx, &models.EntityProfile{ID: "acme_corp", Name: "Acme Corp"})
	require.NoError(t, err)
	_, err = st.UpsertProfile(ctx, first) // bump the stored version
	require.NoError(t, err)

	_, err = st.UpdateProfile(ctx, first)
	require.ErrorIs(t, err, store.ErrConflict)

	s := &Server{logger: testLogger()}
	rr := httptest.NewRecorder()
	s.writeFromError(rr, err)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "conflict")
}
