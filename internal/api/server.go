// Package api exposes the entity-intelligence operations over HTTP/JSON.
package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/praxis-pr/entity-intel/internal/enrich"
	"github.com/praxis-pr/entity-intel/internal/evolution"
	"github.com/praxis-pr/entity-intel/internal/graph"
	"github.com/praxis-pr/entity-intel/internal/influence"
	"github.com/praxis-pr/entity-intel/internal/match"
	"github.com/praxis-pr/entity-intel/internal/models"
	"github.com/praxis-pr/entity-intel/internal/predict"
	"github.com/praxis-pr/entity-intel/internal/recognizer"
	"github.com/praxis-pr/entity-intel/internal/store"
	"github.com/praxis-pr/entity-intel/internal/taxonomy"
)

const maxBodyBytes = 1 << 20 // 1 MB

// Server is an HTTP API server that exposes entity-intelligence operations.
type Server struct {
	store      store.Store
	recognizer recognizer.Recognizer
	pipeline   *enrich.Pipeline
	classifier *taxonomy.Classifier
	mapper     *graph.Mapper
	tracker    *evolution.Tracker
	predictor  *predict.Predictor
	matcher    *match.Matcher
	logger     *slog.Logger
	authToken  string // empty = no auth required
}

// NewServer creates a new Server with the given dependencies.
func NewServer(st store.Store, rec recognizer.Recognizer, pipeline *enrich.Pipeline,
	classifier *taxonomy.Classifier, mapper *graph.Mapper, tracker *evolution.Tracker,
	predictor *predict.Predictor, matcher *match.Matcher, logger *slog.Logger, authToken string) *Server {
	return &Server{
		store:      st,
		recognizer: rec,
		pipeline:   pipeline,
		classifier: classifier,
		mapper:     mapper,
		tracker:    tracker,
		predictor:  predictor,
		matcher:    matcher,
		logger:     logger,
		authToken:  authToken,
	}
}

// Handler returns an http.Handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health check — no auth required.
	mux.HandleFunc("GET /healthz", s.handleHealthz)

	mux.HandleFunc("POST /v1/recognize", s.auth(s.handleRecognize))
	mux.HandleFunc("POST /v1/classify", s.auth(s.handleClassify))
	mux.HandleFunc("POST /v1/enrich", s.auth(s.handleEnrich))
	mux.HandleFunc("GET /v1/entities/{id}", s.auth(s.handleGetEntity))
	mux.HandleFunc("POST /v1/entities/{id}/intelligence", s.auth(s.handleIntelligence))
	mux.HandleFunc("GET /v1/entities/{id}/connections", s.auth(s.handleConnections))
	mux.HandleFunc("GET /v1/entities/{id}/evolution", s.auth(s.handleEvolution))
	mux.HandleFunc("GET /v1/entities/{id}/influence", s.auth(s.handleInfluence))
	mux.HandleFunc("GET /v1/entities/{id}/network", s.auth(s.handleNetwork))
	mux.HandleFunc("POST /v1/entities/{id}/predict", s.auth(s.handlePredict))
	mux.HandleFunc("POST /v1/entities/{id}/match", s.auth(s.handleMatch))

	return mux
}

// --- middleware ---

// auth wraps a handler with Bearer token authentication when authToken is set.
func (s *Server) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.authToken == "" {
			next(w, r)
			return
		}
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.authToken)) != 1 {
			s.writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
			return
		}
		next(w, r)
	}
}

// --- handlers ---

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "store": err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// recognizeRequest is the body accepted by POST /v1/recognize.
type recognizeRequest struct {
	Text        string   `json:"text"`
	EntityTypes []string `json:"entity_types,omitempty"`
}

func (s *Server) handleRecognize(w http.ResponseWriter, r *http.Request) {
	var req recognizeRequest
	if !s.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.writeError(w, http.StatusBadRequest, "validation", "text is required")
		return
	}

	rec, err := s.recognizer.Recognize(r.Context(), req.Text)
	if err != nil {
		s.writeFromError(w, err)
		return
	}

	if len(req.EntityTypes) > 0 {
		var filter []models.EntityCategory
		for _, t := range req.EntityTypes {
			category := models.EntityCategory(t)
			if !category.IsValid() {
				s.writeError(w, http.StatusBadRequest, "validation", "invalid entity type "+strconv.Quote(t))
				return
			}
			filter = append(filter, category)
		}
		filterRecognition(rec, filter)
	}

	s.writeJSON(w, http.StatusOK, rec)
}

// classifyRequest is the body accepted by POST /v1/classify.
type classifyRequest struct {
	OrganizationName string `json:"organization_name"`
	Context          string `json:"context,omitempty"`
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if !s.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.OrganizationName) == "" {
		s.writeError(w, http.StatusBadRequest, "validation", "organization_name is required")
		return
	}

	s.writeJSON(w, http.StatusOK, s.classifier.Classify(req.OrganizationName, req.Context))
}

// enrichRequest is the body accepted by POST /v1/enrich.
type enrichRequest struct {
	OrganizationName string `json:"organization_name"`
	DeepEnrich       bool   `json:"deep_enrich,omitempty"`
}

func (s *Server) handleEnrich(w http.ResponseWriter, r *http.Request) {
	var req enrichRequest
	if !s.decode(w, r, &req) {
		return
	}

	profile, err := s.pipeline.Enrich(r.Context(), req.OrganizationName, req.DeepEnrich)
	if err != nil {
		s.writeFromError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleGetEntity(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	profile, err := s.store.GetProfile(r.Context(), id)
	if err != nil {
		s.writeFromError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, profile)
}

// intelligenceRequest is the body accepted by POST /v1/entities/{id}/intelligence.
type intelligenceRequest struct {
	IntelligenceType string   `json:"intelligence_type"`
	Data             []string `json:"data"`
}

func (s *Server) handleIntelligence(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req intelligenceRequest
	if !s.decode(w, r, &req) {
		return
	}

	profile, err := s.pipeline.UpdateIntelligence(r.Context(), id,
		models.IntelligenceType(req.IntelligenceType), req.Data)
	if err != nil {
		s.writeFromError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"updated":   true,
		"entity_id": id,
		"version":   profile.Version,
	})
}

func (s *Server) handleConnections(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var types []models.RelationType
	if raw := r.URL.Query().Get("types"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(t); trimmed != "" {
				types = append(types, models.RelationType(trimmed))
			}
		}
	}

	connections, err := s.mapper.Connections(r.Context(), id, types)
	if err != nil {
		s.writeFromError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"entity_id": id, "connections": connections})
}

func (s *Server) handleEvolution(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	timeframe := r.URL.Query().Get("timeframe")

	ev, err := s.tracker.Evolution(r.Context(), id, timeframe)
	if err != nil {
		s.writeFromError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ev)
}

func (s *Server) handleInfluence(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	profile, err := s.store.GetProfile(r.Context(), id)
	if err != nil {
		s.writeFromError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, influence.Report(profile))
}

func (s *Server) handleNetwork(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	depth := graph.DefaultDepth
	if raw := r.URL.Query().Get("depth"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.writeError(w, http.StatusBadRequest, "validation", "depth must be a positive integer")
			return
		}
		depth = parsed
	}

	nm, err := s.mapper.MapNetwork(r.Context(), id, depth)
	if err != nil {
		s.writeFromError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nm)
}

// predictRequest is the body accepted by POST /v1/entities/{id}/predict.
type predictRequest struct {
	Scenario string `json:"scenario"`
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req predictRequest
	if !s.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Scenario) == "" {
		s.writeError(w, http.StatusBadRequest, "validation", "scenario is required")
		return
	}

	prediction, err := s.predictor.Predict(r.Context(), id, req.Scenario)
	if err != nil {
		s.writeFromError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, prediction)
}

// matchRequest is the body accepted by POST /v1/entities/{id}/match.
type matchRequest struct {
	EntityList []string `json:"entity_list"`
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req matchRequest
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.EntityList) == 0 {
		s.writeError(w, http.StatusBadRequest, "validation", "entity_list is required")
		return
	}

	result, err := s.matcher.Match(r.Context(), id, req.EntityList)
	if err != nil {
		s.writeFromError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// --- helpers ---

// decode reads a JSON body into v, writing a 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, "validation", "invalid request body")
		return false
	}
	return true
}

// writeFromError maps internal errors to the HTTP error taxonomy.
func (s *Server) writeFromError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, store.ErrConflict):
		s.writeError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, enrich.ErrEmptyName),
		errors.Is(err, enrich.ErrUnknownIntelligenceType),
		errors.Is(err, enrich.ErrNoItems):
		s.writeError(w, http.StatusBadRequest, "validation", err.Error())
	default:
		s.logger.Error("request failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "persistence", err.Error())
	}
}

// writeJSON encodes v as JSON and writes it to w with the given status code.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(v); encErr != nil {
		s.logger.Error("failed to encode response", "error", encErr)
	}
}

// writeError writes a JSON error payload with an error kind and message.
func (s *Server) writeError(w http.ResponseWriter, status int, kind, msg string) {
	s.writeJSON(w, status, map[string]string{"error": kind, "message": msg})
}

// filterRecognition clears categories not named in filter.
func filterRecognition(rec *models.Recognition, filter []models.EntityCategory) {
	keep := make(map[models.EntityCategory]bool, len(filter))
	for _, c := range filter {
		keep[c] = true
	}
	clear := func(names *[]string) {
		for _, name := range *names {
			delete(rec.Confidence, name)
		}
		*names = []string{}
	}
	if !keep[models.CategoryOrganizations] {
		clear(&rec.Organizations)
	}
	if !keep[models.CategoryPeople] {
		clear(&rec.People)
	}
	if !keep[models.CategoryLocations] {
		clear(&rec.Locations)
	}
	if !keep[models.CategoryProducts] {
		clear(&rec.Products)
	}
	if !keep[models.CategoryEvents] {
		clear(&rec.Events)
	}
}

// Shutdown gracefully shuts down an http.Server with the given timeout.
// This is a convenience helper used by the serve command.
func Shutdown(srv *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
