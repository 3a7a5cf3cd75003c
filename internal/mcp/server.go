// Package mcp implements the Model Context Protocol server for entity-intel.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/praxis-pr/entity-intel/internal/enrich"
	"github.com/praxis-pr/entity-intel/internal/evolution"
	"github.com/praxis-pr/entity-intel/internal/graph"
	"github.com/praxis-pr/entity-intel/internal/influence"
	"github.com/praxis-pr/entity-intel/internal/match"
	"github.com/praxis-pr/entity-intel/internal/metrics"
	"github.com/praxis-pr/entity-intel/internal/models"
	"github.com/praxis-pr/entity-intel/internal/predict"
	"github.com/praxis-pr/entity-intel/internal/recognizer"
	"github.com/praxis-pr/entity-intel/internal/store"
	"github.com/praxis-pr/entity-intel/internal/taxonomy"
)

// Deps bundles the components the MCP server dispatches into.
type Deps struct {
	Store      store.Store
	Recognizer recognizer.Recognizer
	Pipeline   *enrich.Pipeline
	Classifier *taxonomy.Classifier
	Mapper     *graph.Mapper
	Tracker    *evolution.Tracker
	Predictor  *predict.Predictor
	Matcher    *match.Matcher
}

// Server wraps an MCPServer with entity-intel dependencies.
type Server struct {
	mcp    *mcpserver.MCPServer
	deps   Deps
	logger *slog.Logger
}

// NewServer creates a new MCP server exposing the entity-intelligence
// operation surface as tools.
func NewServer(deps Deps, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{deps: deps, logger: logger}

	mcpSrv := mcpserver.NewMCPServer(
		"entity-intel",
		"1.0.0",
		mcpserver.WithToolCapabilities(true),
	)

	mcpSrv.AddTool(buildRecognizeTool(), s.handleRecognize)
	mcpSrv.AddTool(buildEnrichTool(), s.handleEnrich)
	mcpSrv.AddTool(buildEvolutionTool(), s.handleEvolution)
	mcpSrv.AddTool(buildConnectionsTool(), s.handleConnections)
	mcpSrv.AddTool(buildMatchTool(), s.handleMatch)
	mcpSrv.AddTool(buildIntelligenceTool(), s.handleIntelligence)
	mcpSrv.AddTool(buildPredictTool(), s.handlePredict)
	mcpSrv.AddTool(buildClassifyTool(), s.handleClassify)
	mcpSrv.AddTool(buildNetworkTool(), s.handleNetwork)
	mcpSrv.AddTool(buildInfluenceTool(), s.handleInfluence)

	s.mcp = mcpSrv
	return s
}

// MCPServer returns the underlying mcp-go MCPServer for use with ServeStdio.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcp
}

// Exported handlers for direct testing without the mcp-go transport layer.

// HandleRecognize is the exported handler for "recognize_entities".
func (s *Server) HandleRecognize(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleRecognize(ctx, req)
}

// HandleEnrich is the exported handler for "enrich_entity_profile".
func (s *Server) HandleEnrich(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleEnrich(ctx, req)
}

// HandleEvolution is the exported handler for "track_entity_evolution".
func (s *Server) HandleEvolution(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleEvolution(ctx, req)
}

// HandleConnections is the exported handler for "find_entity_connections".
func (s *Server) HandleConnections(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleConnections(ctx, req)
}

// HandleMatch is the exported handler for "match_entities_to_org".
func (s *Server) HandleMatch(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleMatch(ctx, req)
}

// HandleIntelligence is the exported handler for "update_entity_intelligence".
func (s *Server) HandleIntelligence(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleIntelligence(ctx, req)
}

// HandlePredict is the exported handler for "predict_entity_behavior".
func (s *Server) HandlePredict(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handlePredict(ctx, req)
}

// HandleClassify is the exported handler for "classify_industry".
func (s *Server) HandleClassify(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleClassify(ctx, req)
}

// HandleNetwork is the exported handler for "map_organization_network".
func (s *Server) HandleNetwork(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleNetwork(ctx, req)
}

// HandleInfluence is the exported handler for "calculate_influence_score".
func (s *Server) HandleInfluence(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleInfluence(ctx, req)
}

// --- helpers ---

// toolResultJSON marshals v to JSON and returns it as a tool text result.
func toolResultJSON(v any) (*mcpgo.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("mcp: marshaling result: %w", err)
	}
	return mcpgo.NewToolResultText(string(b)), nil
}

// errorResult maps an internal error to a structured tool error. The
// prefix names the error kind so callers can branch without parsing
// free text.
func errorResult(err error) *mcpgo.CallToolResult {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return mcpgo.NewToolResultErrorf("not_found: %s", err.Error())
	case errors.Is(err, store.ErrConflict):
		return mcpgo.NewToolResultErrorf("conflict: %s", err.Error())
	case errors.Is(err, enrich.ErrEmptyName),
		errors.Is(err, enrich.ErrUnknownIntelligenceType),
		errors.Is(err, enrich.ErrNoItems):
		return mcpgo.NewToolResultErrorf("validation: %s", err.Error())
	}
	return mcpgo.NewToolResultErrorf("persistence: %s", err.Error())
}

// stringList reads a tool argument that may be a JSON array of strings
// or a comma-separated string.
func stringList(req mcpgo.CallToolRequest, key string) []string {
	raw, ok := req.GetArguments()[key]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	case string:
		var out []string
		for _, part := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	}
	return nil
}

// --- tool definitions ---

func buildRecognizeTool() mcpgo.Tool {
	return mcpgo.NewTool("recognize_entities",
		mcpgo.WithDescription("Recognize organizations, people and other entities in free text. Returns categorized entity lists with confidence scores."),
		mcpgo.WithString("text",
			mcpgo.Required(),
			mcpgo.Description("The text to scan for entities"),
		),
		mcpgo.WithString("entity_types",
			mcpgo.Description("Comma-separated categories to keep: organizations, people, locations, products, events (default: all)"),
		),
	)
}

func buildEnrichTool() mcpgo.Tool {
	return mcpgo.NewTool("enrich_entity_profile",
		mcpgo.WithDescription("Build or fetch the full entity profile for an organization: industry, aliases, keywords, crisis indicators, monitoring config."),
		mcpgo.WithString("organization_name",
			mcpgo.Required(),
			mcpgo.Description("Display name of the organization"),
		),
		mcpgo.WithBoolean("deep_enrich",
			mcpgo.Description("Force a rebuild of derived fields, bypassing the cache (default: false)"),
		),
	)
}

func buildEvolutionTool() mcpgo.Tool {
	return mcpgo.NewTool("track_entity_evolution",
		mcpgo.WithDescription("Summarize an entity's change history: trend analysis and key milestones."),
		mcpgo.WithString("entity_id",
			mcpgo.Required(),
			mcpgo.Description("The entity id"),
		),
		mcpgo.WithString("timeframe",
			mcpgo.Description("Timeframe label echoed in the summary, e.g. \"90d\""),
		),
	)
}

func buildConnectionsTool() mcpgo.Tool {
	return mcpgo.NewTool("find_entity_connections",
		mcpgo.WithDescription("List an entity's direct declared relationships."),
		mcpgo.WithString("entity_id",
			mcpgo.Required(),
			mcpgo.Description("The entity id"),
		),
		mcpgo.WithString("connection_types",
			mcpgo.Description("Comma-separated relationship types to keep: subsidiary, joint_venture, partnership (default: all)"),
		),
	)
}

func buildMatchTool() mcpgo.Tool {
	return mcpgo.NewTool("match_entities_to_org",
		mcpgo.WithDescription("Score a list of entity names against an organization and bucket them into strong, potential and no match."),
		mcpgo.WithString("organization_id",
			mcpgo.Required(),
			mcpgo.Description("The organization's entity id"),
		),
		mcpgo.WithString("entity_list",
			mcpgo.Required(),
			mcpgo.Description("Comma-separated candidate entity names"),
		),
	)
}

func buildIntelligenceTool() mcpgo.Tool {
	return mcpgo.NewTool("update_entity_intelligence",
		mcpgo.WithDescription("Append items to one of an entity's intelligence lists. Lists are append-only."),
		mcpgo.WithString("entity_id",
			mcpgo.Required(),
			mcpgo.Description("The entity id"),
		),
		mcpgo.WithString("intelligence_type",
			mcpgo.Required(),
			mcpgo.Description("Target list: narrative_themes, recent_developments, upcoming_catalysts, risk_factors, opportunities, or cascade_triggers"),
		),
		mcpgo.WithString("data",
			mcpgo.Required(),
			mcpgo.Description("Comma-separated items to append"),
		),
	)
}

func buildPredictTool() mcpgo.Tool {
	return mcpgo.NewTool("predict_entity_behavior",
		mcpgo.WithDescription("Rule-based forecast of how an entity reacts to a hypothetical scenario."),
		mcpgo.WithString("entity_id",
			mcpgo.Required(),
			mcpgo.Description("The entity id"),
		),
		mcpgo.WithString("scenario",
			mcpgo.Required(),
			mcpgo.Description("The hypothetical scenario text"),
		),
	)
}

func buildClassifyTool() mcpgo.Tool {
	return mcpgo.NewTool("classify_industry",
		mcpgo.WithDescription("Classify an organization's industry from its name and optional context text."),
		mcpgo.WithString("organization_name",
			mcpgo.Required(),
			mcpgo.Description("Display name of the organization"),
		),
		mcpgo.WithString("context",
			mcpgo.Description("Surrounding text; strong keyword signals here override the name-based classification"),
		),
	)
}

func buildNetworkTool() mcpgo.Tool {
	return mcpgo.NewTool("map_organization_network",
		mcpgo.WithDescription("Breadth-first map of an organization's relationship network: nodes, weighted edges, and industry clusters."),
		mcpgo.WithString("organization_id",
			mcpgo.Required(),
			mcpgo.Description("The root organization's entity id"),
		),
		mcpgo.WithNumber("depth",
			mcpgo.Description("Traversal depth (default: 2)"),
		),
	)
}

func buildInfluenceTool() mcpgo.Tool {
	return mcpgo.NewTool("calculate_influence_score",
		mcpgo.WithDescription("Deterministic 0-100 influence score for an organization with its factor breakdown."),
		mcpgo.WithString("organization_id",
			mcpgo.Required(),
			mcpgo.Description("The organization's entity id"),
		),
	)
}

// --- tool handlers ---

func (s *Server) handleRecognize(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.deps.Recognizer == nil {
		return mcpgo.NewToolResultError("recognizer is unavailable"), nil
	}

	text := req.GetString("text", "")
	if strings.TrimSpace(text) == "" {
		return mcpgo.NewToolResultError("validation: text is required and must not be empty"), nil
	}

	var filter []models.EntityCategory
	for _, t := range stringList(req, "entity_types") {
		category := models.EntityCategory(t)
		if !category.IsValid() {
			return mcpgo.NewToolResultErrorf("validation: invalid entity type %q", t), nil
		}
		filter = append(filter, category)
	}

	rec, err := s.deps.Recognizer.Recognize(ctx, text)
	if err != nil {
		return errorResult(err), nil
	}
	applyCategoryFilter(rec, filter)

	metrics.Inc(metrics.RecognizeTotal)
	s.logger.Info("mcp: recognized entities",
		"organizations", len(rec.Organizations), "people", len(rec.People))
	return toolResultJSON(rec)
}

func (s *Server) handleEnrich(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.deps.Pipeline == nil {
		return mcpgo.NewToolResultError("enrichment pipeline is unavailable"), nil
	}

	name := req.GetString("organization_name", "")
	if strings.TrimSpace(name) == "" {
		return mcpgo.NewToolResultError("validation: organization_name is required and must not be empty"), nil
	}
	deep := req.GetBool("deep_enrich", false)

	profile, err := s.deps.Pipeline.Enrich(ctx, name, deep)
	if err != nil {
		return errorResult(err), nil
	}

	s.logger.Info("mcp: enriched profile", "id", profile.ID, "deep", deep)
	return toolResultJSON(profile)
}

func (s *Server) handleEvolution(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.deps.Tracker == nil {
		return mcpgo.NewToolResultError("evolution tracker is unavailable"), nil
	}

	entityID := req.GetString("entity_id", "")
	if strings.TrimSpace(entityID) == "" {
		return mcpgo.NewToolResultError("validation: entity_id is required and must not be empty"), nil
	}
	timeframe := req.GetString("timeframe", "")

	ev, err := s.deps.Tracker.Evolution(ctx, entityID, timeframe)
	if err != nil {
		return errorResult(err), nil
	}
	return toolResultJSON(ev)
}

func (s *Server) handleConnections(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.deps.Mapper == nil {
		return mcpgo.NewToolResultError("network mapper is unavailable"), nil
	}

	entityID := req.GetString("entity_id", "")
	if strings.TrimSpace(entityID) == "" {
		return mcpgo.NewToolResultError("validation: entity_id is required and must not be empty"), nil
	}

	var types []models.RelationType
	for _, t := range stringList(req, "connection_types") {
		types = append(types, models.RelationType(t))
	}

	connections, err := s.deps.Mapper.Connections(ctx, entityID, types)
	if err != nil {
		return errorResult(err), nil
	}

	result := map[string]any{
		"entity_id":   entityID,
		"connections": connections,
	}
	return toolResultJSON(result)
}

func (s *Server) handleMatch(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.deps.Matcher == nil {
		return mcpgo.NewToolResultError("matcher is unavailable"), nil
	}

	orgID := req.GetString("organization_id", "")
	if strings.TrimSpace(orgID) == "" {
		return mcpgo.NewToolResultError("validation: organization_id is required and must not be empty"), nil
	}
	candidates := stringList(req, "entity_list")
	if len(candidates) == 0 {
		return mcpgo.NewToolResultError("validation: entity_list is required and must not be empty"), nil
	}

	result, err := s.deps.Matcher.Match(ctx, orgID, candidates)
	if err != nil {
		return errorResult(err), nil
	}
	return toolResultJSON(result)
}

func (s *Server) handleIntelligence(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.deps.Pipeline == nil {
		return mcpgo.NewToolResultError("enrichment pipeline is unavailable"), nil
	}

	entityID := req.GetString("entity_id", "")
	if strings.TrimSpace(entityID) == "" {
		return mcpgo.NewToolResultError("validation: entity_id is required and must not be empty"), nil
	}
	intelType := models.IntelligenceType(req.GetString("intelligence_type", ""))
	items := stringList(req, "data")

	profile, err := s.deps.Pipeline.UpdateIntelligence(ctx, entityID, intelType, items)
	if err != nil {
		return errorResult(err), nil
	}

	s.logger.Info("mcp: appended intelligence", "id", entityID, "type", intelType)
	result := map[string]any{
		"updated":   true,
		"entity_id": entityID,
		"version":   profile.Version,
	}
	return toolResultJSON(result)
}

func (s *Server) handlePredict(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.deps.Predictor == nil {
		return mcpgo.NewToolResultError("predictor is unavailable"), nil
	}

	entityID := req.GetString("entity_id", "")
	if strings.TrimSpace(entityID) == "" {
		return mcpgo.NewToolResultError("validation: entity_id is required and must not be empty"), nil
	}
	scenario := req.GetString("scenario", "")
	if strings.TrimSpace(scenario) == "" {
		return mcpgo.NewToolResultError("validation: scenario is required and must not be empty"), nil
	}

	prediction, err := s.deps.Predictor.Predict(ctx, entityID, scenario)
	if err != nil {
		return errorResult(err), nil
	}
	return toolResultJSON(prediction)
}

func (s *Server) handleClassify(_ context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.deps.Classifier == nil {
		return mcpgo.NewToolResultError("classifier is unavailable"), nil
	}

	name := req.GetString("organization_name", "")
	if strings.TrimSpace(name) == "" {
		return mcpgo.NewToolResultError("validation: organization_name is required and must not be empty"), nil
	}
	contextText := req.GetString("context", "")

	classification := s.deps.Classifier.Classify(name, contextText)
	return toolResultJSON(classification)
}

func (s *Server) handleNetwork(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.deps.Mapper == nil {
		return mcpgo.NewToolResultError("network mapper is unavailable"), nil
	}

	orgID := req.GetString("organization_id", "")
	if strings.TrimSpace(orgID) == "" {
		return mcpgo.NewToolResultError("validation: organization_id is required and must not be empty"), nil
	}
	depth := req.GetInt("depth", graph.DefaultDepth)
	if depth <= 0 {
		depth = graph.DefaultDepth
	}

	nm, err := s.deps.Mapper.MapNetwork(ctx, orgID, depth)
	if err != nil {
		return errorResult(err), nil
	}
	return toolResultJSON(nm)
}

func (s *Server) handleInfluence(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.deps.Store == nil {
		return mcpgo.NewToolResultError("store is unavailable"), nil
	}

	orgID := req.GetString("organization_id", "")
	if strings.TrimSpace(orgID) == "" {
		return mcpgo.NewToolResultError("validation: organization_id is required and must not be empty"), nil
	}

	profile, err := s.deps.Store.GetProfile(ctx, orgID)
	if err != nil {
		return errorResult(err), nil
	}
	return toolResultJSON(influence.Report(profile))
}

// applyCategoryFilter clears the categories not named in filter. An
// empty filter keeps everything.
func applyCategoryFilter(rec *models.Recognition, filter []models.EntityCategory) {
	if len(filter) == 0 {
		return
	}
	keep := make(map[models.EntityCategory]bool, len(filter))
	for _, c := range filter {
		keep[c] = true
	}
	if !keep[models.CategoryOrganizations] {
		dropConfidence(rec, rec.Organizations)
		rec.Organizations = []string{}
	}
	if !keep[models.CategoryPeople] {
		dropConfidence(rec, rec.People)
		rec.People = []string{}
	}
	if !keep[models.CategoryLocations] {
		dropConfidence(rec, rec.Locations)
		rec.Locations = []string{}
	}
	if !keep[models.CategoryProducts] {
		dropConfidence(rec, rec.Products)
		rec.Products = []string{}
	}
	if !keep[models.CategoryEvents] {
		dropConfidence(rec, rec.Events)
		rec.Events = []string{}
	}
}

func dropConfidence(rec *models.Recognition, names []string) {
	for _, name := range names {
		delete(rec.Confidence, name)
	}
}
