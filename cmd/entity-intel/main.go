package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/praxis-pr/entity-intel/internal/cache"
	"github.com/praxis-pr/entity-intel/internal/config"
	"github.com/praxis-pr/entity-intel/internal/enrich"
	"github.com/praxis-pr/entity-intel/internal/evolution"
	"github.com/praxis-pr/entity-intel/internal/graph"
	"github.com/praxis-pr/entity-intel/internal/match"
	"github.com/praxis-pr/entity-intel/internal/predict"
	"github.com/praxis-pr/entity-intel/internal/recognizer"
	"github.com/praxis-pr/entity-intel/internal/store"
	"github.com/praxis-pr/entity-intel/internal/taxonomy"
)

var cfg *config.Config

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	rootCmd := &cobra.Command{
		Use:   "entity-intel",
		Short: "Entity Intelligence Service — organization profiles, relationship graphs and influence scoring",
		Long:  "entity-intel recognizes organizations and people in text, maintains enriched entity profiles, maps relationship networks, scores influence, tracks evolution and predicts behavior under hypothetical scenarios.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return nil
		},
	}

	rootCmd.AddCommand(
		recognizeCmd(),
		classifyCmd(),
		enrichCmd(),
		getCmd(),
		intelligenceCmd(),
		connectionsCmd(),
		matchCmd(),
		networkCmd(),
		influenceCmd(),
		evolutionCmd(),
		predictCmd(),
		historyCmd(),
		serveCmd(),
		mcpCmd(),
		healthCmd(),
	)

	rootCmd.SetContext(ctx)

	err := rootCmd.Execute()
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if cfg != nil && cfg.Logging.Level == "debug" {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg != nil && cfg.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func newStore(logger *slog.Logger) (store.Store, error) {
	return store.NewNeo4jStore(
		cfg.Neo4j.URI,
		cfg.Neo4j.Username,
		cfg.Neo4j.Password,
		cfg.Neo4j.Database,
		logger,
	)
}

func newRNG() *rand.Rand {
	if cfg.Recognizer.Seed != 0 {
		return rand.New(rand.NewSource(cfg.Recognizer.Seed))
	}
	return nil
}

func newRecognizer(logger *slog.Logger) recognizer.Recognizer {
	if cfg.Recognizer.Provider == "claude" {
		return recognizer.NewClaudeRecognizer(cfg.Claude.APIKey, cfg.Claude.Model, newRNG(), logger)
	}
	return recognizer.NewPatternRecognizer(newRNG(), logger)
}

// app bundles the wired components behind the CLI commands.
type app struct {
	store      store.Store
	cache      *cache.TTLCache
	classifier *taxonomy.Classifier
	recognizer recognizer.Recognizer
	pipeline   *enrich.Pipeline
	mapper     *graph.Mapper
	tracker    *evolution.Tracker
	predictor  *predict.Predictor
	matcher    *match.Matcher
	logger     *slog.Logger
}

func newApp(logger *slog.Logger) (*app, error) {
	st, err := newStore(logger)
	if err != nil {
		return nil, fmt.Errorf("connecting to store: %w", err)
	}

	profileCache := cache.NewTTLCache(time.Duration(cfg.Intel.CacheTTLMinutes) * time.Minute)
	classifier := taxonomy.NewClassifier(logger)

	return &app{
		store:      st,
		cache:      profileCache,
		classifier: classifier,
		recognizer: newRecognizer(logger),
		pipeline:   enrich.NewPipeline(st, profileCache, classifier, logger),
		mapper:     graph.NewMapper(st, logger),
		tracker:    evolution.NewTracker(st, logger),
		predictor:  predict.NewPredictor(st, newRNG(), logger),
		matcher:    match.NewMatcher(st, match.DefaultWeights(), logger),
		logger:     logger,
	}, nil
}

func (a *app) close(ctx context.Context) {
	if a.store != nil {
		_ = a.store.Close(ctx)
	}
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
