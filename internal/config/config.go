package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	// DefaultCacheTTLMinutes is the default profile cache entry lifetime.
	DefaultCacheTTLMinutes = 15

	// DefaultNetworkDepth is the default relationship traversal depth.
	DefaultNetworkDepth = 2
)

// Config holds all configuration for entity-intel.
type Config struct {
	Neo4j      Neo4jConfig      `mapstructure:"neo4j"`
	Claude     ClaudeConfig     `mapstructure:"claude"`
	Recognizer RecognizerConfig `mapstructure:"recognizer"`
	Intel      IntelConfig      `mapstructure:"intel"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	API        APIConfig        `mapstructure:"api"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
	AuthToken  string `mapstructure:"auth_token"`
}

// Neo4jConfig holds Neo4j connection settings for the profile store.
type Neo4jConfig struct {
	URI      string `mapstructure:"uri"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

// ClaudeConfig holds Anthropic Claude API settings for the optional
// LLM-backed recognizer.
type ClaudeConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// String returns a safe representation of ClaudeConfig with the API key masked.
func (c ClaudeConfig) String() string {
	return fmt.Sprintf("ClaudeConfig{APIKey:%s, Model:%s}", maskAPIKey(c.APIKey), c.Model)
}

// maskAPIKey shows first 4 + last 4 chars, replacing the middle with asterisks.
func maskAPIKey(key string) string {
	const visible = 4
	if len(key) <= visible*2 {
		return "***"
	}
	return key[:visible] + "****" + key[len(key)-visible:]
}

// RecognizerConfig selects and seeds the entity recognizer.
type RecognizerConfig struct {
	// Provider is "pattern" (default) or "claude".
	Provider string `mapstructure:"provider"`
	// Seed makes placeholder confidence values reproducible when non-zero.
	Seed int64 `mapstructure:"seed"`
}

// IntelConfig holds entity-intelligence tuning knobs.
type IntelConfig struct {
	CacheTTLMinutes int `mapstructure:"cache_ttl_minutes"`
	NetworkDepth    int `mapstructure:"network_depth"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("neo4j.uri", "bolt://localhost:7687")
	v.SetDefault("neo4j.username", "neo4j")
	v.SetDefault("neo4j.password", "")
	v.SetDefault("neo4j.database", "neo4j")

	v.SetDefault("claude.model", "claude-haiku-4-5-20251001")

	v.SetDefault("recognizer.provider", "pattern")
	v.SetDefault("recognizer.seed", 0)

	v.SetDefault("intel.cache_ttl_minutes", DefaultCacheTTLMinutes)
	v.SetDefault("intel.network_depth", DefaultNetworkDepth)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("api.listen_addr", ":8080")
	v.SetDefault("api.auth_token", "")

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(homeDir(), ".entity-intel"))
	v.AddConfigPath(".")

	// Environment variables
	v.SetEnvPrefix("ENTITY_INTEL")
	v.AutomaticEnv()

	// Map specific env vars
	_ = v.BindEnv("claude.api_key", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("neo4j.uri", "ENTITY_INTEL_NEO4J_URI")
	_ = v.BindEnv("neo4j.username", "ENTITY_INTEL_NEO4J_USERNAME")
	_ = v.BindEnv("neo4j.password", "ENTITY_INTEL_NEO4J_PASSWORD")
	_ = v.BindEnv("api.listen_addr", "ENTITY_INTEL_API_LISTEN_ADDR")
	_ = v.BindEnv("api.auth_token", "ENTITY_INTEL_API_AUTH_TOKEN")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is OK — use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are set and consistent.
func (c *Config) Validate() error {
	if c.Neo4j.URI == "" {
		return fmt.Errorf("neo4j.uri must not be empty")
	}
	if c.Neo4j.Database == "" {
		return fmt.Errorf("neo4j.database must not be empty")
	}
	if c.Recognizer.Provider != "pattern" && c.Recognizer.Provider != "claude" {
		return fmt.Errorf("recognizer.provider must be \"pattern\" or \"claude\", got %q", c.Recognizer.Provider)
	}
	if c.Recognizer.Provider == "claude" && c.Claude.APIKey == "" {
		return fmt.Errorf("claude.api_key is required when recognizer.provider is \"claude\"")
	}
	if c.Intel.CacheTTLMinutes < 0 {
		return fmt.Errorf("intel.cache_ttl_minutes must be >= 0")
	}
	if c.Intel.NetworkDepth <= 0 {
		return fmt.Errorf("intel.network_depth must be greater than 0")
	}
	return nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
