package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Neo4j: Neo4jConfig{
			URI:      "bolt://localhost:7687",
			Username: "neo4j",
			Database: "neo4j",
		},
		Recognizer: RecognizerConfig{Provider: "pattern"},
		Intel:      IntelConfig{CacheTTLMinutes: 15, NetworkDepth: 2},
		Logging:    LoggingConfig{Level: "info", Format: "text"},
		API:        APIConfig{ListenAddr: ":8080"},
	}
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_RequiresNeo4jURI(t *testing.T) {
	cfg := validConfig()
	cfg.Neo4j.URI = ""
	assert.Error(t, cfg.Validate())
}

func TestValidate_RecognizerProvider(t *testing.T) {
	cfg := validConfig()
	cfg.Recognizer.Provider = "regex"
	assert.Error(t, cfg.Validate())

	cfg.Recognizer.Provider = "claude"
	assert.Error(t, cfg.Validate(), "claude provider without api key")

	cfg.Claude.APIKey = "sk-ant-test"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_IntelBounds(t *testing.T) {
	cfg := validConfig()
	cfg.Intel.CacheTTLMinutes = -1
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Intel.NetworkDepth = 0
	assert.Error(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "bolt://localhost:7687", cfg.Neo4j.URI)
	assert.Equal(t, "pattern", cfg.Recognizer.Provider)
	assert.Equal(t, DefaultCacheTTLMinutes, cfg.Intel.CacheTTLMinutes)
	assert.Equal(t, DefaultNetworkDepth, cfg.Intel.NetworkDepth)
	assert.Equal(t, ":8080", cfg.API.ListenAddr)
}

func TestClaudeConfigString_MasksKey(t *testing.T) {
	c := ClaudeConfig{APIKey: "sk-ant-api03-abcdef123456", Model: "m"}
	s := c.String()
	assert.NotContains(t, s, "abcdef123456")
	assert.Contains(t, s, "sk-a")
}
