package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	// Create temp config file
	content := `{
		"port": 9000,
		"database_url": "postgres://localhost/gigs",
		"scoring_mode": "delegated",
		"chunk_size": 25,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "postgres://localhost/gigs", cfg.DatabaseURL)
	assert.Equal(t, ScoringDelegated, cfg.ScoringMode)
	assert.Equal(t, 25, cfg.ChunkSize)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate_ScoringMode(t *testing.T) {
	cfg := &Config{ScoringMode: "hybrid"}
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "scoring_mode")

	cfg.ScoringMode = ScoringDeterministic
	assert.NoError(t, cfg.Validate())
	cfg.ScoringMode = ScoringDelegated
	assert.NoError(t, cfg.Validate())
}

func TestValidate_NegativeValues(t *testing.T) {
	cfg := &Config{ChunkSize: -1}
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "chunk_size")

	cfg = &Config{MatchThreshold: 1.5}
	err = cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "match_threshold")
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := Defaults()
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/gigs")
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("PORT", "7070")

	cfg := &Config{DatabaseURL: "postgres://file/gigs"}
	cfg.ApplyEnv()

	// File value wins; env fills only unset fields.
	assert.Equal(t, "postgres://file/gigs", cfg.DatabaseURL)
	assert.Equal(t, "env-key", cfg.GeminiAPIKey)
	assert.Equal(t, 7070, cfg.Port)
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{ChunkSize: 15, ScoringMode: ScoringDelegated}
	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, 15, merged.ChunkSize)
	assert.Equal(t, ScoringDelegated, merged.ScoringMode)
	assert.Equal(t, 8000, merged.Port)
	assert.Equal(t, 10, merged.TopK)
	assert.Equal(t, 0.3, merged.MatchThreshold)
	assert.Equal(t, 150, merged.MatchLimit)
}
