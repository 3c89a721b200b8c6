// Package config provides configuration loading and validation for the
// recommendation service.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Scoring modes for the ranking pipeline.
const (
	ScoringDeterministic = "deterministic"
	ScoringDelegated     = "delegated"
)

// Config represents the service configuration that can be loaded from a
// JSON file. Missing values use defaults or environment variables.
type Config struct {
	// Server
	Port int `json:"port,omitempty"` // HTTP listen port

	// Credentials
	DatabaseURL   string `json:"database_url,omitempty"`     // PostgreSQL connection URL
	GeminiAPIKey  string `json:"gemini_api_key,omitempty"`   // Gemini API key
	NaverAPIKeyID string `json:"naver_api_key_id,omitempty"` // Naver Cloud key id
	NaverAPIKey   string `json:"naver_api_key,omitempty"`    // Naver Cloud key

	// Ranking behavior
	ScoringMode      string  `json:"scoring_mode,omitempty"`      // deterministic or delegated
	ChunkSize        int     `json:"chunk_size,omitempty"`        // candidates per delegated batch
	ChunkParallelism int     `json:"chunk_parallelism,omitempty"` // concurrent delegated batches
	TopK             int     `json:"top_k,omitempty"`             // default result count
	MatchThreshold   float64 `json:"match_threshold,omitempty"`   // retrieval similarity floor
	MatchLimit       int     `json:"match_limit,omitempty"`       // retrieval candidate cap

	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
}

// Defaults returns the built-in configuration values.
func Defaults() Config {
	return Config{
		Port:           8000,
		ScoringMode:    ScoringDeterministic,
		ChunkSize:      30,
		TopK:           10,
		MatchThreshold: 0.3,
		MatchLimit:     150,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv overlays environment variables onto unset fields. Environment
// values never override explicit config file values.
func (c *Config) ApplyEnv() {
	if c.Port == 0 {
		if port, err := strconv.Atoi(os.Getenv("PORT")); err == nil && port > 0 {
			c.Port = port
		}
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if c.GeminiAPIKey == "" {
		c.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.NaverAPIKeyID == "" {
		c.NaverAPIKeyID = os.Getenv("NAVER_API_KEY_ID")
	}
	if c.NaverAPIKey == "" {
		c.NaverAPIKey = os.Getenv("NAVER_API_KEY")
	}
	if c.ScoringMode == "" {
		c.ScoringMode = os.Getenv("SCORING_MODE")
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.ScoringMode != "" && c.ScoringMode != ScoringDeterministic && c.ScoringMode != ScoringDelegated {
		return fmt.Errorf("config error: 'scoring_mode' must be %q or %q", ScoringDeterministic, ScoringDelegated)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be a valid port number")
	}
	if c.ChunkSize < 0 {
		return fmt.Errorf("config error: 'chunk_size' must be non-negative")
	}
	if c.ChunkParallelism < 0 {
		return fmt.Errorf("config error: 'chunk_parallelism' must be non-negative")
	}
	if c.TopK < 0 {
		return fmt.Errorf("config error: 'top_k' must be non-negative")
	}
	if c.MatchThreshold < 0 || c.MatchThreshold > 1 {
		return fmt.Errorf("config error: 'match_threshold' must be in [0, 1]")
	}
	if c.MatchLimit < 0 {
		return fmt.Errorf("config error: 'match_limit' must be non-negative")
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero-value fields filled from
// defaults. This applies config file values over the built-in defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.NaverAPIKeyID == "" {
		result.NaverAPIKeyID = defaults.NaverAPIKeyID
	}
	if result.NaverAPIKey == "" {
		result.NaverAPIKey = defaults.NaverAPIKey
	}
	if result.ScoringMode == "" {
		result.ScoringMode = defaults.ScoringMode
	}
	if result.ChunkSize == 0 {
		result.ChunkSize = defaults.ChunkSize
	}
	if result.ChunkParallelism == 0 {
		result.ChunkParallelism = defaults.ChunkParallelism
	}
	if result.TopK == 0 {
		result.TopK = defaults.TopK
	}
	if result.MatchThreshold == 0 {
		result.MatchThreshold = defaults.MatchThreshold
	}
	if result.MatchLimit == 0 {
		result.MatchLimit = defaults.MatchLimit
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
