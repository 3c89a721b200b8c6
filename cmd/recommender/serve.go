package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/minsu/gig-recommender/internal/config"
	"github.com/minsu/gig-recommender/internal/geocode"
	"github.com/minsu/gig-recommender/internal/llm"
	"github.com/minsu/gig-recommender/internal/ranking"
	"github.com/minsu/gig-recommender/internal/reason"
	"github.com/minsu/gig-recommender/internal/server"
	"github.com/minsu/gig-recommender/internal/store"
)

var (
	servePort       int
	serveConfigPath string
	serveMode       string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the recommendation, engagement, profile and geocoding endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to JSON config file")
	serveCmd.Flags().StringVar(&serveMode, "scoring-mode", "", "Scoring mode: deterministic or delegated (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadServeConfig()
	if err != nil {
		return err
	}

	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	ctx := context.Background()

	db, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	llmClient, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.GeminiAPIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = llmClient.Close() }()

	var pipeline *ranking.Pipeline
	if cfg.ScoringMode == config.ScoringDelegated {
		pipeline = ranking.NewPipeline(&ranking.GeminiScorer{Client: llmClient})
	} else {
		pipeline = ranking.NewPipeline(nil)
	}

	var geocoder server.Geocoder
	if cfg.NaverAPIKeyID != "" && cfg.NaverAPIKey != "" {
		gc, err := geocode.NewClient(cfg.NaverAPIKeyID, cfg.NaverAPIKey)
		if err != nil {
			return fmt.Errorf("failed to create geocoding client: %w", err)
		}
		geocoder = gc
	} else {
		log.Println("Naver credentials not set; /geocode endpoint disabled")
	}

	srv := server.New(server.Config{
		Port:             cfg.Port,
		ScoringMode:      ranking.ScoringMode(cfg.ScoringMode),
		ChunkSize:        cfg.ChunkSize,
		ChunkParallelism: cfg.ChunkParallelism,
		TopK:             cfg.TopK,
		MatchThreshold:   cfg.MatchThreshold,
		MatchLimit:       cfg.MatchLimit,
	}, db, llmClient, pipeline, reason.NewGenerator(llmClient), geocoder)

	return srv.Start()
}

// loadServeConfig layers flags over the config file, the environment and
// the built-in defaults, then validates the result.
func loadServeConfig() (config.Config, error) {
	cfg := &config.Config{}
	if serveConfigPath != "" {
		loaded, err := config.LoadConfig(serveConfigPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	// Flags win over file and environment values.
	if servePort > 0 {
		cfg.Port = servePort
	}
	if serveMode != "" {
		cfg.ScoringMode = serveMode
	}

	cfg.ApplyEnv()
	merged := cfg.MergeWithDefaults(config.Defaults())
	if err := merged.Validate(); err != nil {
		return config.Config{}, err
	}
	return merged, nil
}
