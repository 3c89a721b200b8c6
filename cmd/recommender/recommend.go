package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/minsu/gig-recommender/internal/config"
	"github.com/minsu/gig-recommender/internal/llm"
	"github.com/minsu/gig-recommender/internal/observability"
	"github.com/minsu/gig-recommender/internal/ranking"
	"github.com/minsu/gig-recommender/internal/reason"
	"github.com/minsu/gig-recommender/internal/store"
)

var (
	recommendUser    string
	recommendQuery   string
	recommendTopK    int
	recommendVerbose bool
	recommendReasons bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Run a one-off recommendation from the command line",
	Long:  `Runs the full retrieval and reranking pipeline for a single user query and prints the ranked jobs. Useful for smoke-testing data and prompt changes without the HTTP server.`,
	RunE:  runRecommend,
}

func init() {
	recommendCmd.Flags().StringVar(&recommendUser, "user", "", "User UUID (required)")
	recommendCmd.Flags().StringVar(&recommendQuery, "query", "", "Recommendation query (required)")
	recommendCmd.Flags().IntVar(&recommendTopK, "top-k", 10, "Number of jobs to return")
	recommendCmd.Flags().BoolVar(&recommendVerbose, "verbose", false, "Print the user context alongside results")
	recommendCmd.Flags().BoolVar(&recommendReasons, "reasons", false, "Generate per-job reasons and the final answer (spends LLM quota)")
	_ = recommendCmd.MarkFlagRequired("user")
	_ = recommendCmd.MarkFlagRequired("query")
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(_ *cobra.Command, _ []string) error {
	userID, err := uuid.Parse(recommendUser)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", recommendUser, err)
	}

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

	printer := observability.NewPrinter(os.Stdout)

	user, err := db.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if recommendVerbose {
		printer.PrintProfile(user)
	}

	history, err := db.History(ctx, userID)
	if err != nil {
		return err
	}

	embedding, err := llmClient.Embed(ctx, recommendQuery)
	if err != nil {
		return fmt.Errorf("failed to embed query: %w", err)
	}

	retrieved, err := db.MatchJobs(ctx, embedding, cfg.MatchThreshold, cfg.MatchLimit)
	if err != nil {
		return err
	}
	if len(retrieved) == 0 {
		printer.PrintRankedJobs(recommendQuery, nil)
		return nil
	}

	ids := make([]int64, len(retrieved))
	for i, c := range retrieved {
		ids[i] = c.JobID
	}
	listings, err := db.FetchByIDs(ctx, ids)
	if err != nil {
		return err
	}

	var pipeline *ranking.Pipeline
	if cfg.ScoringMode == config.ScoringDelegated {
		pipeline = ranking.NewPipeline(&ranking.GeminiScorer{Client: llmClient})
	} else {
		pipeline = ranking.NewPipeline(nil)
	}

	ranked, err := pipeline.Rank(ctx, user, recommendQuery,
		ranking.JoinRetrieved(listings, retrieved), history, nil, ranking.Options{
			ScoringMode:           ranking.ScoringMode(cfg.ScoringMode),
			ChunkSize:             cfg.ChunkSize,
			ChunkParallelism:      cfg.ChunkParallelism,
			Weights:               ranking.DefaultWeights(),
			ApplyQualityThreshold: cfg.ScoringMode != config.ScoringDelegated,
			TopK:                  recommendTopK,
		})
	if err != nil {
		return err
	}

	if recommendReasons && len(ranked) > 0 {
		gen := reason.NewGenerator(llmClient)
		gen.AnnotateReasons(ctx, recommendQuery, ranked)
		if answer, err := gen.FinalAnswer(ctx, recommendQuery, ranked); err == nil {
			printer.PrintAnswer(answer)
		}
	}

	printer.PrintRankedJobs(recommendQuery, ranked)
	return nil
}
