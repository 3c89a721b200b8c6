// Package main provides the entry point for the gig recommendation API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "recommender",
	Short: "Gig recommendation HTTP API server",
	Long:  "Serves personalized gig-job recommendations for seniors: vector retrieval over job embeddings followed by reranking on distance, schedule fit, wage and engagement history.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
