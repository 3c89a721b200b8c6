// Package server provides the HTTP REST API for the gig recommender.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/minsu/gig-recommender/internal/geocode"
	"github.com/minsu/gig-recommender/internal/ranking"
	"github.com/minsu/gig-recommender/internal/server/ratelimit"
	"github.com/minsu/gig-recommender/internal/types"
)

// Store is the persistence surface the handlers need.
type Store interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.UserContext, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, update *types.ProfileUpdate) error
	History(ctx context.Context, userID uuid.UUID) ([]types.Engagement, error)
	UpsertEngagement(ctx context.Context, userID uuid.UUID, jobID int64, status types.EngagementStatus) error
	FetchByIDs(ctx context.Context, ids []int64) ([]types.JobListing, error)
	Apply(ctx context.Context, userID uuid.UUID, jobID int64) error
	MatchJobs(ctx context.Context, embedding []float32, threshold float64, limit int) ([]types.RetrievedCandidate, error)
}

// Embedder turns a query string into a vector for retrieval.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Ranker reranks retrieval candidates for a user.
type Ranker interface {
	Rank(ctx context.Context, user *types.UserContext, query string, candidates []ranking.Candidate,
		history []types.Engagement, excludeIDs []int64, opts ranking.Options) ([]types.ScoredCandidate, error)
}

// Explainer produces per-job reasons and the final answer text.
type Explainer interface {
	AnnotateReasons(ctx context.Context, query string, jobs []types.ScoredCandidate)
	FinalAnswer(ctx context.Context, query string, jobs []types.ScoredCandidate) (string, error)
}

// Geocoder resolves an address to coordinates.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (*geocode.Coordinates, error)
}

// Config holds server configuration
type Config struct {
	Port int

	// Ranking defaults applied to every /recommend request.
	ScoringMode      ranking.ScoringMode
	ChunkSize        int
	ChunkParallelism int
	TopK             int
	MatchThreshold   float64
	MatchLimit       int
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	cfg         Config
	store       Store
	embedder    Embedder
	ranker      Ranker
	explainer   Explainer
	geocoder    Geocoder
	rateLimiter *ratelimit.Limiter
}

// New creates a new server instance. The geocoder may be nil when Naver
// credentials are not configured; the /geocode endpoint then reports 503.
func New(cfg Config, store Store, embedder Embedder, ranker Ranker, explainer Explainer, geocoder Geocoder) *Server {
	s := &Server{
		cfg:       cfg,
		store:     store,
		embedder:  embedder,
		ranker:    ranker,
		explainer: explainer,
		geocoder:  geocoder,
	}

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	mux := http.NewServeMux()
	mux.HandleFunc("POST /recommend", s.handleRecommend)
	mux.HandleFunc("POST /engagements", s.handleEngagement)
	mux.HandleFunc("GET /users/{id}/profile", s.handleGetProfile)
	mux.HandleFunc("PUT /users/{id}/profile", s.handleUpdateProfile)
	mux.HandleFunc("POST /jobs/{id}/apply", s.handleApply)
	mux.HandleFunc("GET /geocode", s.handleGeocode)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // recommendation requests wait on LLM calls
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler exposes the configured route handler. Used in tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		if !allowed {
			s.setRateLimitHeaders(w, info)
			s.rateLimitResponse(w, info)
			return
		}

		s.setRateLimitHeaders(w, info)
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
// For MVP, this uses the IP address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
