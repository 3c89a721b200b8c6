package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/minsu/gig-recommender/internal/ranking"
	"github.com/minsu/gig-recommender/internal/types"
)

// Korean answer texts for empty pipeline outcomes, shown verbatim to users.
const (
	answerNoMatches     = "죄송하지만, 요청과 유사한 소일거리를 찾지 못했습니다."
	answerAllExcluded   = "죄송하지만, 더 이상 추천해드릴 다른 소일거리가 없습니다."
	answerNoneQualified = "조건에 맞는 소일거리를 찾지 못했습니다."
)

// RecommendResponse is the body returned by POST /recommend.
type RecommendResponse struct {
	Answer string                  `json:"answer"`
	Jobs   []types.ScoredCandidate `json:"jobs"`
}

// handleRecommend runs the full retrieval and reranking pipeline for a user
// query and returns ranked jobs with explanations.
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req types.RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	ctx := r.Context()

	user, err := s.store.GetProfile(ctx, req.UserID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	// A location sent with the request overrides the stored home location.
	if req.CurrentLatitude != nil && req.CurrentLongitude != nil {
		user.CurrentLatitude = req.CurrentLatitude
		user.CurrentLongitude = req.CurrentLongitude
	}

	history, err := s.store.History(ctx, req.UserID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	embedding, err := s.embedder.Embed(ctx, req.Query)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), "failed to embed query: "+err.Error())
		return
	}

	retrieved, err := s.store.MatchJobs(ctx, embedding, s.cfg.MatchThreshold, s.cfg.MatchLimit)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if len(retrieved) == 0 {
		s.jsonResponse(w, http.StatusOK, RecommendResponse{Answer: answerNoMatches, Jobs: []types.ScoredCandidate{}})
		return
	}

	retrieved = dropExcluded(retrieved, req.ExcludeIDs)
	if len(retrieved) == 0 {
		s.jsonResponse(w, http.StatusOK, RecommendResponse{Answer: answerAllExcluded, Jobs: []types.ScoredCandidate{}})
		return
	}

	ids := make([]int64, len(retrieved))
	for i, c := range retrieved {
		ids[i] = c.JobID
	}
	listings, err := s.store.FetchByIDs(ctx, ids)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	candidates := ranking.JoinRetrieved(listings, retrieved)
	opts := s.rankOptions(req.TopK)

	ranked, err := s.ranker.Rank(ctx, user, req.Query, candidates, history, nil, opts)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if len(ranked) == 0 {
		s.jsonResponse(w, http.StatusOK, RecommendResponse{Answer: answerNoneQualified, Jobs: []types.ScoredCandidate{}})
		return
	}

	s.explainer.AnnotateReasons(ctx, req.Query, ranked)

	answer, err := s.explainer.FinalAnswer(ctx, req.Query, ranked)
	if err != nil {
		// The ranked jobs are still useful without the conversational text.
		log.Printf("final answer generation failed: %v", err)
		answer = ranked[0].Reason
	}

	s.jsonResponse(w, http.StatusOK, RecommendResponse{Answer: answer, Jobs: ranked})
}

// rankOptions builds per-request ranking options from the server defaults.
// The quality threshold only applies to deterministic scores; delegated
// scores default to 0.0 on batch failure and must not be dropped for it.
func (s *Server) rankOptions(topK int) ranking.Options {
	if topK <= 0 {
		topK = s.cfg.TopK
	}
	return ranking.Options{
		ScoringMode:           s.cfg.ScoringMode,
		ChunkSize:             s.cfg.ChunkSize,
		ChunkParallelism:      s.cfg.ChunkParallelism,
		Weights:               ranking.DefaultWeights(),
		ApplyQualityThreshold: s.cfg.ScoringMode != ranking.ModeDelegated,
		TopK:                  topK,
	}
}

// dropExcluded removes explicitly excluded job ids from the retrieval set.
func dropExcluded(retrieved []types.RetrievedCandidate, excludeIDs []int64) []types.RetrievedCandidate {
	if len(excludeIDs) == 0 {
		return retrieved
	}
	excluded := make(map[int64]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}
	kept := make([]types.RetrievedCandidate, 0, len(retrieved))
	for _, c := range retrieved {
		if !excluded[c.JobID] {
			kept = append(kept, c)
		}
	}
	return kept
}

// handleEngagement records a user's status for a job (saved, applied, ...).
func (s *Server) handleEngagement(w http.ResponseWriter, r *http.Request) {
	var req types.EngagementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if err := s.store.UpsertEngagement(r.Context(), req.UserID, req.JobID, req.Status); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleGetProfile returns a user profile.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := s.store.GetProfile(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, user)
}

// handleUpdateProfile applies a partial profile update.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var update types.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := update.Validate(); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if err := s.store.UpdateProfile(r.Context(), userID, &update); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleApply records an application and bumps the participant count.
func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	jobID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid job id")
		return
	}

	var req types.ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if err := s.store.Apply(r.Context(), req.UserID, jobID); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleGeocode resolves a street address to coordinates.
func (s *Server) handleGeocode(w http.ResponseWriter, r *http.Request) {
	if s.geocoder == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "geocoding is not configured")
		return
	}

	address := r.URL.Query().Get("address")
	if address == "" {
		s.errorResponse(w, http.StatusBadRequest, "address query parameter is required")
		return
	}

	coords, err := s.geocoder.Resolve(r.Context(), address)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, coords)
}
