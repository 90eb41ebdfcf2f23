package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/user/lightbox-fetcher/internal/domain"
)

type fetchResponse struct {
	Saved   int                   `json:"saved"`
	Skipped int                   `json:"skipped"`
	Failed  int                   `json:"failed"`
	Results []*domain.FetchResult `json:"results"`
}

func (s *Server) handleFetchRequest(w http.ResponseWriter, r *http.Request) {
	var req domain.FetchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if len(req.Links) == 0 {
		s.respondWithError(w, http.StatusBadRequest, "Links list cannot be empty")
		return
	}
	for _, link := range req.Links {
		if link == "" {
			s.respondWithError(w, http.StatusBadRequest, "Links cannot be empty strings")
			return
		}
	}

	results := s.service.FetchAll(r.Context(), req.Links, req.Force)

	resp := fetchResponse{Results: results}
	for _, res := range results {
		switch res.Outcome {
		case domain.OutcomeSaved:
			resp.Saved++
		case domain.OutcomeSkippedRecent:
			resp.Skipped++
		default:
			resp.Failed++
		}
	}
	s.respondWithJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStatusRequest(w http.ResponseWriter, r *http.Request) {
	link := r.URL.Query().Get("link")
	if link == "" {
		s.respondWithError(w, http.StatusBadRequest, "link query parameter is required")
		return
	}

	status, err := s.service.Status(r.Context(), link)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.respondWithError(w, http.StatusNotFound, "Link status not found")
			return
		}
		s.logger.Error("failed to get fetch status", zap.String("link", link), zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Could not retrieve status")
		return
	}

	s.respondWithJSON(w, http.StatusOK, status)
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	healthStatus := map[string]string{"service": "healthy"}
	isHealthy := true
	for name, err := range s.service.Health(ctx) {
		if err != nil {
			healthStatus[name] = "unhealthy"
			isHealthy = false
			s.logger.Error("health check failed", zap.String("dependency", name), zap.Error(err))
			continue
		}
		healthStatus[name] = "healthy"
	}

	if !isHealthy {
		s.respondWithJSON(w, http.StatusServiceUnavailable, healthStatus)
		return
	}
	s.respondWithJSON(w, http.StatusOK, healthStatus)
}

// --- Helper Functions ---

func (s *Server) respondWithError(w http.ResponseWriter, code int, message string) {
	s.respondWithJSON(w, code, map[string]string{"error": message})
}

func (s *Server) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
