// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/epwatch/rebelboard/internal/domain/types"
)

// TopicsDependencies defines the interface for topic search.
type TopicsDependencies interface {
	SearchTopics(ctx context.Context, query string) []types.TopicMatch
}

// TopicsHandler handles topic search requests.
type TopicsHandler struct {
	deps TopicsDependencies
}

// NewTopicsHandler creates a new topics handler.
func NewTopicsHandler(deps TopicsDependencies) *TopicsHandler {
	return &TopicsHandler{deps: deps}
}

type topicsResponse struct {
	Query   string             `json:"query"`
	Matches []types.TopicMatch `json:"matches"`
}

// HandleSearchTopics handles GET /topics?q= requests. An empty query lists
// all topics.
func (h *TopicsHandler) HandleSearchTopics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	query := r.URL.Query().Get("q")
	matches := h.deps.SearchTopics(r.Context(), query)
	writeJSON(w, http.StatusOK, topicsResponse{Query: query, Matches: matches})
}
