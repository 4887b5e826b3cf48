// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/epwatch/rebelboard/internal/domain/model"
	"github.com/epwatch/rebelboard/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the application service.
type Dependencies interface {
	// SearchTopics ranks topic labels against a query.
	SearchTopics(ctx context.Context, query string) []types.TopicMatch

	// Periods lists the selectable periods; DefaultPeriod names the one
	// selected on first load.
	Periods(ctx context.Context) []model.Period
	DefaultPeriod() string

	// View builds the plot payload for a selection.
	View(ctx context.Context, period, topic, by string) (types.PlotData, error)
}

// Server wires HTTP routes for the dashboard API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	topicsHandler  *TopicsHandler
	periodsHandler *PeriodsHandler
	plotHandler    *PlotHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		topicsHandler:  NewTopicsHandler(deps),
		periodsHandler: NewPeriodsHandler(deps),
		plotHandler:    NewPlotHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/topics", MetricsMiddleware(s.topicsHandler.HandleSearchTopics, "topics"))
	mux.HandleFunc("/periods", MetricsMiddleware(s.periodsHandler.HandleGetPeriods, "periods"))
	mux.HandleFunc("/plot", MetricsMiddleware(s.plotHandler.HandleGetPlot, "plot"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
