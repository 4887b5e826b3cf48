// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/epwatch/rebelboard/internal/domain/model"
)

// PeriodsDependencies defines the interface for listing periods.
type PeriodsDependencies interface {
	Periods(ctx context.Context) []model.Period
	DefaultPeriod() string
}

// PeriodsHandler handles period listing requests.
type PeriodsHandler struct {
	deps PeriodsDependencies
}

// NewPeriodsHandler creates a new periods handler.
func NewPeriodsHandler(deps PeriodsDependencies) *PeriodsHandler {
	return &PeriodsHandler{deps: deps}
}

type periodsResponse struct {
	Periods       []model.Period `json:"periods"`
	DefaultPeriod string         `json:"default_period"`
}

// HandleGetPeriods handles GET /periods requests.
func (h *PeriodsHandler) HandleGetPeriods(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, periodsResponse{
		Periods:       h.deps.Periods(r.Context()),
		DefaultPeriod: h.deps.DefaultPeriod(),
	})
}
