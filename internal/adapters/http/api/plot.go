// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/epwatch/rebelboard/internal/adapters/dataset"
	"github.com/epwatch/rebelboard/internal/app"
	"github.com/epwatch/rebelboard/internal/domain/model"
	"github.com/epwatch/rebelboard/internal/domain/types"
)

// PlotDependencies defines the interface for building plot payloads.
type PlotDependencies interface {
	View(ctx context.Context, period, topic, by string) (types.PlotData, error)
}

// PlotHandler handles plot requests.
type PlotHandler struct {
	deps PlotDependencies
}

// NewPlotHandler creates a new plot handler.
func NewPlotHandler(deps PlotDependencies) *PlotHandler {
	return &PlotHandler{deps: deps}
}

// HandleGetPlot handles GET /plot?period=&topic=&by= requests. All
// parameters are optional; defaults are the default period, all topics and
// the group dimension.
func (h *PlotHandler) HandleGetPlot(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_plot"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	if _, err := model.ParseDimension(q.Get("by")); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	plot, err := h.deps.View(r.Context(), q.Get("period"), q.Get("topic"), q.Get("by"))
	if err != nil {
		switch {
		case errors.Is(err, dataset.ErrNoData):
			writeError(w, http.StatusNotFound, "no_data", NewKind(op, ErrNoData))
		case errors.Is(err, app.ErrUnknownPeriod), errors.Is(err, app.ErrUnknownTopic):
			writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
		case errors.Is(err, dataset.ErrUnavailable), errors.Is(err, dataset.ErrDecode):
			writeError(w, http.StatusBadGateway, "upstream_unavailable", Wrap(op, err))
		case errors.Is(err, app.ErrNotStarted):
			writeError(w, http.StatusServiceUnavailable, "not_ready", Wrap(op, err))
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		}
		return
	}
	writeJSON(w, http.StatusOK, plot)
}
