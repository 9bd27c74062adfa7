package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sportify-app/apiserver/internal/services"
	"github.com/sportify-app/apiserver/types"
)

type StatHandler struct {
	stats  *services.StatService
	charts *services.ChartService
}

func NewStatHandler(stats *services.StatService, charts *services.ChartService) *StatHandler {
	return &StatHandler{stats: stats, charts: charts}
}

// StatRouter registers the statistics routes on r.
func StatRouter(r chi.Router, stats *services.StatService, charts *services.ChartService) {
	handler := NewStatHandler(stats, charts)

	r.Post("/", handler.CreateStat)
	r.Get("/history/{userID}", handler.History)
	r.Get("/{userID}", handler.ListStats)
	r.Get("/{userID}/graphs", handler.Graphs)
}

// CreateStatRequest carries the sport-specific measurements flat; the ones
// that do not apply to Sport are ignored.
type CreateStatRequest struct {
	UserID   int     `json:"user_id"`
	Category string  `json:"category"`
	Sport    string  `json:"sport"`
	Value    float64 `json:"value"`
	types.StatFields
}

type CreateStatResponse struct {
	ID   int        `json:"id"`
	Stat types.Stat `json:"stat"`
}

type GraphsResponse struct {
	Stats  []types.StatView `json:"stats"`
	Charts []services.Chart `json:"charts"`
}

func (h *StatHandler) CreateStat(w http.ResponseWriter, r *http.Request) {
	var req CreateStatRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	stat, err := h.stats.Add(r.Context(), services.AddStatInput{
		UserID:   req.UserID,
		Category: req.Category,
		Sport:    req.Sport,
		Value:    req.Value,
		Fields:   req.StatFields,
	})
	if err != nil {
		respondError(w, r, err, "add stat")
		return
	}
	writeJSON(w, http.StatusCreated, CreateStatResponse{ID: stat.ID, Stat: stat})
}

func (h *StatHandler) ListStats(w http.ResponseWriter, r *http.Request) {
	h.writeViews(w, r, h.stats.List, "list stats")
}

func (h *StatHandler) History(w http.ResponseWriter, r *http.Request) {
	h.writeViews(w, r, h.stats.History, "stat history")
}

func (h *StatHandler) writeViews(
	w http.ResponseWriter,
	r *http.Request,
	load func(ctx context.Context, userID int) ([]types.StatView, error),
	action string,
) {
	userID, err := parseIDParam(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	views, err := load(r.Context(), userID)
	if err != nil {
		respondError(w, r, err, action)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *StatHandler) Graphs(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	views, err := h.stats.List(r.Context(), userID)
	if err != nil {
		respondError(w, r, err, "list stats")
		return
	}
	charts, err := h.charts.Charts(r.Context(), userID, views)
	if err != nil {
		respondError(w, r, err, "render charts")
		return
	}
	writeJSON(w, http.StatusOK, GraphsResponse{Stats: views, Charts: charts})
}
