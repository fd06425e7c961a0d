package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/TWRT/taskboard/internal/client"
	"github.com/TWRT/taskboard/internal/models"
)

type OperationLister interface {
	List(ctx context.Context, limit int) ([]models.Operation, error)
	ListLocal(ctx context.Context, taskID string) ([]models.Operation, error)
}

type HealthResponse struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
}

// SystemHandler serves health and the operation journal. journal may be nil.
type SystemHandler struct {
	health  client.HealthChecker
	journal OperationLister
}

func NewSystemHandler(health client.HealthChecker, journal OperationLister) *SystemHandler {
	return &SystemHandler{health: health, journal: journal}
}

// GET /health
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	backend := "down"
	if h.health.HealthCheck(r.Context()) {
		backend = "up"
	}

	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Backend: backend})
}

// GET /operations
func (h *SystemHandler) Operations(w http.ResponseWriter, r *http.Request) {
	if h.journal == nil {
		writeError(w, http.StatusNotFound, "operation journal disabled")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	ops, err := h.journal.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed listing operations")
		return
	}

	writeJSON(w, http.StatusOK, ops)
}

// GET /tasks/{id}/pending
func (h *SystemHandler) Pending(w http.ResponseWriter, r *http.Request) {
	if h.journal == nil {
		writeError(w, http.StatusNotFound, "operation journal disabled")
		return
	}

	ops, err := h.journal.ListLocal(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed listing operations")
		return
	}
	if ops == nil {
		ops = []models.Operation{}
	}

	writeJSON(w, http.StatusOK, ops)
}
