package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/TWRT/taskboard/internal/models"
	"github.com/TWRT/taskboard/internal/service"
)

type TaskStore interface {
	FetchTasks(ctx context.Context, filters models.TaskFilters) []models.Task
	CreateTask(ctx context.Context, input models.TaskInput) models.Task
	UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error)
	AdvanceTask(ctx context.Context, id string) (models.Task, error)
	DeleteTask(ctx context.Context, id string) error
	FetchStats(ctx context.Context) models.TaskStats
	Stats() (models.TaskStats, bool)
	Snapshot(filters models.TaskFilters) service.Snapshot
}

type TaskListResponse struct {
	Tasks   []models.Task `json:"tasks"`
	Total   int           `json:"total"`
	Loading bool          `json:"loading"`
	Error   string        `json:"error,omitempty"`
}

type TaskResponse struct {
	Task  *models.Task `json:"task,omitempty"`
	Error string       `json:"error,omitempty"`
}

type TaskHandler struct {
	store  TaskStore
	logger *slog.Logger
}

func NewTaskHandler(store TaskStore, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{store: store, logger: logger}
}

// GET /tasks
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, listResponse(h.store.Snapshot(filtersFromQuery(r))))
}

// POST /tasks/refresh
func (h *TaskHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	filters := filtersFromQuery(r)

	h.store.FetchTasks(r.Context(), filters)
	h.store.FetchStats(r.Context())

	writeJSON(w, http.StatusOK, listResponse(h.store.Snapshot(filters)))
}

// POST /tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input models.TaskInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	task := h.store.CreateTask(r.Context(), input)
	writeJSON(w, http.StatusCreated, task)
}

// PUT /tasks/{id}
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var patch models.TaskPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	task, err := h.store.UpdateTask(r.Context(), id, patch)
	h.writeMutation(w, id, task, err)
}

// PATCH /tasks/{id}/advance
func (h *TaskHandler) Advance(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	task, err := h.store.AdvanceTask(r.Context(), id)
	if errors.Is(err, service.ErrTaskNotFound) {
		writeError(w, http.StatusNotFound, service.ErrTaskNotFound.Error())
		return
	}
	h.writeMutation(w, id, task, err)
}

// DELETE /tasks/{id}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.store.DeleteTask(r.Context(), id); err != nil {
		h.logger.Warn("task deleted locally only", "id", id, "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GET /stats
func (h *TaskHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, ok := h.store.Stats()
	if !ok {
		stats = h.store.FetchStats(r.Context())
	}

	writeJSON(w, http.StatusOK, stats)
}

// writeMutation reports an update. The task was changed locally even when
// err is set, so it is returned alongside the error.
func (h *TaskHandler) writeMutation(w http.ResponseWriter, id string, task models.Task, err error) {
	var resp TaskResponse
	if task.ID != "" {
		resp.Task = &task
	}

	if err != nil {
		h.logger.Warn("task updated locally only", "id", id, "error", err)
		resp.Error = err.Error()
		writeJSON(w, http.StatusBadGateway, resp)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func filtersFromQuery(r *http.Request) models.TaskFilters {
	q := r.URL.Query()
	return models.TaskFilters{
		Status:   q.Get("status"),
		Priority: q.Get("priority"),
		Search:   q.Get("search"),
	}
}

func listResponse(snap service.Snapshot) TaskListResponse {
	return TaskListResponse{
		Tasks:   snap.Tasks,
		Total:   snap.Total,
		Loading: snap.Loading,
		Error:   snap.Error,
	}
}
