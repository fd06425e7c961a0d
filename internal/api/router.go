package api

import (
	"net/http"

	"github.com/TWRT/taskboard/internal/api/handlers"
)

func SetupRouter(taskHandler *handlers.TaskHandler, systemHandler *handlers.SystemHandler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /tasks", taskHandler.List)
	mux.HandleFunc("POST /tasks", taskHandler.Create)
	mux.HandleFunc("POST /tasks/refresh", taskHandler.Refresh)
	mux.HandleFunc("PUT /tasks/{id}", taskHandler.Update)
	mux.HandleFunc("DELETE /tasks/{id}", taskHandler.Delete)
	mux.HandleFunc("PATCH /tasks/{id}/advance", taskHandler.Advance)
	mux.HandleFunc("GET /tasks/{id}/pending", systemHandler.Pending)
	mux.HandleFunc("GET /stats", taskHandler.Stats)

	mux.HandleFunc("GET /operations", systemHandler.Operations)
	mux.HandleFunc("GET /health", systemHandler.Health)

	return mux
}
