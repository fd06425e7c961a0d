package client

import (
	"context"

	"github.com/TWRT/taskboard/internal/models"
)

type TaskReader interface {
	GetTasks(ctx context.Context, filters models.TaskFilters) ([]models.Task, error)
	GetTask(ctx context.Context, id string) (*models.Task, error)
}

type TaskWriter interface {
	CreateTask(ctx context.Context, input models.TaskInput) (*models.Task, error)
	UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

type StatsProvider interface {
	GetStats(ctx context.Context) (*models.TaskStats, error)
}

type HealthChecker interface {
	HealthCheck(ctx context.Context) bool
}

type TaskGateway interface {
	TaskReader
	TaskWriter
	StatsProvider
	HealthChecker
}
