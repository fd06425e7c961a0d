package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/TWRT/taskboard/internal/client"
	"github.com/TWRT/taskboard/internal/filter"
	"github.com/TWRT/taskboard/internal/models"
)

// Gateway is the part of the remote task API the store talks to.
type Gateway interface {
	client.TaskReader
	client.TaskWriter
	client.StatsProvider
}

// Journal keeps a trace of store operations and where they took effect.
type Journal interface {
	Record(ctx context.Context, op models.Operation) error
}

type Option func(*TaskStore)

func WithJournal(journal Journal) Option {
	return func(s *TaskStore) { s.journal = journal }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *TaskStore) { s.logger = logger }
}

func WithClock(now func() time.Time) Option {
	return func(s *TaskStore) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *TaskStore) { s.newID = newID }
}

// Snapshot is what the presentation layer renders.
type Snapshot struct {
	Tasks   []models.Task     `json:"tasks"`
	Total   int               `json:"total"`
	Stats   *models.TaskStats `json:"stats,omitempty"`
	Loading bool              `json:"loading"`
	Error   string            `json:"error,omitempty"`
}

// TaskStore owns the task list of one session. Gateway failures never leave
// it empty: reads fall back to local data, writes are applied locally.
type TaskStore struct {
	gateway Gateway
	journal Journal
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string

	fetches singleflight.Group
	locks   *idLocks

	mu       sync.RWMutex
	tasks    []models.Task
	stats    *models.TaskStats
	inflight int
	lastErr  string
}

func NewTaskStore(gateway Gateway, opts ...Option) (*TaskStore, error) {
	if gateway == nil {
		return nil, ErrGatewayNil
	}

	s := &TaskStore{
		gateway: gateway,
		logger:  slog.Default(),
		now:     time.Now,
		newID:   uuid.NewString,
		locks:   newIDLocks(),
		tasks:   []models.Task{},
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// FetchTasks reloads the list from the backend. The filters are only a hint
// for the server; View applies them locally. On failure the demo tasks are
// installed and Err reports why.
//
// Identical concurrent fetches share one gateway call, which is detached from
// the callers' cancellation. A caller whose ctx is done gets the current list
// back while the shared call finishes for the others.
func (s *TaskStore) FetchTasks(ctx context.Context, filters models.TaskFilters) []models.Task {
	key := fmt.Sprintf("tasks|%q|%q|%q", filters.Status, filters.Priority, filters.Search)
	detached := context.WithoutCancel(ctx)
	ch := s.fetches.DoChan(key, func() (any, error) {
		return s.fetchTasks(detached, filters), nil
	})

	select {
	case res := <-ch:
		return slices.Clone(res.Val.([]models.Task))
	case <-ctx.Done():
		return s.Tasks()
	}
}

func (s *TaskStore) fetchTasks(ctx context.Context, filters models.TaskFilters) []models.Task {
	s.mu.Lock()
	s.inflight++
	s.lastErr = ""
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inflight--
		s.mu.Unlock()
	}()

	tasks, err := s.gateway.GetTasks(ctx, filters)
	if errors.Is(err, context.Canceled) {
		s.logger.Debug("fetch tasks canceled, keeping current list", "error", err)
		return s.Tasks()
	}
	if err != nil {
		s.logger.Warn("fetch tasks failed, showing demo tasks", "error", err)

		fallback := demoTasks(s.now())
		s.mu.Lock()
		s.tasks = fallback
		s.lastErr = err.Error()
		s.mu.Unlock()

		s.record(ctx, models.OperationFetch, "", err)
		return slices.Clone(fallback)
	}

	if tasks == nil {
		tasks = []models.Task{}
	}

	s.mu.Lock()
	s.tasks = slices.Clone(tasks)
	s.mu.Unlock()

	s.logger.Debug("fetched tasks", "count", len(tasks))
	return tasks
}

// CreateTask never fails: when the backend rejects or cannot be reached, the
// task is created locally with a generated id.
func (s *TaskStore) CreateTask(ctx context.Context, input models.TaskInput) models.Task {
	created, err := s.gateway.CreateTask(ctx, input)
	if err != nil {
		s.logger.Warn("create task failed, keeping it locally", "title", input.Title, "error", err)

		local := s.localTask(input)
		s.prepend(local)
		s.record(ctx, models.OperationCreate, local.ID, err)
		return local
	}

	s.prepend(*created)
	s.record(ctx, models.OperationCreate, created.ID, nil)
	return *created
}

// UpdateTask applies patch to the task with the given id. If the backend
// call fails the patch is still applied locally and the error is returned
// alongside the patched task. The local change is not rolled back.
func (s *TaskStore) UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	return s.updateTask(ctx, id, patch)
}

// AdvanceTask moves the task to the next status in the todo, in-progress,
// completed cycle. Failures behave as in UpdateTask.
func (s *TaskStore) AdvanceTask(ctx context.Context, id string) (models.Task, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	current, ok := s.find(id)
	if !ok {
		return models.Task{}, fmt.Errorf("advance task %s: %w", id, ErrTaskNotFound)
	}

	next := current.Status.Next()
	return s.updateTask(ctx, id, models.TaskPatch{Status: &next})
}

func (s *TaskStore) updateTask(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error) {
	updated, err := s.gateway.UpdateTask(ctx, id, patch)
	if err != nil {
		s.logger.Warn("update task failed, applied locally", "id", id, "error", err)

		now := s.now()
		task, _ := s.mutate(id, func(t models.Task) models.Task {
			t = patch.Apply(t)
			t.UpdatedAt = &now
			return t
		})
		s.record(ctx, models.OperationUpdate, id, err)

		return task, fmt.Errorf("update task %s: %w", id, err)
	}

	s.mutate(id, func(models.Task) models.Task { return *updated })
	s.record(ctx, models.OperationUpdate, id, nil)
	return *updated, nil
}

// DeleteTask removes the task locally whatever the backend says. A non-nil
// error means the task was only deleted locally.
func (s *TaskStore) DeleteTask(ctx context.Context, id string) error {
	unlock := s.locks.lock(id)
	defer unlock()

	err := s.gateway.DeleteTask(ctx, id)

	s.mu.Lock()
	s.tasks = slices.DeleteFunc(s.tasks, func(t models.Task) bool { return t.ID == id })
	s.mu.Unlock()

	s.record(ctx, models.OperationDelete, id, err)

	if err != nil {
		s.logger.Warn("delete task failed, removed locally", "id", id, "error", err)
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return nil
}

// FetchStats asks the backend for statistics and falls back to counting the
// local list. Cancellation is handled as in FetchTasks.
func (s *TaskStore) FetchStats(ctx context.Context) models.TaskStats {
	detached := context.WithoutCancel(ctx)
	ch := s.fetches.DoChan("stats", func() (any, error) {
		return s.fetchStats(detached), nil
	})

	select {
	case res := <-ch:
		return cloneStats(res.Val.(models.TaskStats))
	case <-ctx.Done():
		if stats, ok := s.Stats(); ok {
			return stats
		}
		return models.NewTaskStats(s.Tasks())
	}
}

func (s *TaskStore) fetchStats(ctx context.Context) models.TaskStats {
	stats, err := s.gateway.GetStats(ctx)
	if errors.Is(err, context.Canceled) {
		s.logger.Debug("fetch stats canceled", "error", err)
		if cached, ok := s.Stats(); ok {
			return cached
		}
		return models.NewTaskStats(s.Tasks())
	}
	if err != nil {
		s.logger.Warn("fetch stats failed, computing locally", "error", err)
		local := models.NewTaskStats(s.Tasks())
		stats = &local
		s.record(ctx, models.OperationStats, "", err)
	}

	s.mu.Lock()
	s.stats = stats
	s.mu.Unlock()

	return *stats
}

func (s *TaskStore) Tasks() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.tasks)
}

// Stats returns the last fetched statistics, if any.
func (s *TaskStore) Stats() (models.TaskStats, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.stats == nil {
		return models.TaskStats{}, false
	}
	return cloneStats(*s.stats), true
}

// Loading reports whether a fetch is in flight.
func (s *TaskStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.inflight > 0
}

// Err returns the message of the last failed fetch, or "".
func (s *TaskStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastErr
}

func (s *TaskStore) View(filters models.TaskFilters) []models.Task {
	return filter.Apply(s.Tasks(), filters)
}

func (s *TaskStore) Snapshot(filters models.TaskFilters) Snapshot {
	tasks := s.View(filters)

	snap := Snapshot{
		Tasks:   tasks,
		Total:   len(tasks),
		Loading: s.Loading(),
		Error:   s.Err(),
	}
	if stats, ok := s.Stats(); ok {
		snap.Stats = &stats
	}
	return snap
}

func (s *TaskStore) localTask(input models.TaskInput) models.Task {
	task := models.Task{
		ID:          s.newID(),
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		CreatedAt:   s.now(),
		DueDate:     input.DueDate,
	}

	// same defaults the backend applies
	if task.Status == "" {
		task.Status = models.StatusTodo
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	return task
}

// prepend puts task first, dropping any stale entry with the same id.
func (s *TaskStore) prepend(task models.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rest := slices.DeleteFunc(s.tasks, func(t models.Task) bool { return t.ID == task.ID })
	s.tasks = append([]models.Task{task}, rest...)
}

func (s *TaskStore) find(id string) (models.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.Task{}, false
}

func (s *TaskStore) mutate(id string, fn func(models.Task) models.Task) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i] = fn(s.tasks[i])
			return s.tasks[i], true
		}
	}
	return models.Task{}, false
}

func (s *TaskStore) record(ctx context.Context, kind models.OperationKind, taskID string, opErr error) {
	if s.journal == nil {
		return
	}

	op := models.Operation{
		Kind:      kind,
		TaskID:    taskID,
		Outcome:   models.OutcomeSynced,
		CreatedAt: s.now(),
	}
	if opErr != nil {
		op.Outcome = models.OutcomeLocal
		op.ErrorMessage = opErr.Error()
	}

	if err := s.journal.Record(context.WithoutCancel(ctx), op); err != nil {
		s.logger.Error("journal record failed", "kind", kind, "task_id", taskID, "error", err)
	}
}

func cloneStats(stats models.TaskStats) models.TaskStats {
	stats.ByStatus = maps.Clone(stats.ByStatus)
	stats.ByPriority = maps.Clone(stats.ByPriority)
	return stats
}
