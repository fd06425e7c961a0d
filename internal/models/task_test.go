package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusNext(t *testing.T) {
	assert.Equal(t, StatusInProgress, StatusTodo.Next())
	assert.Equal(t, StatusCompleted, StatusInProgress.Next())
	assert.Equal(t, StatusTodo, StatusCompleted.Next())
	assert.Equal(t, StatusTodo, Status("").Next())
}

func TestTaskPatchApply(t *testing.T) {
	created := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	task := Task{
		ID:          "1",
		Title:       "Old",
		Description: "keep me",
		Status:      StatusTodo,
		Priority:    PriorityLow,
		CreatedAt:   created,
	}

	title := "New"
	status := StatusCompleted
	due := created.Add(48 * time.Hour)

	got := TaskPatch{Title: &title, Status: &status, DueDate: &due}.Apply(task)

	assert.Equal(t, "1", got.ID)
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, "keep me", got.Description)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.Equal(t, PriorityLow, got.Priority)
	assert.Equal(t, created, got.CreatedAt)
	if assert.NotNil(t, got.DueDate) {
		assert.Equal(t, due, *got.DueDate)
	}

	// original is a value and stays untouched
	assert.Equal(t, "Old", task.Title)
	assert.Nil(t, task.DueDate)
}

func TestTaskPatchApply_BackwardTransition(t *testing.T) {
	status := StatusTodo
	got := TaskPatch{Status: &status}.Apply(Task{Status: StatusCompleted})
	assert.Equal(t, StatusTodo, got.Status)
}

func TestTaskIsOverdue(t *testing.T) {
	now := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.True(t, Task{Status: StatusTodo, DueDate: &past}.IsOverdue(now))
	assert.False(t, Task{Status: StatusCompleted, DueDate: &past}.IsOverdue(now))
	assert.False(t, Task{Status: StatusInProgress, DueDate: &future}.IsOverdue(now))
	assert.False(t, Task{Status: StatusTodo}.IsOverdue(now))
}

func TestNewTaskStats(t *testing.T) {
	tasks := []Task{
		{Status: StatusTodo, Priority: PriorityHigh},
		{Status: StatusTodo, Priority: PriorityLow},
		{Status: StatusCompleted, Priority: PriorityHigh},
	}

	stats := NewTaskStats(tasks)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, map[Status]int{StatusTodo: 2, StatusInProgress: 0, StatusCompleted: 1}, stats.ByStatus)
	assert.Equal(t, map[Priority]int{PriorityLow: 1, PriorityMedium: 0, PriorityHigh: 2}, stats.ByPriority)
}

func TestNewTaskStats_SumsMatchTotal(t *testing.T) {
	var tasks []Task
	for i := 0; i < 40; i++ {
		tasks = append(tasks, Task{
			Status:   Statuses[i%len(Statuses)],
			Priority: Priorities[(i*7)%len(Priorities)],
		})

		stats := NewTaskStats(tasks)

		statusSum := 0
		for _, n := range stats.ByStatus {
			statusSum += n
		}
		prioritySum := 0
		for _, n := range stats.ByPriority {
			prioritySum += n
		}

		assert.Equal(t, stats.Total, statusSum)
		assert.Equal(t, stats.Total, prioritySum)
	}
}

func TestNewTaskStats_Empty(t *testing.T) {
	stats := NewTaskStats(nil)

	assert.Zero(t, stats.Total)
	assert.Len(t, stats.ByStatus, 3)
	assert.Len(t, stats.ByPriority, 3)
}
