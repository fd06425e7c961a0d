package service

import (
	"time"

	"github.com/TWRT/taskboard/internal/models"
)

const day = 24 * time.Hour

// demoTasks is the fixed set shown when the backend cannot be reached.
func demoTasks(now time.Time) []models.Task {
	firstDue := now.Add(7 * day)
	secondDue := now.Add(14 * day)

	return []models.Task{
		{
			ID:          "1",
			Title:       "Design the new homepage",
			Description: "Create mockups and wireframes for the company homepage redesign",
			Status:      models.StatusInProgress,
			Priority:    models.PriorityHigh,
			CreatedAt:   now,
			DueDate:     &firstDue,
		},
		{
			ID:          "2",
			Title:       "Setup CI/CD pipeline",
			Description: "Configure automated testing and deployment pipeline",
			Status:      models.StatusTodo,
			Priority:    models.PriorityMedium,
			CreatedAt:   now,
			DueDate:     &secondDue,
		},
		{
			ID:          "3",
			Title:       "Write API documentation",
			Description: "Document all REST API endpoints with examples",
			Status:      models.StatusCompleted,
			Priority:    models.PriorityLow,
			CreatedAt:   now.Add(-7 * day),
		},
	}
}
