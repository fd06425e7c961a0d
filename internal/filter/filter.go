// Package filter derives the displayed subset of a task list from the board's
// status, priority and search criteria.
package filter

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/TWRT/taskboard/internal/models"
)

// Apply returns the tasks matching every non-empty criterion in filters, in
// their original order. The input slice is never modified.
func Apply(tasks []models.Task, filters models.TaskFilters) []models.Task {
	folder := cases.Fold()
	query := folder.String(strings.TrimSpace(filters.Search))

	result := make([]models.Task, 0, len(tasks))
	for _, task := range tasks {
		if filters.Status != "" && string(task.Status) != filters.Status {
			continue
		}
		if filters.Priority != "" && string(task.Priority) != filters.Priority {
			continue
		}
		if query != "" &&
			!strings.Contains(folder.String(task.Title), query) &&
			!strings.Contains(folder.String(task.Description), query) {
			continue
		}
		result = append(result, task)
	}

	return result
}
