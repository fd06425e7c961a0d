package models

type TaskStats struct {
	Total      int              `json:"total"`
	ByStatus   map[Status]int   `json:"by_status"`
	ByPriority map[Priority]int `json:"by_priority"`
}

// NewTaskStats counts tasks by status and priority. Every known status and
// priority is present in the result, zero or not.
func NewTaskStats(tasks []Task) TaskStats {
	stats := TaskStats{
		Total:      len(tasks),
		ByStatus:   make(map[Status]int, len(Statuses)),
		ByPriority: make(map[Priority]int, len(Priorities)),
	}
	for _, s := range Statuses {
		stats.ByStatus[s] = 0
	}
	for _, p := range Priorities {
		stats.ByPriority[p] = 0
	}

	for _, t := range tasks {
		stats.ByStatus[t.Status]++
		stats.ByPriority[t.Priority]++
	}
	return stats
}
