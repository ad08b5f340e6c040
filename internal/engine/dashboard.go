package engine

import (
	"time"

	"github.com/yukikurage/taskmaster-api/internal/models"
)

// RecentLimit is how many tasks the dashboard lists as recently created.
const RecentLimit = 5

// Dashboard bundles every derived view shown on the dashboard page.
type Dashboard struct {
	Stats         DashboardStats  `json:"stats" yaml:"stats"`
	History       []DayCount      `json:"history" yaml:"history"`
	Priorities    []PriorityCount `json:"priorities" yaml:"priorities"`
	Recent        []models.Task   `json:"recent_tasks" yaml:"recent_tasks"`
	Upcoming      []models.Task   `json:"upcoming_tasks" yaml:"upcoming_tasks"`
	UpcomingCount int             `json:"upcoming_count" yaml:"upcoming_count"`
}

// BuildDashboard recomputes the full dashboard from the collection.
func BuildDashboard(tasks []models.Task, now time.Time) Dashboard {
	upcoming := UpcomingTasks(tasks, now)
	return Dashboard{
		Stats:         Aggregate(tasks, now),
		History:       DailySeries(tasks, now),
		Priorities:    PriorityBreakdown(tasks),
		Recent:        RecentTasks(tasks, RecentLimit),
		Upcoming:      upcoming,
		UpcomingCount: len(upcoming),
	}
}
