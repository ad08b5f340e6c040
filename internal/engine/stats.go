package engine

import (
	"slices"
	"time"

	"github.com/yukikurage/taskmaster-api/internal/models"
)

// DashboardStats are the summary counters shown on the dashboard cards.
type DashboardStats struct {
	Total          int `json:"total" yaml:"total"`
	Completed      int `json:"completed" yaml:"completed"`
	Active         int `json:"active" yaml:"active"`
	CompletionRate int `json:"completion_rate" yaml:"completion_rate"`
	TodayTotal     int `json:"today_total" yaml:"today_total"`
	TodayCompleted int `json:"today_completed" yaml:"today_completed"`
}

// Aggregate computes DashboardStats for the collection as of now.
func Aggregate(tasks []models.Task, now time.Time) DashboardStats {
	var stats DashboardStats
	start, end := StartOfDay(now), EndOfDay(now)

	stats.Total = len(tasks)
	for _, task := range tasks {
		switch task.Status {
		case models.TaskStatusCompleted:
			stats.Completed++
		case models.TaskStatusActive:
			stats.Active++
		}
		if dueWithin(task, start, end) {
			stats.TodayTotal++
			if task.IsCompleted() {
				stats.TodayCompleted++
			}
		}
	}
	stats.CompletionRate = CompletionRate(stats.Completed, stats.Total)

	return stats
}

// CompletionRate returns 100*completed/total rounded half up, or 0 when
// total is zero.
func CompletionRate(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*completed + total) / (2 * total)
}

// DayCount is one bar of the per-day chart.
type DayCount struct {
	Date  time.Time `json:"date" yaml:"date"`
	Label string    `json:"label" yaml:"label"`
	Count int       `json:"count" yaml:"count"`
}

// DayLabelLayout formats chart labels such as "Oct 16".
const DayLabelLayout = "Jan 2"

// HistoryDays is the length of the DailySeries window.
const HistoryDays = 7

// DailySeries counts tasks due on each of the seven days ending today,
// oldest first.
func DailySeries(tasks []models.Task, now time.Time) []DayCount {
	series := make([]DayCount, 0, HistoryDays)
	today := StartOfDay(now)
	for offset := HistoryDays - 1; offset >= 0; offset-- {
		day := today.AddDate(0, 0, -offset)
		start, end := day, EndOfDay(day)

		count := 0
		for _, task := range tasks {
			if dueWithin(task, start, end) {
				count++
			}
		}
		series = append(series, DayCount{
			Date:  day,
			Label: day.Format(DayLabelLayout),
			Count: count,
		})
	}
	return series
}

// PriorityCount is one slice of the priority chart.
type PriorityCount struct {
	Priority models.TaskPriority `json:"priority" yaml:"priority"`
	Count    int                 `json:"count" yaml:"count"`
}

// PriorityOrder is the fixed order of the priority breakdown.
var PriorityOrder = []models.TaskPriority{
	models.PriorityHigh,
	models.PriorityMedium,
	models.PriorityLow,
}

// PriorityBreakdown counts tasks per priority in PriorityOrder.
func PriorityBreakdown(tasks []models.Task) []PriorityCount {
	counts := make(map[models.TaskPriority]int, len(PriorityOrder))
	for _, task := range tasks {
		counts[task.Priority]++
	}

	breakdown := make([]PriorityCount, len(PriorityOrder))
	for i, p := range PriorityOrder {
		breakdown[i] = PriorityCount{Priority: p, Count: counts[p]}
	}
	return breakdown
}

// UpcomingTasks returns the tasks that are not completed and are due after
// the start of today.
//
// The cutoff is start-of-day, unlike RouteUpcoming which uses end-of-day, so
// tasks due later today appear here but not in the upcoming list view.
func UpcomingTasks(tasks []models.Task, now time.Time) []models.Task {
	start := StartOfDay(now)
	result := make([]models.Task, 0)
	for _, task := range tasks {
		due, ok := dueAt(task)
		if !ok || task.IsCompleted() {
			continue
		}
		if due.After(start) {
			result = append(result, task)
		}
	}
	return result
}

// RecentTasks returns up to limit tasks ordered by CreatedAt, newest first.
// Tasks created at the same instant keep their collection order.
func RecentTasks(tasks []models.Task, limit int) []models.Task {
	sorted := slices.Clone(tasks)
	slices.SortStableFunc(sorted, func(a, b models.Task) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if limit >= 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	if sorted == nil {
		sorted = []models.Task{}
	}
	return sorted
}
