package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskmaster-api/internal/models"
)

var testNow = time.Date(2026, time.October, 16, 15, 0, 0, 0, time.UTC)

func at(t time.Time) *time.Time {
	return &t
}

func ids(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, task := range tasks {
		out[i] = task.ID
	}
	return out
}

func sampleTasks() []models.Task {
	return []models.Task{
		{
			ID:          "1",
			Title:       "Complete project documentation",
			Description: "Write detailed documentation for the project.",
			DueDate:     at(testNow.AddDate(0, 0, 2)),
			Priority:    models.PriorityHigh,
			Status:      models.TaskStatusActive,
			Tags:        []string{"Documentation", "Important"},
		},
		{
			ID:          "2",
			Title:       "Daily standup meeting",
			Description: "Attend daily standup meeting with the team.",
			DueDate:     at(time.Date(2026, time.October, 16, 10, 0, 0, 0, time.UTC)),
			Priority:    models.PriorityMedium,
			Status:      models.TaskStatusActive,
			Tags:        []string{"Meeting", "Daily"},
			Recurrence:  models.RecurrenceDaily,
		},
		{
			ID:       "3",
			Title:    "Review pull requests",
			DueDate:  at(testNow.AddDate(0, 0, 1)),
			Priority: models.PriorityMedium,
			Status:   models.TaskStatusActive,
		},
		{
			ID:          "4",
			Title:       "Send weekly report",
			Description: "Prepare the weekly progress REPORT.",
			DueDate:     at(testNow.AddDate(0, 0, -1)),
			Priority:    models.PriorityHigh,
			Status:      models.TaskStatusCompleted,
			Tags:        []string{"Report", "Weekly"},
			Recurrence:  models.RecurrenceWeekly,
		},
		{
			ID:       "5",
			Title:    "Someday",
			Priority: models.PriorityLow,
			Status:   models.TaskStatusCompleted,
			Tags:     []string{"Daily"},
		},
	}
}

func TestFilter_EmptyCriteriaIsIdentity(t *testing.T) {
	tasks := sampleTasks()

	result := Filter(tasks, FilterCriteria{}, testNow)

	assert.Equal(t, tasks, result)
}

func TestFilter_EmptyCollection(t *testing.T) {
	criteria := []FilterCriteria{
		{},
		{Route: RouteToday},
		{SearchQuery: "x", Priority: models.PriorityHigh, SelectedTags: []string{"a"}},
	}
	for _, c := range criteria {
		result := Filter(nil, c, testNow)
		assert.NotNil(t, result)
		assert.Empty(t, result)
	}
}

func TestFilter_StatusScenario(t *testing.T) {
	tasks := []models.Task{
		{ID: "a", Title: "a", Priority: models.PriorityHigh, Status: models.TaskStatusActive},
		{ID: "b", Title: "b", Priority: models.PriorityLow, Status: models.TaskStatusCompleted},
	}

	result := Filter(tasks, FilterCriteria{Status: models.TaskStatusActive}, testNow)

	assert.Equal(t, []string{"a"}, ids(result))
}

func TestFilter_Routes(t *testing.T) {
	startOfDay := time.Date(2026, time.October, 16, 0, 0, 0, 0, time.UTC)
	tasks := []models.Task{
		{ID: "start", DueDate: at(startOfDay)},
		{ID: "late-today", DueDate: at(startOfDay.Add(23 * time.Hour))},
		{ID: "end-of-day", DueDate: at(EndOfDay(testNow))},
		{ID: "tomorrow-midnight", DueDate: at(startOfDay.AddDate(0, 0, 1))},
		{ID: "yesterday", DueDate: at(startOfDay.Add(-time.Nanosecond)), Status: models.TaskStatusCompleted},
		{ID: "no-due", Status: models.TaskStatusCompleted},
	}

	tests := []struct {
		route Route
		want  []string
	}{
		{RouteNone, []string{"start", "late-today", "end-of-day", "tomorrow-midnight", "yesterday", "no-due"}},
		{RouteToday, []string{"start", "late-today", "end-of-day"}},
		{RouteUpcoming, []string{"tomorrow-midnight"}},
		{RouteCompleted, []string{"yesterday", "no-due"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.route), func(t *testing.T) {
			result := Filter(tasks, FilterCriteria{Route: tt.route}, testNow)
			assert.Equal(t, tt.want, ids(result))
		})
	}
}

func TestFilter_TodayScenario(t *testing.T) {
	due := time.Date(2026, time.October, 16, 10, 0, 0, 0, time.UTC)
	tasks := []models.Task{{ID: "1", DueDate: &due}}

	result := Filter(tasks, FilterCriteria{Route: RouteToday}, testNow)

	assert.Equal(t, []string{"1"}, ids(result))
}

func TestFilter_RouteUsesLocationOfNow(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	// testNow is already midnight of the 17th in Tokyo, while the task is
	// due on the evening of the 16th there.
	due := time.Date(2026, time.October, 16, 10, 0, 0, 0, time.UTC)
	tasks := []models.Task{{ID: "1", DueDate: &due}}

	inUTC := Filter(tasks, FilterCriteria{Route: RouteToday}, testNow)
	inTokyo := Filter(tasks, FilterCriteria{Route: RouteToday}, testNow.In(tokyo))

	assert.Len(t, inUTC, 1)
	assert.Empty(t, inTokyo)
}

func TestFilter_Search(t *testing.T) {
	tasks := sampleTasks()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"title case insensitive", "STANDUP", []string{"2"}},
		{"description match", "report", []string{"4"}},
		{"title or description", "documentation", []string{"1"}},
		{"no description only title", "pull", []string{"3"}},
		{"no match", "vacation", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Filter(tasks, FilterCriteria{SearchQuery: tt.query}, testNow)
			assert.Equal(t, tt.want, ids(result))
		})
	}
}

func TestFilter_PriorityIsExactMatch(t *testing.T) {
	tasks := sampleTasks()

	assert.Equal(t, []string{"1", "4"}, ids(Filter(tasks, FilterCriteria{Priority: models.PriorityHigh}, testNow)))
	assert.Empty(t, Filter(tasks, FilterCriteria{Priority: "high"}, testNow))
}

func TestFilter_Tags(t *testing.T) {
	tasks := sampleTasks()

	t.Run("union within tags", func(t *testing.T) {
		result := Filter(tasks, FilterCriteria{SelectedTags: []string{"Weekly", "Meeting"}}, testNow)
		assert.Equal(t, []string{"2", "4"}, ids(result))
	})

	t.Run("no common tag", func(t *testing.T) {
		only := []models.Task{{ID: "x", Tags: []string{"Daily"}}}
		result := Filter(only, FilterCriteria{SelectedTags: []string{"Weekly"}}, testNow)
		assert.Empty(t, result)
	})

	t.Run("untagged never matches", func(t *testing.T) {
		result := Filter(tasks, FilterCriteria{SelectedTags: []string{"Daily"}}, testNow)
		assert.Equal(t, []string{"2", "5"}, ids(result))
	})

	t.Run("case sensitive", func(t *testing.T) {
		result := Filter(tasks, FilterCriteria{SelectedTags: []string{"daily"}}, testNow)
		assert.Empty(t, result)
	})
}

func TestFilter_CategoriesCombineWithAnd(t *testing.T) {
	tasks := sampleTasks()
	criteria := FilterCriteria{
		SearchQuery:  "e",
		Priority:     models.PriorityMedium,
		Status:       models.TaskStatusActive,
		SelectedTags: []string{"Daily", "Report"},
	}

	result := Filter(tasks, criteria, testNow)

	assert.Equal(t, []string{"2"}, ids(result))
}

func TestFilter_ResultSatisfiesEveryPredicate(t *testing.T) {
	tasks := sampleTasks()
	queries := []string{"", "e", "report"}
	priorities := []models.TaskPriority{"", models.PriorityHigh, models.PriorityMedium}
	statuses := []models.TaskStatus{"", models.TaskStatusActive, models.TaskStatusCompleted}
	tagSets := [][]string{nil, {"Daily"}, {"Weekly", "Important"}}
	routes := []Route{RouteNone, RouteToday, RouteUpcoming, RouteCompleted}

	for _, q := range queries {
		for _, p := range priorities {
			for _, s := range statuses {
				for _, tags := range tagSets {
					for _, r := range routes {
						c := FilterCriteria{SearchQuery: q, Priority: p, Status: s, SelectedTags: tags, Route: r}
						for _, task := range Filter(tasks, c, testNow) {
							assertSatisfies(t, task, c)
						}
					}
				}
			}
		}
	}
}

func assertSatisfies(t *testing.T, task models.Task, c FilterCriteria) {
	t.Helper()
	if c.SearchQuery != "" {
		q := strings.ToLower(c.SearchQuery)
		ok := strings.Contains(strings.ToLower(task.Title), q) ||
			strings.Contains(strings.ToLower(task.Description), q)
		require.True(t, ok, "task %s fails search %q", task.ID, c.SearchQuery)
	}
	if c.Priority != "" {
		require.Equal(t, c.Priority, task.Priority)
	}
	if c.Status != "" {
		require.Equal(t, c.Status, task.Status)
	}
	if len(c.SelectedTags) > 0 {
		require.True(t, hasAny(task.Tags, c.SelectedTags), "task %s has none of %v", task.ID, c.SelectedTags)
	}
	switch c.Route {
	case RouteToday:
		require.NotNil(t, task.DueDate)
		require.False(t, task.DueDate.Before(StartOfDay(testNow)))
		require.False(t, task.DueDate.After(EndOfDay(testNow)))
	case RouteUpcoming:
		require.NotNil(t, task.DueDate)
		require.True(t, task.DueDate.After(EndOfDay(testNow)))
	case RouteCompleted:
		require.Equal(t, models.TaskStatusCompleted, task.Status)
	}
}

func hasAny(tags, selected []string) bool {
	for _, tag := range tags {
		for _, s := range selected {
			if tag == s {
				return true
			}
		}
	}
	return false
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	tasks := sampleTasks()
	before := sampleTasks()

	Filter(tasks, FilterCriteria{Route: RouteCompleted, SearchQuery: "report"}, testNow)

	assert.Equal(t, before, tasks)
}

func TestParseRoute(t *testing.T) {
	tests := []struct {
		in   string
		want Route
	}{
		{"", RouteNone},
		{"all", RouteNone},
		{"Today", RouteToday},
		{"upcoming", RouteUpcoming},
		{" completed ", RouteCompleted},
	}
	for _, tt := range tests {
		got, err := ParseRoute(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseRoute("overdue")
	assert.ErrorIs(t, err, ErrUnknownRoute)
}

func TestDayBounds(t *testing.T) {
	assert.Equal(t, time.Date(2026, time.October, 16, 0, 0, 0, 0, time.UTC), StartOfDay(testNow))
	assert.Equal(t, time.Date(2026, time.October, 16, 23, 59, 59, int(999*time.Millisecond), time.UTC), EndOfDay(testNow))
}

func TestDayBounds_DaylightSavingSwitch(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// Clocks spring forward at 02:00 on 2026-03-08, so the day is 23 hours long.
	now := time.Date(2026, time.March, 8, 12, 0, 0, 0, ny)
	start, end := StartOfDay(now), EndOfDay(now)

	assert.Equal(t, time.Date(2026, time.March, 8, 0, 0, 0, 0, ny), start)
	assert.Equal(t, time.Date(2026, time.March, 8, 23, 59, 59, int(999*time.Millisecond), ny), end)
	assert.Equal(t, 23*time.Hour-time.Millisecond, end.Sub(start))

	series := DailySeries([]models.Task{
		{ID: "before", DueDate: at(time.Date(2026, time.March, 7, 23, 30, 0, 0, ny))},
		{ID: "during", DueDate: at(time.Date(2026, time.March, 8, 23, 30, 0, 0, ny))},
	}, now)
	require.Len(t, series, 7)
	assert.Equal(t, "Mar 2", series[0].Label)
	assert.Equal(t, "Mar 8", series[6].Label)
	assert.Equal(t, 1, series[5].Count)
	assert.Equal(t, 1, series[6].Count)
}

func TestRoutes_SubMillisecondDueDateStaysToday(t *testing.T) {
	lastInstant := time.Date(2026, time.October, 16, 23, 59, 59, 999_500_000, time.UTC)
	tasks := []models.Task{{ID: "late", Status: models.TaskStatusActive, DueDate: at(lastInstant)}}

	assert.Equal(t, []string{"late"}, ids(Filter(tasks, FilterCriteria{Route: RouteToday}, testNow)))
	assert.Empty(t, Filter(tasks, FilterCriteria{Route: RouteUpcoming}, testNow))
	assert.Equal(t, 1, Aggregate(tasks, testNow).TodayTotal)
}
