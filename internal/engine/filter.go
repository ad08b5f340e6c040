package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/taskmaster-api/internal/models"
)

// Route is the coarse pre-filter tied to the active list view.
type Route string

const (
	RouteNone      Route = ""
	RouteUpcoming  Route = "upcoming"
	RouteToday     Route = "today"
	RouteCompleted Route = "completed"
)

// ErrUnknownRoute is returned by ParseRoute for unrecognised view names.
var ErrUnknownRoute = errors.New("unknown task view")

// ParseRoute maps a view name to a Route. The empty string and "all" both
// select RouteNone.
func ParseRoute(name string) (Route, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "all":
		return RouteNone, nil
	case string(RouteUpcoming):
		return RouteUpcoming, nil
	case string(RouteToday):
		return RouteToday, nil
	case string(RouteCompleted):
		return RouteCompleted, nil
	}
	return RouteNone, fmt.Errorf("%w: %q", ErrUnknownRoute, name)
}

// FilterCriteria holds the user-selected list filters. Zero values mean
// "no constraint" for every field.
type FilterCriteria struct {
	SearchQuery  string
	Priority     models.TaskPriority
	Status       models.TaskStatus
	SelectedTags []string
	Route        Route
}

// IsEmpty reports whether the criteria constrain nothing.
func (c FilterCriteria) IsEmpty() bool {
	return c.SearchQuery == "" &&
		c.Priority == "" &&
		c.Status == "" &&
		len(c.SelectedTags) == 0 &&
		c.Route == RouteNone
}

// Filter returns the tasks that satisfy every active criterion, in input
// order. Categories combine with AND; selected tags combine with OR.
//
// The route pre-filter compares due dates against the day bounds of now in
// now's location: upcoming keeps tasks due after the end of today, today keeps
// tasks due within today inclusive, completed keeps completed tasks. Tasks
// with no due date never match upcoming or today.
func Filter(tasks []models.Task, criteria FilterCriteria, now time.Time) []models.Task {
	result := make([]models.Task, 0, len(tasks))
	if criteria.IsEmpty() {
		return append(result, tasks...)
	}

	m := newMatcher(criteria, now)
	for _, task := range tasks {
		if m.match(task) {
			result = append(result, task)
		}
	}
	return result
}

type matcher struct {
	criteria   FilterCriteria
	query      string
	tags       map[string]struct{}
	startOfDay time.Time
	endOfDay   time.Time
}

func newMatcher(criteria FilterCriteria, now time.Time) matcher {
	m := matcher{
		criteria:   criteria,
		query:      strings.ToLower(criteria.SearchQuery),
		startOfDay: StartOfDay(now),
		endOfDay:   EndOfDay(now),
	}
	if len(criteria.SelectedTags) > 0 {
		m.tags = make(map[string]struct{}, len(criteria.SelectedTags))
		for _, tag := range criteria.SelectedTags {
			m.tags[tag] = struct{}{}
		}
	}
	return m
}

func (m matcher) match(task models.Task) bool {
	return m.matchRoute(task) &&
		m.matchQuery(task) &&
		(m.criteria.Priority == "" || task.Priority == m.criteria.Priority) &&
		(m.criteria.Status == "" || task.Status == m.criteria.Status) &&
		m.matchTags(task)
}

func (m matcher) matchRoute(task models.Task) bool {
	switch m.criteria.Route {
	case RouteUpcoming:
		due, ok := dueAt(task)
		return ok && due.After(m.endOfDay)
	case RouteToday:
		return dueWithin(task, m.startOfDay, m.endOfDay)
	case RouteCompleted:
		return task.IsCompleted()
	}
	return true
}

func (m matcher) matchQuery(task models.Task) bool {
	if m.query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(task.Title), m.query) {
		return true
	}
	return task.Description != "" && strings.Contains(strings.ToLower(task.Description), m.query)
}

func (m matcher) matchTags(task models.Task) bool {
	if len(m.tags) == 0 {
		return true
	}
	for _, tag := range task.Tags {
		if _, ok := m.tags[tag]; ok {
			return true
		}
	}
	return false
}
