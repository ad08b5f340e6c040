// Package engine derives views from a snapshot of tasks: filtered lists,
// dashboard statistics, chart series and the tag index.
//
// Every function here is pure. Callers hand in the full collection and the
// current time; nothing is cached between calls and inputs are never mutated.
package engine

import (
	"time"

	"github.com/yukikurage/taskmaster-api/internal/models"
)

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59.999 of t's calendar day in t's location.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Millisecond)
}

// dueAt returns the task's due date at millisecond precision, the
// resolution of the day bounds. The second result is false when unset.
func dueAt(task models.Task) (time.Time, bool) {
	if task.DueDate == nil {
		return time.Time{}, false
	}
	return task.DueDate.Truncate(time.Millisecond), true
}

// dueWithin reports whether the task has a due date inside [from, to].
// A task without a due date never matches.
func dueWithin(task models.Task, from, to time.Time) bool {
	due, ok := dueAt(task)
	if !ok {
		return false
	}
	return !due.Before(from) && !due.After(to)
}

func dueToday(task models.Task, now time.Time) bool {
	return dueWithin(task, StartOfDay(now), EndOfDay(now))
}
