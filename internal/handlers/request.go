package handlers

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskmaster-api/internal/engine"
	"github.com/yukikurage/taskmaster-api/internal/models"
)

// Optional distinguishes an absent JSON field from an explicit null.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// Ptr returns the value when it was sent and not null.
func (o Optional[T]) Ptr() *T {
	if !o.Set || o.Null {
		return nil
	}
	v := o.Value
	return &v
}

// requestLocation resolves the tz query parameter, defaulting to fallback.
func requestLocation(c *gin.Context, fallback *time.Location) (*time.Location, error) {
	tz := strings.TrimSpace(c.Query("tz"))
	if tz == "" {
		return fallback, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("unknown time zone %q", tz)
	}
	return loc, nil
}

// filterCriteria reads the filter query parameters. route overrides the view
// parameter when it is not RouteNone.
func filterCriteria(c *gin.Context, route engine.Route) (engine.FilterCriteria, error) {
	criteria := engine.FilterCriteria{
		SearchQuery: c.Query("q"),
		Route:       route,
	}

	if route == engine.RouteNone {
		parsed, err := engine.ParseRoute(c.Query("view"))
		if err != nil {
			return criteria, err
		}
		criteria.Route = parsed
	}

	if p := c.Query("priority"); p != "" {
		priority := models.TaskPriority(p)
		if !priority.Valid() {
			return criteria, fmt.Errorf("unknown priority %q", p)
		}
		criteria.Priority = priority
	}

	if s := c.Query("status"); s != "" {
		status := models.TaskStatus(s)
		if !status.Valid() {
			return criteria, fmt.Errorf("unknown status %q", s)
		}
		criteria.Status = status
	}

	for _, raw := range c.QueryArray("tags") {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				criteria.SelectedTags = append(criteria.SelectedTags, tag)
			}
		}
	}

	return criteria, nil
}
