package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/yukikurage/taskmaster-api/internal/events"
)

func TestMiddleware_CountsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New(prometheus.NewRegistry())

	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/api/tasks/:id", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	for _, path := range []string{"/api/tasks/a", "/api/tasks/b", "/nowhere"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/tasks/:id", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))
}

func TestObserveEvents(t *testing.T) {
	m := New(prometheus.NewRegistry())
	bus := events.NewBus()
	unsubscribe := m.ObserveEvents(bus)

	bus.Publish(events.Event{Topic: events.TopicTaskCreated})
	bus.Publish(events.Event{Topic: events.TopicTaskCreated})
	bus.Publish(events.Event{Topic: events.TopicUserLoggedIn})
	unsubscribe()
	bus.Publish(events.Event{Topic: events.TopicTaskCreated})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.taskEvents.WithLabelValues("task.created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.taskEvents.WithLabelValues("user.logged_in")))
}
