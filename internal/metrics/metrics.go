// Package metrics exposes Prometheus collectors for HTTP traffic and task
// activity.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/yukikurage/taskmaster-api/internal/events"
)

const namespace = "taskmaster"

type Metrics struct {
	requests   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	taskEvents *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		taskEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Task and session events published on the bus.",
		}, []string{"topic"}),
	}

	reg.MustRegister(m.requests, m.duration, m.taskEvents)
	return m
}

// Middleware records request counts and latency. Unmatched routes share one label.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method

		m.requests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// ObserveEvents counts every event published on bus until unsubscribed.
func (m *Metrics) ObserveEvents(bus *events.Bus) (unsubscribe func()) {
	return bus.Subscribe(func(e events.Event) {
		m.taskEvents.WithLabelValues(string(e.Topic)).Inc()
	},
		events.TopicTaskCreated,
		events.TopicTaskUpdated,
		events.TopicTaskDeleted,
		events.TopicUserLoggedIn,
		events.TopicUserLoggedOut,
	)
}
