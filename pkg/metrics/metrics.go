package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillswap_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skillswap_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	SkillsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skillswap_skills_created_total",
			Help: "Skills published",
		},
	)

	CommentsPosted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skillswap_comments_posted_total",
			Help: "Comments posted on skills",
		},
	)

	FavoriteToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillswap_favorite_toggles_total",
			Help: "Favorite toggles by resulting action",
		},
		[]string{"action"},
	)

	Registrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillswap_registrations_total",
			Help: "Registration attempts by outcome",
		},
		[]string{"outcome"},
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillswap_events_published_total",
			Help: "Activity events handed to the broker",
		},
		[]string{"routing_key", "status"},
	)
)

func RecordHttpRequest(method, route, status string, duration time.Duration) {
	HttpRequestsTotal.WithLabelValues(method, route, status).Inc()
	HttpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordSkillCreated() {
	SkillsCreated.Inc()
}

func RecordCommentPosted() {
	CommentsPosted.Inc()
}

// RecordFavoriteToggle counts a toggle as "added" or "removed".
func RecordFavoriteToggle(added bool) {
	action := "removed"
	if added {
		action = "added"
	}
	FavoriteToggles.WithLabelValues(action).Inc()
}

func RecordRegistration(outcome string) {
	Registrations.WithLabelValues(outcome).Inc()
}

func RecordEventPublished(routingKey string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	EventsPublished.WithLabelValues(routingKey, status).Inc()
}
