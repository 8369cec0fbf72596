package metrics

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sharing",
			Name:      "bookings_created_total",
			Help:      "Count of booking requests created.",
		},
	)

	ownerDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sharing",
			Name:      "owner_decision_total",
			Help:      "Count of owner decisions over bookings.",
		},
		[]string{"decision"},
	)

	commentsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sharing",
			Name:      "comments_created_total",
			Help:      "Count of comments left by past renters.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingsCreated, ownerDecisions, commentsCreated)
	})
}

// Handler exposes the prometheus scrape endpoint as a gin handler.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// IncBookingCreated counts a created booking request.
func IncBookingCreated() {
	bookingsCreated.Inc()
}

// IncOwnerDecision counts an owner decision ("approved" or "rejected").
func IncOwnerDecision(decision string) {
	ownerDecisions.WithLabelValues(decision).Inc()
}

// IncCommentCreated counts a created comment.
func IncCommentCreated() {
	commentsCreated.Inc()
}
