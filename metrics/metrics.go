// Package metrics exports auth activity as prometheus counters.
package metrics

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	auth "github.com/goliatone/go-credentials"
)

// Sink is an auth.ActivitySink counting events by type and failure reason.
type Sink struct {
	events *prometheus.CounterVec
}

var _ auth.ActivitySink = (*Sink)(nil)

// NewSink registers the auth counters with reg.
func NewSink(reg prometheus.Registerer) *Sink {
	return &Sink{
		events: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "auth_events_total",
			Help: "Total number of registration and login attempts by outcome",
		}, []string{"event", "reason"}),
	}
}

// Record implements auth.ActivitySink. Success events have an empty reason.
func (s *Sink) Record(_ context.Context, event auth.ActivityEvent) error {
	s.events.WithLabelValues(string(event.EventType), event.Reason).Inc()
	return nil
}

// Handler serves the registry in the prometheus text format.
func Handler(gatherer prometheus.Gatherer) fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}
