package metrics

import (
	dto "github.com/prometheus/client_model/go"

	auth "github.com/goliatone/go-credentials"
)

// Count returns the current value for an event and reason.
func (s *Sink) Count(eventType auth.ActivityEventType, reason string) float64 {
	var m dto.Metric
	if err := s.events.WithLabelValues(string(eventType), reason).Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}
