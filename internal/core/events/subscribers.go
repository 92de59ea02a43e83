package events

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// RegisterAuditLog writes one structured line per published event.
func RegisterAuditLog(bus *EventBus, logger *slog.Logger) {
	bus.Subscribe(Wildcard, func(ctx context.Context, event Event) error {
		attrs := []any{
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"occurred_at", event.OccurredAt(),
		}
		if actor, ok := actorOf(event); ok {
			attrs = append(attrs, "actor", actor)
		}
		if data, ok := event.Payload().(map[string]interface{}); ok {
			for k, v := range data {
				attrs = append(attrs, k, v)
			}
		}
		logger.InfoContext(ctx, "audit", attrs...)
		return nil
	})
}

// RegisterMetrics counts published events per type on reg.
func RegisterMetrics(bus *EventBus, reg prometheus.Registerer) (*prometheus.CounterVec, error) {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "office",
		Name:      "domain_events_total",
		Help:      "Domain events published by the office services, by type.",
	}, []string{"type"})
	if err := reg.Register(counter); err != nil {
		return nil, err
	}
	for _, t := range AllEventTypes {
		counter.WithLabelValues(t)
	}

	bus.Subscribe(Wildcard, func(_ context.Context, event Event) error {
		counter.WithLabelValues(event.EventType()).Inc()
		return nil
	})
	return counter, nil
}

func actorOf(event Event) (string, bool) {
	switch e := event.(type) {
	case *RecordEvent:
		return e.Actor, e.Actor != ""
	case BaseEvent:
		return e.Actor, e.Actor != ""
	case *BaseEvent:
		return e.Actor, e.Actor != ""
	}
	return "", false
}
