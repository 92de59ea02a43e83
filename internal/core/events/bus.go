package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

type Event interface {
	EventType() string
	EventID() string
	OccurredAt() time.Time
	Payload() interface{}
}

type BaseEvent struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Actor     string                 `json:"actor"`
	Data      map[string]interface{} `json:"data"`
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) EventID() string {
	return e.ID
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

func (e BaseEvent) Payload() interface{} {
	return e.Data
}

type Handler func(ctx context.Context, event Event) error

// Publisher is what services depend on; the bus satisfies it.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Wildcard subscribes a handler to every event type.
const Wildcard = "*"

// EventBus fans events out to in-process subscribers. It carries audit
// and metrics only; no domain state depends on delivery.
type EventBus struct {
	handlers map[string][]Handler
	logger   *slog.Logger
	mu       sync.RWMutex
	wg       sync.WaitGroup
}

func NewEventBus(logger *slog.Logger) *EventBus {
	return &EventBus{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

// Subscribe registers handler for eventType, or for every type with Wildcard.
func (eb *EventBus) Subscribe(eventType string, handler Handler) {
	eb.mu.Lock()
	eb.handlers[eventType] = append(eb.handlers[eventType], handler)
	n := len(eb.handlers[eventType])
	eb.mu.Unlock()

	eb.logger.Debug("event subscriber added", "event_type", eventType, "subscribers", n)
}

// subscribers returns the typed handlers followed by the wildcard ones.
func (eb *EventBus) subscribers(eventType string) []Handler {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	out := append([]Handler(nil), eb.handlers[eventType]...)
	if eventType != Wildcard {
		out = append(out, eb.handlers[Wildcard]...)
	}
	return out
}

func (eb *EventBus) deliver(ctx context.Context, h Handler, event Event) error {
	err := h(ctx, event)
	if err != nil {
		eb.logger.ErrorContext(ctx, "event subscriber failed",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"error", err)
	}
	return err
}

// Publish dispatches to subscribers in the background. Handlers run detached
// from the request's cancellation so a finished response doesn't cut them off.
func (eb *EventBus) Publish(ctx context.Context, event Event) error {
	detached := context.WithoutCancel(ctx)
	for _, h := range eb.subscribers(event.EventType()) {
		eb.wg.Add(1)
		go func(h Handler) {
			defer eb.wg.Done()
			_ = eb.deliver(detached, h, event)
		}(h)
	}
	return nil
}

// PublishSync delivers in order on the caller's goroutine and stops at the
// first failing subscriber.
func (eb *EventBus) PublishSync(ctx context.Context, event Event) error {
	for _, h := range eb.subscribers(event.EventType()) {
		if err := eb.deliver(ctx, h, event); err != nil {
			return fmt.Errorf("deliver %s: %w", event.EventType(), err)
		}
	}
	return nil
}

// Wait blocks until every in-flight asynchronous handler returns.
func (eb *EventBus) Wait() {
	eb.wg.Wait()
}
