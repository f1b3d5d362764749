// Package pubsub provides a generic publish/subscribe event system used to
// fan out render lifecycle and log events to watch-mode listeners.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	// RenderStarted fires when an export render pass begins.
	RenderStarted EventType = "render_started"

	// RenderCompleted fires when a render pass produced markup.
	RenderCompleted EventType = "render_completed"

	// RenderFailed fires when a render pass surfaced an error.
	RenderFailed EventType = "render_failed"

	// LogEntry fires for every structured log line.
	LogEntry EventType = "log_entry"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
