// Package pubsub is a small typed publish/subscribe broker used to fan log
// entries and overlay state changes out to the Bubble Tea loop.
package pubsub

import (
	"context"
	"time"
)

// EventType names what happened.
type EventType string

const (
	// LogEvent carries a formatted log line.
	LogEvent EventType = "log"
	// TransitionEvent carries a quick-return state change.
	TransitionEvent EventType = "transition"
	// AnimationEvent carries the start or end of an overlay slide.
	AnimationEvent EventType = "animation"
)

// Event is a published payload with its type and publish time.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber hands out subscription channels.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher accepts events.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
