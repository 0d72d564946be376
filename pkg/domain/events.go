package domain

import "time"

// EventType defines the category of the event.
type EventType string

const (
	EventTransition EventType = "transition"
	EventError      EventType = "error"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// TransitionEvent is emitted after an action has been applied.
// From and To are equal when the action mutated the state in place or was a no-op.
type TransitionEvent struct {
	EventBase
	Action Action    `json:"action"`
	Token  string    `json:"token,omitempty"`
	From   StateKind `json:"from"`
	To     StateKind `json:"to"`
}

// ErrorEvent is emitted when a failed transition forces the Error state.
type ErrorEvent struct {
	EventBase
	Action Action    `json:"action"`
	Token  string    `json:"token,omitempty"`
	From   StateKind `json:"from"`
	Err    error     `json:"-"`
}

// LifecycleHooks defines callbacks for calculator observability.
// Hooks run synchronously on the goroutine performing the action.
type LifecycleHooks struct {
	OnTransition func(*TransitionEvent)
	OnError      func(*ErrorEvent)
}
