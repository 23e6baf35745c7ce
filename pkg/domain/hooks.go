package domain

import (
	"context"
	"time"
)

// SessionEvent describes a session lifecycle change (creation or removal).
type SessionEvent struct {
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id"`
	State     string    `json:"state"`
}

// DispatchEvent describes one completed event dispatch.
type DispatchEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	SessionID string        `json:"session_id"`
	EventType EventType     `json:"event_type"`
	FromState string        `json:"from_state"`
	ToState   string        `json:"to_state"`
	Duration  time.Duration `json:"duration"`
}

// LifecycleHooks defines callbacks for registry observability. Hooks run
// synchronously inside the session's critical section and must be fast.
type LifecycleHooks struct {
	OnSessionCreate func(context.Context, *SessionEvent)
	OnSessionRemove func(context.Context, *SessionEvent)
	OnDispatch      func(context.Context, *DispatchEvent)
}
