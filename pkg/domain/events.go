package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRebuild    EventType = "rebuild"
	EventFlush      EventType = "flush"
	EventGripEdit   EventType = "grip_edit"
	EventSessionEnd EventType = "session_end"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Handle    Handle    `json:"handle,omitempty"`
	TypeName  string    `json:"type_name,omitempty"`
}

// RebuildEvent reports one geometry rebuild.
type RebuildEvent struct {
	EventBase
	Primitives int           `json:"primitives"`
	Duration   time.Duration `json:"duration"`
	Err        error         `json:"-"`
}

// FlushEvent reports one container write.
type FlushEvent struct {
	EventBase
	Definition DefinitionID `json:"definition"`
	// Copied is set when the container was shared and a new one was created.
	Copied bool  `json:"copied,omitempty"`
	Err    error `json:"-"`
}

// GripEvent reports a grip edit that was committed or aborted.
type GripEvent struct {
	EventBase
	Kind      string `json:"kind"`
	Committed bool   `json:"committed"`
}

// SessionEvent reports the end of an interactive session.
type SessionEvent struct {
	EventBase
	Committed bool `json:"committed"`
	Steps     int  `json:"steps"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnRebuild    func(context.Context, *RebuildEvent)
	OnFlush      func(context.Context, *FlushEvent)
	OnGripEdit   func(context.Context, *GripEvent)
	OnSessionEnd func(context.Context, *SessionEvent)
}

// Merge combines hooks so that both h and other are called.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnRebuild:    chain(h.OnRebuild, other.OnRebuild),
		OnFlush:      chain(h.OnFlush, other.OnFlush),
		OnGripEdit:   chain(h.OnGripEdit, other.OnGripEdit),
		OnSessionEnd: chain(h.OnSessionEnd, other.OnSessionEnd),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}

// NewEventBase returns a timestamped base for an event about a.
func NewEventBase(t EventType, a *Annotation) EventBase {
	e := EventBase{Timestamp: time.Now(), Type: t}
	if a != nil {
		e.Handle = a.Handle
		e.TypeName = a.TypeName
	}
	return e
}
