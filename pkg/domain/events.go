package domain

import (
	"context"
	"time"
)

// EventType defines the category of a lifecycle event.
type EventType string

const (
	EventTriggerStart  EventType = "trigger_start"
	EventPhaseDone     EventType = "phase_done"
	EventActionExecute EventType = "action_execute"
	EventTriggerEnd    EventType = "trigger_end"
)

// EventBase contains common fields for all lifecycle events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
}

// TriggerEvent marks the start or end of a trigger sequence.
type TriggerEvent struct {
	EventBase
	Action   Action        `json:"action"`
	Status   Status        `json:"status,omitempty"` // end only
	Duration time.Duration `json:"duration,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// PhaseEvent marks the completion of one handler phase.
type PhaseEvent struct {
	EventBase
	Action   Action        `json:"action"`
	Phase    Phase         `json:"phase"`
	Bound    bool          `json:"bound"` // a handler was bound for this phase
	Canceled bool          `json:"canceled,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// ActionEvent marks the execution of the built-in action itself.
type ActionEvent struct {
	EventBase
	Action   Action        `json:"action"`
	Duration time.Duration `json:"duration,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability. Nil fields are
// skipped. Hooks run synchronously on the trigger goroutine and must not
// block.
type LifecycleHooks struct {
	OnTriggerStart  func(context.Context, *TriggerEvent)
	OnPhase         func(context.Context, *PhaseEvent)
	OnActionExecute func(context.Context, *ActionEvent)
	OnTriggerEnd    func(context.Context, *TriggerEvent)
}

// JoinHooks fans one callback out to several hook sets, in order.
func JoinHooks(hooks ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnTriggerStart: func(ctx context.Context, ev *TriggerEvent) {
			for _, h := range hooks {
				if h.OnTriggerStart != nil {
					h.OnTriggerStart(ctx, ev)
				}
			}
		},
		OnPhase: func(ctx context.Context, ev *PhaseEvent) {
			for _, h := range hooks {
				if h.OnPhase != nil {
					h.OnPhase(ctx, ev)
				}
			}
		},
		OnActionExecute: func(ctx context.Context, ev *ActionEvent) {
			for _, h := range hooks {
				if h.OnActionExecute != nil {
					h.OnActionExecute(ctx, ev)
				}
			}
		},
		OnTriggerEnd: func(ctx context.Context, ev *TriggerEvent) {
			for _, h := range hooks {
				if h.OnTriggerEnd != nil {
					h.OnTriggerEnd(ctx, ev)
				}
			}
		},
	}
}
