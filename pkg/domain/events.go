package domain

import (
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventModeEnter    EventType = "mode_enter"
	EventModeExit     EventType = "mode_exit"
	EventTick         EventType = "tick"
	EventFault        EventType = "fault"
	EventDeadlineMiss EventType = "deadline_miss"
	EventDiagnostic   EventType = "diagnostic"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Tick      uint64    `json:"tick"`
}

// ModeEvent represents entry into or exit from a mode.
type ModeEvent struct {
	EventBase
	Mode   ModeName         `json:"mode"`
	Reason TransitionReason `json:"reason"`
}

// TickEvent is emitted once per completed tick.
type TickEvent struct {
	EventBase
	Mode     ModeName      `json:"mode"`
	Duration time.Duration `json:"duration"`
}

// FaultEvent describes a fault override.
type FaultEvent struct {
	EventBase
	Mode      ModeName         `json:"mode"`
	Requested ModeName         `json:"requested"`
	Reason    TransitionReason `json:"reason"`
}

// DeadlineEvent records a tick that overran its period.
type DeadlineEvent struct {
	EventBase
	Mode    ModeName      `json:"mode"`
	Elapsed time.Duration `json:"elapsed"`
	Period  time.Duration `json:"period"`
}

// DiagnosticEvent reports a recoverable misbehaviour such as a request for an
// unregistered mode.
type DiagnosticEvent struct {
	EventBase
	Mode    ModeName `json:"mode"`
	Target  ModeName `json:"target,omitempty"`
	Message string   `json:"message"`
	Err     error    `json:"-"`
}

// LifecycleHooks defines callbacks for orchestrator observability.
// Hooks run on the control goroutine and must not block.
type LifecycleHooks struct {
	OnModeEnter    func(*ModeEvent)
	OnModeExit     func(*ModeEvent)
	OnTick         func(*TickEvent)
	OnFault        func(*FaultEvent)
	OnDeadlineMiss func(*DeadlineEvent)
	OnDiagnostic   func(*DiagnosticEvent)
}
