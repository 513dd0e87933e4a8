package domain

// TransitionReason explains why the orchestrator changed (or tried to change) mode.
type TransitionReason string

const (
	ReasonStartup      TransitionReason = "startup"
	ReasonRequested    TransitionReason = "requested"
	ReasonLoseControl  TransitionReason = "lose_control"
	ReasonDeadlineMiss TransitionReason = "deadline_miss"
	// ReasonSafeRequest marks a mode that named the safe mode itself.
	ReasonSafeRequest TransitionReason = "safe_request"
	ReasonShutdown    TransitionReason = "shutdown"
)

// IsFault reports whether the reason belongs to the fault path.
func (r TransitionReason) IsFault() bool {
	switch r {
	case ReasonLoseControl, ReasonDeadlineMiss, ReasonSafeRequest:
		return true
	}
	return false
}

// Flags maps a fault reason onto the MotionFeedback indicator it raises.
func (r TransitionReason) Flags() FaultFlags {
	switch r {
	case ReasonLoseControl, ReasonSafeRequest:
		return FaultLoseControl
	case ReasonDeadlineMiss:
		return FaultDeadlineMiss
	}
	return 0
}

// Transition is a declared edge of the mode graph.
type Transition struct {
	From ModeName `json:"from" yaml:"from"`
	To   ModeName `json:"to" yaml:"to"`
}

// ModeInfo describes a registered mode for introspection.
type ModeInfo struct {
	Name        ModeName   `json:"name"`
	Transitions []ModeName `json:"transitions"`
	Start       bool       `json:"start,omitempty"`
	Safe        bool       `json:"safe,omitempty"`
	Active      bool       `json:"active,omitempty"`
}
