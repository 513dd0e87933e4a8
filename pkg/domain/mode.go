package domain

// ModeName identifies a control mode within a registry.
type ModeName string

// RobotType tags the hardware variant a mode was built for.
// Several variants may share the same mode logic.
type RobotType string

const (
	RobotLite3 RobotType = "lite3"
	RobotX30   RobotType = "x30"
)

// ControlMode is the contract every operating mode implements.
//
// The orchestrator drives the methods strictly sequentially on the control
// goroutine. Per tick the order is Run, LoseControlJudge, NextModeName. OnEnter
// runs exactly once before the first Run of an activation and OnExit exactly
// once after its last Run. None of the methods may block.
type ControlMode interface {
	// Name returns the registry name of the mode.
	Name() ModeName

	// OnEnter is called when the mode becomes active.
	// It should reset mode-local timers and counters.
	OnEnter()

	// OnExit is called when the mode stops being active.
	OnExit()

	// Run performs one control tick: read sensors, command actuators and
	// update the shared motion feedback.
	Run(fb *MotionFeedback)

	// LoseControlJudge reports whether the mode can no longer safely continue.
	// A true result forces the safe mode regardless of NextModeName.
	LoseControlJudge() bool

	// NextModeName returns the mode to switch to. Returning Name() means stay.
	NextModeName() ModeName
}

// FaultReceiver is implemented by modes that want to know why the fault path
// activated them. The orchestrator calls OnFault after OnEnter and before the
// next Run, and again whenever a fault is raised while the mode is active.
type FaultReceiver interface {
	OnFault(reason TransitionReason)
}

// Base carries the fields shared by every mode implementation.
// Embed it to get Name and the collaborator accessors for free.
type Base struct {
	name  ModeName
	robot RobotType
	ectx  *ExecutionContext
}

// NewBase builds the embeddable part of a mode.
func NewBase(name ModeName, robot RobotType, ectx *ExecutionContext) Base {
	return Base{name: name, robot: robot, ectx: ectx}
}

func (b *Base) Name() ModeName { return b.name }

// RobotType returns the hardware variant the mode was constructed for.
func (b *Base) RobotType() RobotType { return b.robot }

// Context returns the shared execution context. Modes must not retain it
// beyond their own lifetime or replace it.
func (b *Base) Context() *ExecutionContext { return b.ectx }
