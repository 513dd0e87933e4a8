package modes

import (
	"github.com/aretw0/stance/pkg/domain"
)

// SafeStop damps every joint and zeroes the commanded motion. It always asks
// for standby; the orchestrator holds it here until the latch is released.
type SafeStop struct {
	domain.Base
	kd     float64
	cmdErr error
	// causes holds the indicators of the faults that activated the mode.
	causes domain.FaultFlags
}

// NewSafeStop builds the safe-stop mode.
func NewSafeStop(robot domain.RobotType, ectx *domain.ExecutionContext) domain.ControlMode {
	return &SafeStop{
		Base: domain.NewBase(domain.ModeSafeStop, robot, ectx),
		kd:   floatParam(ectx.Params(), domain.ParamDampingKd, defaultDampingKd) * 2,
	}
}

func (m *SafeStop) OnEnter() {
	m.cmdErr = nil
	m.causes = 0
}

// OnFault records why the fault path holds the robot here.
func (m *SafeStop) OnFault(reason domain.TransitionReason) {
	m.causes |= reason.Flags()
}

func (m *SafeStop) OnExit() {}

func (m *SafeStop) Run(fb *domain.MotionFeedback) {
	hw := m.Context().Hardware()
	sensors := hw.Sensors()
	// A failing link cannot be made safer from here; keep damping.
	m.cmdErr = hw.Command(dampingCommand(m.kd))

	estimate(fb, sensors)
	fb.LinearVelocity = [3]float64{}
	fb.AngularVelocity = [3]float64{}
	fb.Faults |= domain.FaultLoseControl | m.causes
	if m.cmdErr != nil {
		fb.Faults |= domain.FaultHardware
	}
}

// LoseControlJudge is always false: there is nowhere safer to go.
func (m *SafeStop) LoseControlJudge() bool { return false }

func (m *SafeStop) NextModeName() domain.ModeName { return domain.ModeStandby }
