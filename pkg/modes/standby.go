package modes

import (
	"github.com/aretw0/stance/pkg/domain"
)

// Standby is the passive mode: joints are damped, nothing is held.
type Standby struct {
	domain.Base
	limits  safetyLimits
	kd      float64
	cmdErr  error
	faults  domain.FaultFlags
	request domain.ModeName
}

// NewStandby builds the passive mode.
func NewStandby(robot domain.RobotType, ectx *domain.ExecutionContext) domain.ControlMode {
	return &Standby{
		Base:   domain.NewBase(domain.ModeStandby, robot, ectx),
		limits: loadSafety(ectx.Params()),
		kd:     floatParam(ectx.Params(), domain.ParamDampingKd, defaultDampingKd),
	}
}

func (m *Standby) OnEnter() {
	m.cmdErr = nil
	m.faults = 0
	m.request = m.Name()
}

func (m *Standby) OnExit() {}

func (m *Standby) Run(fb *domain.MotionFeedback) {
	ectx := m.Context()
	sensors := ectx.Hardware().Sensors()
	m.cmdErr = ectx.Hardware().Command(dampingCommand(m.kd))

	estimate(fb, sensors)
	fb.LinearVelocity = [3]float64{}
	fb.StandProgress = 0
	// Lying down, attitude is not supervised.
	lim := m.limits
	lim.MaxRoll, lim.MaxPitch = 4, 4
	m.faults = supervise(ectx.Hardware(), m.cmdErr, sensors, lim)
	fb.Faults = m.faults

	m.request = operatorRequest(ectx.Commands().Latest(), m.Name(), domain.ModeStand)
}

func (m *Standby) LoseControlJudge() bool { return m.faults != 0 }

func (m *Standby) NextModeName() domain.ModeName { return m.request }
