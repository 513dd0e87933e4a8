package modes

import (
	"time"

	"github.com/aretw0/stance/pkg/domain"
)

const defaultStandDuration = 1.5 // seconds

// Stand ramps the joints from wherever they are to the stand posture and then
// holds it.
type Stand struct {
	domain.Base
	limits   safetyLimits
	duration time.Duration
	kp, kd   float64
	target   [domain.JointCount]float64

	from     [domain.JointCount]float64
	began    time.Duration
	primed   bool
	progress float64
	cmdErr   error
	faults   domain.FaultFlags
	request  domain.ModeName
}

// NewStand builds the stand-up mode.
func NewStand(robot domain.RobotType, ectx *domain.ExecutionContext) domain.ControlMode {
	kp, kd := stiffness(robot)
	secs := floatParam(ectx.Params(), domain.ParamStandDuration, defaultStandDuration)
	return &Stand{
		Base:     domain.NewBase(domain.ModeStand, robot, ectx),
		limits:   loadSafety(ectx.Params()),
		duration: time.Duration(secs * float64(time.Second)),
		kp:       kp,
		kd:       kd,
		target:   standPose(robot),
	}
}

func (m *Stand) OnEnter() {
	m.primed = false
	m.progress = 0
	m.cmdErr = nil
	m.faults = 0
	m.request = m.Name()
}

func (m *Stand) OnExit() {}

func (m *Stand) Run(fb *domain.MotionFeedback) {
	ectx := m.Context()
	hw := ectx.Hardware()
	sensors := hw.Sensors()

	if !m.primed {
		m.from = sensors.Position
		m.began = sensors.Stamp
		m.primed = true
	}
	if m.duration <= 0 {
		m.progress = 1
	} else {
		m.progress = min(1, float64(sensors.Stamp-m.began)/float64(m.duration))
	}

	cmds := make([]domain.JointCommand, domain.JointCount)
	for i := range cmds {
		cmds[i] = domain.JointCommand{
			Position: m.from[i] + (m.target[i]-m.from[i])*m.progress,
			Kp:       m.kp,
			Kd:       m.kd,
		}
	}
	m.cmdErr = hw.Command(cmds)

	estimate(fb, sensors)
	fb.LinearVelocity = [3]float64{}
	fb.StandProgress = m.progress
	m.faults = supervise(hw, m.cmdErr, sensors, m.limits)
	fb.Faults = m.faults

	intent := ectx.Commands().Latest()
	m.request = operatorRequest(intent, m.Name(), domain.ModeStandby)
	if intent.Mode == domain.ModeWalk && m.progress >= 1 {
		m.request = domain.ModeWalk
	}
}

func (m *Stand) LoseControlJudge() bool { return m.faults != 0 }

func (m *Stand) NextModeName() domain.ModeName { return m.request }
