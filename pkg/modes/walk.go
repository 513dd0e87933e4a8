package modes

import (
	"math"
	"time"

	"github.com/aretw0/stance/pkg/domain"
)

type walkLimits struct {
	MaxForward float64 `mapstructure:"max_forward"`
	MaxLateral float64 `mapstructure:"max_lateral"`
	MaxYawRate float64 `mapstructure:"max_yaw_rate"`
}

func defaultWalkLimits() walkLimits {
	return walkLimits{MaxForward: 1.0, MaxLateral: 0.5, MaxYawRate: 1.0}
}

// loadWalkLimits decodes params.walk over the defaults. A malformed section
// yields the untouched defaults and the decode error.
func loadWalkLimits(p domain.Parameters) (walkLimits, error) {
	speed := defaultWalkLimits()
	if err := p.Decode("walk", &speed); err != nil {
		return defaultWalkLimits(), err
	}
	return speed, nil
}

// Walk tracks the operator velocity command while holding the stand posture.
// The gait itself belongs to the real controller; the reference mode only
// integrates the commanded body velocity into the pose estimate.
type Walk struct {
	domain.Base
	limits safetyLimits
	speed  walkLimits
	kp, kd float64
	pose   [domain.JointCount]float64

	lastStamp time.Duration
	primed    bool
	cmdErr    error
	faults    domain.FaultFlags
	request   domain.ModeName
}

// NewWalk builds the walking mode.
func NewWalk(robot domain.RobotType, ectx *domain.ExecutionContext) domain.ControlMode {
	kp, kd := stiffness(robot)
	// Malformed limits keep the defaults; CheckParams reports them.
	speed, _ := loadWalkLimits(ectx.Params())
	return &Walk{
		Base:   domain.NewBase(domain.ModeWalk, robot, ectx),
		limits: loadSafety(ectx.Params()),
		speed:  speed,
		kp:     kp,
		kd:     kd,
		pose:   standPose(robot),
	}
}

func clampAbs(v, limit float64) float64 {
	return math.Max(-limit, math.Min(limit, v))
}

func (m *Walk) OnEnter() {
	m.primed = false
	m.cmdErr = nil
	m.faults = 0
	m.request = m.Name()
}

// OnExit leaves the robot standing still.
func (m *Walk) OnExit() {}

func (m *Walk) Run(fb *domain.MotionFeedback) {
	ectx := m.Context()
	hw := ectx.Hardware()
	sensors := hw.Sensors()
	intent := ectx.Commands().Latest()

	dt := 0.0
	if m.primed {
		dt = (sensors.Stamp - m.lastStamp).Seconds()
	}
	m.lastStamp = sensors.Stamp
	m.primed = true

	cmds := make([]domain.JointCommand, domain.JointCount)
	for i := range cmds {
		cmds[i] = domain.JointCommand{Position: m.pose[i], Kp: m.kp, Kd: m.kd}
	}
	m.cmdErr = hw.Command(cmds)

	vx := clampAbs(intent.Velocity[0], m.speed.MaxForward)
	vy := clampAbs(intent.Velocity[1], m.speed.MaxLateral)
	wz := clampAbs(intent.Velocity[2], m.speed.MaxYawRate)

	estimate(fb, sensors)
	yaw := fb.RPY[2]
	fb.LinearVelocity = [3]float64{vx, vy, 0}
	fb.AngularVelocity[2] = wz
	fb.Position[0] += (vx*math.Cos(yaw) - vy*math.Sin(yaw)) * dt
	fb.Position[1] += (vx*math.Sin(yaw) + vy*math.Cos(yaw)) * dt
	fb.StandProgress = 1
	m.faults = supervise(hw, m.cmdErr, sensors, m.limits)
	fb.Faults = m.faults

	m.request = operatorRequest(intent, m.Name(), domain.ModeStand)
}

func (m *Walk) LoseControlJudge() bool { return m.faults != 0 }

func (m *Walk) NextModeName() domain.ModeName { return m.request }
