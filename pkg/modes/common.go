package modes

import (
	"math"

	"github.com/aretw0/stance/pkg/domain"
)

// Defaults used when the parameter tree does not override them.
const (
	defaultMaxRoll   = 0.6
	defaultMaxPitch  = 0.6
	defaultMaxJoint  = 2.8
	defaultDampingKd = 3.0
)

type safetyLimits struct {
	MaxRoll  float64
	MaxPitch float64
	// MaxJoint bounds the absolute position of every joint, in radians.
	MaxJoint float64
}

func loadSafety(p domain.Parameters) safetyLimits {
	return safetyLimits{
		MaxRoll:  floatParam(p, domain.ParamMaxRoll, defaultMaxRoll),
		MaxPitch: floatParam(p, domain.ParamMaxPitch, defaultMaxPitch),
		MaxJoint: floatParam(p, domain.ParamMaxJoint, defaultMaxJoint),
	}
}

func floatParam(p domain.Parameters, key string, def float64) float64 {
	if v, ok := p.Float(key); ok {
		return v
	}
	return def
}

// supervise inspects the link, the last command result, the attitude and the
// joint positions, and returns the fault flags that make a mode lose control.
func supervise(hw domain.Hardware, cmdErr error, s domain.SensorState, lim safetyLimits) domain.FaultFlags {
	var f domain.FaultFlags
	if hw.Fault() != nil || cmdErr != nil {
		f |= domain.FaultHardware
	}
	if math.Abs(s.Imu.RPY[0]) > lim.MaxRoll || math.Abs(s.Imu.RPY[1]) > lim.MaxPitch {
		f |= domain.FaultAttitude
	}
	for _, q := range s.Position {
		if math.Abs(q) > lim.MaxJoint {
			f |= domain.FaultJointLimit
			break
		}
	}
	return f
}

// estimate copies what the sensors measure directly into the feedback.
func estimate(fb *domain.MotionFeedback, s domain.SensorState) {
	fb.RPY = s.Imu.RPY
	fb.AngularVelocity = s.Imu.Omega
	fb.Contact = s.Contact
}

// standPose returns the per-joint stand posture for a robot variant, ordered
// leg by leg as hip abduction, hip, knee.
func standPose(robot domain.RobotType) [domain.JointCount]float64 {
	leg := [domain.JointsPerLeg]float64{0, -0.8, 1.6}
	if robot == domain.RobotX30 {
		leg = [domain.JointsPerLeg]float64{0, -0.7, 1.45}
	}
	var pose [domain.JointCount]float64
	for i := range pose {
		pose[i] = leg[i%domain.JointsPerLeg]
	}
	return pose
}

func stiffness(robot domain.RobotType) (kp, kd float64) {
	if robot == domain.RobotX30 {
		return 120, 2.5
	}
	return 60, 1.2
}

// dampingCommand holds every joint with pure damping.
func dampingCommand(kd float64) []domain.JointCommand {
	cmds := make([]domain.JointCommand, domain.JointCount)
	for i := range cmds {
		cmds[i] = domain.JointCommand{Kd: kd}
	}
	return cmds
}

// operatorRequest maps the operator intent to a transition request. The
// emergency stop is honoured from every mode.
func operatorRequest(intent domain.UserIntent, self domain.ModeName, allowed ...domain.ModeName) domain.ModeName {
	if intent.Mode == domain.ModeSafeStop {
		return domain.ModeSafeStop
	}
	for _, a := range allowed {
		if intent.Mode == a {
			return a
		}
	}
	return self
}
