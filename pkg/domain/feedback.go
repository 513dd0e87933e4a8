package domain

import "strings"

// LegCount is the number of legs whose contact state is tracked.
const LegCount = 4

// FaultFlags is a bitmask of fault indicators carried in MotionFeedback.
type FaultFlags uint32

const (
	FaultHardware FaultFlags = 1 << iota
	FaultAttitude
	FaultJointLimit
	FaultDeadlineMiss
	FaultLoseControl
)

var faultNames = []struct {
	flag FaultFlags
	name string
}{
	{FaultHardware, "hardware"},
	{FaultAttitude, "attitude"},
	{FaultJointLimit, "joint_limit"},
	{FaultDeadlineMiss, "deadline_miss"},
	{FaultLoseControl, "lose_control"},
}

// Has reports whether every bit of f is set.
func (ff FaultFlags) Has(f FaultFlags) bool { return ff&f == f }

func (ff FaultFlags) String() string {
	if ff == 0 {
		return "none"
	}
	var parts []string
	for _, fn := range faultNames {
		if ff.Has(fn.flag) {
			parts = append(parts, fn.name)
		}
	}
	return strings.Join(parts, "|")
}

// MotionFeedback is the current motion status of the robot.
//
// It is written in place by the active mode during Run and read by everyone
// else. The zero value is the valid initial state. No history is kept.
type MotionFeedback struct {
	Position        [3]float64     `json:"position"`
	RPY             [3]float64     `json:"rpy"`
	LinearVelocity  [3]float64     `json:"linear_velocity"`
	AngularVelocity [3]float64     `json:"angular_velocity"`
	Contact         [LegCount]bool `json:"contact"`
	Faults          FaultFlags     `json:"faults"`
	StandProgress   float64        `json:"stand_progress"`
}

// Reset zeroes the feedback in place.
func (fb *MotionFeedback) Reset() {
	*fb = MotionFeedback{}
}
