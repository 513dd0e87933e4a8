package domain

import "time"

// JointsPerLeg is the actuator count of one leg (hip abduction, hip, knee).
const JointsPerLeg = 3

// JointCount is the total number of actuated joints.
const JointCount = LegCount * JointsPerLeg

// ImuState is one inertial measurement sample.
type ImuState struct {
	RPY   [3]float64 `json:"rpy"`
	Acc   [3]float64 `json:"acc"`
	Omega [3]float64 `json:"omega"`
}

// SensorState is what the hardware reports on each read.
type SensorState struct {
	Stamp    time.Duration       `json:"stamp"`
	Imu      ImuState            `json:"imu"`
	Position [JointCount]float64 `json:"position"`
	Velocity [JointCount]float64 `json:"velocity"`
	Torque   [JointCount]float64 `json:"torque"`
	Contact  [LegCount]bool      `json:"contact"`
}

// JointCommand is the impedance command for one joint:
// tau = Kp*(Position-q) + Kd*(Velocity-dq) + Torque.
type JointCommand struct {
	Position float64 `json:"position"`
	Velocity float64 `json:"velocity"`
	Kp       float64 `json:"kp"`
	Kd       float64 `json:"kd"`
	Torque   float64 `json:"torque"`
}

// UserIntent is the latest decoded operator command.
type UserIntent struct {
	// Seq increases with every decoded command.
	Seq uint64 `json:"seq"`
	// Mode is the mode the operator asks for; empty means no request.
	Mode ModeName `json:"mode,omitempty"`
	// Velocity is the commanded body velocity: forward, lateral, yaw rate.
	Velocity [3]float64 `json:"velocity"`
}

// TelemetryRecord is what the orchestrator hands to the telemetry sink each tick.
type TelemetryRecord struct {
	RunID    string         `json:"run_id"`
	Tick     uint64         `json:"tick"`
	Time     time.Time      `json:"time"`
	Mode     ModeName       `json:"mode"`
	Feedback MotionFeedback `json:"feedback"`
}
