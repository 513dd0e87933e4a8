package memory

import (
	"sync"
	"time"

	"github.com/aretw0/stance/pkg/domain"
)

// SimHardware is a kinematic stand-in for the robot. Each Command call is one
// simulation step: joints move a fixed fraction toward their commanded
// position, weighted by stiffness. IMU attitude and link faults are injected by
// tests or by the demo CLI.
// Safe for concurrent use.
type SimHardware struct {
	mu       sync.Mutex
	state    domain.SensorState
	last     []domain.JointCommand
	fault    error
	step     time.Duration
	commands uint64
}

// NewSimHardware creates a simulated robot lying down with all feet in contact.
func NewSimHardware() *SimHardware {
	h := &SimHardware{step: time.Millisecond}
	for i := range h.state.Contact {
		h.state.Contact[i] = true
	}
	return h
}

// Sensors returns the current simulated sensor state.
func (h *SimHardware) Sensors() domain.SensorState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Command applies one step of joint commands. It fails while a fault is injected.
func (h *SimHardware) Command(cmds []domain.JointCommand) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.fault != nil {
		return h.fault
	}
	h.commands++
	h.state.Stamp += h.step
	h.last = append(h.last[:0], cmds...)

	for i := 0; i < len(cmds) && i < domain.JointCount; i++ {
		c := cmds[i]
		q := h.state.Position[i]
		// Stiffness drives position; damping alone only bleeds velocity.
		alpha := c.Kp / (c.Kp + 50)
		next := q + alpha*(c.Position-q)
		h.state.Velocity[i] = (next - q) / h.step.Seconds()
		if c.Kp == 0 && c.Kd > 0 {
			h.state.Velocity[i] *= 0.5
		}
		h.state.Position[i] = next
		h.state.Torque[i] = c.Kp*(c.Position-q) + c.Kd*(c.Velocity-h.state.Velocity[i]) + c.Torque
	}
	return nil
}

// Fault returns the injected fault, if any.
func (h *SimHardware) Fault() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.fault
}

// InjectFault makes the link report err until cleared with nil.
func (h *SimHardware) InjectFault(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fault = err
}

// SetAttitude sets the simulated IMU roll, pitch and yaw.
func (h *SimHardware) SetAttitude(roll, pitch, yaw float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state.Imu.RPY = [3]float64{roll, pitch, yaw}
}

// SetJointPosition overrides the measured position of joint i.
func (h *SimHardware) SetJointPosition(i int, q float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state.Position[i] = q
}

// LastCommand returns a copy of the most recent command batch.
func (h *SimHardware) LastCommand() []domain.JointCommand {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]domain.JointCommand(nil), h.last...)
}

// Commands returns how many command batches were accepted.
func (h *SimHardware) Commands() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.commands
}
