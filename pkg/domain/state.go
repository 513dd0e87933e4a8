package domain

import "time"

// Snapshot is the externally visible controller state between two ticks.
type Snapshot struct {
	// Tick is the number of completed ticks.
	Tick uint64 `json:"tick"`

	// Mode is the active mode at the tick boundary.
	Mode ModeName `json:"mode"`

	// Latched is true while the safe mode holds the robot and waits for Release.
	Latched bool `json:"latched"`

	// Feedback is the motion feedback as last written by the active mode.
	Feedback MotionFeedback `json:"feedback"`

	// UpdatedAt is when the snapshot was published.
	UpdatedAt time.Time `json:"updated_at"`
}
