package domain

// Well-known mode names used by the reference modes and the default config.
const (
	ModeStandby  ModeName = "standby"
	ModeStand    ModeName = "stand"
	ModeWalk     ModeName = "walk"
	ModeSafeStop ModeName = "safe_stop"
)

// Parameter keys shared across modes. Keys are dot separated paths into the
// parameter tree.
const (
	ParamMaxRoll       = "safety.max_roll"
	ParamMaxPitch      = "safety.max_pitch"
	ParamMaxJoint      = "safety.max_joint"
	ParamStandDuration = "stand.duration"
	ParamDampingKd     = "damping.kd"
)
