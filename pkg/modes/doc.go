/*
Package modes provides reference implementations of the control mode contract:
standby (passive damping), stand (posture ramp), walk (velocity tracking) and
safe_stop (damped hold).

The control laws are intentionally simple. They exist to exercise the
orchestrator end to end on simulated hardware and to show how a mode uses the
execution context. Every mode supervises the hardware link and the body
attitude and reports loss of control through LoseControlJudge.
*/
package modes
