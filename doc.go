/*
Package stance is an operating-mode controller for legged robots.

A robot is always in exactly one control mode (standby, stand, walk, ...). Each
mode implements domain.ControlMode: it runs one control step per tick, judges
whether it has lost control and names the mode it wants next. The controller
owns the state machine around the modes.

# Concept

Every tick the active mode runs, then the controller decides the next mode:

  - A lost-control judgement, or a tick that overran the control period,
    overrides whatever the mode asked for and forces the safe mode.
  - The safe mode latches: it is left only after an explicit release.
  - Switching calls OnExit on the outgoing mode and OnEnter on the incoming one,
    exactly once each. Asking for the current mode is a no-op.
  - A request for an unregistered mode keeps the current mode and reports a
    diagnostic instead of failing.

Modes share one domain.ExecutionContext holding the hardware link, the operator
command source, the parameter set and the telemetry sink. The motion feedback is
written only by the active mode; everyone else reads the published Snapshot.

# Usage

	reg := modes.NewRegistry()
	ectx, err := domain.NewExecutionContext(hw, commands, params, sink)
	if err != nil {
		log.Fatal(err)
	}

	ctrl, err := stance.New(reg, ectx,
		stance.WithRobotType(domain.RobotLite3),
		stance.WithPeriod(2*time.Millisecond),
		stance.WithMetrics(prometheus.NewRegistry()),
	)
	if err != nil {
		log.Fatal(err)
	}

	if err := ctrl.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package stance
