/*
Package domain contains the core types of the stance mode controller.

It defines the control mode contract, the shared execution context, the motion
feedback record and the events emitted while the orchestrator switches modes.
The package is kept free of I/O and persistence so that every adapter and mode
implementation can depend on it.

# Key Entities

  - ControlMode: one operating mode (stand, walk, safe stop, ...).
  - ExecutionContext: the collaborators (hardware, commands, parameters, telemetry) shared by all modes.
  - MotionFeedback: the current motion status written by the active mode.
  - Snapshot: the controller state published between ticks.
  - LifecycleHooks: observability callbacks invoked on the control goroutine.
*/
package domain
