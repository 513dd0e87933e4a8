/*
Package ports defines the driven ports (interfaces) of the stance controller.

These interfaces decouple the mode orchestrator from the robot, the operator
link, the parameter store and the telemetry backend, so the same modes run on
simulated hardware in tests and on the real robot.

# Key Interfaces

  - Hardware: sensor reads and actuator writes.
  - CommandSource: the latest operator intent.
  - Parameters: read-only tuning values.
  - TelemetrySink: best-effort per-tick records.
  - Controller: the introspection view used by the HTTP and MCP adapters.
*/
package ports
