// Package memory provides in-process collaborators: a simulated robot, a
// latest-wins command source, a parameter tree and a ring buffer telemetry
// sink. They back the demo CLI and the tests.
package memory
