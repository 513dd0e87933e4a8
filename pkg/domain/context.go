package domain

import "fmt"

// Collaborator interfaces are declared next to ExecutionContext because the
// context holds them and the data types they exchange live in this package.
// pkg/ports aliases them for adapter authors.

// Hardware is the sensor and actuator access the active mode drives.
type Hardware interface {
	Sensors() SensorState
	Command(cmds []JointCommand) error
	// Fault returns nil while the hardware link is healthy.
	Fault() error
}

// CommandSource exposes the most recent decoded user intent.
type CommandSource interface {
	Latest() UserIntent
}

// Parameters is a read-only key/value view fixed for the process lifetime.
type Parameters interface {
	Float(key string) (float64, bool)
	String(key string) (string, bool)
	// Decode copies the subtree under prefix into out.
	Decode(prefix string, out any) error
}

// TelemetrySink accepts records without blocking the caller.
type TelemetrySink interface {
	Record(rec TelemetryRecord)
}

// ExecutionContext bundles the collaborators shared by every mode.
// It is immutable after construction.
type ExecutionContext struct {
	hardware  Hardware
	commands  CommandSource
	params    Parameters
	telemetry TelemetrySink
}

// NewExecutionContext validates and bundles the collaborators.
func NewExecutionContext(hw Hardware, cmd CommandSource, params Parameters, sink TelemetrySink) (*ExecutionContext, error) {
	switch {
	case hw == nil:
		return nil, fmt.Errorf("%w: hardware", ErrMissingCollaborator)
	case cmd == nil:
		return nil, fmt.Errorf("%w: command source", ErrMissingCollaborator)
	case params == nil:
		return nil, fmt.Errorf("%w: parameters", ErrMissingCollaborator)
	case sink == nil:
		return nil, fmt.Errorf("%w: telemetry sink", ErrMissingCollaborator)
	}
	return &ExecutionContext{
		hardware:  hw,
		commands:  cmd,
		params:    params,
		telemetry: sink,
	}, nil
}

func (c *ExecutionContext) Hardware() Hardware { return c.hardware }
func (c *ExecutionContext) Commands() CommandSource { return c.commands }
func (c *ExecutionContext) Params() Parameters { return c.params }
func (c *ExecutionContext) Telemetry() TelemetrySink { return c.telemetry }
