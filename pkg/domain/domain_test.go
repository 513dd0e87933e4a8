package domain

import (
	"errors"
	"testing"
)

type nopHardware struct{}

func (nopHardware) Sensors() SensorState         { return SensorState{} }
func (nopHardware) Command([]JointCommand) error { return nil }
func (nopHardware) Fault() error                 { return nil }

type nopCommands struct{}

func (nopCommands) Latest() UserIntent { return UserIntent{} }

type nopParams struct{}

func (nopParams) Float(string) (float64, bool) { return 0, false }
func (nopParams) String(string) (string, bool) { return "", false }
func (nopParams) Decode(string, any) error     { return nil }

type nopSink struct{}

func (nopSink) Record(TelemetryRecord) {}

func TestFaultFlagsString(t *testing.T) {
	tests := []struct {
		flags FaultFlags
		want  string
	}{
		{0, "none"},
		{FaultHardware, "hardware"},
		{FaultAttitude | FaultLoseControl, "attitude|lose_control"},
		{FaultDeadlineMiss | FaultJointLimit | FaultHardware, "hardware|joint_limit|deadline_miss"},
	}
	for _, tt := range tests {
		if got := tt.flags.String(); got != tt.want {
			t.Errorf("FaultFlags(%d).String() = %q, want %q", uint32(tt.flags), got, tt.want)
		}
	}
}

func TestFaultFlagsHas(t *testing.T) {
	ff := FaultAttitude | FaultLoseControl
	if !ff.Has(FaultAttitude) {
		t.Error("expected attitude bit")
	}
	if ff.Has(FaultHardware) {
		t.Error("unexpected hardware bit")
	}
	if ff.Has(FaultAttitude | FaultHardware) {
		t.Error("Has must require every bit")
	}
}

func TestMotionFeedbackReset(t *testing.T) {
	fb := MotionFeedback{
		Position:      [3]float64{1, 2, 3},
		Contact:       [LegCount]bool{true, true, false, true},
		Faults:        FaultHardware,
		StandProgress: 0.5,
	}
	fb.Reset()
	if fb != (MotionFeedback{}) {
		t.Errorf("Reset left %+v", fb)
	}
}

func TestNewExecutionContext(t *testing.T) {
	tests := []struct {
		name    string
		hw      Hardware
		cmd     CommandSource
		params  Parameters
		sink    TelemetrySink
		wantErr bool
	}{
		{"complete", nopHardware{}, nopCommands{}, nopParams{}, nopSink{}, false},
		{"no hardware", nil, nopCommands{}, nopParams{}, nopSink{}, true},
		{"no commands", nopHardware{}, nil, nopParams{}, nopSink{}, true},
		{"no params", nopHardware{}, nopCommands{}, nil, nopSink{}, true},
		{"no sink", nopHardware{}, nopCommands{}, nopParams{}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ectx, err := NewExecutionContext(tt.hw, tt.cmd, tt.params, tt.sink)
			if tt.wantErr {
				if !errors.Is(err, ErrMissingCollaborator) {
					t.Fatalf("err = %v, want ErrMissingCollaborator", err)
				}
				if ectx != nil {
					t.Fatal("expected nil context on error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ectx.Hardware() == nil || ectx.Commands() == nil || ectx.Params() == nil || ectx.Telemetry() == nil {
				t.Fatal("accessor returned nil")
			}
		})
	}
}

func TestTransitionReasonIsFault(t *testing.T) {
	faults := []TransitionReason{ReasonLoseControl, ReasonDeadlineMiss, ReasonSafeRequest}
	for _, r := range faults {
		if !r.IsFault() {
			t.Errorf("%s should be a fault", r)
		}
	}
	for _, r := range []TransitionReason{ReasonStartup, ReasonRequested, ReasonShutdown} {
		if r.IsFault() {
			t.Errorf("%s should not be a fault", r)
		}
	}
}

func TestTransitionReasonFlags(t *testing.T) {
	tests := []struct {
		reason TransitionReason
		want   FaultFlags
	}{
		{ReasonLoseControl, FaultLoseControl},
		{ReasonSafeRequest, FaultLoseControl},
		{ReasonDeadlineMiss, FaultDeadlineMiss},
		{ReasonRequested, 0},
	}
	for _, tt := range tests {
		if got := tt.reason.Flags(); got != tt.want {
			t.Errorf("%s.Flags() = %s, want %s", tt.reason, got, tt.want)
		}
	}
}

func TestBase(t *testing.T) {
	ectx, err := NewExecutionContext(nopHardware{}, nopCommands{}, nopParams{}, nopSink{})
	if err != nil {
		t.Fatal(err)
	}
	b := NewBase(ModeWalk, RobotX30, ectx)
	if b.Name() != ModeWalk || b.RobotType() != RobotX30 || b.Context() != ectx {
		t.Errorf("unexpected base %+v", b)
	}
}
