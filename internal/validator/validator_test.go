package validator

import (
	"errors"
	"testing"

	"github.com/aretw0/stance/pkg/domain"
	"github.com/aretw0/stance/pkg/modes"
	"github.com/aretw0/stance/pkg/registry"
)

func nopFactory(robot domain.RobotType, ectx *domain.ExecutionContext) domain.ControlMode {
	return nil
}

func TestValidateGraph(t *testing.T) {
	// Scenario A: the reference modes
	report, err := ValidateGraph(modes.NewRegistry(), domain.ModeStandby, domain.ModeSafeStop)
	if err != nil {
		t.Fatalf("Scenario A (Valid) failed: %v", err)
	}
	if w := report.Warnings(); len(w) != 0 {
		t.Errorf("Scenario A: unexpected warnings %v", w)
	}

	// Scenario B: Broken Link
	// idle -> ghost
	reg := registry.NewRegistry().MustRegister(
		registry.Entry{Name: "idle", Factory: nopFactory, Transitions: []domain.ModeName{"ghost"}},
		registry.Entry{Name: "halt", Factory: nopFactory, Transitions: []domain.ModeName{"idle"}},
	)
	if _, err := ValidateGraph(reg, "idle", "halt"); !errors.Is(err, domain.ErrUnknownMode) {
		t.Errorf("Scenario B: expected ErrUnknownMode, got %v", err)
	}

	// Scenario C: Unreachable mode and dead ends
	// idle -> run (dead end), orphan is never targeted, halt has no exit
	reg = registry.NewRegistry().MustRegister(
		registry.Entry{Name: "idle", Factory: nopFactory, Transitions: []domain.ModeName{"run"}},
		registry.Entry{Name: "run", Factory: nopFactory},
		registry.Entry{Name: "orphan", Factory: nopFactory, Transitions: []domain.ModeName{"idle"}},
		registry.Entry{Name: "halt", Factory: nopFactory},
	)
	report, err = ValidateGraph(reg, "idle", "halt")
	if err != nil {
		t.Fatalf("Scenario C: %v", err)
	}
	if len(report.Unreachable) != 1 || report.Unreachable[0] != "orphan" {
		t.Errorf("Scenario C: unreachable = %v, want [orphan]", report.Unreachable)
	}
	if len(report.DeadEnds) != 1 || report.DeadEnds[0] != "run" {
		t.Errorf("Scenario C: dead ends = %v, want [run]", report.DeadEnds)
	}
	if report.SafeExit {
		t.Error("Scenario C: halt has no exit")
	}
	if got := len(report.Warnings()); got != 3 {
		t.Errorf("Scenario C: %d warnings, want 3", got)
	}
}
