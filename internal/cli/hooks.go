package cli

import (
	"log/slog"

	"github.com/aretw0/stance/pkg/domain"
)

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnModeEnter: func(e *domain.ModeEvent) {
			logger.Debug("Enter Mode", "mode", e.Mode, "reason", e.Reason, "tick", e.Tick)
		},
		OnModeExit: func(e *domain.ModeEvent) {
			logger.Debug("Exit Mode", "mode", e.Mode, "reason", e.Reason, "tick", e.Tick)
		},
		OnFault: func(e *domain.FaultEvent) {
			logger.Debug("Fault", "mode", e.Mode, "requested", e.Requested, "reason", e.Reason)
		},
		OnDeadlineMiss: func(e *domain.DeadlineEvent) {
			logger.Debug("Deadline Miss", "mode", e.Mode, "elapsed", e.Elapsed, "period", e.Period)
		},
		OnDiagnostic: func(e *domain.DiagnosticEvent) {
			logger.Debug("Diagnostic", "mode", e.Mode, "target", e.Target, "msg", e.Message, "err", e.Err)
		},
	}
}
