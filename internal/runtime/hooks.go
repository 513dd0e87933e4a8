package runtime

import (
	"time"

	"github.com/aretw0/stance/pkg/domain"
)

func (o *Orchestrator) eventBase(t domain.EventType) domain.EventBase {
	return domain.EventBase{
		Timestamp: o.clock.Now(),
		Type:      t,
		Tick:      o.tick,
	}
}

func (o *Orchestrator) emitModeEnter(mode domain.ModeName, reason domain.TransitionReason) {
	if o.hooks.OnModeEnter != nil {
		o.hooks.OnModeEnter(&domain.ModeEvent{
			EventBase: o.eventBase(domain.EventModeEnter),
			Mode:      mode,
			Reason:    reason,
		})
	}
}

func (o *Orchestrator) emitModeExit(mode domain.ModeName, reason domain.TransitionReason) {
	if o.hooks.OnModeExit != nil {
		o.hooks.OnModeExit(&domain.ModeEvent{
			EventBase: o.eventBase(domain.EventModeExit),
			Mode:      mode,
			Reason:    reason,
		})
	}
}

func (o *Orchestrator) emitFault(mode, requested domain.ModeName, reason domain.TransitionReason) {
	o.logger.Warn("fault override", "mode", mode, "requested", requested, "reason", reason, "tick", o.tick)
	if o.hooks.OnFault != nil {
		o.hooks.OnFault(&domain.FaultEvent{
			EventBase: o.eventBase(domain.EventFault),
			Mode:      mode,
			Requested: requested,
			Reason:    reason,
		})
	}
}

func (o *Orchestrator) emitDeadlineMiss(mode domain.ModeName, elapsed time.Duration) {
	if o.diagLimiter.Allow() {
		o.logger.Warn("tick deadline missed", "mode", mode, "elapsed", elapsed, "period", o.period, "tick", o.tick)
	}
	if o.hooks.OnDeadlineMiss != nil {
		o.hooks.OnDeadlineMiss(&domain.DeadlineEvent{
			EventBase: o.eventBase(domain.EventDeadlineMiss),
			Mode:      mode,
			Elapsed:   elapsed,
			Period:    o.period,
		})
	}
}

func (o *Orchestrator) emitTick(mode domain.ModeName, elapsed time.Duration) {
	if o.hooks.OnTick != nil {
		o.hooks.OnTick(&domain.TickEvent{
			EventBase: o.eventBase(domain.EventTick),
			Mode:      mode,
			Duration:  elapsed,
		})
	}
}
