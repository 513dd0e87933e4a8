package observability

import (
	"github.com/aretw0/stance/pkg/domain"
)

// ChainHooks combines several hook sets into one. Callbacks run in argument
// order; nil callbacks are skipped.
func ChainHooks(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	out.OnModeEnter = chain(sets, func(h domain.LifecycleHooks) func(*domain.ModeEvent) { return h.OnModeEnter })
	out.OnModeExit = chain(sets, func(h domain.LifecycleHooks) func(*domain.ModeEvent) { return h.OnModeExit })
	out.OnTick = chain(sets, func(h domain.LifecycleHooks) func(*domain.TickEvent) { return h.OnTick })
	out.OnFault = chain(sets, func(h domain.LifecycleHooks) func(*domain.FaultEvent) { return h.OnFault })
	out.OnDeadlineMiss = chain(sets, func(h domain.LifecycleHooks) func(*domain.DeadlineEvent) { return h.OnDeadlineMiss })
	out.OnDiagnostic = chain(sets, func(h domain.LifecycleHooks) func(*domain.DiagnosticEvent) { return h.OnDiagnostic })
	return out
}

func chain[E any](sets []domain.LifecycleHooks, pick func(domain.LifecycleHooks) func(*E)) func(*E) {
	var fns []func(*E)
	for _, s := range sets {
		if fn := pick(s); fn != nil {
			fns = append(fns, fn)
		}
	}
	switch len(fns) {
	case 0:
		return nil
	case 1:
		return fns[0]
	}
	return func(e *E) {
		for _, fn := range fns {
			fn(e)
		}
	}
}
