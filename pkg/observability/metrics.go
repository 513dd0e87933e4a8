package observability

import (
	"github.com/aretw0/stance/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus series of one controller.
type Metrics struct {
	TicksTotal           prometheus.Counter
	TransitionsTotal     *prometheus.CounterVec
	FaultsTotal          *prometheus.CounterVec
	DeadlineMissesTotal  prometheus.Counter
	UnknownRequestsTotal *prometheus.CounterVec
	TickDuration         prometheus.Histogram
	ActiveMode           *prometheus.GaugeVec

	// lastExit pairs a mode exit with the following enter. Hooks run on the
	// control goroutine only.
	lastExit domain.ModeName
}

// NewMetrics creates the controller metrics and registers them with reg.
// A nil reg falls back to the default Prometheus registerer.
//
// Metrics:
//   - stance_ticks_total - ticks completed
//   - stance_mode_transitions_total{from,to,reason} - mode switches
//   - stance_faults_total{mode,reason} - fault overrides
//   - stance_deadline_misses_total - ticks that overran their period
//   - stance_unknown_mode_requests_total{from,to} - requests for unregistered modes
//   - stance_tick_duration_seconds - tick latency
//   - stance_active_mode{mode} - 1 for the active mode, 0 otherwise
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		TicksTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "stance_ticks_total",
			Help: "Total number of control ticks completed",
		}),
		TransitionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "stance_mode_transitions_total",
			Help: "Total number of mode transitions",
		}, []string{"from", "to", "reason"}),
		FaultsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "stance_faults_total",
			Help: "Total number of fault overrides to the safe mode",
		}, []string{"mode", "reason"}),
		DeadlineMissesTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "stance_deadline_misses_total",
			Help: "Total number of ticks that exceeded the control period",
		}),
		UnknownRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "stance_unknown_mode_requests_total",
			Help: "Total number of transition requests naming an unregistered mode",
		}, []string{"from", "to"}),
		TickDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "stance_tick_duration_seconds",
			Help:    "Duration of a control tick in seconds",
			Buckets: []float64{.0001, .00025, .0005, .001, .002, .005, .01, .025, .05},
		}),
		ActiveMode: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "stance_active_mode",
			Help: "Set to 1 for the active control mode",
		}, []string{"mode"}),
	}
}

// Hooks returns lifecycle hooks that feed the metrics.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnModeEnter: func(e *domain.ModeEvent) {
			m.ActiveMode.WithLabelValues(string(e.Mode)).Set(1)
			if e.Reason != domain.ReasonStartup {
				m.TransitionsTotal.WithLabelValues(string(m.lastExit), string(e.Mode), string(e.Reason)).Inc()
			}
		},
		OnModeExit: func(e *domain.ModeEvent) {
			m.ActiveMode.WithLabelValues(string(e.Mode)).Set(0)
			m.lastExit = e.Mode
		},
		OnTick: func(e *domain.TickEvent) {
			m.TicksTotal.Inc()
			m.TickDuration.Observe(e.Duration.Seconds())
		},
		OnFault: func(e *domain.FaultEvent) {
			m.FaultsTotal.WithLabelValues(string(e.Mode), string(e.Reason)).Inc()
		},
		OnDeadlineMiss: func(*domain.DeadlineEvent) {
			m.DeadlineMissesTotal.Inc()
		},
		OnDiagnostic: func(e *domain.DiagnosticEvent) {
			if e.Target != "" {
				m.UnknownRequestsTotal.WithLabelValues(string(e.Mode), string(e.Target)).Inc()
			}
		},
	}
}
