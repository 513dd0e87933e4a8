/*
Package observability turns orchestrator lifecycle hooks into Prometheus
metrics and provides helpers to compose several hook sets.

	metrics := observability.NewMetrics(prometheus.NewRegistry())
	hooks := observability.ChainHooks(metrics.Hooks(), auditHooks)
*/
package observability
