/*
Package observability turns engine lifecycle hooks into Prometheus metrics and structured logs.

Hooks from several sources are fanned out with Combine:

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	hooks := observability.Combine(metrics.Hooks(), observability.LoggingHooks(logger))
*/
package observability
