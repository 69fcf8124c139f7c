/*
Package observability turns navigation lifecycle hooks into logs and
Prometheus metrics.

Hooks from several sources are merged with Compose, so a host can log every
event and count it at the same time:

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	hooks := observability.Compose(observability.LogHooks(logger), metrics.Hooks())
*/
package observability
