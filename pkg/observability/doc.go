/*
Package observability exposes hero sequence activity as Prometheus metrics.

Metrics are fed through domain.LifecycleHooks, so any Sequencer (or Player)
can be instrumented without knowing about Prometheus:

	m := observability.NewMetrics(prometheus.DefaultRegisterer)
	player := marquee.New(marquee.WithLifecycleHooks(m.Hooks()))
*/
package observability
