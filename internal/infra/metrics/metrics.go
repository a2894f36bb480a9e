package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the evaluation loop.
type Metrics struct {
	CyclesTotal     prometheus.Counter
	CyclesAborted   prometheus.Counter
	AlertsTriggered prometheus.Counter
	NotifyFailures  prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CyclesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "coinwatch_eval_cycles_total",
			Help: "Evaluation cycles started.",
		}),
		CyclesAborted: factory.NewCounter(prometheus.CounterOpts{
			Name: "coinwatch_eval_cycles_aborted_total",
			Help: "Evaluation cycles aborted because the quote source was unavailable.",
		}),
		AlertsTriggered: factory.NewCounter(prometheus.CounterOpts{
			Name: "coinwatch_alerts_triggered_total",
			Help: "Alerts that crossed their threshold and were removed.",
		}),
		NotifyFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "coinwatch_notify_failures_total",
			Help: "Trigger notifications that Telegram did not accept.",
		}),
	}
}
