// Package observability feeds trigger lifecycle events into Prometheus.
package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/priceflex/intercept/pkg/domain"
)

// Metrics holds all intercept Prometheus metrics. Label values stay bounded:
// only vocabulary actions reach the lifecycle hooks, refused triggers never
// fire them.
type Metrics struct {
	TriggersTotal   *prometheus.CounterVec
	HandlerFailures *prometheus.CounterVec
	PhaseDuration   *prometheus.HistogramVec
	ActionDuration  *prometheus.HistogramVec
}

// NewMetrics creates and registers all intercept metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		TriggersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "intercept_triggers_total",
			Help: "Triggers by action and terminal status.",
		}, []string{"action", "status"}),

		HandlerFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "intercept_handler_failures_total",
			Help: "Handler failures by action and phase.",
		}, []string{"action", "phase"}),

		PhaseDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "intercept_phase_duration_seconds",
			Help:    "Handler time per phase.",
			Buckets: prometheus.DefBuckets,
		}, []string{"action", "phase"}),

		ActionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "intercept_action_duration_seconds",
			Help:    "Built-in action execution time.",
			Buckets: prometheus.DefBuckets,
		}, []string{"action"}),
	}
}

// Hooks returns the LifecycleHooks implementation feeding these metrics.
// Combine with other hook sets through domain.JoinHooks.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPhase: func(_ context.Context, ev *domain.PhaseEvent) {
			if !ev.Bound {
				return
			}
			m.PhaseDuration.WithLabelValues(string(ev.Action), string(ev.Phase)).
				Observe(ev.Duration.Seconds())
			if ev.Error != "" {
				m.HandlerFailures.WithLabelValues(string(ev.Action), string(ev.Phase)).Inc()
			}
		},
		OnActionExecute: func(_ context.Context, ev *domain.ActionEvent) {
			m.ActionDuration.WithLabelValues(string(ev.Action)).Observe(ev.Duration.Seconds())
		},
		OnTriggerEnd: func(_ context.Context, ev *domain.TriggerEvent) {
			m.TriggersTotal.WithLabelValues(string(ev.Action), string(ev.Status)).Inc()
		},
	}
}
