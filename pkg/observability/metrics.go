package observability

import (
	"context"
	"strconv"

	"github.com/aretw0/murmur/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records engine activity.
type Metrics struct {
	Events        *prometheus.CounterVec
	Choices       *prometheus.CounterVec
	Contradiction prometheus.Gauge
	Suspicion     prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "murmur_events_total",
				Help: "Total number of emitted events by type and diagnostic reason",
			},
			[]string{"type", "reason"},
		),
		Choices: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "murmur_choices_total",
				Help: "Total number of accepted player choices by group",
			},
			[]string{"group"},
		),
		Contradiction: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "murmur_contradiction",
			Help: "Current value of the contradiction counter",
		}),
		Suspicion: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "murmur_suspicion",
			Help: "Current value of the suspicion counter",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Events, m.Choices, m.Contradiction, m.Suspicion)
	}
	return m
}

// Hooks returns lifecycle hooks feeding the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnEvent: func(_ context.Context, ev domain.Event) {
			m.Events.WithLabelValues(string(ev.Type), ev.Reason).Inc()
		},
		OnChoicePicked: func(_ context.Context, ev domain.ChoiceEvent) {
			m.Choices.WithLabelValues(strconv.Itoa(ev.Group)).Inc()
			m.Contradiction.Set(float64(ev.Global.Contradiction))
			m.Suspicion.Set(float64(ev.Global.Suspicion))
		},
	}
}
