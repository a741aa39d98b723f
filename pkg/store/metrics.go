package store

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/pomodoro/pkg/core"
)

type metrics struct {
	ops      *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pomodoro",
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Store operations by kind, entity and result.",
		}, []string{"op", "entity", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pomodoro",
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Store operation latency.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"op"}),
	}

	if reg == nil {
		return m
	}
	m.ops = register(reg, m.ops)
	m.duration = register(reg, m.duration)
	return m
}

// register reuses an already registered collector so several stores can share
// one registry.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}

func (m *metrics) observe(op, entity string, start time.Time, err *error) {
	result := "ok"
	switch {
	case *err == nil:
	case errors.Is(*err, core.ErrNotFound):
		result = "not_found"
	case core.IsValueNotOfType(*err):
		result = "invalid"
	default:
		result = "error"
	}
	m.ops.WithLabelValues(op, entity, result).Inc()
	m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
