package obs

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics groups the Prometheus collectors for order activity.
type OrderMetrics struct {
	Selections *prometheus.CounterVec
	Completed  *prometheus.CounterVec
	OrderTotal prometheus.Histogram
}

// NewOrderMetrics registers and returns the order collectors.
func NewOrderMetrics(namespace string, reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &OrderMetrics{
		Selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_selections_total",
			Help:      "Count of menu selections by category and outcome.",
		}, []string{"category", "result"}),
		Completed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_completed_total",
			Help:      "Count of orders leaving the tray by outcome.",
		}, []string{"outcome"}),
		OrderTotal: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_total_minor_units",
			Help:      "Distribution of submitted order totals in minor currency units.",
			Buckets:   []float64{250, 500, 750, 1000, 1500, 2000, 3000},
		}),
	}
	mustRegisterCollector(reg, m.Selections, func(existing prometheus.Collector) {
		if v, ok := existing.(*prometheus.CounterVec); ok {
			m.Selections = v
		}
	})
	mustRegisterCollector(reg, m.Completed, func(existing prometheus.Collector) {
		if v, ok := existing.(*prometheus.CounterVec); ok {
			m.Completed = v
		}
	})
	mustRegisterCollector(reg, m.OrderTotal, func(existing prometheus.Collector) {
		if v, ok := existing.(prometheus.Histogram); ok {
			m.OrderTotal = v
		}
	})
	return m
}

// ObserveSelection counts one selection attempt.
func (m *OrderMetrics) ObserveSelection(category, result string) {
	if m == nil {
		return
	}
	m.Selections.WithLabelValues(category, result).Inc()
}

// ObserveCompletion counts an order leaving the tray; total is recorded for submissions only.
func (m *OrderMetrics) ObserveCompletion(outcome string, total int64) {
	if m == nil {
		return
	}
	m.Completed.WithLabelValues(outcome).Inc()
	if outcome == "submitted" {
		m.OrderTotal.Observe(float64(total))
	}
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
