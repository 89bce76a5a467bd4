package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Исходы единицы работы.
const (
	OutcomeCommit       = "commit"
	OutcomeRollback     = "rollback"
	OutcomeCommitFailed = "commit_failed"
)

// UnitOfWorkMetrics содержит метрики единиц работы.
type UnitOfWorkMetrics struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	active   prometheus.Gauge
}

// NewUnitOfWorkMetrics регистрирует метрики в prometheus.DefaultRegisterer.
func NewUnitOfWorkMetrics() *UnitOfWorkMetrics {
	return NewUnitOfWorkMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewUnitOfWorkMetricsWithRegisterer регистрирует метрики в registerer.
// Повторная регистрация возвращает уже существующие коллекторы.
func NewUnitOfWorkMetricsWithRegisterer(registerer prometheus.Registerer) *UnitOfWorkMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &UnitOfWorkMetrics{
		total: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "warehouse_uow_total",
			Help: "Total number of finished units of work by outcome",
		}, []string{"outcome"}),
		duration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "warehouse_uow_duration_seconds",
			Help:    "Duration of units of work in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"outcome"}),
		active: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "warehouse_uow_active",
			Help: "Number of currently open units of work",
		}),
	}
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordStarted увеличивает количество открытых единиц работы.
func (m *UnitOfWorkMetrics) RecordStarted() {
	m.active.Inc()
}

// RecordFinished фиксирует исход и длительность единицы работы.
func (m *UnitOfWorkMetrics) RecordFinished(outcome string, duration time.Duration) {
	m.active.Dec()
	m.total.WithLabelValues(outcome).Inc()
	m.duration.WithLabelValues(outcome).Observe(duration.Seconds())
}
