package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Inference passes.
const (
	PassChat       = "chat"
	PassExtraction = "extraction"
)

// Metrics exports session engine telemetry to Prometheus.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	sessionsCreated   *prometheus.CounterVec
	sessionsCompleted *prometheus.CounterVec
	sessionsEvicted   *prometheus.CounterVec
	sessionsActive    prometheus.Gauge
	turns             *prometheus.CounterVec
	fieldsFilled      *prometheus.CounterVec
	handoffs          *prometheus.CounterVec
	inferenceDuration *prometheus.HistogramVec
	inferenceErrors   *prometheus.CounterVec
}

// New registers the collectors under namespace on reg.
// Collectors that are already registered are reused.
func New(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	if namespace == "" {
		namespace = "eureka"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		sessionsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_created_total",
			Help:      "Sessions created, by persona.",
		}, []string{"persona"}),
		sessionsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_completed_total",
			Help:      "Sessions whose every field became filled, by persona.",
		}, []string{"persona"}),
		sessionsEvicted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_evicted_total",
			Help:      "Sessions removed without a reset, by reason.",
		}, []string{"reason"}),
		sessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Sessions currently held in the registry.",
		}),
		turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "User turns processed, by persona and routing intent.",
		}, []string{"persona", "intent"}),
		fieldsFilled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fields_filled_total",
			Help:      "Fields filled by extraction, by persona.",
		}, []string{"persona"}),
		handoffs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handoffs_total",
			Help:      "Handoff attempts, by route and outcome.",
		}, []string{"route", "outcome"}),
		inferenceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "inference_duration_seconds",
			Help:      "Latency of chat model calls, by pass.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"pass"}),
		inferenceErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inference_errors_total",
			Help:      "Failed chat model calls, by pass.",
		}, []string{"pass"}),
	}

	if err := register(reg, &m.sessionsCreated); err != nil {
		return nil, err
	}
	if err := register(reg, &m.sessionsCompleted); err != nil {
		return nil, err
	}
	if err := register(reg, &m.sessionsEvicted); err != nil {
		return nil, err
	}
	if err := register(reg, &m.sessionsActive); err != nil {
		return nil, err
	}
	if err := register(reg, &m.turns); err != nil {
		return nil, err
	}
	if err := register(reg, &m.fieldsFilled); err != nil {
		return nil, err
	}
	if err := register(reg, &m.handoffs); err != nil {
		return nil, err
	}
	if err := register(reg, &m.inferenceDuration); err != nil {
		return nil, err
	}
	if err := register(reg, &m.inferenceErrors); err != nil {
		return nil, err
	}
	return m, nil
}

// MustNew is New that panics on registration failure.
func MustNew(namespace string, reg prometheus.Registerer) *Metrics {
	m, err := New(namespace, reg)
	if err != nil {
		panic(err)
	}
	return m
}

// register swaps *c for the existing collector when one is already registered.
func register[C prometheus.Collector](reg prometheus.Registerer, c *C) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				*c = existing
				return nil
			}
		}
		return fmt.Errorf("register session metric: %w", err)
	}
	return nil
}

func (m *Metrics) SessionCreated(persona string) {
	if m == nil {
		return
	}
	m.sessionsCreated.WithLabelValues(persona).Inc()
	m.sessionsActive.Inc()
}

func (m *Metrics) SessionCompleted(persona string) {
	if m == nil {
		return
	}
	m.sessionsCompleted.WithLabelValues(persona).Inc()
}

// SessionRemoved decrements the active gauge; reason is empty for resets.
func (m *Metrics) SessionRemoved(reason string) {
	if m == nil {
		return
	}
	m.sessionsActive.Dec()
	if reason != "" {
		m.sessionsEvicted.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) Turn(persona, intent string) {
	if m == nil {
		return
	}
	m.turns.WithLabelValues(persona, intent).Inc()
}

func (m *Metrics) FieldsFilled(persona string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.fieldsFilled.WithLabelValues(persona).Add(float64(n))
}

func (m *Metrics) Handoff(route string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "rejected"
	}
	m.handoffs.WithLabelValues(route, outcome).Inc()
}

// ObserveInference records one model call for pass.
func (m *Metrics) ObserveInference(pass string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.inferenceDuration.WithLabelValues(pass).Observe(duration.Seconds())
	if err != nil {
		m.inferenceErrors.WithLabelValues(pass).Inc()
	}
}
