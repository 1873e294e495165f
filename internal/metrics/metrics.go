package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gitstate"

// Dispatch outcomes.
const (
	OutcomeSuccess        = "success"
	OutcomeRepoPathNotSet = "repo_path_not_set"
	OutcomeFailed         = "process_failed"
	OutcomeEncoding       = "encoding"
	OutcomeParsing        = "parsing"
	OutcomeSendFailed     = "send_failed"
)

type Metrics struct {
	dispatches *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func New(registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "total",
			Help:      "Command dispatches by command and outcome.",
		}, []string{"command", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "duration_seconds",
			Help:      "Time from dispatch start to message hand-off or failure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"command"}),
	}

	var err error
	if m.dispatches, err = register(registerer, m.dispatches); err != nil {
		return nil, err
	}
	if m.duration, err = register(registerer, m.duration); err != nil {
		return nil, err
	}

	return m, nil
}

// ObserveDispatch records one finished dispatch. A nil receiver is a no-op.
func (m *Metrics) ObserveDispatch(command, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}

	m.dispatches.WithLabelValues(command, outcome).Inc()
	m.duration.WithLabelValues(command).Observe(elapsed.Seconds())
}

// register adds c to registerer, reusing an identical collector registered
// earlier by another instance.
func register[T prometheus.Collector](registerer prometheus.Registerer, c T) (T, error) {
	err := registerer.Register(c)
	if err == nil {
		return c, nil
	}

	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(T); ok {
			return existing, nil
		}
	}

	return c, fmt.Errorf("failed to register dispatch metrics: %w", err)
}
