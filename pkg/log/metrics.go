package log

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// metrics counts what the handlers of one logger do with records. All methods
// are safe on a nil receiver so a standalone Handler needs no metrics.
type metrics struct {
	records *prometheus.CounterVec
	dropped *prometheus.CounterVec
	faults  prometheus.Counter
}

func newMetrics(namespace string) *metrics {
	return &metrics{
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "log",
			Name:      "records_total",
			Help:      "Log records written to the output stream.",
		}, []string{"level"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "log",
			Name:      "dropped_total",
			Help:      "Log records filtered out by the handler threshold.",
		}, []string{"level"}),
		faults: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "log",
			Name:      "emission_faults_total",
			Help:      "Log records that failed to format, write or flush.",
		}),
	}
}

func (m *metrics) write(l zerolog.Level) {
	if m == nil {
		return
	}
	m.records.WithLabelValues(levelName(l)).Inc()
}

func (m *metrics) drop(l zerolog.Level) {
	if m == nil {
		return
	}
	m.dropped.WithLabelValues(levelName(l)).Inc()
}

func (m *metrics) fault() {
	if m == nil {
		return
	}
	m.faults.Inc()
}

func (m *metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.records, m.dropped, m.faults}
}

// Collectors returns the logger's metric collectors.
func (l *MininetLogger) Collectors() []prometheus.Collector {
	return l.metrics.collectors()
}

// RegisterMetrics registers the logger's collectors with reg. Registering the
// same logger twice is not an error.
func (l *MininetLogger) RegisterMetrics(reg prometheus.Registerer) error {
	for _, c := range l.Collectors() {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return errors.Wrap(err, "register log metrics")
		}
	}
	return nil
}
