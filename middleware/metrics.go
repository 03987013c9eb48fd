package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels of the validations counter.
const (
	OutcomeValid      = "valid"
	OutcomeInvalid    = "invalid"
	OutcomeBadRequest = "bad_request"
	OutcomeError      = "error"
)

// Metrics counts request bodies seen by Validate, per document type and
// outcome.
type Metrics struct {
	validations *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them with reg. prefix
// defaults to "schemadoc".
func NewMetrics(reg prometheus.Registerer, prefix string) (*Metrics, error) {
	if prefix == "" {
		prefix = "schemadoc"
	}
	m := &Metrics{
		validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_validations_total",
				Help: "Total number of request bodies validated, by document type and outcome",
			},
			[]string{"type", "outcome"},
		),
	}
	if reg != nil {
		if err := reg.Register(m.validations); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Validations returns the underlying counter.
func (m *Metrics) Validations() *prometheus.CounterVec { return m.validations }

func (m *Metrics) observe(typeName, outcome string) {
	if m == nil {
		return
	}
	m.validations.WithLabelValues(typeName, outcome).Inc()
}
