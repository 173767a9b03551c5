// Package metrics provides Prometheus metrics for the shift assignment engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for the application
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

// SuggestionsTotal counts suggestions proposed across all suggest calls.
var SuggestionsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "healthops",
	Name:      "suggestions_total",
	Help:      "Total number of caregiver suggestions produced",
})

// UnmatchedShiftsTotal counts open shifts for which no eligible caregiver was found.
var UnmatchedShiftsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "healthops",
	Name:      "unmatched_shifts_total",
	Help:      "Total number of open shifts considered by suggest with no eligible caregiver",
})

// AssignmentsTotal counts assignment attempts by outcome ("ok" or an error code).
var AssignmentsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "healthops",
	Name:      "assignments_total",
	Help:      "Assignment attempts by result",
}, []string{"result"})

// ComplianceExpiring is the number of compliance items found by the last lookup.
var ComplianceExpiring = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "healthops",
	Name:      "compliance_expiring",
	Help:      "Compliance items expiring within the last requested lookahead window",
})

// OperationDurationSeconds tracks how long each engine operation takes.
var OperationDurationSeconds = factory.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "healthops",
	Name:      "operation_duration_seconds",
	Help:      "Time taken by engine operations",
	Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
}, []string{"operation"})

// ObserveDuration records the time elapsed since start for an operation.
// Intended for use with defer.
func ObserveDuration(operation string, start time.Time) {
	OperationDurationSeconds.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
