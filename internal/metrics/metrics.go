// Package metrics provides Prometheus metrics for client-gate.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GateDecisionsTotal counts guard outcomes by decision.
	GateDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clientgate",
			Name:      "gate_decisions_total",
			Help:      "Total number of page-guard decisions",
		},
		[]string{"decision"},
	)

	// LoginsTotal counts login attempts by action and outcome.
	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clientgate",
			Name:      "logins_total",
			Help:      "Total number of login attempts",
		},
		[]string{"action", "status"},
	)

	// AdminOpsTotal counts admin and console operations by outcome.
	AdminOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clientgate",
			Name:      "admin_operations_total",
			Help:      "Total number of admin API operations",
		},
		[]string{"operation", "status"},
	)
)

// RecordGateDecision records one guard outcome: "grant", "deny" or
// "anonymous".
func RecordGateDecision(decision string) {
	GateDecisionsTotal.WithLabelValues(decision).Inc()
}

// RecordLogin records one /auth attempt.
func RecordLogin(action, status string) {
	LoginsTotal.WithLabelValues(action, status).Inc()
}

// RecordAdminOp records one admin API operation.
func RecordAdminOp(operation, status string) {
	AdminOpsTotal.WithLabelValues(operation, status).Inc()
}
