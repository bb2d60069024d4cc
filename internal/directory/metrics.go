// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PanicPal Contributors

package directory

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registration status labels.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusTaken   = "email_taken"
)

// Authentication outcome labels. Unlike the returned error, these tell an
// unknown email apart from a wrong password.
const (
	OutcomeSuccess            = "success"
	OutcomeUserNotFound       = "user_not_found"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomeLocked             = "locked"
	OutcomeError              = "error"
)

// Registrations counts registration attempts by status.
var Registrations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "panicpal_registrations_total",
		Help: "Total number of user registrations by status",
	},
	[]string{"status"},
)

// Authentications counts authentication attempts by outcome.
var Authentications = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "panicpal_authentications_total",
		Help: "Total number of authentication attempts by outcome",
	},
	[]string{"outcome"},
)

// InteractionsLogged counts interactions appended to user logs.
var InteractionsLogged = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "panicpal_interactions_logged_total",
		Help: "Total number of support interactions logged",
	},
)

// ResourcesAdded counts resources added to the catalog.
var ResourcesAdded = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "panicpal_resources_added_total",
		Help: "Total number of resources added",
	},
)

// CredentialDeriveDuration observes time spent deriving credentials.
var CredentialDeriveDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "panicpal_credential_derive_duration_seconds",
		Help:    "Credential derivation duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"algorithm"},
)

// RegisterMetrics registers directory metrics with the given Prometheus registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(Registrations)
	reg.MustRegister(Authentications)
	reg.MustRegister(InteractionsLogged)
	reg.MustRegister(ResourcesAdded)
	reg.MustRegister(CredentialDeriveDuration)
}

func recordRegistration(status string) {
	Registrations.WithLabelValues(status).Inc()
}

func recordAuthentication(outcome string) {
	Authentications.WithLabelValues(outcome).Inc()
}

func recordDeriveDuration(algorithm string, d time.Duration) {
	CredentialDeriveDuration.WithLabelValues(algorithm).Observe(d.Seconds())
}
