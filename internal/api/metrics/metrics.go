// Package metrics defines the custom Prometheus metrics of the admin console.
// HTTP request metrics come from echoprometheus; the counters here track the
// authentication core.
//
// All metrics are registered on the default registry at package init via
// promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "auth"

// Login results.
const (
	LoginSuccess            = "success"
	LoginInvalidCredentials = "invalid_credentials"
	LoginInvalidRequest     = "invalid_request"
	LoginError              = "error"
)

// Session events.
const (
	SessionCreated   = "created"
	SessionDestroyed = "destroyed"
	SessionRejected  = "rejected"
)

// Account events.
const (
	AccountCreated  = "created"
	AccountDeleted  = "deleted"
	AccountRejected = "rejected"
)

// LoginsTotal counts login attempts.
// Label:
//   - result: success, invalid_credentials, invalid_request or error
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// SessionsTotal counts session lifecycle events. "rejected" is a request
// turned away by the authenticated guard.
var SessionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_total",
		Help:      "Total number of session events (created, destroyed, rejected).",
	},
	[]string{"event"},
)

// AccountsTotal counts admin account operations.
var AccountsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accounts_total",
		Help:      "Total number of account operations, by event.",
	},
	[]string{"event"},
)
