// Package metrics defines the custom Prometheus metrics of the blog API. It is
// the single source of truth for metric names, labels, and help strings.
//
// Metrics are registered on the Registerer handed to New, so every app
// instance (and every test) can own an isolated registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "blog"

// Metrics holds the business counters. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	registrations    *prometheus.CounterVec
	logins           *prometheus.CounterVec
	authRejections   *prometheus.CounterVec
	postMutations    *prometheus.CounterVec
	ownershipDenials *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		// ── Auth ──────────────────────────────────────────────────────────────

		// Label result: "created", "duplicate", "invalid".
		registrations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Total number of registration attempts, by result.",
		}, []string{"result"}),

		// Label result: "success", "invalid_credentials", "invalid".
		logins: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Total number of login attempts, by result.",
		}, []string{"result"}),

		// Label reason: "missing" (401) or "invalid" (403).
		authRejections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_rejections_total",
			Help:      "Total number of requests rejected by the auth gate, by reason.",
		}, []string{"reason"}),

		// ── Posts ─────────────────────────────────────────────────────────────

		// Label op: "create", "update", "delete".
		postMutations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "post_mutations_total",
			Help:      "Total number of successful post mutations, by operation.",
		}, []string{"op"}),

		// Label op: "update", "delete".
		ownershipDenials: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ownership_denials_total",
			Help:      "Total number of post mutations refused because the caller is not the owner.",
		}, []string{"op"}),
	}
}

func (m *Metrics) Registration(result string) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(result).Inc()
}

func (m *Metrics) Login(result string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(result).Inc()
}

func (m *Metrics) AuthRejected(reason string) {
	if m == nil {
		return
	}
	m.authRejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) PostMutated(op string) {
	if m == nil {
		return
	}
	m.postMutations.WithLabelValues(op).Inc()
}

func (m *Metrics) OwnershipDenied(op string) {
	if m == nil {
		return
	}
	m.ownershipDenials.WithLabelValues(op).Inc()
}
