package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	presenceRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "presence_requests_total",
		Help: "Presence reports received on the ingestion endpoint.",
	})
	presenceSuccesses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "presence_success_total",
		Help: "Presence checks that completed with a classified outcome.",
	})
	authFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hmac_auth_failures_total",
		Help: "Ingestion requests rejected by the HMAC guard, by reason.",
	}, []string{"reason"})
)

func init() {
	prometheus.MustRegister(presenceRequests, presenceSuccesses, authFailures)
}

// RecordPresenceRequest counts one inbound presence report.
func RecordPresenceRequest() { presenceRequests.Inc() }

// RecordPresenceSuccess counts one presence check that produced an outcome.
func RecordPresenceSuccess() { presenceSuccesses.Inc() }

// RecordAuthFailure counts one guard rejection with its stable reason code.
func RecordAuthFailure(reason string) { authFailures.WithLabelValues(reason).Inc() }

// Handler serves the Prometheus exposition endpoint.
func Handler() http.Handler { return promhttp.Handler() }
