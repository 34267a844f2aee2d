// Package metrics provides Prometheus metrics for request dispatching.
//
// Label values are drawn from closed sets only; intent names coming from the
// platform are folded into "other" when they are not recognized.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DispatchOutcomes counts terminal dispatch states: handled, rejected, faulted.
	DispatchOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rolldice_dispatch_outcomes_total",
		Help: "Total number of dispatched requests, by terminal outcome.",
	}, []string{"outcome"})

	// Requests counts dispatched requests by request type and intent.
	Requests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rolldice_requests_total",
		Help: "Total number of validated requests, by request type and intent.",
	}, []string{"type", "intent"})

	// IdentityFallbacks counts welcomes that used the default name.
	IdentityFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rolldice_identity_fallbacks_total",
		Help: "Total number of session starts greeted with the default name, by reason.",
	}, []string{"reason"})
)

func RecordOutcome(outcome string) {
	DispatchOutcomes.WithLabelValues(outcome).Inc()
}

func RecordRequest(requestType, intent string) {
	Requests.WithLabelValues(requestType, intent).Inc()
}

func RecordIdentityFallback(reason string) {
	IdentityFallbacks.WithLabelValues(reason).Inc()
}
