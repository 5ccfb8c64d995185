// ABOUTME: Prometheus counters for the conversation engine
// ABOUTME: Exposed on an optional /metrics endpoint configured in main

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EventsHandled counts inbound events by kind (text, attachment).
	EventsHandled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "polisbot_events_handled_total",
		Help: "Inbound conversation events handled, by event kind.",
	}, []string{"kind"})

	// PoliciesIssued counts completed purchase flows.
	PoliciesIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "polisbot_policies_issued_total",
		Help: "Insurance policies generated and delivered.",
	})

	// NarrativeFallbacks counts call sites where the generator produced no
	// text and the deterministic template was used instead.
	NarrativeFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "polisbot_narrative_fallbacks_total",
		Help: "Messages built from fallback templates because generation produced no text.",
	})

	// ExtractionFailures counts extraction calls that failed after retry.
	ExtractionFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "polisbot_extraction_failures_total",
		Help: "Document extractions that failed after one retry.",
	})
)
