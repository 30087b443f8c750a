package relay

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK           = "ok"
	outcomeUnconfigured = "unconfigured"
	outcomeBadRequest   = "bad_request"
	outcomeUpstream     = "upstream_error"

	serviceConversation = "conversation"
	serviceWeather      = "weather"

	enrichNoOutput    = "no_output"
	enrichUnknownCity = "unknown_city"
	enrichFailed      = "failed"
	enrichApplied     = "applied"
)

var (
	messagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherrelay_messages_total",
			Help: "Total number of /api/message requests by outcome",
		},
		[]string{"outcome"},
	)

	upstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weatherrelay_upstream_duration_seconds",
			Help:    "Duration of outbound calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "result"},
	)

	enrichmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherrelay_enrichments_total",
			Help: "Total number of forecast enrichment attempts by result",
		},
		[]string{"result"},
	)
)

func observeUpstream(service string, startTime time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	upstreamDuration.WithLabelValues(service, result).Observe(time.Since(startTime).Seconds())
}
