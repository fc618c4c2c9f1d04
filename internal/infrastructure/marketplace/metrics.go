package marketplace

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK          = "ok"
	outcomeTimeout     = "timeout"
	outcomeUnavailable = "unavailable"
	outcomeBadResponse = "bad_response"
	outcomeNoData      = "no_data"
)

//nolint:gochecknoglobals
var (
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "collection_finder",
		Subsystem: "marketplace",
		Name:      "request_duration_seconds",
		Help:      "Duration of GET_ALL_LOTS requests by outcome.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"outcome"})

	lotsReceived = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "collection_finder",
		Subsystem: "marketplace",
		Name:      "lots_received_total",
		Help:      "Lots returned by the marketplace.",
	})
)
