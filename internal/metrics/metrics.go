package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mlt"

var (
	FetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "quote_fetches_total", Help: "Quote batch requests by loop and outcome"},
		[]string{"loop", "outcome"},
	)
	FetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: namespace, Name: "quote_fetch_seconds", Help: "Quote batch request latency", Buckets: prometheus.DefBuckets},
		[]string{"loop"},
	)
	RecordsSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "quote_records_skipped_total", Help: "Vendor records skipped by error code"},
		[]string{"code"},
	)
	SignalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "signals_total", Help: "Emitted order book signals"},
		[]string{"type"},
	)
	SinkJobsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "sink_jobs_total", Help: "Persistence jobs by kind and outcome"},
		[]string{"kind", "outcome"},
	)
	AggregationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "aggregations_total", Help: "Aggregation passes by outcome"},
		[]string{"outcome"},
	)
	TicksIngested = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "ticks_ingested_total", Help: "Trade ticks stored from the tick topic"},
	)
	TickMessagesDropped = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "tick_messages_dropped_total", Help: "Tick topic messages that could not be decoded"},
	)
	SignalPublishTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "signal_publish_total", Help: "Signal messages written to the signal topic by outcome"},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		FetchesTotal,
		FetchDuration,
		RecordsSkipped,
		SignalsTotal,
		SinkJobsTotal,
		AggregationsTotal,
		TicksIngested,
		TickMessagesDropped,
		SignalPublishTotal,
	)
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
