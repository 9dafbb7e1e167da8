package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	WBRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wb_api_requests_total",
			Help: "Requests to the Statistics API by result",
		},
		[]string{"result"}, // код HTTP-статуса | transport_error | decode_error
	)
	WBRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wb_api_request_duration_seconds",
			Help:    "Statistics API request duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
		},
	)
	WBInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "wb_api_in_flight_requests",
			Help: "Requests currently admitted through the concurrency gate",
		},
	)
	TruncationSuspected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wb_api_truncation_suspected_total",
			Help: "Since-mode responses whose row count is close to the upstream cap",
		},
	)
)

var (
	ReportsBuilt = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "abc_reports_built_total",
			Help: "Successfully classified reports",
		},
	)
	ReportErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "abc_report_errors_total",
			Help: "Failed report requests by error kind",
		},
		[]string{"kind"},
	)
)

var (
	PersistBatches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "persist_batches_total",
			Help: "Persistence handoff batches by outcome",
		},
		[]string{"outcome"}, // ok|failed|dropped
	)
	OrdersPersisted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_persisted_total",
			Help: "Order rows handed to the store successfully",
		},
	)
)

var (
	KafkaMessagesConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_consumed_total",
			Help: "Number of messages fetched from Kafka",
		},
		[]string{"topic"},
	)
	KafkaMessagesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_processed_total",
			Help: "Number of messages processed successfully",
		},
		[]string{"topic"},
	)
	KafkaMessagesFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_failed_total",
			Help: "Number of messages failed to process",
		},
		[]string{"topic"},
	)
)

var (
	CacheOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_cache_operations_total",
			Help: "Report cache operations",
		},
		[]string{"op"}, // hit|miss|evicted|expired
	)
	CacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "report_cache_size",
			Help: "Number of reports currently in cache",
		},
	)
)

var registerOnce sync.Once

func MustRegister() {
	registerOnce.Do(register)
}

func register() {
	prometheus.MustRegister(
		WBRequests, WBRequestDuration, WBInFlight, TruncationSuspected,
		ReportsBuilt, ReportErrors,
		PersistBatches, OrdersPersisted,
		KafkaMessagesConsumed, KafkaMessagesProcessed, KafkaMessagesFailed,
		CacheOps, CacheSize,
	)
}
