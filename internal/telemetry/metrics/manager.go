package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests             *prometheus.CounterVec
	CounterHandleRequestPanic   prometheus.Counter
	CounterRateLimitedRequests  prometheus.Counter
	CounterPlansSaved           *prometheus.CounterVec
	CounterStaleWrites          prometheus.Counter
	CounterRecordsSaved         prometheus.Counter
	CounterExtractions          *prometheus.CounterVec
	CounterAbandonedExtractions prometheus.Counter
	CounterAuthFailures         prometheus.Counter
	CounterStatsCacheLookups    *prometheus.CounterVec
	CounterLiveSnapshotsSent    prometheus.Counter

	// gauges
	GaugeRequests        prometheus.Gauge
	GaugeLifeSignal      prometheus.Gauge
	GaugeLiveSubscribers prometheus.Gauge

	// histograms
	HistogramRequestDuration    *prometheus.HistogramVec
	HistogramExtractionDuration *prometheus.HistogramVec
}

func NewTestManager() *Manager {
	return NewManager("stargym", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("stargym", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterHandleRequestPanic := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handle_request_panic",
		Help:      "The total number of serve request panics",
	})
	counterRateLimitedRequests := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "rate_limited_requests",
		Help:      "The total number of rate limited requests",
	})
	counterPlansSaved := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "plans_saved",
		Help:      "The total number of saved plans",
	}, []string{"op"})
	counterStaleWrites := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "plan_stale_writes",
		Help:      "The total number of plan writes rejected for a stale version",
	})
	counterRecordsSaved := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "personal_records_saved",
		Help:      "The total number of saved personal records",
	})
	counterExtractions := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "extractions",
		Help:      "The total number of model generation calls",
	}, []string{"variant", "outcome"})
	counterAbandonedExtractions := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "abandoned_extractions",
		Help:      "Extraction results discarded because the requester went away",
	})
	counterAuthFailures := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "auth_failures",
		Help:      "The total number of failed sign-ins and token checks",
	})
	counterStatsCacheLookups := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "stats_cache_lookups",
		Help:      "Statistics cache lookups by result",
	}, []string{"result"})
	counterLiveSnapshotsSent := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "live_snapshots_sent",
		Help:      "The total number of snapshots delivered to live subscribers",
	})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests served",
	})
	gaugeLifeSignal := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "life_signal",
		Help:      "Shows whether the service is alive",
	})
	gaugeLiveSubscribers := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "live_subscribers",
		Help:      "Current number of live collection subscribers",
	})

	histogramRequestDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_duration_seconds",
		Help:      "Histogram of response time for requests in seconds",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"method", "status_code"})
	histogramExtractionDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "extraction_duration_seconds",
		Help:      "Duration of a single model generation call in seconds",
		Buckets:   []float64{.25, .5, 1, 2, 4, 8, 15, 30, 60, 120},
	}, []string{"variant"})

	return &Manager{
		CounterRequests:             counterRequests,
		CounterHandleRequestPanic:   counterHandleRequestPanic,
		CounterRateLimitedRequests:  counterRateLimitedRequests,
		CounterPlansSaved:           counterPlansSaved,
		CounterStaleWrites:          counterStaleWrites,
		CounterRecordsSaved:         counterRecordsSaved,
		CounterExtractions:          counterExtractions,
		CounterAbandonedExtractions: counterAbandonedExtractions,
		CounterAuthFailures:         counterAuthFailures,
		CounterStatsCacheLookups:    counterStatsCacheLookups,
		CounterLiveSnapshotsSent:    counterLiveSnapshotsSent,
		GaugeRequests:               gaugeRequests,
		GaugeLifeSignal:             gaugeLifeSignal,
		GaugeLiveSubscribers:        gaugeLiveSubscribers,
		HistogramRequestDuration:    histogramRequestDuration,
		HistogramExtractionDuration: histogramExtractionDuration,
	}
}
