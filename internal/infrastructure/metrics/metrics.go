package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "partner_repairs"

// CoordinatorMetrics records the outcomes of the acceptance and cancellation
// coordinators. A nil *CoordinatorMetrics is valid and records nothing.
type CoordinatorMetrics struct {
	AcceptOutcomes   *prometheus.CounterVec
	AcceptConflicts  prometheus.Counter
	CancelOutcomes   *prometheus.CounterVec
	SweptPhotoSets   prometheus.Histogram
	ResidualChildren prometheus.Counter
	PhotoSyncFailed  prometheus.Counter
}

func NewCoordinatorMetrics(reg prometheus.Registerer) *CoordinatorMetrics {
	m := &CoordinatorMetrics{
		AcceptOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "acceptance",
			Name:      "outcomes_total",
			Help:      "Accept calls by outcome.",
		}, []string{"outcome"}),
		AcceptConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "acceptance",
			Name:      "write_conflicts_total",
			Help:      "Acceptance transactions that lost an optimistic race and were retried.",
		}),
		CancelOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cascade",
			Name:      "outcomes_total",
			Help:      "Cancel and delete-vehicle calls by outcome.",
		}, []string{"trigger", "outcome"}),
		SweptPhotoSets: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "cascade",
			Name:      "sweep_deleted_photo_sets",
			Help:      "PhotoSet records removed by the verification sweep per cascade.",
			Buckets:   []float64{0, 1, 2, 5, 10, 25},
		}),
		ResidualChildren: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cascade",
			Name:      "residual_child_records_total",
			Help:      "Cascades that still found PhotoSet records after the last sweep pass.",
		}),
		PhotoSyncFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "acceptance",
			Name:      "photo_sync_failures_total",
			Help:      "Accepted requests whose photo copy failed.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.AcceptOutcomes, m.AcceptConflicts, m.CancelOutcomes, m.SweptPhotoSets, m.ResidualChildren, m.PhotoSyncFailed)
	}
	return m
}

func (m *CoordinatorMetrics) Accept(outcome string) {
	if m == nil {
		return
	}
	m.AcceptOutcomes.WithLabelValues(outcome).Inc()
}

func (m *CoordinatorMetrics) Conflict() {
	if m == nil {
		return
	}
	m.AcceptConflicts.Inc()
}

func (m *CoordinatorMetrics) Cancel(trigger, outcome string) {
	if m == nil {
		return
	}
	m.CancelOutcomes.WithLabelValues(trigger, outcome).Inc()
}

func (m *CoordinatorMetrics) Swept(deleted int) {
	if m == nil {
		return
	}
	m.SweptPhotoSets.Observe(float64(deleted))
}

func (m *CoordinatorMetrics) Residual() {
	if m == nil {
		return
	}
	m.ResidualChildren.Inc()
}

func (m *CoordinatorMetrics) PhotoSyncFailure() {
	if m == nil {
		return
	}
	m.PhotoSyncFailed.Inc()
}

// ServerMetrics tracks the HTTP surface.
type ServerMetrics struct {
	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec
}

func NewServerMetrics(reg prometheus.Registerer) *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"route", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"route"})
	if reg != nil {
		reg.MustRegister(requests, latency)
	}
	return &ServerMetrics{Requests: requests, LatencyMS: latency}
}

// Middleware records count and latency per matched route.
func (m *ServerMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.Requests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.LatencyMS.WithLabelValues(route).Observe(float64(time.Since(start).Milliseconds()))
	}
}

func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
