package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	RequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_requests_latency_seconds",
			Help:    "Latency of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// Domain
	AdsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ads_created_total",
			Help: "Total ads created",
		},
	)
	PermissionDenied = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "permission_denied_total",
			Help: "Object-level permission checks that denied a mutation",
		},
		[]string{"resource", "action"},
	)
	ImageUploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ad_image_uploads_total",
			Help: "Ad image uploads by outcome",
		},
		[]string{"result"}, // ok|rejected|error
	)

	initOnce sync.Once
)

// Handler serves /metrics.
var Handler = promhttp.Handler

// Init registers the collectors with the default registry. Safe to call
// more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestsTotal, RequestLatency, AdsCreated, PermissionDenied, ImageUploads)
	})
}
