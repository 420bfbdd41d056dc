package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pariskandee/real-estate/internal/platform/logger"
)

// Manager holds the service's custom Prometheus metrics.
type Manager struct {
	Registry *prometheus.Registry

	ListingsSubmittedTotal prometheus.Counter
	ListingsApprovedTotal  prometheus.Counter
	ListingsDeletedTotal   prometheus.Counter
	UploadRollbacksTotal   prometheus.Counter
	HTTPErrorsTotal        *prometheus.CounterVec
	HTTPRequestLatency     *prometheus.HistogramVec
}

// NewManager initializes and registers the service metrics on a dedicated
// registry so tests can run several instances in one process.
func NewManager(serviceName string) *Manager {
	registry := prometheus.NewRegistry()

	listingsSubmittedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "listings_submitted_total",
		Help:      "Total number of listings submitted.",
	})
	listingsApprovedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "listings_approved_total",
		Help:      "Total number of listings approved.",
	})
	listingsDeletedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "listings_deleted_total",
		Help:      "Total number of listings deleted.",
	})
	uploadRollbacksTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "upload_rollbacks_total",
		Help:      "Total number of submissions whose uploaded images were rolled back.",
	})
	httpErrorsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "http_errors_total",
		Help:      "Total number of HTTP error responses by route and status.",
	}, []string{"route", "status"})
	httpRequestLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: serviceName,
		Name:      "http_request_latency_seconds",
		Help:      "Latency of HTTP requests by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	registry.MustRegister(
		listingsSubmittedTotal,
		listingsApprovedTotal,
		listingsDeletedTotal,
		uploadRollbacksTotal,
		httpErrorsTotal,
		httpRequestLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Manager{
		Registry:               registry,
		ListingsSubmittedTotal: listingsSubmittedTotal,
		ListingsApprovedTotal:  listingsApprovedTotal,
		ListingsDeletedTotal:   listingsDeletedTotal,
		UploadRollbacksTotal:   uploadRollbacksTotal,
		HTTPErrorsTotal:        httpErrorsTotal,
		HTTPRequestLatency:     httpRequestLatency,
	}
}

// StartServer exposes the registry on its own HTTP port. An empty port
// disables the metrics server.
func StartServer(port string, appLogger *logger.Logger, registry *prometheus.Registry) error {
	if port == "" {
		appLogger.Info("Prometheus metrics server port not configured, server will not start")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	appLogger.Info("Prometheus metrics server starting",
		zap.String("port", port), zap.String("path", "/metrics"))

	server := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}
	return server.ListenAndServe()
}
