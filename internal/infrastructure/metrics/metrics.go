package metrics

import (
	"strconv"
	"time"

	"gateway-console/internal/domain/errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gateway_console"

// Metrics owns the console's collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	InterfaceUpdates *prometheus.CounterVec
	SnapshotOps      *prometheus.CounterVec
	ErrorsTotal      *prometheus.CounterVec
	ConsoleInfo      *prometheus.GaugeVec
}

// New registers every collector on a fresh registry
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of API requests",
			},
			[]string{"route", "method", "status"},
		),

		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Time spent serving API requests",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),

		InterfaceUpdates: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "interface_updates_total",
				Help:      "Total number of interface configuration updates",
			},
			[]string{"hw_type", "result"}, // success, failed
		),

		SnapshotOps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "snapshot_operations_total",
				Help:      "Total number of snapshot operations",
			},
			[]string{"operation", "result"}, // list, create, rollback
		),

		ErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Total number of errors returned by operations",
			},
			[]string{"error_type"},
		),

		ConsoleInfo: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "info",
				Help:      "Console information",
			},
			[]string{"version", "os_type", "network_backend"},
		),
	}
}

// Registry returns the registry to expose on /metrics
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordInterfaceUpdate counts one interface update by hardware type
func (m *Metrics) RecordInterfaceUpdate(hardwareType string, err error) {
	m.InterfaceUpdates.WithLabelValues(hardwareType, result(err)).Inc()
	m.recordError(err)
}

// RecordSnapshotOperation counts one snapshot list, create or rollback
func (m *Metrics) RecordSnapshotOperation(operation string, err error) {
	m.SnapshotOps.WithLabelValues(operation, result(err)).Inc()
	m.recordError(err)
}

// RecordRequest records an API request
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// SetConsoleInfo publishes build and host information
func (m *Metrics) SetConsoleInfo(version, osType, networkBackend string) {
	m.ConsoleInfo.WithLabelValues(version, osType, networkBackend).Set(1)
}

func (m *Metrics) recordError(err error) {
	if err == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(string(errors.TypeOf(err))).Inc()
}

func result(err error) string {
	if err != nil {
		return "failed"
	}
	return "success"
}
