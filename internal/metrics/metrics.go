package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"rest-recon/internal/model"
)

// Metrics holds the counters of one generation run.
type Metrics struct {
	registry *prometheus.Registry

	FilesScanned     prometheus.Counter
	FilesSkipped     *prometheus.CounterVec
	ControllersTotal *prometheus.CounterVec
	EndpointsTotal   *prometheus.CounterVec
	TestsTotal       prometheus.Counter
	WarningsTotal    prometheus.Counter
	BatteryInfo      *prometheus.GaugeVec
}

// NewMetrics creates a Metrics instance with every collector registered.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	filesScanned := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rest_recon_files_scanned_total",
		Help: "Source files read by the scanner",
	})

	filesSkipped := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rest_recon_files_skipped_total",
			Help: "Source files that produced no controller, by reason",
		},
		[]string{"reason"},
	)

	controllersTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rest_recon_controllers_total",
			Help: "Parsed controllers by controller type",
		},
		[]string{"type"},
	)

	endpointsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rest_recon_endpoints_total",
			Help: "Generated endpoints by resource type",
		},
		[]string{"resource_type"},
	)

	testsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rest_recon_tests_total",
		Help: "Generated test functions",
	})

	warningsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rest_recon_warnings_total",
		Help: "Non-fatal diagnostics raised during the run",
	})

	batteryInfo := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rest_recon_battery_info",
			Help: "Test battery version used for the run",
		},
		[]string{"version"},
	)

	registry.MustRegister(
		filesScanned,
		filesSkipped,
		controllersTotal,
		endpointsTotal,
		testsTotal,
		warningsTotal,
		batteryInfo,
	)

	return &Metrics{
		registry:         registry,
		FilesScanned:     filesScanned,
		FilesSkipped:     filesSkipped,
		ControllersTotal: controllersTotal,
		EndpointsTotal:   endpointsTotal,
		TestsTotal:       testsTotal,
		WarningsTotal:    warningsTotal,
		BatteryInfo:      batteryInfo,
	}
}

// GetRegistry returns the Prometheus registry
func (m *Metrics) GetRegistry() *prometheus.Registry {
	return m.registry
}

// RecordReport adds the totals of a finished run.
func (m *Metrics) RecordReport(report *model.Report) {
	m.FilesScanned.Add(float64(report.FilesScanned))
	for _, s := range report.Skipped {
		m.FilesSkipped.WithLabelValues(s.Reason).Inc()
	}
	for _, c := range report.Controllers {
		m.ControllersTotal.WithLabelValues(string(c.Type)).Inc()
	}
	for _, g := range report.Generated {
		m.EndpointsTotal.WithLabelValues(string(g.Endpoint.ResourceType)).Inc()
	}
	m.TestsTotal.Add(float64(report.TotalTests()))
	m.WarningsTotal.Add(float64(len(report.Warnings)))
	m.BatteryInfo.WithLabelValues(report.BatteryVersion).Set(1)
}

// WriteFile writes the registry in the text exposition format, the shape
// node_exporter's textfile collector reads.
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
