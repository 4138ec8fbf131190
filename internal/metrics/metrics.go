// Package metrics holds Prometheus instruments describing one guacenv run.
// guacenv exits right after materializing, so nothing is served; when a
// textfile path is configured the registry is written in the node_exporter
// textfile-collector format instead.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	PropertiesWritten = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "guacenv_properties_written_total",
			Help: "Number of properties appended to guacamole.properties.",
		})

	BackendsInstalled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guacenv_backends_installed_total",
			Help: "Authentication backends associated, by backend.",
		}, []string{"backend"})

	ArchivesLinked = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "guacenv_archives_linked_total",
			Help: "Driver and extension archives symlinked into the home.",
		})

	ConfigErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guacenv_config_errors_total",
			Help: "Fatal configuration errors, by reason.",
		}, []string{"reason"})

	LastRunTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "guacenv_last_run_timestamp_seconds",
			Help: "Unix time the last run finished.",
		})

	registry = prometheus.NewRegistry()
)

func init() {
	registry.MustRegister(
		PropertiesWritten,
		BackendsInstalled,
		ArchivesLinked,
		ConfigErrors,
		LastRunTimestamp,
	)
}

// WriteTextfile stamps LastRunTimestamp and writes every instrument to path.
func WriteTextfile(path string) error {
	LastRunTimestamp.SetToCurrentTime()
	return prometheus.WriteToTextfile(path, registry)
}
