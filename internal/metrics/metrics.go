package metrics

import (
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registry = prometheus.NewRegistry()

	processRunning = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "procwatch",
		Name:      "process_running",
		Help:      "Whether a supervised process is currently running (1=running, 0=stopped).",
	}, []string{"process"})

	linesCaptured = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "procwatch",
		Name:      "lines_captured_total",
		Help:      "Total number of output lines captured per supervised process.",
	}, []string{"process"})

	processErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "procwatch",
		Name:      "process_errors_total",
		Help:      "Total number of supervisor errors (spawn and pipe-read failures) per process.",
	}, []string{"process"})

	buildInfo = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "procwatch",
		Name:      "build_info",
		Help:      "Build metadata for the running procwatch binary.",
	}, []string{"go_version", "vcs", "vcs_revision", "vcs_time", "vcs_modified"})

	buildInfoOnce sync.Once
)

func init() {
	registry.MustRegister(processRunning, linesCaptured, processErrors, buildInfo)
}

// Registry returns the Prometheus registry containing all procwatch metrics.
func Registry() *prometheus.Registry {
	return registry
}

// SetProcessRunning records whether the provided process is running.
func SetProcessRunning(process string, running bool) {
	if process == "" {
		return
	}
	value := 0.0
	if running {
		value = 1.0
	}
	processRunning.WithLabelValues(process).Set(value)
}

// IncLinesCaptured increments the captured-line counter for a process.
func IncLinesCaptured(process string) {
	if process == "" {
		return
	}
	linesCaptured.WithLabelValues(process).Inc()
}

// IncProcessError increments the supervisor error counter for a process.
func IncProcessError(process string) {
	if process == "" {
		return
	}
	processErrors.WithLabelValues(process).Inc()
}

// EmitBuildInfo publishes build metadata about the running binary.
func EmitBuildInfo() {
	buildInfoOnce.Do(func() {
		labels := prometheus.Labels{
			"go_version":   runtime.Version(),
			"vcs":          "",
			"vcs_revision": "",
			"vcs_time":     "",
			"vcs_modified": "",
		}
		if info, ok := debug.ReadBuildInfo(); ok {
			if info.GoVersion != "" {
				labels["go_version"] = info.GoVersion
			}
			for _, setting := range info.Settings {
				switch setting.Key {
				case "vcs":
					labels["vcs"] = setting.Value
				case "vcs.revision":
					labels["vcs_revision"] = setting.Value
				case "vcs.time":
					labels["vcs_time"] = setting.Value
				case "vcs.modified":
					labels["vcs_modified"] = setting.Value
				}
			}
		}
		buildInfo.With(labels).Set(1)
	})
}

// ResetProcess clears the per-process series for a process that is no longer
// supervised.
func ResetProcess(process string) {
	if process == "" {
		return
	}
	processRunning.DeleteLabelValues(process)
	linesCaptured.DeleteLabelValues(process)
	processErrors.DeleteLabelValues(process)
}
