package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"voiptest/internal/runner"
	"voiptest/pkg/logging"
)

// MetricsFileName is the Prometheus textfile written into the output directory.
const MetricsFileName = "voiptest.prom"

const metricsNamespace = "voiptest"

// batchMetrics holds the collectors describing one batch. A fresh registry is
// used per batch so the textfile reflects only the latest run.
type batchMetrics struct {
	registry     *prometheus.Registry
	runs         *prometheus.GaugeVec
	runPassed    *prometheus.GaugeVec
	runDuration  *prometheus.GaugeVec
	runSIPCode   *prometheus.GaugeVec
	fileErrors   prometheus.Gauge
	batchSeconds prometheus.Gauge
	lastRun      prometheus.Gauge
}

func newBatchMetrics() *batchMetrics {
	m := &batchMetrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "runs",
			Help:      "Number of scenario runs in the last batch by result.",
		}, []string{"result"}),
		runPassed: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "run_passed",
			Help:      "1 if the run met its expectation, 0 otherwise.",
		}, []string{"file", "scenario", "status"}),
		runDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of each run in the last batch.",
		}, []string{"file", "scenario"}),
		runSIPCode: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "run_final_sip_code",
			Help:      "Final SIP response code observed for each run.",
		}, []string{"file", "scenario"}),
		fileErrors: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "file_errors",
			Help:      "Scenario files that could not be loaded in the last batch.",
		}),
		batchSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "batch_duration_seconds",
			Help:      "Wall time of the last batch.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last batch finished.",
		}),
	}
	m.registry.MustRegister(m.runs, m.runPassed, m.runDuration, m.runSIPCode,
		m.fileErrors, m.batchSeconds, m.lastRun)
	return m
}

func (m *batchMetrics) observe(batch runner.BatchResult) {
	m.runs.WithLabelValues("passed").Set(float64(batch.PassedRuns))
	m.runs.WithLabelValues("failed").Set(float64(batch.FailedRuns))
	m.runs.WithLabelValues("error").Set(float64(batch.ErrorRuns))
	m.fileErrors.Set(float64(batch.FileErrors))
	m.batchSeconds.Set(batch.Duration.Seconds())
	if !batch.EndTime.IsZero() {
		m.lastRun.Set(float64(batch.EndTime.Unix()))
	}

	for _, file := range batch.Files {
		// Document names need not be unique across files, paths are.
		label := filepath.ToSlash(file.Path)
		for _, run := range file.Runs {
			passed := 0.0
			if run.Passed {
				passed = 1
			}
			m.runPassed.WithLabelValues(label, run.Name, strings.ToLower(string(run.Status))).Set(passed)
			m.runDuration.WithLabelValues(label, run.Name).Set(run.Duration.Seconds())
			if run.Actual != nil && run.Actual.SIPCode != nil {
				m.runSIPCode.WithLabelValues(label, run.Name).Set(float64(*run.Actual.SIPCode))
			}
		}
	}
}

// WriteMetrics writes the batch as a Prometheus textfile into dir, suitable
// for the node_exporter textfile collector, and returns the file path.
func WriteMetrics(dir string, batch runner.BatchResult) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	m := newBatchMetrics()
	m.observe(batch)

	path := filepath.Join(dir, MetricsFileName)
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return "", fmt.Errorf("failed to write metrics file: %w", err)
	}
	logging.Debug(subsystem, "Wrote metrics to %s", path)
	return path, nil
}
