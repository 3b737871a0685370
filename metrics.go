package main

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const MetricsFile = "metrics.prom"

// Metrics keeps the measurements of one harness run in a private registry,
// exported in the node exporter textfile format.
type Metrics struct {
	registry      *prometheus.Registry
	runs          *prometheus.CounterVec
	runSeconds    *prometheus.GaugeVec
	executionTime *prometheus.GaugeVec
	speedup       *prometheus.GaugeVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pagerank_benchmark_runs_total",
				Help: "Number of PageRank binary invocations by status",
			},
			[]string{"strategy", "status"},
		),
		runSeconds: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pagerank_benchmark_run_seconds",
				Help: "Wall clock time of a PageRank binary invocation",
			},
			[]string{"strategy", "supersteps"},
		),
		executionTime: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pagerank_benchmark_execution_time_ms",
				Help: "Execution time reported by the PageRank binary",
			},
			[]string{"strategy", "supersteps"},
		),
		speedup: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pagerank_benchmark_speedup",
				Help: "Sequential execution time divided by the strategy execution time",
			},
			[]string{"strategy", "supersteps"},
		),
	}
	m.registry.MustRegister(m.runs, m.runSeconds, m.executionTime, m.speedup)
	return m
}

func (m *Metrics) ObserveRun(outcome RunOutcome) {
	m.runs.WithLabelValues(outcome.Strategy, outcome.Status()).Inc()
	m.runSeconds.WithLabelValues(outcome.Strategy, strconv.Itoa(outcome.Supersteps)).Set(outcome.TotalTime)
}

func (m *Metrics) ObserveSeries(sizes []int, series Series) {
	for i, supersteps := range sizes {
		m.executionTime.WithLabelValues(series.Strategy.Prefix, strconv.Itoa(supersteps)).Set(series.Times[i])
	}
}

func (m *Metrics) ObserveSpeedups(sizes []int, strategy string, speedups []float64) {
	for i, supersteps := range sizes {
		m.speedup.WithLabelValues(strategy, strconv.Itoa(supersteps)).Set(speedups[i])
	}
}

func (m *Metrics) WriteTo(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
