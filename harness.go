package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const SummaryFile = "summary.json"

type Harness struct {
	config     Config
	strategies []Strategy
	invoker    *Invoker
	metrics    *Metrics
	store      ResultsStore
	host       SysInfo
}

// NewHarness wires the components together; store may be nil.
func NewHarness(config Config, strategies []Strategy, invoker *Invoker, metrics *Metrics, store ResultsStore, host SysInfo) *Harness {
	return &Harness{
		config:     config,
		strategies: strategies,
		invoker:    invoker,
		metrics:    metrics,
		store:      store,
		host:       host,
	}
}

// Sweep runs every strategy over the whole sweep, strictly one run at a
// time. A failed run never stops the sweep.
func (h *Harness) Sweep(ctx context.Context) []RunOutcome {
	outcomes := make([]RunOutcome, 0, len(h.strategies)*len(h.config.Supersteps))
	for _, strategy := range h.strategies {
		for _, supersteps := range h.config.Supersteps {
			outcome := h.invoker.Run(ctx, strategy.Title(supersteps), strategy.Launcher.RunCmd(supersteps))
			outcome.Strategy = strategy.Prefix
			outcome.Supersteps = supersteps
			outcomes = append(outcomes, outcome)
			h.metrics.ObserveRun(outcome)
		}
	}
	return outcomes
}

// Collect reads every strategy in order. On error the series read so far
// are returned along with it.
func (h *Harness) Collect() ([]Series, error) {
	series := make([]Series, 0, len(h.strategies))
	for _, strategy := range h.strategies {
		times, err := CollectExecutionTimes(h.config.OutputDir, strategy.Prefix, h.config.Supersteps)
		if err != nil {
			return series, err
		}
		Logger.Infof("collected %v execution times: %v", strategy.Prefix, times)
		series = append(series, Series{Strategy: strategy, Times: times})
	}
	return series, nil
}

type summary struct {
	Started    time.Time            `json:"started"`
	Host       SysInfo              `json:"host"`
	Supersteps []int                `json:"supersteps"`
	Times      map[string][]float64 `json:"execution_times_ms"`
	Speedups   map[string][]float64 `json:"speedups"`
	Failed     []string             `json:"failed_runs"`
}

// Render computes every speedup before it touches any plot file, so a bad
// series leaves previous plots in place.
func (h *Harness) Render(series []Series) (map[string][]float64, error) {
	if len(series) == 0 {
		return nil, errors.New("no series to plot")
	}
	baseline, variants := series[0], series[1:]
	speedups := make(map[string][]float64, len(variants))
	for _, variant := range variants {
		values, err := Speedups(baseline.Times, variant.Times)
		if err != nil {
			return nil, fmt.Errorf("failed to compute %v speedup: %w", variant.Strategy.Prefix, err)
		}
		speedups[variant.Strategy.Prefix] = values
	}

	if err := os.MkdirAll(h.config.PlotsDir(), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create plots dir: %w", err)
	}
	sizes := h.config.Supersteps
	if err := PlotExecutionTimes(filepath.Join(h.config.PlotsDir(), ExecutionTimesPng), sizes, series); err != nil {
		return nil, fmt.Errorf("failed to plot execution times: %w", err)
	}
	if err := PlotSpeedups(filepath.Join(h.config.PlotsDir(), SpeedupsPng), sizes, baseline, variants); err != nil {
		return nil, fmt.Errorf("failed to plot speedups: %w", err)
	}
	return speedups, nil
}

// Run performs sweep, collection and rendering in that order. Errors from
// collection onwards are fatal for the caller. Once the sweep is done the
// metrics and the summary are written on every path, plots only on success.
func (h *Harness) Run(ctx context.Context) (err error) {
	started := time.Now()
	Logger.Infof("start benchmark: supersteps %v, strategies %v", h.config.Supersteps, len(h.strategies))

	outcomes := h.Sweep(ctx)
	report := summary{
		Started:    started,
		Host:       h.host,
		Supersteps: h.config.Supersteps,
		Times:      make(map[string][]float64, len(h.strategies)),
		Failed:     make([]string, 0),
	}
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			report.Failed = append(report.Failed, fmt.Sprintf("%v_%v", outcome.Strategy, outcome.Supersteps))
		}
	}
	if len(report.Failed) > 0 {
		Logger.Warnf("%v of %v runs failed: %v", len(report.Failed), len(outcomes), report.Failed)
	}
	defer func() {
		if reportErr := h.writeReport(report); reportErr != nil {
			if err == nil {
				err = reportErr
			} else {
				Logger.Errorf("failed to write report: %v", reportErr)
			}
		}
	}()

	// results of an interrupted sweep are still worth storing
	storeCtx := context.WithoutCancel(ctx)
	if h.store != nil {
		if err := h.store.UpdateRuns(storeCtx, started, outcomes); err != nil {
			Logger.Errorf("failed to store run outcomes: %v", err)
		}
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("benchmark interrupted: %w", err)
	}

	series, err := h.Collect()
	for _, s := range series {
		report.Times[s.Strategy.Prefix] = s.Times
		h.metrics.ObserveSeries(h.config.Supersteps, s)
	}
	if err != nil {
		return err
	}
	if h.store != nil {
		if err := h.store.UpdateSeries(storeCtx, started, h.config.Supersteps, series); err != nil {
			Logger.Errorf("failed to store execution times: %v", err)
		}
	}

	speedups, err := h.Render(series)
	if err != nil {
		return err
	}
	report.Speedups = speedups
	for strategy, values := range speedups {
		h.metrics.ObserveSpeedups(h.config.Supersteps, strategy, values)
	}
	Logger.Infof("benchmark finished in %v", time.Since(started))
	return nil
}

func (h *Harness) writeReport(report summary) error {
	if err := os.MkdirAll(h.config.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	if err := h.writeSummary(report); err != nil {
		return err
	}
	if err := h.metrics.WriteTo(filepath.Join(h.config.OutputDir, MetricsFile)); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}

func (h *Harness) writeSummary(s summary) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(h.config.OutputDir, SummaryFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write summary %v: %w", path, err)
	}
	return nil
}
