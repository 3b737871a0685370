package main

import (
	"context"
	"fmt"
	"image/color"
	"time"
)

// Launcher builds the command line for a single run of a PageRank binary.
type Launcher interface {
	RunCmd(supersteps int) []string
	Describe(supersteps int) string
}

type Strategy struct {
	Name   string
	Prefix string
	Label  string
	Color  color.Color

	Launcher Launcher
}

func (s Strategy) Title(supersteps int) string {
	return fmt.Sprintf("%v (%v)", s.Name, s.Launcher.Describe(supersteps))
}

type RunOutcome struct {
	Strategy   string
	Supersteps int
	TotalTime  float64
	Err        error
}

const (
	StatusOk     = "ok"
	StatusFailed = "failed"
)

func (o RunOutcome) Status() string {
	if o.Err != nil {
		return StatusFailed
	}
	return StatusOk
}

type Series struct {
	Strategy Strategy
	Times    []float64
}

// ResultsStore persists what one harness run measured.
type ResultsStore interface {
	UpdateRuns(ctx context.Context, started time.Time, outcomes []RunOutcome) error
	UpdateSeries(ctx context.Context, started time.Time, sizes []int, series []Series) error
}
