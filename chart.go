package main

import (
	"errors"
	"fmt"
	"image/color"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	PlotDpi           = 300
	ExecutionTimesPng = "execution_times.png"
	SpeedupsPng       = "speed_ups.png"
)

var (
	plotWidth  = 6.4 * vg.Inch
	plotHeight = 4.8 * vg.Inch
)

var ErrZeroTime = errors.New("execution time is zero")

// Speedups divides the baseline by the variant position by position.
func Speedups(baseline []float64, variant []float64) ([]float64, error) {
	if len(baseline) != len(variant) {
		return nil, fmt.Errorf("series length mismatch: %v != %v", len(baseline), len(variant))
	}
	speedups := make([]float64, len(baseline))
	for i := range baseline {
		if variant[i] == 0 {
			return nil, fmt.Errorf("position %v: %w", i, ErrZeroTime)
		}
		speedups[i] = baseline[i] / variant[i]
	}
	return speedups, nil
}

type chartLine struct {
	label  string
	color  color.Color
	values []float64
}

func newChart(title string, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Number of supersteps"
	p.Y.Label.Text = ylabel
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{}
	p.Legend.Top = true
	p.Add(plotter.NewGrid())
	return p
}

func addLines(p *plot.Plot, sizes []int, lines []chartLine) error {
	for _, line := range lines {
		if len(line.values) != len(sizes) {
			return fmt.Errorf("series %v has %v points, expected %v", line.label, len(line.values), len(sizes))
		}
		xys := make(plotter.XYs, len(sizes))
		for i, supersteps := range sizes {
			xys[i].X = float64(supersteps)
			xys[i].Y = line.values[i]
		}
		l, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return fmt.Errorf("invalid points for %v: %w", line.label, err)
		}
		l.Color = line.color
		points.Color = line.color
		points.Shape = draw.CircleGlyph{}
		p.Add(l, points)
		p.Legend.Add(line.label, l, points)
	}
	return nil
}

// savePng rasterizes the plot at PlotDpi, overwriting path.
func savePng(p *plot.Plot, path string) error {
	canvas := vgimg.NewWith(vgimg.UseWH(plotWidth, plotHeight), vgimg.UseDPI(PlotDpi))
	p.Draw(draw.New(canvas))

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	_, err = vgimg.PngCanvas{Canvas: canvas}.WriteTo(file)
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to write %v: %w", path, err)
	}
	return file.Close()
}

func PlotExecutionTimes(path string, sizes []int, series []Series) error {
	p := newChart("PageRank Execution Time", "Execution time (ms)")
	lines := make([]chartLine, 0, len(series))
	for _, s := range series {
		lines = append(lines, chartLine{label: s.Strategy.Label, color: s.Strategy.Color, values: s.Times})
	}
	if err := addLines(p, sizes, lines); err != nil {
		return err
	}
	Logger.Infof("saving execution times plot to %v", path)
	return savePng(p, path)
}

// PlotSpeedups plots baseline/variant for every variant. The baseline
// itself is the implicit 1.0 line and is not drawn.
func PlotSpeedups(path string, sizes []int, baseline Series, variants []Series) error {
	p := newChart("PageRank Speedup", "Speedup")
	lines := make([]chartLine, 0, len(variants))
	for _, s := range variants {
		speedups, err := Speedups(baseline.Times, s.Times)
		if err != nil {
			return fmt.Errorf("failed to compute %v speedup: %w", s.Strategy.Prefix, err)
		}
		lines = append(lines, chartLine{label: s.Strategy.Label, color: s.Strategy.Color, values: speedups})
	}
	if err := addLines(p, sizes, lines); err != nil {
		return err
	}
	Logger.Infof("saving speedups plot to %v", path)
	return savePng(p, path)
}
