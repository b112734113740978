package main

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/golang/glog"
)

// Curve is one series of a learning curve plot.
type Curve struct {
	Name   string
	Values []float64
}

func newLineChart(title, xName, yName string, curves []Curve) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(opts.Initialization{Theme: "shine"}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Name: xName}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName}),
	)

	n := 0
	for _, c := range curves {
		if len(c.Values) > n {
			n = len(c.Values)
		}
	}

	xs := make([]string, n)
	for i := range xs {
		xs[i] = fmt.Sprintf("%d", i+1)
	}

	line.SetXAxis(xs)
	for _, c := range curves {
		items := make([]opts.LineData, len(c.Values))
		for i, v := range c.Values {
			items[i] = opts.LineData{Value: v}
		}

		line.AddSeries(c.Name, items)
	}

	return line
}

// writePlot renders the charts to an HTML page at path.
func writePlot(path string, lines ...*charts.Line) error {
	page := components.NewPage()
	for _, line := range lines {
		page.AddCharts(line)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := page.Render(f); err != nil {
		f.Close()
		return err
	}

	glog.Infof("Wrote %s", path)
	return f.Close()
}
