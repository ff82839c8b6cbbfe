package commands

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/pkg/errors"
)

// series is a named learning curve
type series struct {
	name   string
	values []float64
}

// plot renders learning curves as an HTML line chart at filename
func plot(filename, title string, curves ...series) error {
	if len(curves) == 0 {
		return fmt.Errorf("plot: no curves to plot")
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: title,
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "epoch"}),
	)

	numEpochs := 0
	for _, c := range curves {
		if len(c.values) > numEpochs {
			numEpochs = len(c.values)
		}
	}
	epochs := make([]string, numEpochs)
	for i := range epochs {
		epochs[i] = fmt.Sprintf("%d", i)
	}
	line.SetXAxis(epochs)

	for _, c := range curves {
		items := make([]opts.LineData, 0, len(c.values))
		for _, v := range c.values {
			items = append(items, opts.LineData{Value: v})
		}
		line.AddSeries(c.name, items)
	}

	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "plot: could not create chart file")
	}
	defer f.Close()

	if err := line.Render(f); err != nil {
		return errors.Wrap(err, "plot: could not render chart")
	}
	return nil
}
