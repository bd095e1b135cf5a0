package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/danielsamet/room-sensor-data/internal/layout"
	"github.com/danielsamet/room-sensor-data/internal/types"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoData is returned when a series has no readings to plot
var ErrNoData = errors.New("series has no readings")

// namedColors covers the stroke names the default styles use
var namedColors = map[string]string{
	"steelblue": "4682b4",
	"orange":    "ffa500",
	"black":     "000000",
	"red":       "ff0000",
	"green":     "008000",
	"blue":      "0000ff",
	"gray":      "808080",
}

// PNG draws a single room's metric as a raster line chart
type PNG struct {
	// Room selects the chart; the first room is used when empty
	Room   string
	Metric types.Metric
}

// Render writes the selected series as a PNG image
func (p *PNG) Render(ctx context.Context, mount string, charts []layout.RoomChart, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c, err := findRoom(charts, p.Room)
	if err != nil {
		return err
	}
	return RenderSeries(c, p.Metric, w)
}

// RenderSeries draws one metric of a room chart as PNG. The axes reuse the
// layout's domains and ticks so the image matches the SVG output.
func RenderSeries(c layout.RoomChart, m types.Metric, w io.Writer) error {
	s, ok := c.SeriesFor(m)
	if !ok {
		return fmt.Errorf("room %q has no %s series", c.Room, m)
	}
	if len(c.Readings) == 0 {
		return fmt.Errorf("%w: %s %s", ErrNoData, c.Room, m)
	}

	xs := make([]time.Time, len(c.Readings))
	ys := make([]float64, len(c.Readings))
	for i, r := range c.Readings {
		xs[i] = r.Timestamp
		ys[i] = m.Value(r)
	}

	// go-chart refuses zero-width ranges, so collapsed domains get padded
	t0, t1 := c.TimeDomain[0], c.TimeDomain[1]
	if !t1.After(t0) {
		t0, t1 = t0.Add(-30*time.Minute), t1.Add(30*time.Minute)
	}
	yMin, yMax := s.Domain[0], s.Domain[1]
	if yMax <= yMin {
		yMax = yMin + 1
	}

	xTicks := make([]chart.Tick, 0, len(c.TimeTicks))
	for _, t := range c.TimeTicks {
		at := time.UnixMilli(int64(t.Value))
		xTicks = append(xTicks, chart.Tick{Value: chart.TimeToFloat64(at), Label: t.Label})
	}

	yTicks := make([]chart.Tick, 0, len(s.Ticks))
	for _, t := range s.Ticks {
		yTicks = append(yTicks, chart.Tick{Value: t.Value, Label: t.Label})
	}

	margin := c.Dimensions.Margin
	graph := chart.Chart{
		Title:  fmt.Sprintf("%s - %s", c.Room, metricLabel(m)),
		Width:  int(c.Dimensions.Width),
		Height: int(c.Dimensions.Height),
		Background: chart.Style{
			Padding: chart.Box{
				Top:    int(margin.Top),
				Right:  int(margin.Right),
				Bottom: int(margin.Bottom),
				Left:   int(margin.Left),
			},
		},
		XAxis: chart.XAxis{
			Range: &chart.ContinuousRange{Min: chart.TimeToFloat64(t0), Max: chart.TimeToFloat64(t1)},
			Ticks: xTicks,
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: yMin, Max: yMax},
			Ticks: yTicks,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    metricLabel(m),
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: strokeColor(s.Style.Stroke),
					StrokeWidth: s.Style.StrokeWidth,
				},
			},
		},
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering %s %s chart: %w", c.Room, m, err)
	}
	return nil
}

func metricLabel(m types.Metric) string {
	switch m {
	case types.Humidity:
		return "Humidity"
	default:
		return "Temperature"
	}
}

// strokeColor resolves a CSS color name or #hex string
func strokeColor(stroke string) drawing.Color {
	if hex, ok := strings.CutPrefix(stroke, "#"); ok {
		return drawing.ColorFromHex(hex)
	}
	if hex, ok := namedColors[strings.ToLower(stroke)]; ok {
		return drawing.ColorFromHex(hex)
	}
	return chart.ColorBlue
}
