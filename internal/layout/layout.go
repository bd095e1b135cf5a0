// Package layout turns a flat set of room readings into per-room chart
// geometry: a shared time scale, one value scale per metric, line points and
// axis ticks, ready to hand to a renderer.
package layout

import (
	"context"
	"fmt"
	"time"

	"github.com/danielsamet/room-sensor-data/internal/scale"
	"github.com/danielsamet/room-sensor-data/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Margin is the space reserved around a chart's plot area, in pixels
type Margin struct {
	Top    float64 `json:"top" yaml:"top"`
	Right  float64 `json:"right" yaml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
	Left   float64 `json:"left" yaml:"left"`
}

// Dimensions is the pixel size of one chart
type Dimensions struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
	Margin Margin  `json:"margin" yaml:"margin"`
}

// DefaultDimensions returns a 400x200 chart with 20/30/40/50 margins
func DefaultDimensions() Dimensions {
	return Dimensions{
		Width:  400,
		Height: 200,
		Margin: Margin{Top: 20, Right: 30, Bottom: 40, Left: 50},
	}
}

// XRange is the horizontal pixel span of the plot area
func (d Dimensions) XRange() (float64, float64) {
	return d.Margin.Left, d.Width - d.Margin.Right
}

// YRange is the vertical pixel span of the plot area, bottom first so larger
// values plot higher
func (d Dimensions) YRange() (float64, float64) {
	return d.Height - d.Margin.Bottom, d.Margin.Top
}

// Style is how a series line is stroked
type Style struct {
	Stroke      string  `json:"stroke" yaml:"stroke"`
	StrokeWidth float64 `json:"stroke_width" yaml:"stroke_width"`
}

// DefaultStyles returns the stroke used for each metric
func DefaultStyles() map[types.Metric]Style {
	return map[types.Metric]Style{
		types.Temperature: {Stroke: "steelblue", StrokeWidth: 2},
		types.Humidity:    {Stroke: "orange", StrokeWidth: 2},
	}
}

// Point is one vertex of a line, in pixels
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Tick is one axis tick. For time axes Value holds Unix milliseconds.
type Tick struct {
	Value    float64 `json:"value"`
	Position float64 `json:"position"`
	Label    string  `json:"label"`
}

// Series is the drawable geometry of one metric for one room
type Series struct {
	Metric types.Metric  `json:"metric"`
	Style  Style         `json:"style"`
	Domain [2]float64    `json:"domain"`
	Points []Point       `json:"points"`
	Ticks  []Tick        `json:"ticks"`
	Scale  *scale.Linear `json:"-" msgpack:"-"`
}

// RoomChart is everything a renderer needs to draw one room
type RoomChart struct {
	Room       string          `json:"room"`
	Title      string          `json:"title"`
	Dimensions Dimensions      `json:"dimensions"`
	TimeDomain [2]time.Time    `json:"time_domain"`
	TimeTicks  []Tick          `json:"time_ticks"`
	Series     []Series        `json:"series"`
	Readings   []types.Reading `json:"readings"`
	Time       *scale.Time     `json:"-" msgpack:"-"`
}

// SeriesFor returns the series plotting metric m
func (c RoomChart) SeriesFor(m types.Metric) (Series, bool) {
	for _, s := range c.Series {
		if s.Metric == m {
			return s, true
		}
	}
	return Series{}, false
}

// Title is the heading shown above a room's charts
func Title(room string) string {
	return fmt.Sprintf("%s - Temperature & Humidity", room)
}

// Options configures a Builder
type Options struct {
	Dimensions     Dimensions
	Styles         map[types.Metric]Style
	TimeTickCount  int
	ValueTickCount int
	// Workers bounds how many rooms are laid out at once
	Workers int
}

// DefaultOptions returns the stock chart geometry with 6 time ticks
func DefaultOptions() Options {
	return Options{
		Dimensions:     DefaultDimensions(),
		Styles:         DefaultStyles(),
		TimeTickCount:  6,
		ValueTickCount: scale.DefaultTickCount,
		Workers:        4,
	}
}

// Builder lays out room charts
type Builder struct {
	opts   Options
	logger *zap.SugaredLogger
}

// NewBuilder creates a Builder. Zero-valued options fall back to defaults.
func NewBuilder(opts Options, logger *zap.SugaredLogger) *Builder {
	defaults := DefaultOptions()
	if opts.Dimensions == (Dimensions{}) {
		opts.Dimensions = defaults.Dimensions
	}
	if opts.Styles == nil {
		opts.Styles = defaults.Styles
	}
	if opts.TimeTickCount <= 0 {
		opts.TimeTickCount = defaults.TimeTickCount
	}
	if opts.ValueTickCount <= 0 {
		opts.ValueTickCount = defaults.ValueTickCount
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &Builder{opts: opts, logger: logger}
}

// Rooms returns each distinct room once, in order of first appearance
func Rooms(readings []types.Reading) []string {
	seen := make(map[string]struct{})
	var rooms []string
	for _, r := range readings {
		if _, ok := seen[r.Room]; ok {
			continue
		}
		seen[r.Room] = struct{}{}
		rooms = append(rooms, r.Room)
	}
	return rooms
}

// Filter returns the readings for room, keeping their input order
func Filter(readings []types.Reading, room string) []types.Reading {
	var out []types.Reading
	for _, r := range readings {
		if r.Room == room {
			out = append(out, r)
		}
	}
	return out
}

// BuildAll lays out every room. Rooms are laid out concurrently but the
// result is always in order of first appearance.
func (b *Builder) BuildAll(ctx context.Context, readings []types.Reading) ([]RoomChart, error) {
	rooms := Rooms(readings)
	charts := make([]RoomChart, len(rooms))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Workers)

	for i, room := range rooms {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			charts[i] = b.Build(room, Filter(readings, room))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("laying out rooms: %w", err)
	}

	b.logger.Debugf("laid out %d rooms from %d readings", len(charts), len(readings))
	return charts, nil
}

// Build lays out one room. Both metric series are placed on the same time
// scale.
func (b *Builder) Build(room string, roomData []types.Reading) RoomChart {
	dims := b.opts.Dimensions

	times := make([]time.Time, len(roomData))
	for i, r := range roomData {
		times[i] = r.Timestamp
	}

	// An empty room collapses to the zero instant, which maps to the left edge
	tMin, tMax, _ := scale.TimeExtent(times)
	x0, x1 := dims.XRange()
	x := scale.NewTime(tMin, tMax, x0, x1)

	chart := RoomChart{
		Room:       room,
		Title:      Title(room),
		Dimensions: dims,
		TimeDomain: [2]time.Time{tMin, tMax},
		Readings:   roomData,
		Time:       x,
	}

	if len(roomData) > 0 {
		for _, t := range x.Ticks(b.opts.TimeTickCount) {
			chart.TimeTicks = append(chart.TimeTicks, Tick{
				Value:    float64(t.UnixMilli()),
				Position: x.Apply(t),
				Label:    x.Format(t),
			})
		}
	}

	for _, m := range types.Metrics {
		chart.Series = append(chart.Series, b.series(m, roomData, x))
	}

	return chart
}

func (b *Builder) series(m types.Metric, roomData []types.Reading, x *scale.Time) Series {
	values := make([]float64, len(roomData))
	for i, r := range roomData {
		values[i] = m.Value(r)
	}

	y0, y1 := b.opts.Dimensions.YRange()
	y := scale.NewLinear(0, scale.MaxOrZero(values), y0, y1).Nice(b.opts.ValueTickCount)

	points := make([]Point, len(roomData))
	for i, r := range roomData {
		points[i] = Point{X: x.Apply(r.Timestamp), Y: y.Apply(values[i])}
	}

	format := y.TickFormat(b.opts.ValueTickCount)
	var ticks []Tick
	for _, v := range y.Ticks(b.opts.ValueTickCount) {
		ticks = append(ticks, Tick{Value: v, Position: y.Apply(v), Label: format(v)})
	}

	d0, d1 := y.Domain()
	return Series{
		Metric: m,
		Style:  b.opts.Styles[m],
		Domain: [2]float64{d0, d1},
		Points: points,
		Ticks:  ticks,
		Scale:  y,
	}
}
