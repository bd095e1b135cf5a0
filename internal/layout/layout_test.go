package layout

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/danielsamet/room-sensor-data/internal/generator"
	"github.com/danielsamet/room-sensor-data/internal/types"
)

var testNow = time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)

func generated(t *testing.T) []types.Reading {
	t.Helper()
	opts := generator.DefaultOptions()
	opts.Source = generator.NewSource(3)
	return generator.Generate(testNow, opts)
}

func TestRooms(t *testing.T) {
	readings := []types.Reading{
		{Room: "Office"}, {Room: "Kitchen"}, {Room: "Office"}, {Room: "Bedroom"}, {Room: "Kitchen"},
	}

	got := Rooms(readings)
	expected := []string{"Office", "Kitchen", "Bedroom"}
	if len(got) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("index %d: expected %q, got %q", i, expected[i], got[i])
		}
	}
}

func TestFilterKeepsOrder(t *testing.T) {
	readings := []types.Reading{
		{Room: "Office", Temperature: 1}, {Room: "Kitchen"}, {Room: "Office", Temperature: 2},
	}

	got := Filter(readings, "Office")
	if len(got) != 2 || got[0].Temperature != 1 || got[1].Temperature != 2 {
		t.Errorf("unexpected filter result: %+v", got)
	}
}

func TestBuildScales(t *testing.T) {
	readings := generated(t)
	b := NewBuilder(DefaultOptions(), nil)

	roomData := Filter(readings, "Kitchen")
	chart := b.Build("Kitchen", roomData)

	if chart.Title != "Kitchen - Temperature & Humidity" {
		t.Errorf("unexpected title %q", chart.Title)
	}

	first, last := roomData[len(roomData)-1].Timestamp, roomData[0].Timestamp
	if got := chart.Time.Apply(first); got != 50 {
		t.Errorf("earliest timestamp maps to %v, expected 50", got)
	}
	if got := chart.Time.Apply(last); got != 370 {
		t.Errorf("latest timestamp maps to %v, expected 370", got)
	}

	for _, s := range chart.Series {
		if len(s.Points) != len(roomData) {
			t.Fatalf("%s: expected %d points, got %d", s.Metric, len(roomData), len(s.Points))
		}
		if got := s.Scale.Apply(0); got != 160 {
			t.Errorf("%s: 0 maps to %v, expected bottom edge 160", s.Metric, got)
		}

		max := 0.0
		for _, r := range roomData {
			max = math.Max(max, s.Metric.Value(r))
		}
		if got := s.Scale.Apply(max); got < 20 {
			t.Errorf("%s: max %v maps to %v, above the top edge", s.Metric, max, got)
		}
		if s.Domain[0] != 0 || s.Domain[1] < max {
			t.Errorf("%s: domain %v does not cover [0, %v]", s.Metric, s.Domain, max)
		}

		for i, r := range roomData {
			if s.Points[i].X != chart.Time.Apply(r.Timestamp) {
				t.Errorf("%s point %d: x %v not on the shared time scale", s.Metric, i, s.Points[i].X)
			}
		}
	}

	if temp, _ := chart.SeriesFor(types.Temperature); temp.Style.Stroke != "steelblue" || temp.Style.StrokeWidth != 2 {
		t.Errorf("unexpected temperature style %+v", temp.Style)
	}
	if hum, _ := chart.SeriesFor(types.Humidity); hum.Style.Stroke != "orange" {
		t.Errorf("unexpected humidity style %+v", hum.Style)
	}
}

func TestBuildPointsFollowInputOrder(t *testing.T) {
	roomData := []types.Reading{
		{Room: "Office", Timestamp: testNow, Temperature: 24},
		{Room: "Office", Timestamp: testNow.Add(-time.Hour), Temperature: 20},
		{Room: "Office", Timestamp: testNow.Add(-2 * time.Hour), Temperature: 22},
	}

	chart := NewBuilder(DefaultOptions(), nil).Build("Office", roomData)
	temp, _ := chart.SeriesFor(types.Temperature)

	expectedX := []float64{370, 210, 50}
	for i, p := range temp.Points {
		if math.Abs(p.X-expectedX[i]) > 1e-9 {
			t.Errorf("point %d: expected x %v, got %v", i, expectedX[i], p.X)
		}
	}
	if !(temp.Points[0].Y < temp.Points[2].Y && temp.Points[2].Y < temp.Points[1].Y) {
		t.Errorf("y order does not follow values 24, 20, 22: %+v", temp.Points)
	}
}

func TestBuildConstantValues(t *testing.T) {
	var roomData []types.Reading
	for i := 0; i < 5; i++ {
		roomData = append(roomData, types.Reading{
			Room:        "Bathroom",
			Timestamp:   testNow.Add(-time.Duration(i) * time.Hour),
			Temperature: 22.0,
			Humidity:    45,
		})
	}

	chart := NewBuilder(DefaultOptions(), nil).Build("Bathroom", roomData)
	temp, _ := chart.SeriesFor(types.Temperature)

	if temp.Domain != [2]float64{0, 22} {
		t.Errorf("expected domain [0, 22], got %v", temp.Domain)
	}
	if r0, r1 := temp.Scale.Range(); r0 != 160 || r1 != 20 {
		t.Errorf("expected range [160, 20], got [%v, %v]", r0, r1)
	}
	for i, p := range temp.Points {
		if p.Y != temp.Points[0].Y {
			t.Errorf("point %d: y %v differs from %v", i, p.Y, temp.Points[0].Y)
		}
	}
}

func TestBuildSingleTimestamp(t *testing.T) {
	roomData := []types.Reading{{Room: "Office", Timestamp: testNow, Temperature: 21, Humidity: 41}}

	chart := NewBuilder(DefaultOptions(), nil).Build("Office", roomData)
	for _, s := range chart.Series {
		if s.Points[0].X != 50 {
			t.Errorf("%s: collapsed time domain should map to the left edge, got %v", s.Metric, s.Points[0].X)
		}
	}
}

func TestBuildEmptyRoom(t *testing.T) {
	chart := NewBuilder(DefaultOptions(), nil).Build("Attic", nil)

	for _, s := range chart.Series {
		if s.Domain != [2]float64{0, 0} {
			t.Errorf("%s: expected zero domain, got %v", s.Metric, s.Domain)
		}
		if len(s.Points) != 0 {
			t.Errorf("%s: expected no points, got %d", s.Metric, len(s.Points))
		}
		if got := s.Scale.Apply(0); got != 160 {
			t.Errorf("%s: expected 0 to map to 160, got %v", s.Metric, got)
		}
	}
	if len(chart.TimeTicks) != 0 {
		t.Errorf("expected no time ticks, got %d", len(chart.TimeTicks))
	}
}

func TestBuildTicks(t *testing.T) {
	readings := generated(t)
	chart := NewBuilder(DefaultOptions(), nil).Build("Office", Filter(readings, "Office"))

	if len(chart.TimeTicks) == 0 {
		t.Fatal("expected time ticks")
	}
	for _, tick := range chart.TimeTicks {
		if len(tick.Label) != 5 || tick.Label[2] != ':' {
			t.Errorf("time tick label %q is not HH:MM", tick.Label)
		}
		if tick.Position < 50 || tick.Position > 370 {
			t.Errorf("time tick %q at %v is outside the plot area", tick.Label, tick.Position)
		}
	}

	temp, _ := chart.SeriesFor(types.Temperature)
	if temp.Ticks[0].Label != "0" || temp.Ticks[0].Position != 160 {
		t.Errorf("unexpected first value tick %+v", temp.Ticks[0])
	}
}

func TestBuildAllOrder(t *testing.T) {
	readings := generated(t)

	for _, workers := range []int{1, 3, 16} {
		opts := DefaultOptions()
		opts.Workers = workers

		charts, err := NewBuilder(opts, nil).BuildAll(context.Background(), readings)
		if err != nil {
			t.Fatalf("workers=%d: unexpected error: %v", workers, err)
		}
		if len(charts) != len(generator.DefaultRooms) {
			t.Fatalf("workers=%d: expected %d charts, got %d", workers, len(generator.DefaultRooms), len(charts))
		}
		for i, room := range generator.DefaultRooms {
			if charts[i].Room != room {
				t.Errorf("workers=%d index %d: expected %q, got %q", workers, i, room, charts[i].Room)
			}
			if len(charts[i].Readings) != 24 {
				t.Errorf("workers=%d %s: expected 24 readings, got %d", workers, room, len(charts[i].Readings))
			}
		}
	}
}

func TestBuildAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBuilder(DefaultOptions(), nil).BuildAll(ctx, generated(t))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
