package scale

import (
	"math"
	"sort"
	"time"
)

// TimeTickLayout formats time axis ticks as HH:MM
const TimeTickLayout = "15:04"

// maxTickCandidates bounds the walk over aligned instants in one Ticks call
const maxTickCandidates = 100000

// Time is a continuous mapping from an instant domain onto a pixel range
type Time struct {
	t0, t1 time.Time
	r0, r1 float64
}

// NewTime maps [t0, t1] onto [r0, r1]
func NewTime(t0, t1 time.Time, r0, r1 float64) *Time {
	return &Time{t0: t0, t1: t1, r0: r0, r1: r1}
}

// Domain returns the first and last instants of the domain
func (s *Time) Domain() (time.Time, time.Time) {
	return s.t0, s.t1
}

// Range returns the pixel range bounds
func (s *Time) Range() (float64, float64) {
	return s.r0, s.r1
}

// Apply maps t into the range. A collapsed domain (a single instant) maps
// everything to the start of the range.
func (s *Time) Apply(t time.Time) float64 {
	span := s.t1.Sub(s.t0)
	if span == 0 {
		return s.r0
	}
	return s.r0 + float64(t.Sub(s.t0))/float64(span)*(s.r1-s.r0)
}

// Ticks returns instants aligned to the calendar interval whose size is
// closest to an even split of the domain into count parts
func (s *Time) Ticks(count int) []time.Time {
	if count <= 0 {
		return nil
	}

	start, stop := s.t0, s.t1
	reversed := stop.Before(start)
	if reversed {
		start, stop = stop, start
	}

	iv := pickInterval(start, stop, count)
	out := iv.between(start, stop)

	if reversed {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// Format renders a tick label
func (s *Time) Format(t time.Time) string {
	return t.Format(TimeTickLayout)
}

type calendarUnit int

const (
	unitMillisecond calendarUnit = iota
	unitSecond
	unitMinute
	unitHour
	unitDay
	unitWeek
	unitMonth
	unitYear
)

const (
	durationDay   = 24 * time.Hour
	durationWeek  = 7 * durationDay
	durationMonth = 30 * durationDay
	durationYear  = 365 * durationDay
)

type tickInterval struct {
	unit calendarUnit
	step int64
	size time.Duration
}

var tickIntervals = []tickInterval{
	{unitSecond, 1, time.Second},
	{unitSecond, 5, 5 * time.Second},
	{unitSecond, 15, 15 * time.Second},
	{unitSecond, 30, 30 * time.Second},
	{unitMinute, 1, time.Minute},
	{unitMinute, 5, 5 * time.Minute},
	{unitMinute, 15, 15 * time.Minute},
	{unitMinute, 30, 30 * time.Minute},
	{unitHour, 1, time.Hour},
	{unitHour, 3, 3 * time.Hour},
	{unitHour, 6, 6 * time.Hour},
	{unitHour, 12, 12 * time.Hour},
	{unitDay, 1, durationDay},
	{unitDay, 2, 2 * durationDay},
	{unitWeek, 1, durationWeek},
	{unitMonth, 1, durationMonth},
	{unitMonth, 3, 3 * durationMonth},
	{unitYear, 1, durationYear},
}

func pickInterval(start, stop time.Time, count int) tickInterval {
	target := float64(stop.Sub(start)) / float64(count)

	i := sort.Search(len(tickIntervals), func(i int) bool {
		return float64(tickIntervals[i].size) > target
	})

	switch i {
	case len(tickIntervals):
		years := tickStep(float64(start.UnixMilli())/float64(durationYear.Milliseconds()),
			float64(stop.UnixMilli())/float64(durationYear.Milliseconds()), count)
		return tickInterval{unit: unitYear, step: max(1, int64(math.Round(years))), size: durationYear}
	case 0:
		ms := tickStep(float64(start.UnixMilli()), float64(stop.UnixMilli()), count)
		return tickInterval{unit: unitMillisecond, step: max(1, int64(math.Round(ms))), size: time.Millisecond}
	}

	if target/float64(tickIntervals[i-1].size) < float64(tickIntervals[i].size)/target {
		return tickIntervals[i-1]
	}
	return tickIntervals[i]
}

// between returns the aligned instants in [start, stop]
func (iv tickInterval) between(start, stop time.Time) []time.Time {
	var out []time.Time

	t := iv.floor(start)
	if t.Before(start) {
		t = iv.next(t)
	}
	for n := 0; !t.After(stop) && n < maxTickCandidates; n++ {
		if iv.field(t)%iv.step == 0 {
			out = append(out, t)
		}
		t = iv.next(t)
	}
	return out
}

func (iv tickInterval) floor(t time.Time) time.Time {
	y, m, d := t.Date()
	loc := t.Location()

	switch iv.unit {
	case unitMillisecond:
		return t.Truncate(time.Millisecond)
	case unitSecond:
		return t.Truncate(time.Second)
	case unitMinute:
		return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, loc)
	case unitHour:
		return time.Date(y, m, d, t.Hour(), 0, 0, 0, loc)
	case unitDay:
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	case unitWeek:
		return time.Date(y, m, d-int(t.Weekday()), 0, 0, 0, 0, loc)
	case unitMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	}
}

func (iv tickInterval) next(t time.Time) time.Time {
	switch iv.unit {
	case unitMillisecond:
		return t.Add(time.Millisecond)
	case unitSecond:
		return t.Add(time.Second)
	case unitMinute:
		return t.Add(time.Minute)
	case unitHour:
		return t.Add(time.Hour)
	case unitDay:
		return iv.floor(t.AddDate(0, 0, 1))
	case unitWeek:
		return iv.floor(t.AddDate(0, 0, 7))
	case unitMonth:
		return iv.floor(t.AddDate(0, 1, 0))
	default:
		return iv.floor(t.AddDate(1, 0, 0))
	}
}

// field is the calendar component an interval step must divide
func (iv tickInterval) field(t time.Time) int64 {
	switch iv.unit {
	case unitMillisecond:
		return t.UnixMilli()
	case unitSecond:
		return int64(t.Second())
	case unitMinute:
		return int64(t.Minute())
	case unitHour:
		return int64(t.Hour())
	case unitDay:
		return int64(t.Day() - 1)
	case unitMonth:
		return int64(t.Month() - 1)
	case unitYear:
		return int64(t.Year())
	default:
		return 0
	}
}
