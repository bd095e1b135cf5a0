package scale

import (
	"time"

	"gonum.org/v1/gonum/floats"
)

// Extent returns the minimum and maximum of values. ok is false when values
// is empty.
func Extent(values []float64) (min, max float64, ok bool) {
	if len(values) == 0 {
		return 0, 0, false
	}
	return floats.Min(values), floats.Max(values), true
}

// MaxOrZero returns the largest value, or 0 when there is none
func MaxOrZero(values []float64) float64 {
	_, max, ok := Extent(values)
	if !ok {
		return 0
	}
	return max
}

// TimeExtent returns the earliest and latest of times. ok is false when
// times is empty.
func TimeExtent(times []time.Time) (min, max time.Time, ok bool) {
	if len(times) == 0 {
		return time.Time{}, time.Time{}, false
	}

	min, max = times[0], times[0]
	for _, t := range times[1:] {
		if t.Before(min) {
			min = t
		}
		if t.After(max) {
			max = t
		}
	}
	return min, max, true
}
