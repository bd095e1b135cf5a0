// Package generator synthesizes mock room sensor readings.
package generator

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/danielsamet/room-sensor-data/internal/types"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultRooms is the fixed set of rooms readings are generated for
var DefaultRooms = []string{"Living Room", "Kitchen", "Bedroom", "Bathroom", "Office"}

// Options controls the shape of a generated data set
type Options struct {
	Rooms   []string
	Samples int
	Step    time.Duration

	TempMin     float64
	TempMax     float64
	HumidityMin float64
	HumidityMax float64

	// Source drives the value distributions. A nil Source uses a
	// time-seeded generator.
	Source rand.Source
}

// DefaultOptions returns 24 hourly samples for each default room with
// temperatures in [20, 25) and humidity in [40, 50)
func DefaultOptions() Options {
	rooms := make([]string, len(DefaultRooms))
	copy(rooms, DefaultRooms)

	return Options{
		Rooms:       rooms,
		Samples:     24,
		Step:        time.Hour,
		TempMin:     20,
		TempMax:     25,
		HumidityMin: 40,
		HumidityMax: 50,
	}
}

// NewSource returns a deterministic source for the given seed
func NewSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}

// Generate produces opts.Samples readings per room, grouped by room in
// opts.Rooms order. Within a room the i-th reading is stamped now - i*Step,
// so timestamps decrease as the index increases.
func Generate(now time.Time, opts Options) []types.Reading {
	if opts.Samples <= 0 || len(opts.Rooms) == 0 {
		return []types.Reading{}
	}

	src := opts.Source
	if src == nil {
		src = NewSource(uint64(time.Now().UnixNano()))
	}

	temp := distuv.Uniform{Min: opts.TempMin, Max: opts.TempMax, Src: src}
	humidity := distuv.Uniform{Min: opts.HumidityMin, Max: opts.HumidityMax, Src: src}

	readings := make([]types.Reading, 0, len(opts.Rooms)*opts.Samples)
	for _, room := range opts.Rooms {
		for i := 0; i < opts.Samples; i++ {
			readings = append(readings, types.Reading{
				Room:        room,
				Timestamp:   now.Add(-time.Duration(i) * opts.Step),
				Temperature: halfOpen(temp.Rand(), opts.TempMin, opts.TempMax),
				Humidity:    halfOpen(humidity.Rand(), opts.HumidityMin, opts.HumidityMax),
			})
		}
	}

	return readings
}

// halfOpen keeps v inside [min, max). Min + (max-min)*u can round up to max
// for u just below 1.
func halfOpen(v, min, max float64) float64 {
	if v >= max && max > min {
		return math.Nextafter(max, min)
	}
	return v
}
