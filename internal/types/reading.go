package types

import (
	"fmt"
	"strings"
	"time"
)

// Reading is one synthesized room sensor sample
type Reading struct {
	Room        string    `json:"room"`
	Timestamp   time.Time `json:"timestamp"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
}

// Metric names one plotted field of a Reading
type Metric string

const (
	Temperature Metric = "temperature"
	Humidity    Metric = "humidity"
)

// Metrics lists the plotted fields in drawing order
var Metrics = []Metric{Temperature, Humidity}

// Value returns the metric's field from r, or 0 for an unknown metric
func (m Metric) Value(r Reading) float64 {
	switch m {
	case Temperature:
		return r.Temperature
	case Humidity:
		return r.Humidity
	}
	return 0
}

// ParseMetric accepts a metric name case-insensitively
func ParseMetric(s string) (Metric, error) {
	switch Metric(strings.ToLower(strings.TrimSpace(s))) {
	case Temperature:
		return Temperature, nil
	case Humidity:
		return Humidity, nil
	}
	return "", fmt.Errorf("unknown metric %q", s)
}
