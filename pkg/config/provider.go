package config

import (
	"errors"
	"fmt"
	"time"
)

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Generator GeneratorData `json:"generator"`
	Chart     ChartData     `json:"chart"`
	Output    OutputData    `json:"output"`
	Server    ServerData    `json:"server"`
	Log       LogData       `json:"log"`
}

// GeneratorData controls the synthesized readings
type GeneratorData struct {
	Rooms       []string      `json:"rooms"`
	Samples     int           `json:"samples"`
	Step        time.Duration `json:"step"`
	Temperature RangeData     `json:"temperature"`
	Humidity    RangeData     `json:"humidity"`
	// Seed makes the data reproducible; 0 picks a random seed per run
	Seed uint64 `json:"seed,omitempty"`
}

// RangeData is a half-open [Min, Max) value range
type RangeData struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ChartData holds the per-room chart geometry
type ChartData struct {
	Mount             string     `json:"mount"`
	Width             float64    `json:"width"`
	Height            float64    `json:"height"`
	Margin            MarginData `json:"margin"`
	TimeTicks         int        `json:"time_ticks"`
	ValueTicks        int        `json:"value_ticks"`
	TemperatureStroke StrokeData `json:"temperature_stroke"`
	HumidityStroke    StrokeData `json:"humidity_stroke"`
	Workers           int        `json:"workers"`
}

type MarginData struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

type StrokeData struct {
	Color string  `json:"color"`
	Width float64 `json:"width"`
}

// OutputData selects what a one-shot run writes and where
type OutputData struct {
	Format string `json:"format"`
	// Path is the output file; empty writes to stdout
	Path   string `json:"path,omitempty"`
	Room   string `json:"room,omitempty"`
	Metric string `json:"metric,omitempty"`
}

// ServerData configures the optional HTTP server
type ServerData struct {
	Enabled    bool   `json:"enabled"`
	ListenAddr string `json:"listen_addr"`
	Port       int    `json:"port"`
}

// Addr is the host:port the server listens on
func (s ServerData) Addr() string {
	return fmt.Sprintf("%s:%d", s.ListenAddr, s.Port)
}

type LogData struct {
	Debug bool   `json:"debug"`
	File  string `json:"file,omitempty"`
}

// DefaultConfig returns five rooms of 24 hourly samples drawn as 400x200
// charts into #chart
func DefaultConfig() *ConfigData {
	return &ConfigData{
		Generator: GeneratorData{
			Rooms:       []string{"Living Room", "Kitchen", "Bedroom", "Bathroom", "Office"},
			Samples:     24,
			Step:        time.Hour,
			Temperature: RangeData{Min: 20, Max: 25},
			Humidity:    RangeData{Min: 40, Max: 50},
		},
		Chart: ChartData{
			Mount:             "#chart",
			Width:             400,
			Height:            200,
			Margin:            MarginData{Top: 20, Right: 30, Bottom: 40, Left: 50},
			TimeTicks:         6,
			ValueTicks:        10,
			TemperatureStroke: StrokeData{Color: "steelblue", Width: 2},
			HumidityStroke:    StrokeData{Color: "orange", Width: 2},
			Workers:           4,
		},
		Output: OutputData{
			Format: "html",
		},
		Server: ServerData{
			ListenAddr: "0.0.0.0",
			Port:       8080,
		},
	}
}

// DefaultProvider serves the built-in configuration
type DefaultProvider struct{}

// LoadConfig returns DefaultConfig
func (DefaultProvider) LoadConfig() (*ConfigData, error) {
	return DefaultConfig(), nil
}

// Validate reports every setting that would make the charts meaningless
func (c *ConfigData) Validate() error {
	var errs []error

	g := c.Generator
	if len(g.Rooms) == 0 {
		errs = append(errs, errors.New("generator.rooms must list at least one room"))
	}
	for i, room := range g.Rooms {
		if room == "" {
			errs = append(errs, fmt.Errorf("generator.rooms[%d] is empty", i))
		}
	}
	if g.Samples <= 0 {
		errs = append(errs, fmt.Errorf("generator.samples must be positive, got %d", g.Samples))
	}
	if g.Step <= 0 {
		errs = append(errs, fmt.Errorf("generator.step must be positive, got %v", g.Step))
	}
	if g.Temperature.Max <= g.Temperature.Min {
		errs = append(errs, fmt.Errorf("generator.temperature max %v must exceed min %v", g.Temperature.Max, g.Temperature.Min))
	}
	if g.Humidity.Max <= g.Humidity.Min {
		errs = append(errs, fmt.Errorf("generator.humidity max %v must exceed min %v", g.Humidity.Max, g.Humidity.Min))
	}

	ch := c.Chart
	if ch.Width-ch.Margin.Left-ch.Margin.Right <= 0 {
		errs = append(errs, fmt.Errorf("chart width %v leaves no plot area inside margins", ch.Width))
	}
	if ch.Height-ch.Margin.Top-ch.Margin.Bottom <= 0 {
		errs = append(errs, fmt.Errorf("chart height %v leaves no plot area inside margins", ch.Height))
	}
	if ch.TimeTicks <= 0 || ch.ValueTicks <= 0 {
		errs = append(errs, errors.New("chart tick counts must be positive"))
	}

	if c.Server.Enabled && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Errorf("server.port %d is out of range", c.Server.Port))
	}

	return errors.Join(errs...)
}
