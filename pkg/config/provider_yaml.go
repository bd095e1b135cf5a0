package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// GeneratorYAML is the generator section of the YAML file
type GeneratorYAML struct {
	Rooms       []string   `yaml:"rooms,omitempty"`
	Samples     int        `yaml:"samples,omitempty"`
	Step        string     `yaml:"step,omitempty"`
	Temperature *RangeYAML `yaml:"temperature,omitempty"`
	Humidity    *RangeYAML `yaml:"humidity,omitempty"`
	Seed        uint64     `yaml:"seed,omitempty"`
}

type RangeYAML struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// ChartYAML is the chart section of the YAML file
type ChartYAML struct {
	Mount             string      `yaml:"mount,omitempty"`
	Width             float64     `yaml:"width,omitempty"`
	Height            float64     `yaml:"height,omitempty"`
	Margin            *MarginYAML `yaml:"margin,omitempty"`
	TimeTicks         int         `yaml:"time_ticks,omitempty"`
	ValueTicks        int         `yaml:"value_ticks,omitempty"`
	TemperatureStroke *StrokeYAML `yaml:"temperature_stroke,omitempty"`
	HumidityStroke    *StrokeYAML `yaml:"humidity_stroke,omitempty"`
	Workers           int         `yaml:"workers,omitempty"`
}

type MarginYAML struct {
	Top    float64 `yaml:"top"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
	Left   float64 `yaml:"left"`
}

type StrokeYAML struct {
	Color string  `yaml:"color,omitempty"`
	Width float64 `yaml:"width,omitempty"`
}

type OutputYAML struct {
	Format string `yaml:"format,omitempty"`
	Path   string `yaml:"path,omitempty"`
	Room   string `yaml:"room,omitempty"`
	Metric string `yaml:"metric,omitempty"`
}

type ServerYAML struct {
	Enabled    bool   `yaml:"enabled,omitempty"`
	ListenAddr string `yaml:"listen_addr,omitempty"`
	Port       int    `yaml:"port,omitempty"`
}

type LogYAML struct {
	Debug bool   `yaml:"debug,omitempty"`
	File  string `yaml:"file,omitempty"`
}

// LoadConfig loads the configuration from the YAML file. Settings missing
// from the file keep their defaults.
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}
	return ParseYAML(cfgFile)
}

// ParseYAML decodes a YAML document over DefaultConfig
func ParseYAML(data []byte) (*ConfigData, error) {
	// Load into temporary struct with YAML tags
	var yamlConfig struct {
		Generator GeneratorYAML `yaml:"generator,omitempty"`
		Chart     ChartYAML     `yaml:"chart,omitempty"`
		Output    OutputYAML    `yaml:"output,omitempty"`
		Server    ServerYAML    `yaml:"server,omitempty"`
		Log       LogYAML       `yaml:"log,omitempty"`
	}

	if err := yaml.UnmarshalStrict(data, &yamlConfig); err != nil {
		return nil, err
	}

	config := DefaultConfig()

	// Generator
	g := yamlConfig.Generator
	if len(g.Rooms) > 0 {
		config.Generator.Rooms = g.Rooms
	}
	if g.Samples != 0 {
		config.Generator.Samples = g.Samples
	}
	if g.Step != "" {
		step, err := time.ParseDuration(g.Step)
		if err != nil {
			return nil, fmt.Errorf("generator.step: %w", err)
		}
		config.Generator.Step = step
	}
	if g.Temperature != nil {
		config.Generator.Temperature = RangeData{Min: g.Temperature.Min, Max: g.Temperature.Max}
	}
	if g.Humidity != nil {
		config.Generator.Humidity = RangeData{Min: g.Humidity.Min, Max: g.Humidity.Max}
	}
	config.Generator.Seed = g.Seed

	// Chart
	ch := yamlConfig.Chart
	if ch.Mount != "" {
		config.Chart.Mount = ch.Mount
	}
	if ch.Width != 0 {
		config.Chart.Width = ch.Width
	}
	if ch.Height != 0 {
		config.Chart.Height = ch.Height
	}
	if ch.Margin != nil {
		config.Chart.Margin = MarginData{
			Top:    ch.Margin.Top,
			Right:  ch.Margin.Right,
			Bottom: ch.Margin.Bottom,
			Left:   ch.Margin.Left,
		}
	}
	if ch.TimeTicks != 0 {
		config.Chart.TimeTicks = ch.TimeTicks
	}
	if ch.ValueTicks != 0 {
		config.Chart.ValueTicks = ch.ValueTicks
	}
	mergeStroke(&config.Chart.TemperatureStroke, ch.TemperatureStroke)
	mergeStroke(&config.Chart.HumidityStroke, ch.HumidityStroke)
	if ch.Workers != 0 {
		config.Chart.Workers = ch.Workers
	}

	// Output
	if o := yamlConfig.Output; o.Format != "" {
		config.Output.Format = o.Format
	}
	config.Output.Path = yamlConfig.Output.Path
	config.Output.Room = yamlConfig.Output.Room
	config.Output.Metric = yamlConfig.Output.Metric

	// Server
	config.Server.Enabled = yamlConfig.Server.Enabled
	if yamlConfig.Server.ListenAddr != "" {
		config.Server.ListenAddr = yamlConfig.Server.ListenAddr
	}
	if yamlConfig.Server.Port != 0 {
		config.Server.Port = yamlConfig.Server.Port
	}

	// Log
	config.Log = LogData{Debug: yamlConfig.Log.Debug, File: yamlConfig.Log.File}

	return config, nil
}

func mergeStroke(dst *StrokeData, src *StrokeYAML) {
	if src == nil {
		return
	}
	if src.Color != "" {
		dst.Color = src.Color
	}
	if src.Width != 0 {
		dst.Width = src.Width
	}
}
