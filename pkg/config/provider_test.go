package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg, err := DefaultProvider{}.LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config failed validation: %v", err)
	}
	if cfg.Generator.Samples != 24 || cfg.Generator.Step != time.Hour {
		t.Errorf("unexpected generator defaults: %+v", cfg.Generator)
	}
	if cfg.Chart.Width != 400 || cfg.Chart.Height != 200 || cfg.Chart.Mount != "#chart" {
		t.Errorf("unexpected chart defaults: %+v", cfg.Chart)
	}
}

func TestParseYAML(t *testing.T) {
	doc := `
generator:
  rooms: ["Kitchen", "Garage"]
  samples: 12
  step: 30m
  temperature:
    min: 18
    max: 21
  seed: 42
chart:
  width: 600
  humidity_stroke:
    color: "#ff8800"
output:
  format: json
server:
  enabled: true
  port: 9090
`
	cfg, err := ParseYAML([]byte(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cfg.Generator.Rooms) != 2 || cfg.Generator.Rooms[1] != "Garage" {
		t.Errorf("unexpected rooms %v", cfg.Generator.Rooms)
	}
	if cfg.Generator.Samples != 12 || cfg.Generator.Step != 30*time.Minute || cfg.Generator.Seed != 42 {
		t.Errorf("unexpected generator %+v", cfg.Generator)
	}
	if cfg.Generator.Temperature != (RangeData{Min: 18, Max: 21}) {
		t.Errorf("unexpected temperature range %+v", cfg.Generator.Temperature)
	}
	if cfg.Generator.Humidity != (RangeData{Min: 40, Max: 50}) {
		t.Errorf("humidity range should keep its default, got %+v", cfg.Generator.Humidity)
	}
	if cfg.Chart.Width != 600 || cfg.Chart.Height != 200 {
		t.Errorf("unexpected chart size %vx%v", cfg.Chart.Width, cfg.Chart.Height)
	}
	if cfg.Chart.HumidityStroke != (StrokeData{Color: "#ff8800", Width: 2}) {
		t.Errorf("unexpected humidity stroke %+v", cfg.Chart.HumidityStroke)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("unexpected output format %q", cfg.Output.Format)
	}
	if !cfg.Server.Enabled || cfg.Server.Addr() != "0.0.0.0:9090" {
		t.Errorf("unexpected server %+v", cfg.Server)
	}
}

func TestParseYAMLErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "bad step", doc: "generator:\n  step: hourly\n"},
		{name: "unknown key", doc: "generator:\n  roomz: [a]\n"},
		{name: "not yaml", doc: "generator: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseYAML([]byte(tt.doc)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestYAMLProviderLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("generator:\n  samples: 6\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewYAMLProvider(path).LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Generator.Samples != 6 {
		t.Errorf("expected 6 samples, got %d", cfg.Generator.Samples)
	}

	if _, err := NewYAMLProvider(filepath.Join(t.TempDir(), "missing.yaml")).LoadConfig(); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ConfigData)
		want   string
	}{
		{name: "no rooms", mutate: func(c *ConfigData) { c.Generator.Rooms = nil }, want: "at least one room"},
		{name: "blank room", mutate: func(c *ConfigData) { c.Generator.Rooms = []string{"Office", ""} }, want: "rooms[1] is empty"},
		{name: "zero samples", mutate: func(c *ConfigData) { c.Generator.Samples = 0 }, want: "samples must be positive"},
		{name: "negative step", mutate: func(c *ConfigData) { c.Generator.Step = -time.Hour }, want: "step must be positive"},
		{name: "inverted range", mutate: func(c *ConfigData) { c.Generator.Humidity = RangeData{Min: 50, Max: 40} }, want: "humidity max"},
		{name: "margins too wide", mutate: func(c *ConfigData) { c.Chart.Width = 60 }, want: "no plot area"},
		{name: "bad port", mutate: func(c *ConfigData) { c.Server.Enabled = true; c.Server.Port = 70000 }, want: "out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
