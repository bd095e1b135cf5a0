package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danielsamet/room-sensor-data/pkg/config"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)

func newTestApp(cfg *config.ConfigData) *App {
	a := New(cfg, zap.NewNop().Sugar())
	a.now = func() time.Time { return fixedNow }
	return a
}

func TestRenderHTML(t *testing.T) {
	a := newTestApp(config.DefaultConfig())

	var buf bytes.Buffer
	if err := a.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `<div id="chart">`) {
		t.Error("output is missing the chart container")
	}
	for _, room := range config.DefaultConfig().Generator.Rooms {
		if !strings.Contains(out, "<h3>"+room+" - Temperature &amp; Humidity</h3>") {
			t.Errorf("missing heading for %q", room)
		}
	}
}

func TestRenderSeededIsReproducible(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Generator.Seed = 99
	cfg.Output.Format = "json"

	var first, second bytes.Buffer
	if err := newTestApp(cfg).Render(context.Background(), &first); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if err := newTestApp(cfg).Render(context.Background(), &second); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if first.String() != second.String() {
		t.Error("seeded runs produced different output")
	}
}

func TestRenderConfiguredGeometry(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Generator.Rooms = []string{"Attic"}
	cfg.Generator.Samples = 3
	cfg.Chart.Width = 600
	cfg.Chart.TemperatureStroke.Color = "crimson"
	cfg.Output.Format = "json"

	var buf bytes.Buffer
	if err := newTestApp(cfg).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	var page struct {
		Charts []struct {
			Room       string `json:"room"`
			Dimensions struct {
				Width float64 `json:"width"`
			} `json:"dimensions"`
			Series []struct {
				Style struct {
					Stroke string `json:"stroke"`
				} `json:"style"`
				Points []struct {
					X float64 `json:"x"`
				} `json:"points"`
			} `json:"series"`
		} `json:"charts"`
	}
	if err := json.Unmarshal(buf.Bytes(), &page); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if len(page.Charts) != 1 || page.Charts[0].Room != "Attic" {
		t.Fatalf("unexpected charts %+v", page.Charts)
	}
	c := page.Charts[0]
	if c.Dimensions.Width != 600 {
		t.Errorf("expected width 600, got %v", c.Dimensions.Width)
	}
	if c.Series[0].Style.Stroke != "crimson" {
		t.Errorf("expected crimson stroke, got %q", c.Series[0].Style.Stroke)
	}
	// newest sample sits on the right edge: width - right margin
	if len(c.Series[0].Points) != 3 || c.Series[0].Points[0].X != 570 {
		t.Errorf("unexpected points %+v", c.Series[0].Points)
	}
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.ConfigData)
	}{
		{name: "unknown format", mutate: func(c *config.ConfigData) { c.Output.Format = "pdf" }},
		{name: "unknown metric", mutate: func(c *config.ConfigData) { c.Output.Format = "png"; c.Output.Metric = "pressure" }},
		{name: "unknown room", mutate: func(c *config.ConfigData) { c.Output.Format = "png"; c.Output.Room = "Garage" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.mutate(cfg)
			var buf bytes.Buffer
			if err := newTestApp(cfg).Render(context.Background(), &buf); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestRunWritesFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Output.Format = "png"
	cfg.Output.Room = "Office"
	cfg.Output.Metric = "humidity"
	cfg.Output.Path = filepath.Join(t.TempDir(), "office.png")

	if err := newTestApp(cfg).Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	data, err := os.ReadFile(cfg.Output.Path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("output file is not a PNG")
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.Enabled = true
	cfg.Server.ListenAddr = "127.0.0.1"
	cfg.Server.Port = 0

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- newTestApp(cfg).Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServeBindFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	cfg := config.DefaultConfig()
	cfg.Server.Enabled = true
	cfg.Server.ListenAddr = "127.0.0.1"
	cfg.Server.Port = ln.Addr().(*net.TCPAddr).Port

	done := make(chan error, 1)
	go func() { done <- newTestApp(cfg).Run(context.Background()) }()

	select {
	case err := <-done:
		if err == nil {
			t.Error("expected an error for an address already in use")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run kept blocking after the listener failed to bind")
	}
}
