package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/danielsamet/room-sensor-data/internal/controllers/restserver"
	"github.com/danielsamet/room-sensor-data/internal/generator"
	"github.com/danielsamet/room-sensor-data/internal/layout"
	"github.com/danielsamet/room-sensor-data/internal/render"
	"github.com/danielsamet/room-sensor-data/internal/types"
	"github.com/danielsamet/room-sensor-data/pkg/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// App represents the main application
type App struct {
	cfg     *config.ConfigData
	logger  *zap.SugaredLogger
	builder *layout.Builder
	now     func() time.Time
}

// New creates a new application instance
func New(cfg *config.ConfigData, logger *zap.SugaredLogger) *App {
	a := &App{
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
	a.builder = layout.NewBuilder(a.layoutOptions(), logger)
	return a
}

func (a *App) generatorOptions() generator.Options {
	g := a.cfg.Generator
	opts := generator.Options{
		Rooms:       g.Rooms,
		Samples:     g.Samples,
		Step:        g.Step,
		TempMin:     g.Temperature.Min,
		TempMax:     g.Temperature.Max,
		HumidityMin: g.Humidity.Min,
		HumidityMax: g.Humidity.Max,
	}
	if g.Seed != 0 {
		opts.Source = generator.NewSource(g.Seed)
	}
	return opts
}

func (a *App) layoutOptions() layout.Options {
	ch := a.cfg.Chart
	return layout.Options{
		Dimensions: layout.Dimensions{
			Width:  ch.Width,
			Height: ch.Height,
			Margin: layout.Margin{
				Top:    ch.Margin.Top,
				Right:  ch.Margin.Right,
				Bottom: ch.Margin.Bottom,
				Left:   ch.Margin.Left,
			},
		},
		Styles: map[types.Metric]layout.Style{
			types.Temperature: {Stroke: ch.TemperatureStroke.Color, StrokeWidth: ch.TemperatureStroke.Width},
			types.Humidity:    {Stroke: ch.HumidityStroke.Color, StrokeWidth: ch.HumidityStroke.Width},
		},
		TimeTickCount:  ch.TimeTicks,
		ValueTickCount: ch.ValueTicks,
		Workers:        ch.Workers,
	}
}

// Mount is the container charts are drawn into
func (a *App) Mount() string {
	return a.cfg.Chart.Mount
}

// Charts runs one generate and layout pass with now as the newest sample time
func (a *App) Charts(ctx context.Context, now time.Time) ([]layout.RoomChart, []types.Reading, error) {
	runID := uuid.New()
	start := time.Now()

	readings := generator.Generate(now, a.generatorOptions())

	charts, err := a.builder.BuildAll(ctx, readings)
	if err != nil {
		return nil, nil, err
	}

	a.logger.Debugw("render pass complete",
		"run_id", runID.String(),
		"rooms", len(charts),
		"readings", len(readings),
		"elapsed", time.Since(start))

	return charts, readings, nil
}

// Render generates, lays out, and draws the charts once in the configured
// output format
func (a *App) Render(ctx context.Context, w io.Writer) error {
	out := a.cfg.Output

	metric := types.Temperature
	if out.Metric != "" {
		m, err := types.ParseMetric(out.Metric)
		if err != nil {
			return err
		}
		metric = m
	}

	renderer, err := render.ForFormat(out.Format, render.Options{Room: out.Room, Metric: metric})
	if err != nil {
		return err
	}

	charts, _, err := a.Charts(ctx, a.now())
	if err != nil {
		return err
	}

	if err := renderer.Render(ctx, a.Mount(), charts, w); err != nil {
		return fmt.Errorf("rendering %s output: %w", out.Format, err)
	}
	return nil
}

// Run renders once to the configured output, or serves the charts over HTTP
// when the server is enabled
func (a *App) Run(ctx context.Context) error {
	if a.cfg.Server.Enabled {
		return a.serve(ctx)
	}

	if a.cfg.Output.Path == "" {
		return a.Render(ctx, os.Stdout)
	}

	f, err := os.Create(a.cfg.Output.Path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}

	if err := a.Render(ctx, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}

	a.logger.Infof("wrote %s charts to %s", a.cfg.Output.Format, a.cfg.Output.Path)
	return nil
}

func (a *App) serve(ctx context.Context) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ctrl := restserver.NewController(ctx, &wg, a, a.cfg.Server.Addr(), a.logger)
	if err := ctrl.StartController(); err != nil {
		return err
	}

	a.logger.Info("Application started successfully")

	// Set up signal handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	select {
	case <-sigs:
		a.logger.Info("shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		a.logger.Info("context cancelled, shutting down...")
	}

	cancel()

	a.logger.Info("waiting for all workers to terminate...")
	wg.Wait()
	a.logger.Info("shutdown complete")

	return nil
}
