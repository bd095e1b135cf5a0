package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/danielsamet/room-sensor-data/internal/app"
	"github.com/danielsamet/room-sensor-data/internal/constants"
	"github.com/danielsamet/room-sensor-data/internal/log"
	"github.com/danielsamet/room-sensor-data/pkg/config"
)

func main() {
	cfgFile := flag.String("config", "", "Path to a YAML configuration file; built-in defaults are used when empty")
	out := flag.String("out", "", "Write output to this file instead of stdout")
	format := flag.String("format", "", "Output format: html, json, msgpack, or png")
	room := flag.String("room", "", "Room to draw for png output (default: first room)")
	metric := flag.String("metric", "", "Metric to draw for png output: temperature or humidity")
	serve := flag.Bool("serve", false, "Serve the charts over HTTP instead of writing them once")
	seed := flag.Uint64("seed", 0, "Seed for reproducible data (0 picks a random seed)")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s\n", constants.AppName, constants.Version)
		os.Exit(0)
	}

	cfgData, err := loadConfig(*cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Flags given on the command line win over the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "out":
			cfgData.Output.Path = *out
		case "format":
			cfgData.Output.Format = *format
		case "room":
			cfgData.Output.Room = *room
		case "metric":
			cfgData.Output.Metric = *metric
		case "serve":
			cfgData.Server.Enabled = *serve
		case "seed":
			cfgData.Generator.Seed = *seed
		case "debug":
			cfgData.Log.Debug = *debug
		}
	})

	// Set up logging
	if err := log.Init(cfgData.Log.Debug, cfgData.Log.File); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := cfgData.Validate(); err != nil {
		log.Errorf("Invalid configuration: %v", err)
		os.Exit(1)
	}

	// Create and run the application
	application := app.New(cfgData, log.GetSugaredLogger())
	if err := application.Run(context.Background()); err != nil {
		log.Errorf("Application error: %v", err)
		log.Sync()
		os.Exit(1)
	}
}

func loadConfig(cfgFile string) (*config.ConfigData, error) {
	var provider config.ConfigProvider = config.DefaultProvider{}

	if cfgFile != "" {
		filename, _ := filepath.Abs(cfgFile)
		provider = config.NewYAMLProvider(filename)
	}

	cfgData, err := provider.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error reading config file. Run with -h for help: %w", err)
	}

	return cfgData, nil
}
