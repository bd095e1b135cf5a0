// Package render draws laid-out room charts. The layout package decides
// where everything goes; a Renderer only turns that geometry into output.
package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/danielsamet/room-sensor-data/internal/layout"
	"github.com/danielsamet/room-sensor-data/internal/types"
)

// DefaultMount is the container room charts are appended to
const DefaultMount = "#chart"

var (
	// ErrUnknownFormat is returned for an output format with no renderer
	ErrUnknownFormat = errors.New("unknown output format")
	// ErrNoCharts is returned when there is nothing to draw
	ErrNoCharts = errors.New("no charts to render")
	// ErrRoomNotFound is returned when a requested room was not laid out
	ErrRoomNotFound = errors.New("room not found")
)

// Renderer draws charts into the container identified by mount
type Renderer interface {
	Render(ctx context.Context, mount string, charts []layout.RoomChart, w io.Writer) error
}

// Format names an output format
type Format string

const (
	FormatHTML    Format = "html"
	FormatJSON    Format = "json"
	FormatMsgPack Format = "msgpack"
	FormatPNG     Format = "png"
)

// Options selects what a single-series renderer draws
type Options struct {
	Room   string
	Metric types.Metric
}

// ForFormat returns the renderer for a format name
func ForFormat(name string, opts Options) (Renderer, error) {
	switch Format(strings.ToLower(name)) {
	case FormatHTML, "":
		return &HTML{}, nil
	case FormatJSON:
		return &Encoded{Format: FormatJSON}, nil
	case FormatMsgPack:
		return &Encoded{Format: FormatMsgPack}, nil
	case FormatPNG:
		metric := opts.Metric
		if metric == "" {
			metric = types.Temperature
		}
		return &PNG{Room: opts.Room, Metric: metric}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// ContentType is the MIME type of a format's output
func ContentType(f Format) string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatMsgPack:
		return "application/x-msgpack"
	case FormatPNG:
		return "image/png"
	default:
		return "text/html; charset=utf-8"
	}
}

// mountID turns a "#id" selector into an element id
func mountID(mount string) (string, error) {
	if mount == "" {
		mount = DefaultMount
	}
	id, ok := strings.CutPrefix(mount, "#")
	if !ok || id == "" {
		return "", fmt.Errorf("mount %q is not an id selector", mount)
	}
	return id, nil
}

// findRoom returns the chart for room, or the first chart when room is empty
func findRoom(charts []layout.RoomChart, room string) (layout.RoomChart, error) {
	if len(charts) == 0 {
		return layout.RoomChart{}, ErrNoCharts
	}
	if room == "" {
		return charts[0], nil
	}
	for _, c := range charts {
		if strings.EqualFold(c.Room, room) {
			return c, nil
		}
	}
	return layout.RoomChart{}, fmt.Errorf("%w: %q", ErrRoomNotFound, room)
}
