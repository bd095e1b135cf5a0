package render

import (
	"context"
	"io"

	"github.com/danielsamet/room-sensor-data/internal/layout"
	"github.com/danielsamet/room-sensor-data/pkg/responseformat"
)

// Page is the layout hand-off for renderers living outside this process
type Page struct {
	Mount  string             `json:"mount"`
	Charts []layout.RoomChart `json:"charts"`
}

// Encoded serializes the layout instead of drawing it
type Encoded struct {
	Format Format
}

// Render writes the page as JSON or MessagePack
func (e *Encoded) Render(ctx context.Context, mount string, charts []layout.RoomChart, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if mount == "" {
		mount = DefaultMount
	}
	if _, err := mountID(mount); err != nil {
		return err
	}

	return responseformat.Encode(w, string(e.Format), Page{Mount: mount, Charts: charts})
}
