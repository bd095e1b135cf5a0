package render

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/danielsamet/room-sensor-data/internal/layout"
)

// tickSize is the length of axis tick marks in pixels
const tickSize = 6

// HTML writes a standalone page holding one container per room, each with a
// title and an SVG chart per metric
type HTML struct {
	// Title is the document title
	Title string
}

// Render writes the page. Rooms appear in the order given.
func (h *HTML) Render(ctx context.Context, mount string, charts []layout.RoomChart, w io.Writer) error {
	id, err := mountID(mount)
	if err != nil {
		return err
	}

	title := h.Title
	if title == "" {
		title = "Room Sensor Charts"
	}

	var buf bytes.Buffer

	buf.WriteString("<!DOCTYPE html>\n<html lang=\"en\"><head><meta charset=\"UTF-8\">\n")
	buf.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	fmt.Fprintf(&buf, "<title>%s</title></head>\n<body>\n", html.EscapeString(title))
	fmt.Fprintf(&buf, "<div id=\"%s\">\n", html.EscapeString(id))

	for _, c := range charts {
		if err := ctx.Err(); err != nil {
			return err
		}
		writeRoom(&buf, c)
	}

	buf.WriteString("</div>\n</body></html>\n")

	_, err = w.Write(buf.Bytes())
	return err
}

func writeRoom(buf *bytes.Buffer, c layout.RoomChart) {
	buf.WriteString("<div style=\"margin-bottom: 40px;\">\n")
	fmt.Fprintf(buf, "<h3>%s</h3>\n", html.EscapeString(c.Title))
	for _, s := range c.Series {
		WriteSVG(buf, c, s)
	}
	buf.WriteString("</div>\n")
}

// WriteSVG writes one metric's chart as an inline SVG element
func WriteSVG(buf *bytes.Buffer, c layout.RoomChart, s layout.Series) {
	dims := c.Dimensions
	x0, x1 := dims.XRange()
	y0, y1 := dims.YRange()

	fmt.Fprintf(buf, "<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%s\" height=\"%s\" data-metric=\"%s\">\n",
		num(dims.Width), num(dims.Height), s.Metric)

	// Bottom axis
	fmt.Fprintf(buf, "<g transform=\"translate(0,%s)\" fill=\"none\" font-size=\"10\" font-family=\"sans-serif\" text-anchor=\"middle\">\n", num(y0))
	fmt.Fprintf(buf, "<path class=\"domain\" stroke=\"currentColor\" d=\"M%s,%dV0.5H%sV%d\"></path>\n",
		num(x0+0.5), tickSize, num(x1+0.5), tickSize)
	for _, t := range c.TimeTicks {
		fmt.Fprintf(buf, "<g class=\"tick\" opacity=\"1\" transform=\"translate(%s,0)\"><line stroke=\"currentColor\" y2=\"%d\"></line><text fill=\"currentColor\" y=\"%d\" dy=\"0.71em\">%s</text></g>\n",
			num(t.Position+0.5), tickSize, tickSize+3, html.EscapeString(t.Label))
	}
	buf.WriteString("</g>\n")

	// Left axis
	fmt.Fprintf(buf, "<g transform=\"translate(%s,0)\" fill=\"none\" font-size=\"10\" font-family=\"sans-serif\" text-anchor=\"end\">\n", num(x0))
	fmt.Fprintf(buf, "<path class=\"domain\" stroke=\"currentColor\" d=\"M-%d,%sH0.5V%sH-%d\"></path>\n",
		tickSize, num(y0+0.5), num(y1+0.5), tickSize)
	for _, t := range s.Ticks {
		fmt.Fprintf(buf, "<g class=\"tick\" opacity=\"1\" transform=\"translate(0,%s)\"><line stroke=\"currentColor\" x2=\"-%d\"></line><text fill=\"currentColor\" x=\"-%d\" dy=\"0.32em\">%s</text></g>\n",
			num(t.Position+0.5), tickSize, tickSize+3, html.EscapeString(t.Label))
	}
	buf.WriteString("</g>\n")

	fmt.Fprintf(buf, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"%s\" d=\"%s\"></path>\n",
		html.EscapeString(s.Style.Stroke), num(s.Style.StrokeWidth), PathData(s.Points))

	buf.WriteString("</svg>\n")
}

// PathData encodes points as SVG path commands: a move to the first point
// and straight lines through the rest
func PathData(points []layout.Point) string {
	var sb strings.Builder
	for i, p := range points {
		if i == 0 {
			sb.WriteByte('M')
		} else {
			sb.WriteByte('L')
		}
		sb.WriteString(num(p.X))
		sb.WriteByte(',')
		sb.WriteString(num(p.Y))
	}
	return sb.String()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
