package restserver

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/danielsamet/room-sensor-data/internal/layout"
	"github.com/danielsamet/room-sensor-data/internal/render"
	"github.com/danielsamet/room-sensor-data/internal/types"
	"github.com/danielsamet/room-sensor-data/pkg/responseformat"
	"github.com/gorilla/mux"
)

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
	now        func() time.Time
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(),
		now:        time.Now,
	}
}

// charts regenerates the data set ending at the request time
func (h *Handlers) charts(w http.ResponseWriter, req *http.Request) ([]layout.RoomChart, []types.Reading, bool) {
	charts, readings, err := h.controller.source.Charts(req.Context(), h.now())
	if err != nil {
		h.controller.logger.Errorf("error building charts: %v", err)
		http.Error(w, "error building charts", http.StatusInternalServerError)
		return nil, nil, false
	}
	return charts, readings, true
}

// ServeCharts serves the HTML page with every room's charts
func (h *Handlers) ServeCharts(w http.ResponseWriter, req *http.Request) {
	charts, _, ok := h.charts(w, req)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := (&render.HTML{}).Render(req.Context(), h.controller.source.Mount(), charts, &buf); err != nil {
		h.controller.logger.Errorf("error rendering HTML: %v", err)
		http.Error(w, "error rendering charts", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", render.ContentType(render.FormatHTML))
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

// GetLayout returns the chart geometry as JSON, or MessagePack with format=msgpack
func (h *Handlers) GetLayout(w http.ResponseWriter, req *http.Request) {
	charts, _, ok := h.charts(w, req)
	if !ok {
		return
	}

	page := render.Page{Mount: h.controller.source.Mount(), Charts: charts}
	if err := h.formatter.WriteResponse(w, req, page, map[string]string{"Cache-Control": "no-store"}); err != nil {
		h.controller.logger.Errorf("error encoding layout: %v", err)
	}
}

// GetReadings returns the raw generated readings
func (h *Handlers) GetReadings(w http.ResponseWriter, req *http.Request) {
	_, readings, ok := h.charts(w, req)
	if !ok {
		return
	}

	if err := h.formatter.WriteResponse(w, req, readings, map[string]string{"Cache-Control": "no-store"}); err != nil {
		h.controller.logger.Errorf("error encoding readings: %v", err)
	}
}

// ServeRoomPNG serves a single room and metric as a PNG image
func (h *Handlers) ServeRoomPNG(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	metric, err := types.ParseMetric(vars["metric"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	charts, _, ok := h.charts(w, req)
	if !ok {
		return
	}

	var buf bytes.Buffer
	r := &render.PNG{Room: vars["room"], Metric: metric}
	if err := r.Render(req.Context(), h.controller.source.Mount(), charts, &buf); err != nil {
		if errors.Is(err, render.ErrRoomNotFound) {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}
		h.controller.logger.Errorf("error rendering PNG for %s/%s: %v", vars["room"], metric, err)
		http.Error(w, "error rendering chart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", render.ContentType(render.FormatPNG))
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}
