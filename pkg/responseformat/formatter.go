package responseformat

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	JSON    = "json"
	MsgPack = "msgpack"
)

// Formatter handles encoding and writing responses in JSON or MessagePack format
type Formatter struct{}

// NewFormatter creates a new response formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

// WriteResponse writes the response in the appropriate format based on the query parameter
// JSON is the default format. MessagePack is used when format=msgpack is specified
func (f *Formatter) WriteResponse(w http.ResponseWriter, req *http.Request, data any, headers map[string]string) error {
	// Set any provided headers first
	for k, v := range headers {
		w.Header().Set(k, v)
	}

	// Always set CORS header
	w.Header().Set("Access-Control-Allow-Origin", "*")

	if req.URL.Query().Get("format") == MsgPack {
		w.Header().Set("Content-Type", "application/x-msgpack")
		return Encode(w, MsgPack, data)
	}

	w.Header().Set("Content-Type", "application/json")
	return Encode(w, JSON, data)
}

// Encode writes data to w as JSON or MessagePack. MessagePack output uses the
// json struct tags so both encodings carry the same field names.
func Encode(w io.Writer, format string, data any) error {
	switch format {
	case JSON, "":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)
	case MsgPack:
		encoder := msgpack.NewEncoder(w)
		encoder.SetCustomStructTag("json")
		return encoder.Encode(data)
	}
	return fmt.Errorf("unsupported encoding %q", format)
}
