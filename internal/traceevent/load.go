package traceevent

import (
	"bytes"
	"fmt"
	"io"

	"github.com/getsentry/stylestats/internal/errorutil"
	gojson "github.com/goccy/go-json"
)

type document struct {
	TraceEvents *[]Event               `json:"traceEvents"`
	Metadata    map[string]interface{} `json:"metadata"`
}

// Load reads a whole trace document from r.
func Load(r io.Reader) (Trace, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return Trace{}, err
	}
	return Decode(b)
}

// Decode parses a trace document. The usual export is an object holding a
// traceEvents list; older exports are a bare list of events.
func Decode(b []byte) (Trace, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return Trace{}, fmt.Errorf("traceevent: %w: empty document", errorutil.ErrMalformedInput)
	}
	if b[0] == '[' {
		var events []Event
		if err := gojson.Unmarshal(b, &events); err != nil {
			return Trace{}, fmt.Errorf("traceevent: %w: %v", errorutil.ErrMalformedInput, err)
		}
		return Trace{Events: events}, nil
	}
	var d document
	if err := gojson.Unmarshal(b, &d); err != nil {
		return Trace{}, fmt.Errorf("traceevent: %w: %v", errorutil.ErrMalformedInput, err)
	}
	if d.TraceEvents == nil {
		return Trace{}, fmt.Errorf("traceevent: %w: document has no traceEvents list", errorutil.ErrMalformedInput)
	}
	return Trace{Events: *d.TraceEvents, Metadata: d.Metadata}, nil
}
