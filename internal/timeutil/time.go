package timeutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Microseconds is a trace timestamp or duration. Exports encode it as an
// integer, a float or, for some tools, a quoted number; fractions are
// truncated.
type Microseconds int64

func (m *Microseconds) UnmarshalJSON(b []byte) error {
	if quote := []byte{'"'}; bytes.HasPrefix(b, quote) && bytes.HasSuffix(b, quote) && len(b) >= 2 {
		b = b[1 : len(b)-1]
	}
	s := string(b)
	if s == "null" || s == "" {
		return nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		*m = Microseconds(i)
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("timeutil: can't parse %q as microseconds: %w", s, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("timeutil: %q is not a finite number of microseconds", s)
	}
	*m = Microseconds(math.Trunc(f))
	return nil
}

func (m Microseconds) MarshalJSON() ([]byte, error) {
	return json.Marshal(int64(m))
}

// Milliseconds converts to fractional milliseconds.
func (m Microseconds) Milliseconds() float64 {
	return float64(m) / 1000
}
