package errorutil

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsInputError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "wrapped malformed input", err: fmt.Errorf("traceevent: %w: no traceEvents", ErrMalformedInput), want: true},
		{name: "no render thread", err: ErrNoRenderThreadFound, want: true},
		{name: "missing start", err: fmt.Errorf("thread 1: %w", ErrMissingStartTimestamp), want: true},
		{name: "invalid filter mode", err: ErrInvalidFilterMode, want: true},
		{name: "aggregate key not found", err: ErrAggregateKeyNotFound, want: false},
		{name: "missing parameter", err: fmt.Errorf("config: %w: Parameters.TraceFilePath", ErrConfigParameterNotFound), want: true},
		{name: "invalid parameter", err: fmt.Errorf("pipeline: %w: unknown pipeline", ErrInvalidParameter), want: true},
		{name: "unrelated", err: errors.New("boom"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsInputError(tt.err); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
