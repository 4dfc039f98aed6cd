package errorutil

import "errors"

// ErrMalformedInput is returned when the trace document or one of its event
// payloads doesn't have the expected shape.
var ErrMalformedInput = errors.New("malformed input")

// ErrNoRenderThreadFound is returned when no thread of the trace can be
// identified as a renderer main thread.
var ErrNoRenderThreadFound = errors.New("no render thread found")

// ErrMissingStartTimestamp is returned when a thread has no usable timestamp
// to anchor its timeline on.
var ErrMissingStartTimestamp = errors.New("missing start timestamp")

// ErrConfigParameterNotFound is returned when a required configuration
// parameter is absent and no default was provided.
var ErrConfigParameterNotFound = errors.New("config parameter not found")

// ErrAggregateKeyNotFound means a SelectorStats row didn't contribute to its
// own aggregate group. It signals a bug, not bad input.
var ErrAggregateKeyNotFound = errors.New("aggregate key not found")

// ErrInvalidFilterMode is returned for an unknown relevance filter mode.
var ErrInvalidFilterMode = errors.New("invalid filter mode")

// ErrInvalidParameter is returned when a run parameter has an unknown value or
// the wrong type.
var ErrInvalidParameter = errors.New("invalid parameter")

// IsInputError reports whether err is caused by the content of the trace or
// by a caller supplied option or parameter, as opposed to an internal failure.
func IsInputError(err error) bool {
	return errors.Is(err, ErrMalformedInput) ||
		errors.Is(err, ErrNoRenderThreadFound) ||
		errors.Is(err, ErrMissingStartTimestamp) ||
		errors.Is(err, ErrInvalidFilterMode) ||
		errors.Is(err, ErrInvalidParameter) ||
		errors.Is(err, ErrConfigParameterNotFound)
}
