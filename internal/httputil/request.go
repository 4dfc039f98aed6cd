package httputil

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// GetRequiredQueryParameters reads the given query parameters. When one of them
// is missing or blank, a 400 naming it is written and ok is false. The
// returned logger carries every parameter read.
func GetRequiredQueryParameters(w http.ResponseWriter, r *http.Request, paramKeys ...string) (params map[string]string, logger zerolog.Logger, ok bool) {
	query := r.URL.Query()
	params = make(map[string]string, len(paramKeys))
	ctx := log.With().Str("path", r.URL.Path)
	for _, key := range paramKeys {
		value := query.Get(key)
		if value == "" {
			http.Error(w, fmt.Sprintf("expected %s query parameter", key), http.StatusBadRequest)
			return nil, zerolog.Nop(), false
		}
		params[key] = value
		ctx = ctx.Str(key, value)
	}
	return params, ctx.Logger(), true
}

// QueryParameters renames the non-blank query parameters found in names,
// mapping each query key to a configuration parameter.
func QueryParameters(query url.Values, names map[string]string) map[string]interface{} {
	parameters := make(map[string]interface{}, len(names))
	for key, parameter := range names {
		if v := query.Get(key); v != "" {
			parameters[parameter] = v
		}
	}
	return parameters
}
