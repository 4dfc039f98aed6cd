package httputil

import (
	"net/http"
	"strconv"

	"github.com/getsentry/sentry-go"

	"github.com/getsentry/stylestats/internal/errorutil"
)

// HTTPStatusCodeTag is the name of the HTTP status code tag.
const HTTPStatusCodeTag = "http.response.status_code"

// ErrorStatus returns the status code matching err. Errors caused by the
// request are client errors, anything else is a server error.
func ErrorStatus(err error) int {
	if errorutil.IsInputError(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// WriteError reports server errors to Sentry and writes the status code
// matching err.
func WriteError(w http.ResponseWriter, hub *sentry.Hub, err error) {
	status := ErrorStatus(err)
	if hub != nil {
		hub.Scope().SetTag(HTTPStatusCodeTag, strconv.Itoa(status))
		if status >= http.StatusInternalServerError {
			hub.CaptureException(err)
		}
	}
	if status == http.StatusBadRequest {
		http.Error(w, err.Error(), status)
		return
	}
	w.WriteHeader(status)
}
