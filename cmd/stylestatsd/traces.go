package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/getsentry/sentry-go"
	gojson "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"

	"github.com/getsentry/stylestats/internal/config"
	"github.com/getsentry/stylestats/internal/errorutil"
	"github.com/getsentry/stylestats/internal/httputil"
	"github.com/getsentry/stylestats/internal/pipeline"
	"github.com/getsentry/stylestats/internal/report"
	"github.com/getsentry/stylestats/internal/storageutil"
	"github.com/getsentry/stylestats/internal/traceevent"
)

type postTraceResponse struct {
	ID        string  `json:"id"`
	ThreadIDs []int64 `json:"thread_ids"`
	Rows      int     `json:"rows"`
	Selectors int     `json:"selectors"`
}

var queryParameters = map[string]string{
	"pipeline":            "Pipeline",
	"filter_mode":         "FilterMode",
	"slow_reject_variant": "SlowRejectVariant",
}

// optionsFromQuery maps the query string to the Parameters table.
func optionsFromQuery(query url.Values) (pipeline.Options, error) {
	parameters := httputil.QueryParameters(query, queryParameters)
	if v := query.Get("invalidation_tracking"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return pipeline.Options{}, fmt.Errorf("%w: invalid invalidation_tracking value %q", errorutil.ErrInvalidParameter, v)
		}
		parameters["InvalidationTracking"] = b
	}
	return pipeline.OptionsFromConfig(config.Tables{pipeline.ParametersTable: parameters})
}

func (e *environment) postTrace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	hub := sentry.GetHubFromContext(ctx)

	options, err := optionsFromQuery(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s := sentry.StartSpan(ctx, "json.unmarshal")
	trace, err := traceevent.Load(r.Body)
	s.Finish()
	if err != nil {
		httputil.WriteError(w, hub, err)
		return
	}

	result, err := pipeline.RunTrace(ctx, trace, options)
	if err != nil {
		log.Warn().Err(err).Msg("can't process trace")
		httputil.WriteError(w, hub, err)
		return
	}

	id := uuid.New().String()
	if hub != nil {
		hub.Scope().SetTag("trace_id", id)
	}

	s = sentry.StartSpan(ctx, "gcs.write")
	err = storageutil.CompressedWrite(ctx, e.resultsBucket, storageutil.ResultPath(id), result.Tables())
	s.Finish()
	if err != nil {
		httputil.WriteError(w, hub, err)
		return
	}

	b, err := gojson.Marshal(postTraceResponse{
		ID:        id,
		ThreadIDs: result.ThreadIDs,
		Rows:      len(result.Rows),
		Selectors: len(result.Selectors),
	})
	if err != nil {
		httputil.WriteError(w, hub, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(b)
}

func (e *environment) getTrace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	hub := sentry.GetHubFromContext(ctx)
	ps := httprouter.ParamsFromContext(ctx)
	rawTraceID := ps.ByName("trace_id")
	if _, err := uuid.Parse(rawTraceID); err != nil {
		http.Error(w, "invalid trace id", http.StatusBadRequest)
		return
	}
	if hub != nil {
		hub.Scope().SetTag("trace_id", rawTraceID)
	}

	var tables []report.Table
	s := sentry.StartSpan(ctx, "gcs.read")
	err := storageutil.UnmarshalCompressed(ctx, e.resultsBucket, storageutil.ResultPath(rawTraceID), &tables)
	s.Finish()
	if err != nil {
		if errors.Is(err, storageutil.ErrObjectNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		httputil.WriteError(w, hub, err)
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", report.JSONFormat:
		w.Header().Set("Content-Type", "application/json")
		if err := report.WriteJSON(w, tables); err != nil {
			log.Err(err).Msg("can't write the tables")
		}
	case report.CSVFormat:
		params, logger, ok := httputil.GetRequiredQueryParameters(w, r, "table")
		if !ok {
			return
		}
		for _, t := range tables {
			if t.Name != params["table"] {
				continue
			}
			w.Header().Set("Content-Type", "text/csv")
			if err := report.WriteCSV(w, t); err != nil {
				logger.Err(err).Msg("can't write the table")
			}
			return
		}
		http.Error(w, fmt.Sprintf("unknown table %s", params["table"]), http.StatusNotFound)
	default:
		http.Error(w, fmt.Sprintf("unknown format %s", format), http.StatusBadRequest)
	}
}
