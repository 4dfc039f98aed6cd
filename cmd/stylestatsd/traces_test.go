package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	gojson "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"

	"github.com/getsentry/stylestats/internal/report"
	"github.com/getsentry/stylestats/internal/testutil"
)

const scenarioPath = "../../internal/pipeline/testdata/scenario.json"

func newTestRouter(t *testing.T) *httprouter.Router {
	t.Helper()
	env, err := newEnvironment(context.Background(), ServiceConfig{BucketURL: "mem://"})
	if err != nil {
		t.Fatalf("can't set up the environment: %v", err)
	}
	t.Cleanup(func() { env.blob.Close() })
	router, err := env.newRouter()
	if err != nil {
		t.Fatalf("can't set up the router: %v", err)
	}
	return router
}

func serve(router http.Handler, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func postScenario(t *testing.T, router http.Handler, query string) postTraceResponse {
	t.Helper()
	body, err := os.ReadFile(scenarioPath)
	if err != nil {
		t.Fatalf("can't read the trace: %v", err)
	}
	w := serve(router, httptest.NewRequest(http.MethodPost, "/traces"+query, bytes.NewReader(body)))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}
	var response postTraceResponse
	if err := gojson.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("can't decode the response: %v", err)
	}
	return response
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)
	w := serve(router, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, w.Code)
	}
}

func TestPostAndGetTrace(t *testing.T) {
	router := newTestRouter(t)
	response := postScenario(t, router, "")
	if _, err := uuid.Parse(response.ID); err != nil {
		t.Fatalf("expected a UUID, got %q", response.ID)
	}
	want := postTraceResponse{ID: response.ID, ThreadIDs: []int64{100}, Rows: 2, Selectors: 2}
	if diff := testutil.Diff(response, want); diff != "" {
		t.Fatalf("Result mismatch: got - want +\n%s", diff)
	}

	w := serve(router, httptest.NewRequest(http.MethodGet, "/traces/"+response.ID, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	var tables []report.Table
	if err := gojson.Unmarshal(w.Body.Bytes(), &tables); err != nil {
		t.Fatalf("can't decode the tables: %v", err)
	}
	var names []string
	for _, table := range tables {
		names = append(names, table.Name)
	}
	wantNames := []string{report.TimelineTableName, report.SelectorsTableName, report.SelectorTimingsTableName}
	if diff := testutil.Diff(names, wantNames); diff != "" {
		t.Fatalf("Result mismatch: got - want +\n%s", diff)
	}

	w = serve(router, httptest.NewRequest(http.MethodGet, "/traces/"+response.ID+"?format=csv&table=selectors", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[1], ".card > .title,1,50,5,2,3,1,2,1,") {
		t.Fatalf("unexpected selectors table:\n%s", w.Body.String())
	}
}

func TestPostCompressedTrace(t *testing.T) {
	router := newTestRouter(t)
	body, err := os.ReadFile(scenarioPath)
	if err != nil {
		t.Fatalf("can't read the trace: %v", err)
	}
	var compressed bytes.Buffer
	bw := brotli.NewWriter(&compressed)
	_, _ = bw.Write(body)
	if err := bw.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := httptest.NewRequest(http.MethodPost, "/traces?pipeline=single&invalidation_tracking=true", &compressed)
	r.Header.Set("Content-Encoding", "br")
	w := serve(router, r)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}
}

func TestPostTraceErrors(t *testing.T) {
	router := newTestRouter(t)
	tests := []struct {
		name  string
		query string
		body  string
		want  int
	}{
		{name: "malformed document", body: `{"events":[]}`, want: http.StatusBadRequest},
		{name: "invalid json", body: `{"traceEvents":[`, want: http.StatusBadRequest},
		{
			name: "no render thread",
			body: `{"traceEvents":[{"name":"thread_name","cat":"__metadata","ph":"M","pid":1,"tid":1,"args":{"name":"CrBrowserMain"}}]}`,
			want: http.StatusBadRequest,
		},
		{name: "invalid filter mode", query: "?filter_mode=everything", body: `{"traceEvents":[]}`, want: http.StatusBadRequest},
		{name: "invalid boolean", query: "?invalidation_tracking=maybe", body: `{"traceEvents":[]}`, want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, httptest.NewRequest(http.MethodPost, "/traces"+tt.query, strings.NewReader(tt.body)))
			if w.Code != tt.want {
				t.Fatalf("expected status %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestGetTraceErrors(t *testing.T) {
	router := newTestRouter(t)
	response := postScenario(t, router, "")
	tests := []struct {
		name string
		path string
		want int
	}{
		{name: "invalid id", path: "/traces/not-a-uuid", want: http.StatusBadRequest},
		{name: "unknown id", path: "/traces/" + uuid.New().String(), want: http.StatusNotFound},
		{name: "csv without table", path: "/traces/" + response.ID + "?format=csv", want: http.StatusBadRequest},
		{name: "unknown table", path: "/traces/" + response.ID + "?format=csv&table=frames", want: http.StatusNotFound},
		{name: "unknown format", path: "/traces/" + response.ID + "?format=xml", want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if w.Code != tt.want {
				t.Fatalf("expected status %d, got %d", tt.want, w.Code)
			}
		})
	}
}
