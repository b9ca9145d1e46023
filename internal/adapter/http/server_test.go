package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/penguin-scatter/internal/adapter/http"
	"github.com/couchcryptid/penguin-scatter/internal/app"
	"github.com/couchcryptid/penguin-scatter/internal/domain"
	"github.com/couchcryptid/penguin-scatter/internal/observability"
)

const (
	testAdelie        = "Adelie"
	headerContentType = "Content-Type"
	contentTypeJSON   = "application/json"
)

type stubLoader struct {
	ds  domain.Dataset
	err error
}

func (s *stubLoader) Fetch(_ context.Context) (domain.Dataset, error) { return s.ds, s.err }

func testDataset() domain.Dataset {
	return domain.Dataset{
		Rows: []domain.Row{
			{Species: testAdelie, BillLengthMM: 39.1, BillDepthMM: 18.7},
			{Species: "Gentoo", BillLengthMM: 46.1, BillDepthMM: 13.2},
		},
		Report: domain.LoadReport{Source: "stub", Accepted: 2},
	}
}

type fixture struct {
	srv     *httpadapter.Server
	app     *app.App
	metrics *observability.Metrics
}

func newFixture(t *testing.T, loader *stubLoader, load bool) fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()
	a := app.New(loader, logger, metrics)
	if load {
		require.NoError(t, a.Load(context.Background()))
	}
	return fixture{srv: httpadapter.NewServer(":0", a, logger, metrics), app: a, metrics: metrics}
}

func (f fixture) do(method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(headerContentType, contentTypeJSON)
	}
	f.srv.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthzReturns200(t *testing.T) {
	f := newFixture(t, &stubLoader{}, false)

	rec := f.do(http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode(t, rec)["status"])
}

func TestReadyzReturns200WhenLoaded(t *testing.T) {
	f := newFixture(t, &stubLoader{ds: testDataset()}, true)

	rec := f.do(http.MethodGet, "/readyz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", decode(t, rec)["status"])
}

func TestReadyzReturns503WhileLoading(t *testing.T) {
	f := newFixture(t, &stubLoader{ds: testDataset()}, false)

	rec := f.do(http.MethodGet, "/readyz", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, domain.ErrNotLoaded.Error(), body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, &stubLoader{}, false)

	rec := f.do(http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestPage_Loading(t *testing.T) {
	f := newFixture(t, &stubLoader{ds: testDataset()}, false)

	rec := f.do(http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(headerContentType), "text/html")
	assert.Equal(t, "<pre>Loading...</pre>", rootContent(t, rec.Body.String()))
}

func TestPage_PollsForChartUntilReady(t *testing.T) {
	f := newFixture(t, &stubLoader{ds: testDataset()}, false)

	body := f.do(http.MethodGet, "/", "").Body.String()

	assert.Contains(t, body, "function waitForChart()")
	assert.Contains(t, body, `fetch("/chart.svg"`)
	assert.Contains(t, body, `resp.headers.get("Retry-After")`)
	assert.Contains(t, body, "waitForChart();\n})();", "polling starts when the page loads")

	// The endpoint the page polls switches from 503 to the chart once loaded.
	rec := f.do(http.MethodGet, "/chart.svg", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	require.NoError(t, f.app.Load(context.Background()))
	rec = f.do(http.MethodGet, "/chart.svg", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<svg")
}

// rootContent returns the markup inside the page's #root element.
func rootContent(t *testing.T, page string) string {
	t.Helper()
	const open = `<div id="root">`
	_, rest, ok := strings.Cut(page, open)
	require.True(t, ok, "page has no #root element")
	content, _, ok := strings.Cut(rest, "</div>\n<script>")
	require.True(t, ok, "#root is not followed by the page script")
	return content
}

func TestPage_Ready(t *testing.T) {
	f := newFixture(t, &stubLoader{ds: testDataset()}, true)

	rec := f.do(http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(rootContent(t, body), "<svg"))
	assert.Contains(t, body, `data-category="Adelie"`)
	assert.NotContains(t, body, "<?xml", "prolog is stripped inside HTML")
	assert.NotContains(t, body, "Loading...")
}

func TestPage_Failed(t *testing.T) {
	f := newFixture(t, &stubLoader{err: errors.New("no route to host")}, false)
	require.Error(t, f.app.Load(context.Background()))

	rec := f.do(http.MethodGet, "/", "")

	assert.Contains(t, rec.Body.String(), "<pre>Failed to load data: no route to host</pre>")
}

func TestUnknownPathIs404(t *testing.T) {
	f := newFixture(t, &stubLoader{}, false)

	rec := f.do(http.MethodGet, "/nope", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChartSVG(t *testing.T) {
	f := newFixture(t, &stubLoader{ds: testDataset()}, true)

	rec := f.do(http.MethodGet, "/chart.svg", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get(headerContentType))
	assert.Contains(t, rec.Body.String(), "<svg")
	assert.Equal(t, 2, strings.Count(rec.Body.String(), `class="mark"`))
}

func TestChartSVG_503WhileLoading(t *testing.T) {
	f := newFixture(t, &stubLoader{ds: testDataset()}, false)

	rec := f.do(http.MethodGet, "/chart.svg", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Loading...", strings.TrimSpace(rec.Body.String()))
}

func TestHover_PutGetDelete(t *testing.T) {
	f := newFixture(t, &stubLoader{ds: testDataset()}, true)

	rec := f.do(http.MethodGet, "/hover", "")
	assert.Equal(t, map[string]any{"state": "idle"}, decode(t, rec))

	rec = f.do(http.MethodPut, "/hover", `{"category":"Adelie"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"state": "focused", "category": testAdelie}, decode(t, rec))
	assert.Equal(t, domain.Focused(testAdelie), f.app.HoverState())

	svg := f.do(http.MethodGet, "/chart.svg", "").Body.String()
	assert.Contains(t, svg, `class="marks" opacity="0.2"`)
	assert.Equal(t, 3, strings.Count(svg, `class="mark"`))

	rec = f.do(http.MethodDelete, "/hover", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"state": "idle"}, decode(t, rec))
	assert.Equal(t, domain.Idle, f.app.HoverState())
}

func TestHover_EmptyCategoryClears(t *testing.T) {
	f := newFixture(t, &stubLoader{ds: testDataset()}, true)
	f.do(http.MethodPut, "/hover", `{"category":"Adelie"}`)

	rec := f.do(http.MethodPut, "/hover", `{"category":""}`)

	assert.Equal(t, map[string]any{"state": "idle"}, decode(t, rec))
}

func TestHover_BadRequest(t *testing.T) {
	f := newFixture(t, &stubLoader{ds: testDataset()}, true)

	for _, body := range []string{`{`, `{"species":"Adelie"}`, `[]`} {
		rec := f.do(http.MethodPut, "/hover", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	assert.Equal(t, domain.Idle, f.app.HoverState())
}

func TestReload(t *testing.T) {
	f := newFixture(t, &stubLoader{ds: testDataset()}, true)

	rec := f.do(http.MethodPost, "/reload", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.InDelta(t, 2, body["version"], 0)

	rec = f.do(http.MethodPost, "/reload", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code, "reloads are rate limited")
}

func TestReload_Failure(t *testing.T) {
	f := newFixture(t, &stubLoader{err: errors.New("upstream 500")}, false)

	rec := f.do(http.MethodPost, "/reload", "")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "upstream 500")
}

func TestRequestsAreCounted(t *testing.T) {
	f := newFixture(t, &stubLoader{}, false)

	f.do(http.MethodGet, "/healthz", "")
	f.do(http.MethodGet, "/healthz", "")

	got := testutil.ToFloat64(f.metrics.HTTPRequests.WithLabelValues("GET /healthz", http.MethodGet, "200"))
	assert.InDelta(t, 2, got, 0)
}
