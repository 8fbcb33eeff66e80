package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory/internal/core"
	"inventory/internal/metrics"
	"inventory/internal/services"
	"inventory/internal/sheets/memory"
	"inventory/internal/workspace"
)

type testServer struct {
	*httptest.Server
	client *http.Client
}

func newTestServer(t *testing.T, policy core.MalformedPolicy, mutate ...func(*Options)) *testServer {
	t.Helper()

	loader, err := services.NewFileLoader(policy)
	require.NoError(t, err)
	m := metrics.New()
	svc := services.NewDashboardService(loader, memory.NewDemo(), nil, m, nil)
	sessions := workspace.NewRegistry(100, time.Hour)
	t.Cleanup(sessions.Close)

	opts := Options{MaxUploadBytes: 1 << 20, RateLimitPerMinute: 1000, Metrics: m}
	for _, fn := range mutate {
		fn(&opts)
	}
	srv, err := NewServer(opts, svc, sessions, nil)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(func() {
		ts.Close()
		_ = srv.Shutdown(t.Context())
	})

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := ts.Client()
	client.Jar = jar
	client.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	return &testServer{Server: ts, client: client}
}

func (ts *testServer) get(t *testing.T, path string) *http.Response {
	t.Helper()
	res, err := ts.client.Get(ts.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })
	return res
}

func (ts *testServer) upload(t *testing.T, filename string, content []byte) *http.Response {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	res, err := ts.client.Post(ts.URL+"/analyze", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })
	return res
}

func (ts *testServer) report(t *testing.T) reportJSON {
	t.Helper()
	res := ts.get(t, "/api/report")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var rep reportJSON
	require.NoError(t, json.NewDecoder(res.Body).Decode(&rep))
	return rep
}

func readBody(t *testing.T, res *http.Response) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := buf.ReadFrom(res.Body)
	require.NoError(t, err)
	return buf.String()
}

func TestIndexAndHealth(t *testing.T) {
	ts := newTestServer(t, core.PolicyReject)

	res := ts.get(t, "/")
	require.Equal(t, http.StatusOK, res.StatusCode)
	body := readBody(t, res)
	assert.Contains(t, body, "Start analysis")
	assert.Contains(t, body, `name="file"`)
	assert.NotEmpty(t, res.Header.Get("Content-Security-Policy"))

	u, _ := url.Parse(ts.URL)
	var found bool
	for _, c := range ts.client.Jar.Cookies(u) {
		found = found || c.Name == SessionCookie
	}
	assert.True(t, found, "session cookie should be issued")

	for _, path := range []string{"/healthz", "/readyz", "/static/app.js", "/static/style.css"} {
		assert.Equal(t, http.StatusOK, ts.get(t, path).StatusCode, path)
	}
	assert.Equal(t, http.StatusNotFound, ts.get(t, "/nope").StatusCode)
}

func TestDashboardRedirectsWhenNothingLoaded(t *testing.T) {
	ts := newTestServer(t, core.PolicyReject)

	res := ts.get(t, "/dashboard")
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/", res.Header.Get("Location"))

	assert.Equal(t, http.StatusNotFound, ts.get(t, "/api/report").StatusCode)
}

func TestAnalyzeWithoutFileLoadsDemo(t *testing.T) {
	ts := newTestServer(t, core.PolicyReject)

	res := ts.upload(t, "", nil)
	require.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/dashboard", res.Header.Get("Location"))

	rep := ts.report(t)
	assert.Equal(t, "158600.00", rep.Total)
	assert.Equal(t, "$158,600.00", rep.TotalFormatted)
	assert.Equal(t, 5, rep.Records)
	assert.Equal(t, "demo", rep.Source)
	assert.Equal(t, []string{"Equipment", "Furniture", "Vehicles"}, rep.Labels)
	assert.Equal(t, []float64{7500, 1100, 150000}, rep.Values)
	assert.Len(t, rep.Colors, 3)

	page := ts.get(t, "/dashboard")
	require.Equal(t, http.StatusOK, page.StatusCode)
	body := readBody(t, page)
	assert.Contains(t, body, "$158,600.00")
	assert.Contains(t, body, "Back")
	assert.Contains(t, body, "category-chart")
}

func TestAnalyzeCSVUpload(t *testing.T) {
	ts := newTestServer(t, core.PolicyReject)

	csv := "id,name,category,condition,value\n" +
		"1,Drill,Tools,Good,100.25\n" +
		"2,Saw,Tools,Worn,abc\n" +
		"3,Box,,New,50\n"
	res := ts.upload(t, "stock.csv", []byte(csv))
	require.Equal(t, http.StatusSeeOther, res.StatusCode)

	rep := ts.report(t)
	assert.Equal(t, "150.25", rep.Total)
	assert.Equal(t, "file", rep.Source)
	assert.Equal(t, "stock.csv", rep.FileName)
	assert.Equal(t, []string{"Tools", ""}, rep.Labels)
	assert.Equal(t, 1, rep.Rejected)

	body := readBody(t, ts.get(t, "/dashboard"))
	assert.Contains(t, body, "Uncategorized")
	assert.Contains(t, body, "1 rows with a missing or invalid value")
	assert.Contains(t, body, "stock.csv")
}

func TestAnalyzeUnreadableKeepsPreviousData(t *testing.T) {
	ts := newTestServer(t, core.PolicyReject)
	require.Equal(t, http.StatusSeeOther, ts.upload(t, "", nil).StatusCode)

	res := ts.upload(t, "broken.xlsx", []byte("PK\x03\x04definitely not a workbook"))
	require.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	assert.Contains(t, readBody(t, res), "could not be read as a spreadsheet")

	assert.Equal(t, "demo", ts.report(t).Source)
}

func TestAnalyzeFailPolicy(t *testing.T) {
	ts := newTestServer(t, core.PolicyFail)

	res := ts.upload(t, "bad.csv", []byte("value\n10\nten\n"))
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	assert.Equal(t, http.StatusSeeOther, ts.get(t, "/dashboard").StatusCode)
}

func TestAnalyzeTooLarge(t *testing.T) {
	ts := newTestServer(t, core.PolicyReject, func(o *Options) { o.MaxUploadBytes = 2048 })

	res := ts.upload(t, "big.csv", bytes.Repeat([]byte("1\n"), 4096))
	assert.Equal(t, http.StatusRequestEntityTooLarge, res.StatusCode)
}

func TestAnalyzeRateLimited(t *testing.T) {
	ts := newTestServer(t, core.PolicyReject, func(o *Options) { o.RateLimitPerMinute = 1 })

	assert.Equal(t, http.StatusSeeOther, ts.upload(t, "", nil).StatusCode)
	res := ts.upload(t, "", nil)
	assert.Equal(t, http.StatusTooManyRequests, res.StatusCode)
	assert.NotEmpty(t, res.Header.Get("Retry-After"))
	assert.Equal(t, http.StatusOK, ts.get(t, "/").StatusCode, "GET is not limited")
}

func TestSessionsAreIsolated(t *testing.T) {
	ts := newTestServer(t, core.PolicyReject)
	require.Equal(t, http.StatusSeeOther, ts.upload(t, "", nil).StatusCode)

	other := &http.Client{CheckRedirect: ts.client.CheckRedirect}
	res, err := other.Get(ts.URL + "/api/report")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, core.PolicyReject)
	require.Equal(t, http.StatusSeeOther, ts.upload(t, "", nil).StatusCode)

	body := readBody(t, ts.get(t, "/metrics"))
	assert.True(t, strings.Contains(body, `inventory_loads_total{source="demo",status="success"} 1`), body)
	assert.Contains(t, body, "inventory_workspaces 1")
}
