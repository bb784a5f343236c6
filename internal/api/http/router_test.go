package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/amakane-hakari/appsample/internal/app"
	"github.com/amakane-hakari/appsample/internal/config"
	ilog "github.com/amakane-hakari/appsample/internal/log"
	"github.com/amakane-hakari/appsample/internal/metrics"
)

func newTestServer(t *testing.T, id app.Identity, opts ...Option) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(NewRouter(app.New(id), opts...))
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s error: %v", method, url, err)
	}
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return res, string(b)
}

func TestVersion(t *testing.T) {
	ts := newTestServer(t, app.Identity{Pool: "foo", Release: "bar"})

	res, body := do(t, http.MethodGet, ts.URL+"/version")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	if got := res.Header.Get("X-App-Pool"); got != "foo" {
		t.Fatalf("X-App-Pool want foo got %q", got)
	}
	if got := res.Header.Get("X-Release-Id"); got != "bar" {
		t.Fatalf("X-Release-Id want bar got %q", got)
	}
	if got := res.Header.Get("Content-Type"); got != "application/json" {
		t.Fatalf("content type %q", got)
	}
	if body != `{"pool":"foo","release":"bar"}` {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestVersion_DefaultIdentity(t *testing.T) {
	t.Setenv("APP_POOL", "")
	t.Setenv("RELEASE_ID", "")
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	ts := newTestServer(t, app.Identity{Pool: cfg.Pool, Release: cfg.Release})

	res, body := do(t, http.MethodGet, ts.URL+"/version")
	if res.Header.Get("X-App-Pool") != "unknown" || res.Header.Get("X-Release-Id") != "unknown" {
		t.Fatalf("unexpected headers %v", res.Header)
	}
	var id app.Identity
	if err := json.Unmarshal([]byte(body), &id); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if id.Pool != "unknown" || id.Release != "unknown" {
		t.Fatalf("unexpected body %+v", id)
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, app.Identity{Pool: "foo", Release: "bar"})

	for _, chaos := range []string{"/chaos/stop", "/chaos/start"} {
		do(t, http.MethodPost, ts.URL+chaos)
		res, body := do(t, http.MethodGet, ts.URL+"/healthz")
		if res.StatusCode != http.StatusOK {
			t.Fatalf("after %s: expected 200, got %d", chaos, res.StatusCode)
		}
		if body != "" {
			t.Fatalf("after %s: expected empty body, got %q", chaos, body)
		}
	}
}

func TestChaos_StartStop(t *testing.T) {
	ts := newTestServer(t, app.Identity{Pool: "foo", Release: "bar"})

	// start を 2 回呼んでもカオスのまま
	for i := 0; i < 2; i++ {
		res, body := do(t, http.MethodPost, ts.URL+"/chaos/start")
		if res.StatusCode != http.StatusOK {
			t.Fatalf("start status %d", res.StatusCode)
		}
		if res.Header.Get("X-App-Pool") != "foo" || res.Header.Get("X-Release-Id") != "bar" {
			t.Fatalf("start missing identity headers: %v", res.Header)
		}
		var sr statusResponse
		if err := json.Unmarshal([]byte(body), &sr); err != nil {
			t.Fatalf("decode error: %v", err)
		}
		if sr.Status != "chaos started" {
			t.Fatalf("unexpected status %q", sr.Status)
		}
	}

	res, body := do(t, http.MethodGet, ts.URL+"/version")
	if res.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", res.StatusCode)
	}
	if body != "simulated error" {
		t.Fatalf("unexpected body %q", body)
	}
	if res.Header.Get("X-App-Pool") != "" {
		t.Fatalf("chaos response should not carry identity headers")
	}

	for i := 0; i < 2; i++ {
		res, body = do(t, http.MethodPost, ts.URL+"/chaos/stop")
		if res.StatusCode != http.StatusOK {
			t.Fatalf("stop status %d", res.StatusCode)
		}
		if res.Header.Get("X-App-Pool") != "foo" || res.Header.Get("X-Release-Id") != "bar" {
			t.Fatalf("stop missing identity headers: %v", res.Header)
		}
		if body != `{"status":"chaos stopped"}` {
			t.Fatalf("unexpected body %q", body)
		}
	}

	res, body = do(t, http.MethodGet, ts.URL+"/version")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	if body != `{"pool":"foo","release":"bar"}` {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestUnknownRouteAndMethod(t *testing.T) {
	ts := newTestServer(t, app.Identity{Pool: "foo", Release: "bar"})

	res, _ := do(t, http.MethodGet, ts.URL+"/nope")
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.StatusCode)
	}
	res, _ = do(t, http.MethodGet, ts.URL+"/chaos/start")
	if res.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", res.StatusCode)
	}
	res, _ = do(t, http.MethodGet, ts.URL+"/metrics")
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("metrics should not be mounted by default, got %d", res.StatusCode)
	}
}

func TestMetrics(t *testing.T) {
	m := metrics.NewSimple()
	ts := newTestServer(t, app.Identity{Pool: "foo", Release: "bar"}, WithMetrics(m))

	do(t, http.MethodGet, ts.URL+"/version")
	do(t, http.MethodPost, ts.URL+"/chaos/start")
	do(t, http.MethodGet, ts.URL+"/version")
	do(t, http.MethodPost, ts.URL+"/chaos/stop")

	if m.Requests.Load() != 4 {
		t.Fatalf("Requests want 4 got %d", m.Requests.Load())
	}
	if m.ServerErrors.Load() != 1 {
		t.Fatalf("ServerErrors want 1 got %d", m.ServerErrors.Load())
	}
	if m.ChaosStarted.Load() != 1 || m.ChaosStopped.Load() != 1 {
		t.Fatalf("toggles want 1/1 got %d/%d", m.ChaosStarted.Load(), m.ChaosStopped.Load())
	}
	if m.ChaosActive.Load() {
		t.Fatalf("ChaosActive should be false after stop")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	p := metrics.NewProm("appsample")
	ts := newTestServer(t, app.Identity{Pool: "foo", Release: "bar"},
		WithMetrics(p), WithMetricsHandler(p.Handler()))

	do(t, http.MethodGet, ts.URL+"/version")
	res, body := do(t, http.MethodGet, ts.URL+"/metrics")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("metrics status %d", res.StatusCode)
	}
	if !strings.Contains(body, `appsample_http_requests_total{route="/version",status="200"} 1`) {
		t.Fatalf("version request not counted:\n%s", body)
	}
}

func TestRouter_PanicIsLoggedAndCounted(t *testing.T) {
	var buf bytes.Buffer
	m := metrics.NewSimple()
	h := NewRouter(app.New(app.Identity{Pool: "foo", Release: "bar"}),
		WithLogger(ilog.NewWithWriter(&buf, "info", "json")), WithMetrics(m))
	mux, ok := h.(*chi.Mux)
	if !ok {
		t.Fatalf("router is %T, want *chi.Mux", h)
	}
	mux.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if m.Requests.Load() != 1 || m.ServerErrors.Load() != 1 {
		t.Fatalf("want requests=1 serverErrors=1, got %d/%d", m.Requests.Load(), m.ServerErrors.Load())
	}

	accessLines := 0
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("decode log line %q: %v", line, err)
		}
		if entry["msg"] == "access.log" {
			accessLines++
			if entry["status"] != float64(http.StatusInternalServerError) || entry["path"] != "/boom" {
				t.Fatalf("unexpected access log %v", entry)
			}
		}
	}
	if accessLines != 1 {
		t.Fatalf("want 1 access.log line, got %d:\n%s", accessLines, buf.String())
	}
}
