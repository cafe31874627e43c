package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/jotterhq/jotter/internal/service"
)

var _ service.AuthMetrics = (*Collector)(nil)

// counterValue walks the gathered families looking for one counter
// sample whose labels all match.
func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	sample:
		for _, m := range mf.GetMetric() {
			got := map[string]string{}
			for _, lp := range m.GetLabel() {
				got[lp.GetName()] = lp.GetValue()
			}
			for k, v := range labels {
				if got[k] != v {
					continue sample
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func TestAuthCounters(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordSignup()
	c.RecordSignup()
	c.RecordLogin()
	c.RecordLogout()
	c.RecordRotation()
	c.RecordRefreshFailure("bad_token")
	c.RecordRefreshFailure("bad_token")
	c.RecordRefreshFailure("expired")

	require.EqualValues(t, 2, counterValue(t, reg, "jotter_signups_total", nil))
	require.EqualValues(t, 1, counterValue(t, reg, "jotter_logins_total", nil))
	require.EqualValues(t, 1, counterValue(t, reg, "jotter_logouts_total", nil))
	require.EqualValues(t, 1, counterValue(t, reg, "jotter_refresh_rotations_total", nil))
	require.EqualValues(t, 2, counterValue(t, reg, "jotter_refresh_failures_total", map[string]string{"reason": "bad_token"}))
	require.EqualValues(t, 1, counterValue(t, reg, "jotter_refresh_failures_total", map[string]string{"reason": "expired"}))
}

func TestHTTPMiddlewareLabelsByRoute(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /notes/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := c.HTTPMiddleware()(mux)

	for _, path := range []string{"/notes/abc", "/notes/def", "/notes/ghi"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	// Three distinct paths collapse into one route label.
	got := counterValue(t, reg, "jotter_http_requests_total", map[string]string{
		"method": "GET",
		"route":  "/notes/{id}",
		"status": "200",
	})
	require.EqualValues(t, 3, got)
}

func TestHTTPMiddlewareRecordsLatency(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /slow", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(10 * time.Millisecond)
	})
	handler := c.HTTPMiddleware()(mux)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/slow", nil))

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range families {
		if mf.GetName() != "jotter_http_request_duration_seconds" {
			continue
		}
		found = true
		h := mf.GetMetric()[0].GetHistogram()
		require.EqualValues(t, 1, h.GetSampleCount())
		require.Greater(t, h.GetSampleSum(), 0.0)
	}
	require.True(t, found)
}

func TestHandlerServesScrape(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordSignup()
	c.RecordRefreshFailure("bad_token")

	rr := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)

	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "jotter_signups_total")
	require.Contains(t, string(body), `jotter_refresh_failures_total{reason="bad_token"}`)
}
