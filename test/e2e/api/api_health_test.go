package api_test

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestLivezEndpoint verifies the liveness probe answers on a fresh server.
func TestLivezEndpoint(t *testing.T) {
	baseURL, cleanup := setupJotterContainer(t)
	defer cleanup()

	client := newDeviceClient(t, baseURL, "probe")

	health, err := client.Livez(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", health.Status)
	require.NotEmpty(t, health.Version)

	t.Logf("Livez endpoint is healthy (version %s)", health.Version)
}

// TestReadyzEndpoint verifies the readiness probe checks its dependencies.
func TestReadyzEndpoint(t *testing.T) {
	baseURL, cleanup := setupJotterContainer(t)
	defer cleanup()

	client := newDeviceClient(t, baseURL, "probe")

	health, err := client.Readyz(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", health.Status)
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Database)

	t.Logf("Readyz endpoint is healthy")
}

// TestMetricsEndpoint verifies the Prometheus scrape surface counts real
// traffic.
func TestMetricsEndpoint(t *testing.T) {
	baseURL, cleanup := setupJotterContainer(t)
	defer cleanup()

	// Produce some traffic to count
	client := newDeviceClient(t, baseURL, "laptop")
	signupAlice(t, client)
	_, err := client.ListNotes(t.Context())
	require.NoError(t, err)

	resp, err := http.Get(baseURL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	scrape := string(body)
	require.Contains(t, scrape, "jotter_http_requests_total")
	require.Contains(t, scrape, "jotter_signups_total")
	require.Contains(t, scrape, `route="/signup"`)

	t.Logf("Metrics endpoint exposes request counters")
}
