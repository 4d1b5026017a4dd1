package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/telco360/internal/config"
	"github.com/smallbiznis/telco360/internal/observability/metrics"
	"github.com/smallbiznis/telco360/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newRedisReloadLimiter(t *testing.T, perMinute int) *ratelimit.ReloadLimiter {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter := ratelimit.NewReloadLimiter(ratelimit.ReloadParams{
		Config: config.Config{Dashboard: config.DashboardConfig{ReloadPerMinute: perMinute}},
		Client: client,
	})
	require.True(t, limiter.Enabled())
	return limiter
}

func reloadOutcomes(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			if md.Name != "test_dataset_reload_requests_total" {
				continue
			}
			for _, dp := range md.Data.(metricdata.Sum[int64]).DataPoints {
				outcome, _ := dp.Attributes.Value("outcome")
				out[outcome.AsString()] += dp.Value
			}
		}
	}
	return out
}

func TestReloadIsThrottledPerClient(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	m, err := metrics.New(metrics.Config{Namespace: "test"}, sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	require.NoError(t, err)

	src := &fakeDatasetSource{ds: testDataset()}
	srv := newDashboardTestServer(t, src)
	srv.reloadLimiter = newRedisReloadLimiter(t, 1)
	srv.obsMetrics = m

	first := serve(srv, httptest.NewRequest(http.MethodPost, "/api/dashboard/reload", nil))
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))
	assert.Empty(t, first.Header().Get("Retry-After"))

	second := serve(srv, httptest.NewRequest(http.MethodPost, "/api/dashboard/reload", nil))
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))
	assert.Contains(t, second.Body.String(), `"type":"rate_limited"`)

	retry, err := strconv.Atoi(second.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, retry, 1)
	assert.LessOrEqual(t, retry, 60)

	// The throttled call never reaches the dataset.
	assert.Equal(t, 1, src.reloads)

	// Another address has its own bucket.
	other := httptest.NewRequest(http.MethodPost, "/api/dashboard/reload", nil)
	other.RemoteAddr = "198.51.100.7:4000"
	assert.Equal(t, http.StatusOK, serve(srv, other).Code)

	assert.Equal(t, map[string]int64{"allowed": 2, "throttled": 1}, reloadOutcomes(t, reader))
}

func TestReloadLimiterErrorIsUnavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	srv := newDashboardTestServer(t, &fakeDatasetSource{ds: testDataset()})
	srv.reloadLimiter = ratelimit.NewReloadLimiter(ratelimit.ReloadParams{
		Config: config.Config{Dashboard: config.DashboardConfig{ReloadPerMinute: 1}},
		Client: client,
	})
	mr.Close()

	resp := serve(srv, httptest.NewRequest(http.MethodPost, "/api/dashboard/reload", nil))
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}
