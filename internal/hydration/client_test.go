package hydration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/totals-engine/internal/models"
)

var testKey = models.MatchupKey{SportID: "nfl", LowID: 10, HighID: 20, KeyedBy: models.KeyedByFranchise}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	client, err := NewClient(Config{BaseURL: url, APIKey: "secret", Timeout: 2 * time.Second}, quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestTriggerHydrationSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/hydrate", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get(APIKeyHeader))

		var req hydrateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, hydrateRequest{
			SportID: "nfl", EntityLowID: 10, EntityHighID: 20, KeyedBy: models.KeyedByFranchise, YearsBack: 10,
		}, req)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"inserted_count": 14, "total_count": 31}`))
	}))
	defer server.Close()

	res, err := newTestClient(t, server.URL+"/").TriggerHydration(context.Background(), testKey, 10)
	require.NoError(t, err)
	assert.Equal(t, models.HydrationResult{InsertedCount: 14, TotalCount: 31}, res)
}

func TestTriggerHydrationClientError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unknown sport", http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).TriggerHydration(context.Background(), testKey, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "unknown sport")
}

func TestTriggerHydrationDoesNotRetryByDefault(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).TriggerHydration(context.Background(), testKey, 10)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestTriggerHydrationHonorsContext(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := newTestClient(t, server.URL).TriggerHydration(ctx, testKey, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient(Config{}, quietLogger())
	assert.Error(t, err)
}

func TestCircuitBreakerOpens(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	cfg := DefaultHTTPClientConfig()
	cfg.RateLimit = 0
	cfg.CircuitBreakerMax = 2
	cfg.CircuitCooldown = time.Hour
	httpClient := NewRateLimitedHTTPClient(cfg, logrus.NewEntry(quietLogger()))

	for i := 0; i < 2; i++ {
		resp, err := httpClient.Post(context.Background(), server.URL, "application/json", nil, nil)
		require.NoError(t, err)
		resp.Body.Close()
	}

	_, err := httpClient.Post(context.Background(), server.URL, "application/json", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker open")
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
