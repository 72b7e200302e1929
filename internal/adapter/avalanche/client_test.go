package avalanche

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/avalanche-geofeed/internal/observability"
)

func testClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 2 * time.Second},
		breaker:    gobreaker.NewCircuitBreaker(gobreaker.Settings{Name: "test"}),
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestClient_RegionInfo_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/region/1", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":1,"title":"Tongariro","latitude":-39.13,"longitude":175.64,"geometry":"{\"layers\":[]}"}`)
	}))
	defer srv.Close()

	region, err := testClient(srv.URL).RegionInfo(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, region.ID)
	assert.Equal(t, "Tongariro", region.Title)
	assert.Equal(t, -39.13, region.Latitude)
	assert.Equal(t, 175.64, region.Longitude)
	assert.Equal(t, `{"layers":[]}`, region.RawGeometry)
}

func TestClient_RegionInfo_MissingIDBackfilled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"title":"Taranaki","latitude":-39.29,"longitude":174.06}`)
	}))
	defer srv.Close()

	region, err := testClient(srv.URL).RegionInfo(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, region.ID)
}

func TestClient_RegionInfo_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).RegionInfo(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestClient_RegionInfo_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.httpClient.Timeout = 20 * time.Millisecond

	_, err := c.RegionInfo(context.Background(), 1)
	require.Error(t, err)
}

func TestClient_Forecasts_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forecast", r.URL.Path)
		fmt.Fprint(w, `{"forecasts":[
			{"regionId":1,"altitudeDanger":[{"rating":3,"description":"Considerable"}],"created":"2025-01-01T00:00:00Z","validPeriod":"24hrs"},
			{"regionId":2,"altitudeDanger":[],"created":"2025-01-01T00:00:00Z","validPeriod":"48hrs"}
		]}`)
	}))
	defer srv.Close()

	forecasts, err := testClient(srv.URL).Forecasts(context.Background())
	require.NoError(t, err)

	require.Len(t, forecasts, 2)
	assert.Equal(t, 1, forecasts[0].RegionID)
	assert.Equal(t, 3, forecasts[0].AltitudeDanger[0].Rating)
	assert.Equal(t, "48hrs", forecasts[1].ValidPeriod)
}

func TestClient_Forecasts_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"forecasts": [`)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Forecasts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode forecast response")
}

func TestClient_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := &Client{
		baseURL:    srv.URL,
		httpClient: &http.Client{Timeout: time.Second},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: "test",
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 2
			},
		}),
		metrics: observability.NewMetricsForTesting(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for range 2 {
		_, err := c.Forecasts(context.Background())
		require.Error(t, err)
	}

	// Breaker is now open: the next call fails without reaching upstream.
	_, err := c.Forecasts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "advisory API unavailable")
	assert.Equal(t, 2, requests)
}
