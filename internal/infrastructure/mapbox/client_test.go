package mapbox

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cme-savings-service/internal/config"
	"github.com/cme-savings-service/internal/domain"
)

func testConfig(baseURL string) *config.ProvidersConfig {
	return &config.ProvidersConfig{
		MapboxAccessToken: "test_token",
		MapboxBaseURL:     baseURL,
		RequestTimeout:    5 * time.Second,
	}
}

func TestClient_Route(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	from := domain.Coordinate{Lat: 52.5200, Lon: 13.4050}
	to := domain.Coordinate{Lat: 52.3906, Lon: 13.0645}

	t.Run("successful request", func(t *testing.T) {
		var path string
		var query map[string][]string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			query = r.URL.Query()
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"code":"Ok","distances":[[35210.4]],"durations":[[2400.5]]}`)
		}))
		defer server.Close()

		client := NewMapboxClient(testConfig(server.URL), logger)

		route, err := client.Route(context.Background(), from, to)
		require.NoError(t, err)
		require.NotNil(t, route)

		assert.Equal(t, "/directions-matrix/v1/mapbox/driving/13.405000,52.520000;13.064500,52.390600", path)
		assert.Equal(t, []string{"test_token"}, query["access_token"])
		assert.Equal(t, []string{"distance,duration"}, query["annotations"])
		assert.InDelta(t, 35.2104, route.DistanceKm, 1e-6)
		assert.Equal(t, 2400500*time.Millisecond, route.Duration)
		assert.Equal(t, domain.SourceMapbox, route.Source)
		assert.Equal(t, domain.SourceMapbox, client.Name())
	})

	t.Run("no route", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"code":"Ok","distances":[[null]],"durations":[[null]]}`)
		}))
		defer server.Close()

		route, err := NewMapboxClient(testConfig(server.URL), logger).Route(context.Background(), from, to)
		assert.NoError(t, err)
		assert.Nil(t, route)
	})

	t.Run("non-OK code", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"code":"InvalidInput","message":"bad coordinates"}`)
		}))
		defer server.Close()

		route, err := NewMapboxClient(testConfig(server.URL), logger).Route(context.Background(), from, to)
		assert.Error(t, err)
		assert.Nil(t, route)
		assert.Contains(t, err.Error(), "InvalidInput")
	})

	t.Run("unauthorized", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"Not Authorized - Invalid Token"}`)
		}))
		defer server.Close()

		route, err := NewMapboxClient(testConfig(server.URL), logger).Route(context.Background(), from, to)
		assert.Error(t, err)
		assert.Nil(t, route)
		assert.Contains(t, err.Error(), "status 401")
	})
}
