package osrm

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

var (
	berlin  = domain.Coordinate{Lat: 52.52, Lon: 13.405}
	potsdam = domain.Coordinate{Lat: 52.3906, Lon: 13.0645}
)

func newClient(url string) *client {
	return NewOSRMClient(&config.ProvidersConfig{
		OSRMBaseURL:    url + "/",
		RequestTimeout: 5 * time.Second,
	}, zap.NewNop()).(*client)
}

func TestClient_Route(t *testing.T) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_, _ = io.WriteString(w, `{"code":"Ok","routes":[{"distance":35123.7,"duration":2520}]}`)
	}))
	defer server.Close()

	route, err := newClient(server.URL).Route(context.Background(), berlin, potsdam)
	require.NoError(t, err)
	require.NotNil(t, route)

	assert.Equal(t, "/route/v1/driving/13.405000,52.520000;13.064500,52.390600", path)
	assert.InDelta(t, 35.1237, route.DistanceKm, 1e-9)
	assert.Equal(t, 42*time.Minute, route.Duration)
	assert.Equal(t, domain.SourceOSRM, route.Source)
	assert.Equal(t, berlin, route.From)
}

func TestClient_RouteNoRoute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"code":"NoRoute","message":"Impossible route between points"}`)
	}))
	defer server.Close()

	route, err := newClient(server.URL).Route(context.Background(), berlin, potsdam)
	assert.NoError(t, err)
	assert.Nil(t, route)
}

func TestClient_RouteInvalidQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"code":"InvalidQuery"}`)
	}))
	defer server.Close()

	route, err := newClient(server.URL).Route(context.Background(), berlin, potsdam)
	assert.Error(t, err)
	assert.Nil(t, route)
}
