package http

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cme-savings-service/internal/config"
	"github.com/cme-savings-service/internal/delivery/http/handler"
)

func newTestServer() *Server {
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			AllowOrigins:        []string{"*"},
			EmbedAllowedOrigins: []string{"'self'"},
			RateLimitPerMinute:  100,
		},
	}
	logger := zap.NewNop()

	return NewServer(cfg, logger, Handlers{
		Calculator: handler.NewCalculatorHandler(nil, logger),
		Geocode:    handler.NewGeocodeHandler(nil, logger),
		Map:        handler.NewMapHandler(nil, logger),
		Tile:       handler.NewTileHandler(nil, logger),
		Stats:      handler.NewStatsHandler(nil, logger),
		Health:     handler.NewHealthHandler(nil, logger),
	})
}

func TestServer_HealthAndHeaders(t *testing.T) {
	s := newTestServer()

	resp, err := s.App().Test(httptest.NewRequest("GET", "/api/v1/health", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "frame-ancestors 'self'", resp.Header.Get("Content-Security-Policy"))
}

func TestServer_NotFoundUsesErrorEnvelope(t *testing.T) {
	s := newTestServer()

	resp, err := s.App().Test(httptest.NewRequest("GET", "/api/v1/unknown", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"code":"NOT_FOUND"`)
}

func TestServer_Metrics(t *testing.T) {
	s := newTestServer()

	_, err := s.App().Test(httptest.NewRequest("GET", "/api/v1/health", nil))
	require.NoError(t, err)

	resp, err := s.App().Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "cme_http_requests_total")
}
