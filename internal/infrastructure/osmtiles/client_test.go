package osmtiles

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
)

func TestClient_FetchTile(t *testing.T) {
	var path, ua string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		ua = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer server.Close()

	client := NewTileClient(&config.ProvidersConfig{
		TileBaseURL:    server.URL + "/",
		UserAgent:      "cme-test/1.0",
		RequestTimeout: 5 * time.Second,
	}, zap.NewNop())

	data, err := client.FetchTile(context.Background(), 10, 550, 335)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
	assert.Equal(t, "/10/550/335.png", path)
	assert.Equal(t, "cme-test/1.0", ua)
}

func TestClient_FetchTileRejectsNonImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, "blocked")
	}))
	defer server.Close()

	client := NewTileClient(&config.ProvidersConfig{TileBaseURL: server.URL}, zap.NewNop())

	data, err := client.FetchTile(context.Background(), 1, 0, 0)
	assert.Error(t, err)
	assert.Nil(t, data)
}
