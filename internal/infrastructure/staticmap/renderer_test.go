package staticmap

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cme-savings-service/internal/domain"
	"github.com/cme-savings-service/internal/pkg/tilemath"
)

var tileColor = color.RGBA{R: 0x10, G: 0x80, B: 0x10, A: 0xff}

type fakeTiles struct {
	mu        sync.Mutex
	requested []string
	fail      bool
}

func (f *fakeTiles) FetchTile(_ context.Context, z, x, y int) ([]byte, error) {
	f.mu.Lock()
	f.requested = append(f.requested, tilemath.Tile{X: x, Y: y, Z: z}.String())
	f.mu.Unlock()

	if f.fail {
		return nil, errors.New("tile server down")
	}

	img := image.NewRGBA(image.Rect(0, 0, tilemath.TileSize, tilemath.TileSize))
	for i := range img.Pix {
		img.Pix[i] = []uint8{tileColor.R, tileColor.G, tileColor.B, tileColor.A}[i%4]
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func TestRenderer_Render(t *testing.T) {
	tiles := &fakeTiles{}
	r := NewRenderer(tiles, zap.NewNop())

	center := domain.Coordinate{Lat: 52.52, Lon: 13.405}
	req := domain.StaticMapRequest{
		Markers: []domain.Coordinate{center},
		Width:   600,
		Height:  400,
	}

	result, err := r.Render(context.Background(), center, 12, req)
	require.NoError(t, err)

	assert.Equal(t, "image/png", result.ContentType)
	assert.Equal(t, SourceComposite, result.Source)
	assert.Equal(t, 12, result.Zoom)
	assert.Equal(t, center, result.Center)
	assert.Len(t, tiles.requested, len(tilemath.NewViewport(center.Lat, center.Lon, 12, 600, 400).Tiles()))

	img, err := png.Decode(bytes.NewReader(result.Data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 600, 400), img.Bounds())

	// маркер в центре изображения
	cr, cg, cb, _ := img.At(300, 200).RGBA()
	assert.Equal(t, uint32(markerFill.R)*0x101, cr)
	assert.Equal(t, uint32(markerFill.G)*0x101, cg)
	assert.Equal(t, uint32(markerFill.B)*0x101, cb)

	// угол вне маркера и подписи залит тайлом
	tr, tg, tb, _ := img.At(5, 5).RGBA()
	assert.Equal(t, uint32(tileColor.R)*0x101, tr)
	assert.Equal(t, uint32(tileColor.G)*0x101, tg)
	assert.Equal(t, uint32(tileColor.B)*0x101, tb)
}

func TestRenderer_AllTilesFail(t *testing.T) {
	r := NewRenderer(&fakeTiles{fail: true}, zap.NewNop())

	center := domain.Coordinate{Lat: 48.137, Lon: 11.575}
	_, err := r.Render(context.Background(), center, 10, domain.StaticMapRequest{
		Markers: []domain.Coordinate{center},
		Width:   300,
		Height:  200,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tile server down")
}

func TestCircleMask(t *testing.T) {
	c := &circle{center: image.Point{X: 10, Y: 10}, radius: 3}

	assert.Equal(t, image.Rect(7, 7, 14, 14), c.Bounds())
	assert.Equal(t, color.Alpha{A: 0xff}, c.At(10, 13))
	assert.Equal(t, color.Alpha{}, c.At(13, 13))
}
