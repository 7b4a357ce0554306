// Package staticmap - локальная сборка статической карты из растровых тайлов OSM
package staticmap

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/sync/errgroup"

	"github.com/cme-savings-service/internal/domain"
	"github.com/cme-savings-service/internal/domain/repository"
	"github.com/cme-savings-service/internal/pkg/tilemath"
)

const (
	// SourceComposite - карта собрана локально из тайлов
	SourceComposite = "osm_composite"

	Attribution = "© OpenStreetMap contributors"

	markerRadius     = 9
	markerBorder     = 2
	fetchConcurrency = 4
	attributionSize  = 10
	attributionPad   = 3
)

var (
	backgroundColor = color.RGBA{R: 0xe5, G: 0xe3, B: 0xdf, A: 0xff}
	markerFill      = color.RGBA{R: 0xd3, G: 0x2f, B: 0x2f, A: 0xff}
	markerStroke    = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	labelBackground = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xb4}
	labelColor      = color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
)

// Renderer реализует StaticMapProvider поверх источника тайлов
type Renderer struct {
	tiles  repository.TileProvider
	logger *zap.Logger
	face   font.Face
}

func NewRenderer(tiles repository.TileProvider, logger *zap.Logger) *Renderer {
	return &Renderer{
		tiles:  tiles,
		logger: logger,
		face:   attributionFace(logger),
	}
}

func (r *Renderer) Name() string {
	return SourceComposite
}

// Render собирает PNG: тайлы, маркеры в порядке запроса, подпись OSM
func (r *Renderer) Render(ctx context.Context, center domain.Coordinate, zoom int, req domain.StaticMapRequest) (*domain.MapImage, error) {
	vp := tilemath.NewViewport(center.Lat, center.Lon, zoom, req.Width, req.Height)

	canvas := image.NewRGBA(image.Rect(0, 0, req.Width, req.Height))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: backgroundColor}, image.Point{}, draw.Src)

	if err := r.drawTiles(ctx, canvas, vp); err != nil {
		return nil, err
	}

	for _, m := range req.Markers {
		x, y := vp.Project(m.Lat, m.Lon)
		drawMarker(canvas, int(math.Round(x)), int(math.Round(y)))
	}

	r.drawAttribution(canvas)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("failed to encode static map: %w", err)
	}

	return &domain.MapImage{
		Data:        buf.Bytes(),
		ContentType: "image/png",
		Zoom:        zoom,
		Center:      center,
		Source:      SourceComposite,
		CreatedAt:   time.Now(),
	}, nil
}

// drawTiles загружает тайлы параллельно. Недоступный тайл остаётся фоном,
// ошибка возвращается только если не загрузился ни один.
func (r *Renderer) drawTiles(ctx context.Context, canvas *image.RGBA, vp tilemath.Viewport) error {
	placements := vp.Tiles()
	if len(placements) == 0 {
		return nil
	}

	var (
		mu       sync.Mutex
		loaded   int
		firstErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for _, p := range placements {
		g.Go(func() error {
			tile, err := r.loadTile(gctx, p.Tile)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				r.logger.Warn("Failed to load tile for static map",
					zap.String("tile", p.Tile.String()),
					zap.Error(err))
				return nil
			}
			dst := image.Rect(p.OffsetX, p.OffsetY, p.OffsetX+tilemath.TileSize, p.OffsetY+tilemath.TileSize)
			draw.Draw(canvas, dst, tile, tile.Bounds().Min, draw.Src)
			loaded++
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	if loaded == 0 {
		return fmt.Errorf("no tiles available for static map: %w", firstErr)
	}
	return nil
}

func (r *Renderer) loadTile(ctx context.Context, t tilemath.Tile) (image.Image, error) {
	data, err := r.tiles.FetchTile(ctx, t.Z, t.X, t.Y)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode tile %s: %w", t, err)
	}
	return img, nil
}

func (r *Renderer) drawAttribution(canvas *image.RGBA) {
	b := canvas.Bounds()
	metrics := r.face.Metrics()
	textWidth := font.MeasureString(r.face, Attribution).Ceil()
	textHeight := metrics.Height.Ceil()

	box := image.Rect(
		b.Max.X-textWidth-2*attributionPad, b.Max.Y-textHeight-2*attributionPad,
		b.Max.X, b.Max.Y,
	).Intersect(b)
	draw.Draw(canvas, box, &image.Uniform{C: labelBackground}, image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(labelColor),
		Face: r.face,
		Dot:  fixed.P(box.Min.X+attributionPad, box.Min.Y+attributionPad+metrics.Ascent.Ceil()),
	}
	d.DrawString(Attribution)
}

func drawMarker(canvas *image.RGBA, x, y int) {
	outer := &circle{center: image.Point{X: x, Y: y}, radius: markerRadius + markerBorder}
	inner := &circle{center: image.Point{X: x, Y: y}, radius: markerRadius}
	draw.DrawMask(canvas, outer.Bounds(), &image.Uniform{C: markerStroke}, image.Point{}, outer, outer.Bounds().Min, draw.Over)
	draw.DrawMask(canvas, inner.Bounds(), &image.Uniform{C: markerFill}, image.Point{}, inner, inner.Bounds().Min, draw.Over)
}

// circle - маска круга для draw.DrawMask
type circle struct {
	center image.Point
	radius int
}

func (c *circle) ColorModel() color.Model {
	return color.AlphaModel
}

func (c *circle) Bounds() image.Rectangle {
	return image.Rect(c.center.X-c.radius, c.center.Y-c.radius, c.center.X+c.radius+1, c.center.Y+c.radius+1)
}

func (c *circle) At(x, y int) color.Color {
	dx, dy := x-c.center.X, y-c.center.Y
	if dx*dx+dy*dy <= c.radius*c.radius {
		return color.Alpha{A: 0xff}
	}
	return color.Alpha{}
}

// attributionFace - Go Regular, при ошибке разбора шрифта - встроенный 7x13
func attributionFace(logger *zap.Logger) font.Face {
	f, err := opentype.Parse(goregular.TTF)
	if err == nil {
		var face font.Face
		face, err = opentype.NewFace(f, &opentype.FaceOptions{
			Size:    attributionSize,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err == nil {
			return face
		}
	}
	logger.Warn("Falling back to basic font for attribution", zap.Error(err))
	return basicfont.Face7x13
}
