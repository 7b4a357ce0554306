// Package tilemath - Web Mercator (Slippy Map) преобразования координат,
// тайлов и пикселей для статических карт виджета.
package tilemath

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

const (
	// TileSize - размер растрового тайла в пикселях
	TileSize = 256

	// MaxLatitude - граница проекции Web Mercator
	MaxLatitude = 85.05112878

	MaxZoom = 22
)

// Tile - адрес тайла (x, y, zoom)
type Tile struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

func (t Tile) String() string {
	return fmt.Sprintf("%d/%d/%d", t.Z, t.X, t.Y)
}

// Valid - тайл существует на своём уровне зума
func (t Tile) Valid() bool {
	if t.Z < 0 || t.Z > MaxZoom {
		return false
	}
	n := 1 << uint(t.Z)
	return t.X >= 0 && t.X < n && t.Y >= 0 && t.Y < n
}

// LatLngToTile - индекс тайла, содержащего точку
//
//	x = floor(((lng+180)/360) * 2^zoom)
//	y = floor(((1 - asinh(tan(lat_rad))/π)/2) * 2^zoom)
func LatLngToTile(lat, lng float64, zoom int) Tile {
	n := math.Exp2(float64(zoom))
	latRad := clampLatitude(lat) * math.Pi / 180

	x := math.Floor(((lng + 180) / 360) * n)
	y := math.Floor(((1 - math.Asinh(math.Tan(latRad))/math.Pi) / 2) * n)

	return Tile{
		X: clampIndex(x, n),
		Y: clampIndex(y, n),
		Z: zoom,
	}
}

// TileToLatLng - координаты северо-западного угла тайла
func TileToLatLng(x, y, zoom int) (lat, lng float64) {
	n := math.Exp2(float64(zoom))
	lng = float64(x)/n*360 - 180
	lat = math.Atan(math.Sinh(math.Pi*(1-2*float64(y)/n))) * 180 / math.Pi
	return lat, lng
}

// LatLngToPixel - мировые пиксельные координаты точки на заданном зуме
func LatLngToPixel(lat, lng float64, zoom int) (px, py float64) {
	scale := TileSize * math.Exp2(float64(zoom))
	latRad := clampLatitude(lat) * math.Pi / 180

	px = (lng + 180) / 360 * scale
	py = (1 - math.Asinh(math.Tan(latRad))/math.Pi) / 2 * scale
	return px, py
}

// PixelToLatLng - обратное преобразование мировых пикселей в координаты
func PixelToLatLng(px, py float64, zoom int) (lat, lng float64) {
	scale := TileSize * math.Exp2(float64(zoom))

	lng = px/scale*360 - 180
	lat = math.Atan(math.Sinh(math.Pi*(1-2*py/scale))) * 180 / math.Pi
	return lat, lng
}

// TileBound - географические границы тайла
func TileBound(t Tile) orb.Bound {
	north, west := TileToLatLng(t.X, t.Y, t.Z)
	south, east := TileToLatLng(t.X+1, t.Y+1, t.Z)
	return orb.Bound{
		Min: orb.Point{west, south},
		Max: orb.Point{east, north},
	}
}

func clampLatitude(lat float64) float64 {
	return math.Max(-MaxLatitude, math.Min(MaxLatitude, lat))
}

func clampIndex(v, n float64) int {
	if v < 0 {
		return 0
	}
	if v > n-1 {
		return int(n - 1)
	}
	return int(v)
}
