package tilemath

import (
	"math"

	"github.com/paulmach/orb"
)

const (
	// MinAutoZoom и MaxAutoZoom - диапазон автоматически подобранного зума
	MinAutoZoom = 8
	MaxAutoZoom = 15

	// DefaultZoom - зум карты без маркеров
	DefaultZoom = 13
)

// Bounds - ограничивающий прямоугольник точек (orb.Point: {lng, lat})
func Bounds(points []orb.Point) orb.Bound {
	return orb.MultiPoint(points).Bound()
}

// Center - центр ограничивающего прямоугольника
func Center(points []orb.Point) orb.Point {
	return Bounds(points).Center()
}

// OptimalZoom - зум, при котором все маркеры помещаются на карту:
// floor(min(log2(360/latSpan), log2(360/lngSpan))) - 1, в пределах [8, 15].
// Нулевой размах по оси эту ось не ограничивает.
func OptimalZoom(points []orb.Point) int {
	if len(points) == 0 {
		return DefaultZoom
	}

	b := Bounds(points)
	latSpan := b.Max.Lat() - b.Min.Lat()
	lngSpan := b.Max.Lon() - b.Min.Lon()

	z := math.Inf(1)
	if latSpan > 0 {
		z = math.Min(z, math.Log2(360/latSpan))
	}
	if lngSpan > 0 {
		z = math.Min(z, math.Log2(360/lngSpan))
	}
	if math.IsInf(z, 1) {
		return MaxAutoZoom
	}

	return ClampZoom(int(math.Floor(z))-1, MinAutoZoom, MaxAutoZoom)
}

// ClampZoom ограничивает зум диапазоном
func ClampZoom(zoom, minZoom, maxZoom int) int {
	if zoom < minZoom {
		return minZoom
	}
	if zoom > maxZoom {
		return maxZoom
	}
	return zoom
}
