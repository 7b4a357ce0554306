package tilemath

import "math"

// Viewport - прямоугольник карты заданного размера вокруг центра
type Viewport struct {
	Zoom   int
	Width  int
	Height int

	// мировые пиксельные координаты левого верхнего угла
	OriginX float64
	OriginY float64
}

// Placement - тайл и его смещение внутри изображения
type Placement struct {
	Tile    Tile
	OffsetX int
	OffsetY int
}

// NewViewport строит окно карты с центром в (lat, lng)
func NewViewport(lat, lng float64, zoom, width, height int) Viewport {
	cx, cy := LatLngToPixel(lat, lng, zoom)
	return Viewport{
		Zoom:    zoom,
		Width:   width,
		Height:  height,
		OriginX: cx - float64(width)/2,
		OriginY: cy - float64(height)/2,
	}
}

// Project - позиция точки в пикселях изображения
func (v Viewport) Project(lat, lng float64) (x, y float64) {
	px, py := LatLngToPixel(lat, lng, v.Zoom)
	return px - v.OriginX, py - v.OriginY
}

// Tiles - тайлы, покрывающие окно. По долготе тайлы заворачиваются через
// антимеридиан, строки за пределами проекции пропускаются.
func (v Viewport) Tiles() []Placement {
	n := 1 << uint(v.Zoom)

	minTX := int(math.Floor(v.OriginX / TileSize))
	minTY := int(math.Floor(v.OriginY / TileSize))
	maxTX := int(math.Floor((v.OriginX + float64(v.Width) - 1) / TileSize))
	maxTY := int(math.Floor((v.OriginY + float64(v.Height) - 1) / TileSize))

	placements := make([]Placement, 0, (maxTX-minTX+1)*(maxTY-minTY+1))
	for ty := minTY; ty <= maxTY; ty++ {
		if ty < 0 || ty >= n {
			continue
		}
		for tx := minTX; tx <= maxTX; tx++ {
			placements = append(placements, Placement{
				Tile: Tile{
					X: ((tx % n) + n) % n,
					Y: ty,
					Z: v.Zoom,
				},
				OffsetX: int(math.Round(float64(tx*TileSize) - v.OriginX)),
				OffsetY: int(math.Round(float64(ty*TileSize) - v.OriginY)),
			})
		}
	}
	return placements
}
