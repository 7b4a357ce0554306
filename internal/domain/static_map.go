package domain

import "time"

// StaticMapRequest - параметры статической карты
type StaticMapRequest struct {
	Center  *Coordinate
	Markers []Coordinate
	Width   int
	Height  int
	Zoom    *int
}

// MapImage - отрендеренное изображение карты
type MapImage struct {
	Data        []byte
	ContentType string
	Zoom        int
	Center      Coordinate
	Source      string
	CreatedAt   time.Time
}
