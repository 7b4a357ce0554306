package domain

import "time"

// Источники результата геокодирования и маршрутизации
const (
	SourceNominatim = "nominatim"
	SourceGoogle    = "google"
	SourceOSRM      = "osrm"
	SourceMapbox    = "mapbox"
	SourceOffline   = "offline"
	SourceEstimate  = "estimate"
)

// GeocodeResult - результат прямого или обратного геокодирования
type GeocodeResult struct {
	Query       string  `json:"query,omitempty"`
	DisplayName string  `json:"display_name"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Street      string  `json:"street,omitempty"`
	HouseNumber string  `json:"house_number,omitempty"`
	PostalCode  string  `json:"postal_code,omitempty"`
	City        string  `json:"city,omitempty"`
	CountryCode string  `json:"country_code,omitempty"`
	Source      string  `json:"source"`
	Cached      bool    `json:"-"`
}

// Coordinate - координата результата
func (r *GeocodeResult) Coordinate() Coordinate {
	return Coordinate{Lat: r.Lat, Lon: r.Lon}
}

// Route - дорожное расстояние и время в пути между двумя точками
type Route struct {
	From       Coordinate    `json:"from"`
	To         Coordinate    `json:"to"`
	DistanceKm float64       `json:"distance_km"`
	Duration   time.Duration `json:"duration"`
	Source     string        `json:"source"`
	Cached     bool          `json:"-"`
}

// DurationHours - время в пути в часах
func (r *Route) DurationHours() float64 {
	return r.Duration.Hours()
}

// OfflineLocation - строка офлайн-справочника населённых пунктов
type OfflineLocation struct {
	PostalCode  string  `db:"postal_code"`
	City        string  `db:"city"`
	State       string  `db:"state"`
	CountryCode string  `db:"country_code"`
	Lat         float64 `db:"lat"`
	Lon         float64 `db:"lon"`
}

// ToGeocodeResult - преобразование строки справочника в результат геокодирования
func (l *OfflineLocation) ToGeocodeResult(query string) *GeocodeResult {
	name := l.City
	if l.PostalCode != "" {
		name = l.PostalCode + " " + l.City
	}
	return &GeocodeResult{
		Query:       query,
		DisplayName: name,
		Lat:         l.Lat,
		Lon:         l.Lon,
		PostalCode:  l.PostalCode,
		City:        l.City,
		CountryCode: l.CountryCode,
		Source:      SourceOffline,
	}
}
