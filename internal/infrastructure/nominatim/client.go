// Package nominatim - клиент OpenStreetMap Nominatim (search/reverse)
package nominatim

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/cme-savings-service/internal/config"
	"github.com/cme-savings-service/internal/domain"
	"github.com/cme-savings-service/internal/domain/repository"
	"github.com/cme-savings-service/internal/infrastructure/httpclient"
)

type address struct {
	Road        string `json:"road"`
	HouseNumber string `json:"house_number"`
	Postcode    string `json:"postcode"`
	City        string `json:"city"`
	Town        string `json:"town"`
	Village     string `json:"village"`
	CountryCode string `json:"country_code"`
}

func (a address) locality() string {
	switch {
	case a.City != "":
		return a.City
	case a.Town != "":
		return a.Town
	default:
		return a.Village
	}
}

// place - элемент ответа в формате jsonv2, координаты приходят строками
type place struct {
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	DisplayName string  `json:"display_name"`
	Address     address `json:"address"`
	Error       string  `json:"error,omitempty"`
}

type client struct {
	http         *httpclient.Client
	baseURL      string
	countryCodes []string
	logger       *zap.Logger
}

// NewNominatimClient создает клиент Nominatim.
// Usage policy требует осмысленный User-Agent и не более 1 запроса в секунду.
func NewNominatimClient(cfg *config.ProvidersConfig, logger *zap.Logger) repository.GeocodingProvider {
	return &client{
		http: httpclient.New(httpclient.Options{
			Name:      domain.SourceNominatim,
			Timeout:   cfg.RequestTimeout,
			UserAgent: cfg.UserAgent,
			RateLimit: cfg.NominatimRateLimit,
			Burst:     1,
		}, logger),
		baseURL:      strings.TrimRight(cfg.NominatimBaseURL, "/"),
		countryCodes: cfg.CountryCodes,
		logger:       logger,
	}
}

func (c *client) Name() string {
	return domain.SourceNominatim
}

func (c *client) Geocode(ctx context.Context, query string) (*domain.GeocodeResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("addressdetails", "1")
	params.Set("limit", "1")
	if len(c.countryCodes) > 0 {
		params.Set("countrycodes", strings.Join(c.countryCodes, ","))
	}

	var places []place
	if err := c.http.GetJSON(ctx, c.baseURL+"/search?"+params.Encode(), &places); err != nil {
		return nil, err
	}
	if len(places) == 0 {
		c.logger.Debug("Nominatim returned no results", zap.String("query", query))
		return nil, nil
	}

	result, err := places[0].toResult()
	if err != nil {
		return nil, err
	}
	result.Query = query
	return result, nil
}

func (c *client) ReverseGeocode(ctx context.Context, lat, lon float64) (*domain.GeocodeResult, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', 6, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', 6, 64))
	params.Set("format", "jsonv2")
	params.Set("addressdetails", "1")

	var p place
	if err := c.http.GetJSON(ctx, c.baseURL+"/reverse?"+params.Encode(), &p); err != nil {
		return nil, err
	}
	// Nominatim отвечает 200 с полем error, если адрес не найден
	if p.Error != "" {
		c.logger.Debug("Nominatim reverse lookup found nothing", zap.String("error", p.Error))
		return nil, nil
	}

	return p.toResult()
}

func (p place) toResult() (*domain.GeocodeResult, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid nominatim latitude %q: %w", p.Lat, err)
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid nominatim longitude %q: %w", p.Lon, err)
	}

	return &domain.GeocodeResult{
		DisplayName: p.DisplayName,
		Lat:         lat,
		Lon:         lon,
		Street:      p.Address.Road,
		HouseNumber: p.Address.HouseNumber,
		PostalCode:  p.Address.Postcode,
		City:        p.Address.locality(),
		CountryCode: p.Address.CountryCode,
		Source:      domain.SourceNominatim,
	}, nil
}
