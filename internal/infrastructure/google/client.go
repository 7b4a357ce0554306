// Package google - клиент Google Maps Platform: геокодирование,
// Distance Matrix и Static Maps
package google

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cme-savings-service/internal/config"
	"github.com/cme-savings-service/internal/domain"
	"github.com/cme-savings-service/internal/infrastructure/httpclient"
)

const (
	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
	statusNotFound    = "NOT_FOUND"

	// Без премиум-плана Static Maps отдаёт не больше 640px по стороне, больше - через scale=2
	maxStaticSide = 640
)

type addressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

type geocodeResult struct {
	FormattedAddress  string             `json:"formatted_address"`
	AddressComponents []addressComponent `json:"address_components"`
	Geometry          struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
}

type geocodeResponse struct {
	Status       string          `json:"status"`
	ErrorMessage string          `json:"error_message,omitempty"`
	Results      []geocodeResult `json:"results"`
}

type valueField struct {
	Value float64 `json:"value"`
}

type distanceMatrixResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
	Rows         []struct {
		Elements []struct {
			Status   string     `json:"status"`
			Distance valueField `json:"distance"`
			Duration valueField `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
}

// Client реализует GeocodingProvider, RoutingProvider и StaticMapProvider
type Client struct {
	http    *httpclient.Client
	baseURL string
	apiKey  string
	region  string
	logger  *zap.Logger
}

func NewGoogleClient(cfg *config.ProvidersConfig, logger *zap.Logger) *Client {
	region := ""
	if len(cfg.CountryCodes) > 0 {
		region = cfg.CountryCodes[0]
	}
	return &Client{
		http: httpclient.New(httpclient.Options{
			Name:      domain.SourceGoogle,
			Timeout:   cfg.RequestTimeout,
			UserAgent: cfg.UserAgent,
		}, logger),
		baseURL: strings.TrimRight(cfg.GoogleBaseURL, "/"),
		apiKey:  cfg.GoogleAPIKey,
		region:  region,
		logger:  logger,
	}
}

func (c *Client) Name() string {
	return domain.SourceGoogle
}

func (c *Client) Geocode(ctx context.Context, query string) (*domain.GeocodeResult, error) {
	params := url.Values{}
	params.Set("address", query)
	params.Set("key", c.apiKey)
	if c.region != "" {
		params.Set("region", c.region)
	}

	result, err := c.geocode(ctx, params)
	if result != nil {
		result.Query = query
	}
	return result, err
}

func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (*domain.GeocodeResult, error) {
	params := url.Values{}
	params.Set("latlng", formatLatLng(domain.Coordinate{Lat: lat, Lon: lon}))
	params.Set("key", c.apiKey)

	return c.geocode(ctx, params)
}

func (c *Client) geocode(ctx context.Context, params url.Values) (*domain.GeocodeResult, error) {
	var resp geocodeResponse
	if err := c.http.GetJSON(ctx, c.baseURL+"/maps/api/geocode/json?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	switch resp.Status {
	case statusOK:
	case statusZeroResults:
		return nil, nil
	default:
		c.logger.Error("Google Geocoding API returned error status",
			zap.String("status", resp.Status),
			zap.String("message", resp.ErrorMessage))
		return nil, fmt.Errorf("google geocoding status: %s", resp.Status)
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}

	r := resp.Results[0]
	result := &domain.GeocodeResult{
		DisplayName: r.FormattedAddress,
		Lat:         r.Geometry.Location.Lat,
		Lon:         r.Geometry.Location.Lng,
		Source:      domain.SourceGoogle,
	}
	for _, comp := range r.AddressComponents {
		switch {
		case hasType(comp, "route"):
			result.Street = comp.LongName
		case hasType(comp, "street_number"):
			result.HouseNumber = comp.LongName
		case hasType(comp, "postal_code"):
			result.PostalCode = comp.LongName
		case hasType(comp, "locality"):
			result.City = comp.LongName
		case hasType(comp, "country"):
			result.CountryCode = strings.ToLower(comp.ShortName)
		}
	}
	return result, nil
}

// Route - расстояние через Distance Matrix API
func (c *Client) Route(ctx context.Context, from, to domain.Coordinate) (*domain.Route, error) {
	params := url.Values{}
	params.Set("origins", formatLatLng(from))
	params.Set("destinations", formatLatLng(to))
	params.Set("mode", "driving")
	params.Set("units", "metric")
	params.Set("key", c.apiKey)

	var resp distanceMatrixResponse
	if err := c.http.GetJSON(ctx, c.baseURL+"/maps/api/distancematrix/json?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	if resp.Status != statusOK {
		c.logger.Error("Google Distance Matrix API returned error status",
			zap.String("status", resp.Status),
			zap.String("message", resp.ErrorMessage))
		return nil, fmt.Errorf("google distance matrix status: %s", resp.Status)
	}
	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return nil, nil
	}

	el := resp.Rows[0].Elements[0]
	switch el.Status {
	case statusOK:
	case statusZeroResults, statusNotFound:
		return nil, nil
	default:
		return nil, fmt.Errorf("google distance matrix element status: %s", el.Status)
	}

	return &domain.Route{
		From:       from,
		To:         to,
		DistanceKm: el.Distance.Value / 1000,
		Duration:   time.Duration(el.Duration.Value) * time.Second,
		Source:     domain.SourceGoogle,
	}, nil
}

// Render - PNG через Static Maps API
func (c *Client) Render(ctx context.Context, center domain.Coordinate, zoom int, req domain.StaticMapRequest) (*domain.MapImage, error) {
	width, height, scale := req.Width, req.Height, 1
	if width > maxStaticSide || height > maxStaticSide {
		scale = 2
		width = (width + 1) / 2
		height = (height + 1) / 2
	}

	markers := make([]string, 0, len(req.Markers)+1)
	markers = append(markers, "color:red")
	for _, m := range req.Markers {
		markers = append(markers, formatLatLng(m))
	}

	params := url.Values{}
	params.Set("center", formatLatLng(center))
	params.Set("zoom", strconv.Itoa(zoom))
	params.Set("size", fmt.Sprintf("%dx%d", width, height))
	params.Set("scale", strconv.Itoa(scale))
	params.Set("format", "png")
	params.Set("markers", strings.Join(markers, "|"))
	params.Set("key", c.apiKey)

	resp, err := c.http.Get(ctx, c.baseURL+"/maps/api/staticmap?"+params.Encode())
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(resp.ContentType, "image/") {
		return nil, fmt.Errorf("google static maps returned %q instead of an image", resp.ContentType)
	}

	return &domain.MapImage{
		Data:        resp.Body,
		ContentType: resp.ContentType,
		Zoom:        zoom,
		Center:      center,
		Source:      domain.SourceGoogle,
		CreatedAt:   time.Now(),
	}, nil
}

func formatLatLng(c domain.Coordinate) string {
	return strconv.FormatFloat(c.Lat, 'f', 6, 64) + "," + strconv.FormatFloat(c.Lon, 'f', 6, 64)
}

func hasType(comp addressComponent, t string) bool {
	for _, ct := range comp.Types {
		if ct == t {
			return true
		}
	}
	return false
}
