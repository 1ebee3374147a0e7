package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const geocoderUserAgent = "evolve-ev-app"

// Geocoder resolves a zip code or "city, state" string to coordinates
// via a Nominatim-compatible search endpoint.
type Geocoder struct {
	baseURL string
	client  HTTPDoer
	logger  *zap.Logger
}

// NewGeocoder builds geocoder.
func NewGeocoder(baseURL string, client HTTPDoer, logger *zap.Logger) *Geocoder {
	return &Geocoder{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger,
	}
}

type geocodeResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Locate converts a location string to latitude/longitude. Failures wrap
// ErrUnavailable so the station listing can degrade to local-only.
func (g *Geocoder) Locate(ctx context.Context, location string) (float64, float64, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return 0, 0, fmt.Errorf("%w: empty location", ErrUnavailable)
	}

	params := url.Values{}
	params.Set("q", location+", USA")
	params.Set("format", "json")
	params.Set("limit", "1")

	endpoint := g.baseURL + "/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, 0, err
	}
	req.Header.Set("User-Agent", geocoderUserAgent)

	var results []geocodeResult
	if err := getJSON(g.client, req, &results); err != nil {
		g.logger.Error("geocoding failed", zap.String("location", location), zap.Error(err))
		return 0, 0, err
	}
	if len(results) == 0 {
		g.logger.Warn("location not found", zap.String("location", location))
		return 0, 0, fmt.Errorf("%w: no match for %q", ErrUnavailable, location)
	}

	lat, latErr := strconv.ParseFloat(results[0].Lat, 64)
	lon, lonErr := strconv.ParseFloat(results[0].Lon, 64)
	if latErr != nil || lonErr != nil {
		return 0, 0, fmt.Errorf("%w: malformed coordinates", ErrUnavailable)
	}

	g.logger.Info("geocoded location",
		zap.String("location", location),
		zap.Float64("latitude", lat),
		zap.Float64("longitude", lon),
	)
	return lat, lon, nil
}
