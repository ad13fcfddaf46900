package geo

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/orlic/leadtap/internal/model"
)

const defaultNominatimURL = "https://nominatim.openstreetmap.org"

// Geocoder resolves street addresses to coordinates through Nominatim.
type Geocoder struct {
	client *resty.Client
}

// NewGeocoder builds a geocoder against the given Nominatim base URL.
// Nominatim's usage policy requires an identifying user agent.
func NewGeocoder(baseURL, userAgent string) *Geocoder {
	if baseURL == "" {
		baseURL = defaultNominatimURL
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json")
	return &Geocoder{client: client}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	OSMID       int64  `json:"osm_id"`
	OSMType     string `json:"osm_type"`
}

// Lookup geocodes an address. It returns (nil, nil) when Nominatim has no
// match, so callers can distinguish "not found" from transport failures.
func (g *Geocoder) Lookup(ctx context.Context, address string) (*model.OSMPlace, error) {
	var results []nominatimResult
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":      address,
			"format": "json",
			"limit":  "1",
		}).
		SetResult(&results).
		Get("/search")
	if err != nil {
		return nil, fmt.Errorf("nominatim request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("nominatim status %d", resp.StatusCode())
	}
	if len(results) == 0 {
		return nil, nil
	}

	r := results[0]
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("nominatim lat %q: %w", r.Lat, err)
	}
	lon, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("nominatim lon %q: %w", r.Lon, err)
	}

	return &model.OSMPlace{
		Lat:         lat,
		Lon:         lon,
		DisplayName: r.DisplayName,
		OSMID:       r.OSMID,
		OSMType:     r.OSMType,
	}, nil
}
