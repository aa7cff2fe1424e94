// Package geo detects the user's approximate location from their public IP.
package geo

import (
	"context"
	"fmt"

	"github.com/smokyabdulrahman/salah/internal/fetch"
)

// Location holds geographic coordinates detected from the user's IP.
type Location struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Timezone  string  `json:"timezone"`
	Offset    int     `json:"offset"` // seconds east of UTC, DST included
}

// ipAPIResponse maps the response from ip-api.com.
type ipAPIResponse struct {
	Status   string  `json:"status"`
	Message  string  `json:"message"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	City     string  `json:"city"`
	Country  string  `json:"country"`
	Timezone string  `json:"timezone"`
	Offset   int     `json:"offset"`
}

// DefaultURL is the ip-api.com endpoint. It is free and requires no key.
const DefaultURL = "http://ip-api.com/json/?fields=status,message,lat,lon,city,country,timezone,offset"

// Detector looks up locations through an ip-api.com compatible endpoint.
type Detector struct {
	fetcher *fetch.Client
	URL     string
}

// NewDetector returns a detector for DefaultURL.
func NewDetector(f *fetch.Client) *Detector {
	if f == nil {
		f = fetch.New()
	}
	return &Detector{fetcher: f, URL: DefaultURL}
}

// Detect determines the caller's location from their public IP address.
func (d *Detector) Detect(ctx context.Context) (*Location, error) {
	var result ipAPIResponse
	if err := d.fetcher.GetJSON(ctx, d.URL, &result); err != nil {
		return nil, fmt.Errorf("geolocation request failed: %w", err)
	}

	if result.Status != "success" {
		return nil, fmt.Errorf("geolocation failed: %s", result.Message)
	}

	return &Location{
		Latitude:  result.Lat,
		Longitude: result.Lon,
		City:      result.City,
		Country:   result.Country,
		Timezone:  result.Timezone,
		Offset:    result.Offset,
	}, nil
}
