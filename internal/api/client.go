// Package api is a client for the Al Adhan prayer times API, used to
// cross-check locally computed schedules.
package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/smokyabdulrahman/salah/internal/calendar"
	"github.com/smokyabdulrahman/salah/internal/fetch"
)

const defaultBaseURL = "https://api.aladhan.com/v1"

// Client communicates with the Al Adhan prayer times API.
type Client struct {
	fetcher *fetch.Client
	// BaseURL is the API base URL. Defaults to the Al Adhan API.
	// Exported for testing with httptest.
	BaseURL string
}

// NewClient creates a new API client with sensible defaults.
func NewClient() *Client {
	return &Client{
		fetcher: fetch.New(),
		BaseURL: defaultBaseURL,
	}
}

// NewClientWith creates a client that uses the given fetcher.
func NewClientWith(f *fetch.Client, baseURL string) *Client {
	return &Client{fetcher: f, BaseURL: baseURL}
}

// Query selects the remote schedule to fetch.
type Query struct {
	Date      calendar.Date
	Latitude  float64
	Longitude float64
	Method    int // Al Adhan method id
	School    int // 0 Shafi, 1 Hanafi
}

// FetchTimings fetches the remote schedule for q.
func (c *Client) FetchTimings(ctx context.Context, q Query) (*Response, error) {
	endpoint := fmt.Sprintf("%s/timings/%02d-%02d-%04d", c.BaseURL, q.Date.Day, int(q.Date.Month), q.Date.Year)

	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(q.Latitude, 'f', 6, 64))
	params.Set("longitude", strconv.FormatFloat(q.Longitude, 'f', 6, 64))
	params.Set("method", strconv.Itoa(q.Method))
	params.Set("school", strconv.Itoa(q.School))

	var resp Response
	if err := c.fetcher.GetJSON(ctx, endpoint+"?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	if resp.Code != 200 {
		return nil, fmt.Errorf("API error: code=%d status=%s", resp.Code, resp.Status)
	}
	return &resp, nil
}
