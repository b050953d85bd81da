// Package geocode resolves orphanage street addresses to coordinates via the
// Google Geocoding API. One blocking call per lookup, no retry; a failure is
// surfaced to the admin who typed the address.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const endpoint = "https://maps.googleapis.com/maps/api/geocode/json"

type Client struct {
	apiKey string
	http   *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey: apiKey,
		http:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Result is a resolved coordinate pair.
type Result struct {
	Latitude  float64
	Longitude float64
	Formatted string
}

type apiResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Forward geocodes an address. Bali addresses are often imprecise, so the
// first candidate is taken as-is; the admin can always override the
// coordinates by hand.
func (c *Client) Forward(ctx context.Context, address string) (*Result, error) {
	q := url.Values{}
	q.Set("address", address)
	q.Set("region", "id")
	q.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build geocode request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode request: status %d", resp.StatusCode)
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode geocode response: %w", err)
	}
	if body.Status != "OK" || len(body.Results) == 0 {
		return nil, fmt.Errorf("geocode %q: no result (status %s)", address, body.Status)
	}

	first := body.Results[0]
	return &Result{
		Latitude:  first.Geometry.Location.Lat,
		Longitude: first.Geometry.Location.Lng,
		Formatted: first.FormattedAddress,
	}, nil
}
