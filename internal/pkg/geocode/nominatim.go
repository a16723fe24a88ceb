// Package geocode is a small client for the Nominatim reverse geocoding API.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/geocode"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const SourceNominatim = "nominatim"

var ErrNoResult = errors.New("no place found for coordinates")

type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
	Address     struct {
		City     string `json:"city"`
		Town     string `json:"town"`
		Village  string `json:"village"`
		State    string `json:"state"`
		Country  string `json:"country"`
		Postcode string `json:"postcode"`
	} `json:"address"`
}

// Reverse resolves coordinates to a place.
func (c *Client) Reverse(ctx context.Context, lat, lng float64) (geocode.Place, error) {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("zoom", "18")
	q.Set("addressdetails", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return geocode.Place{}, err
	}
	// Nominatim's usage policy requires an identifying User-Agent.
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return geocode.Place{}, fmt.Errorf("nominatim request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return geocode.Place{}, fmt.Errorf("nominatim returned status %d", resp.StatusCode)
	}

	var body reverseResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return geocode.Place{}, fmt.Errorf("failed to decode nominatim response: %w", err)
	}
	if body.Error != "" || body.DisplayName == "" {
		return geocode.Place{}, ErrNoResult
	}

	city := body.Address.City
	if city == "" {
		city = body.Address.Town
	}
	if city == "" {
		city = body.Address.Village
	}

	return geocode.Place{
		DisplayName: body.DisplayName,
		City:        optional(city),
		State:       optional(body.Address.State),
		Country:     optional(body.Address.Country),
		Postcode:    optional(body.Address.Postcode),
		Source:      SourceNominatim,
	}, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
