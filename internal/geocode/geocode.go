// Package geocode resolves street addresses to coordinates through the
// Naver Cloud geocoding API.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultEndpoint is the Naver Cloud map-geocode API.
const DefaultEndpoint = "https://maps.apigw.ntruss.com/map-geocode/v2/geocode"

// DefaultTimeout is the HTTP request timeout for geocoding calls.
const DefaultTimeout = 10 * time.Second

// Coordinates is a resolved latitude/longitude pair.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Error represents a geocoding failure.
type Error struct {
	Address  string
	Message  string
	NotFound bool
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("geocode error for %q: %s: %v", e.Address, e.Message, e.Cause)
	}
	return fmt.Sprintf("geocode error for %q: %s", e.Address, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Client calls the Naver geocoding API.
type Client struct {
	apiKeyID   string
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a geocoding client. The key pair comes from the Naver
// Cloud console.
func NewClient(apiKeyID, apiKey string) (*Client, error) {
	if apiKeyID == "" || apiKey == "" {
		return nil, fmt.Errorf("naver API credentials are required")
	}
	return &Client{
		apiKeyID:   apiKeyID,
		apiKey:     apiKey,
		endpoint:   DefaultEndpoint,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}, nil
}

// WithEndpoint overrides the API endpoint. Used in tests.
func (c *Client) WithEndpoint(endpoint string) *Client {
	c.endpoint = endpoint
	return c
}

// WithHTTPClient overrides the underlying HTTP client.
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	c.httpClient = httpClient
	return c
}

type geocodeResponse struct {
	Status    string `json:"status"`
	Addresses []struct {
		X string `json:"x"` // longitude
		Y string `json:"y"` // latitude
	} `json:"addresses"`
}

// Resolve geocodes an address. The first match wins; an empty result set is
// reported as a NotFound error.
func (c *Client) Resolve(ctx context.Context, address string) (*Coordinates, error) {
	if address == "" {
		return nil, &Error{Address: address, Message: "address is required"}
	}

	reqURL := c.endpoint + "?query=" + url.QueryEscape(address)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &Error{Address: address, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("X-NCP-APIGW-API-KEY-ID", c.apiKeyID)
	req.Header.Set("X-NCP-APIGW-API-KEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Address: address, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Address: address, Message: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Address: address, Message: "failed to read response body", Cause: err}
	}

	var parsed geocodeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &Error{Address: address, Message: "failed to parse response", Cause: err}
	}

	if parsed.Status != "OK" || len(parsed.Addresses) == 0 {
		return nil, &Error{Address: address, Message: "no coordinates found", NotFound: true}
	}

	first := parsed.Addresses[0]
	lat, err := strconv.ParseFloat(first.Y, 64)
	if err != nil {
		return nil, &Error{Address: address, Message: "invalid latitude in response", Cause: err}
	}
	lon, err := strconv.ParseFloat(first.X, 64)
	if err != nil {
		return nil, &Error{Address: address, Message: "invalid longitude in response", Cause: err}
	}

	return &Coordinates{Latitude: lat, Longitude: lon}, nil
}
