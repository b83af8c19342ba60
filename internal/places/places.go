// Package places provides the business search gateway.
//
// A Client talks to the Google Places web service when an API key is
// configured and serves a fixed demo catalog otherwise.
package places

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"googlemaps.github.io/maps"

	"github.com/Briancute/local-lead-finder/internal/model"
)

// PlaceholderAPIKey is the value shipped in example env files. It is
// treated the same as an empty key.
const PlaceholderAPIKey = "your_google_maps_api_key_here"

// Defaults applied by NewClient.
const (
	DefaultBaseURL = "https://maps.googleapis.com"
	DefaultRegion  = "ph"
	DefaultTimeout = 10 * time.Second
)

// Common gateway errors.
var (
	ErrProviderStatus = errors.New("places provider returned an error status")
	ErrEmptyQuery     = errors.New("query or page token required")
)

// Gateway searches for businesses and looks up their details.
type Gateway interface {
	// Search runs a text search, or continues one when pageToken is set.
	Search(ctx context.Context, query, pageToken string) (*model.SearchPage, error)
	// Details returns nil, nil when the place is unknown in demo mode.
	Details(ctx context.Context, placeID string) (*model.PlaceDetails, error)
	// RefreshDetails is Details that never answers from a cache.
	RefreshDetails(ctx context.Context, placeID string) (*model.PlaceDetails, error)
	DemoMode() bool
}

// Config configures a Client.
type Config struct {
	APIKey  string
	BaseURL string
	Region  string
	Timeout time.Duration
}

// IsDemo reports whether an API key is absent.
func (c Config) IsDemo() bool {
	return c.APIKey == "" || c.APIKey == PlaceholderAPIKey
}

// Client implements Gateway.
type Client struct {
	cfg Config
	api *maps.Client // nil in demo mode
}

// NewClient creates a gateway client. httpClient may be nil.
func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	c := &Client{cfg: cfg}
	if cfg.IsDemo() {
		return c, nil
	}

	if httpClient == nil {
		httpClient = NewHTTPClient(cfg.Timeout)
	}
	mc, err := maps.NewClient(
		maps.WithAPIKey(cfg.APIKey),
		maps.WithBaseURL(cfg.BaseURL),
		maps.WithHTTPClient(checkStatus(httpClient)),
	)
	if err != nil {
		return nil, fmt.Errorf("create maps client: %w", err)
	}
	c.api = mc
	return c, nil
}

// DemoMode reports whether the client serves the demo catalog.
func (c *Client) DemoMode() bool {
	return c.api == nil
}

// Search runs a text search.
func (c *Client) Search(ctx context.Context, query, pageToken string) (*model.SearchPage, error) {
	if query == "" && pageToken == "" {
		return nil, ErrEmptyQuery
	}
	if c.DemoMode() {
		return demoSearch(query), nil
	}
	return c.textSearch(ctx, query, pageToken)
}

// Details looks up a single place.
func (c *Client) Details(ctx context.Context, placeID string) (*model.PlaceDetails, error) {
	if c.DemoMode() {
		return demoDetails(placeID), nil
	}
	return c.placeDetails(ctx, placeID)
}

// RefreshDetails looks up a single place. Client never caches.
func (c *Client) RefreshDetails(ctx context.Context, placeID string) (*model.PlaceDetails, error) {
	return c.Details(ctx, placeID)
}
