package places

import (
	"context"
	"fmt"
	"math"
	"net"
	"net/http"
	"strings"
	"time"

	"googlemaps.github.io/maps"

	"github.com/Briancute/local-lead-finder/internal/model"
)

const (
	// DialTimeout is the connection timeout.
	DialTimeout = 5 * time.Second
	// TLSHandshakeTimeout is the TLS negotiation timeout.
	TLSHandshakeTimeout = 5 * time.Second
)

// detailsFields is the field mask sent with every details lookup.
var detailsFields = []maps.PlaceDetailsFieldMask{
	maps.PlaceDetailsFieldMaskName,
	maps.PlaceDetailsFieldMaskFormattedAddress,
	maps.PlaceDetailsFieldMaskFormattedPhoneNumber,
	maps.PlaceDetailsFieldMaskWebsite,
	maps.PlaceDetailsFieldMaskRatings,
	maps.PlaceDetailsFieldMaskOpeningHours,
}

// NewHTTPClient creates an HTTP client for provider calls bounded by timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   DialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout: TLSHandshakeTimeout,
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// statusTransport fails non-200 responses before the maps client tries to
// decode them as JSON.
type statusTransport struct {
	base http.RoundTripper
}

func (t *statusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected HTTP status %d", resp.StatusCode)
	}
	return resp, nil
}

// checkStatus returns a copy of hc whose transport rejects non-200 responses.
func checkStatus(hc *http.Client) *http.Client {
	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	out := *hc
	out.Transport = &statusTransport{base: base}
	return &out
}

func (c *Client) textSearch(ctx context.Context, query, pageToken string) (*model.SearchPage, error) {
	req := &maps.TextSearchRequest{}
	// A continuation request must carry the token alone.
	if pageToken != "" {
		req.PageToken = pageToken
	} else {
		req.Query = query
		req.Region = c.cfg.Region
	}

	resp, err := c.api.TextSearch(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("text search: %w", mapsError(err))
	}

	page := &model.SearchPage{
		Results:       make([]model.Place, 0, len(resp.Results)),
		NextPageToken: resp.NextPageToken,
	}
	for _, r := range resp.Results {
		page.Results = append(page.Results, model.Place{
			Name:             r.Name,
			Address:          r.FormattedAddress,
			PlaceID:          r.PlaceID,
			Rating:           rating(r.Rating),
			UserRatingsTotal: r.UserRatingsTotal,
			Types:            r.Types,
		})
	}
	return page, nil
}

func (c *Client) placeDetails(ctx context.Context, placeID string) (*model.PlaceDetails, error) {
	r, err := c.api.PlaceDetails(ctx, &maps.PlaceDetailsRequest{
		PlaceID: placeID,
		Fields:  detailsFields,
	})
	if err != nil {
		return nil, fmt.Errorf("place details: %w", mapsError(err))
	}

	details := &model.PlaceDetails{
		PlaceID: placeID,
		Name:    r.Name,
		Address: r.FormattedAddress,
		Phone:   r.FormattedPhoneNumber,
		Website: r.Website,
		Rating:  rating(r.Rating),
	}
	if r.OpeningHours != nil {
		details.OpeningHours = strings.Join(r.OpeningHours.WeekdayText, ", ")
	}
	return details, nil
}

// rating widens the provider's float32 rating, dropping float32 noise.
func rating(r float32) float64 {
	return math.Round(float64(r)*100) / 100
}

// mapsError turns the maps client's "maps: STATUS - message" status errors
// into ErrProviderStatus. Transport and decode errors pass through.
func mapsError(err error) error {
	msg, ok := strings.CutPrefix(err.Error(), "maps: ")
	if !ok {
		return err
	}
	status, message, ok := strings.Cut(msg, " - ")
	if !ok || status == "" || strings.ToUpper(status) != status || strings.Contains(status, " ") {
		return err
	}
	return providerError(status, message)
}

func providerError(status, message string) error {
	if message != "" {
		return fmt.Errorf("%w: %s (%s)", ErrProviderStatus, status, message)
	}
	return fmt.Errorf("%w: %s", ErrProviderStatus, status)
}
