package places

import (
	"context"
	"log/slog"

	"github.com/Briancute/local-lead-finder/internal/model"
)

// DetailsCache stores place details between provider calls.
type DetailsCache interface {
	GetPlaceDetails(ctx context.Context, placeID string) (*model.PlaceDetails, error)
	SetPlaceDetails(ctx context.Context, details *model.PlaceDetails) error
}

// CachedGateway serves Details from a cache before asking the wrapped
// gateway. RefreshDetails always asks the wrapped gateway. Cache failures
// are logged and fall through to the provider. Search results are never
// cached.
type CachedGateway struct {
	next   Gateway
	cache  DetailsCache
	logger *slog.Logger
}

// NewCachedGateway wraps next with cache.
func NewCachedGateway(next Gateway, cache DetailsCache, logger *slog.Logger) *CachedGateway {
	return &CachedGateway{next: next, cache: cache, logger: logger}
}

// Search delegates to the wrapped gateway.
func (g *CachedGateway) Search(ctx context.Context, query, pageToken string) (*model.SearchPage, error) {
	return g.next.Search(ctx, query, pageToken)
}

// DemoMode delegates to the wrapped gateway.
func (g *CachedGateway) DemoMode() bool {
	return g.next.DemoMode()
}

// Details returns cached details when present.
func (g *CachedGateway) Details(ctx context.Context, placeID string) (*model.PlaceDetails, error) {
	if cached, err := g.cache.GetPlaceDetails(ctx, placeID); err == nil && cached != nil {
		return cached, nil
	}
	return g.fetch(ctx, placeID, g.next.Details)
}

// RefreshDetails skips the cached copy, asks the wrapped gateway and
// replaces the cache entry with the answer.
func (g *CachedGateway) RefreshDetails(ctx context.Context, placeID string) (*model.PlaceDetails, error) {
	return g.fetch(ctx, placeID, g.next.RefreshDetails)
}

func (g *CachedGateway) fetch(
	ctx context.Context,
	placeID string,
	lookup func(context.Context, string) (*model.PlaceDetails, error),
) (*model.PlaceDetails, error) {
	details, err := lookup(ctx, placeID)
	if err != nil || details == nil {
		return details, err
	}

	if details.PlaceID == "" {
		details.PlaceID = placeID
	}
	if err := g.cache.SetPlaceDetails(ctx, details); err != nil {
		g.logger.Warn("failed to cache place details", "place_id", placeID, "error", err)
	}
	return details, nil
}
