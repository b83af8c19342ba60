package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Briancute/local-lead-finder/internal/metrics"
	"github.com/Briancute/local-lead-finder/internal/model"
	"github.com/Briancute/local-lead-finder/internal/places"
	"github.com/Briancute/local-lead-finder/internal/repository"
)

// ============================================================================
// Fixtures
// ============================================================================

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	store   *repository.Memory
	metrics *metrics.InMemoryRecorder
	leads   *LeadService
	gateway places.Gateway
	userID  string
	otherID string
}

func newFixture(t *testing.T, gateway places.Gateway) *fixture {
	t.Helper()

	if gateway == nil {
		demo, err := places.NewClient(places.Config{}, nil)
		require.NoError(t, err)
		gateway = demo
	}
	store := repository.NewMemory()
	rec := metrics.NewInMemory()

	f := &fixture{
		store:   store,
		metrics: rec,
		gateway: gateway,
		leads:   NewLeadService(store, store, gateway, rec, discardLogger()),
	}
	f.userID = f.createUser(t, "owner@example.com")
	f.otherID = f.createUser(t, "other@example.com")
	return f
}

func (f *fixture) createUser(t *testing.T, email string) string {
	t.Helper()
	u := &model.User{
		Name:          "Test",
		Email:         email,
		PasswordHash:  "x",
		APIQuotaLimit: model.DefaultAPIQuotaLimit,
	}
	require.NoError(t, f.store.CreateUser(context.Background(), u))
	return u.ID
}

// stubGateway returns canned results and counts calls.
type stubGateway struct {
	page         *model.SearchPage
	details      *model.PlaceDetails
	searchErr    error
	detailsErr   error
	searchCalls  int
	detailsCalls int
	refreshCalls int
	lastQuery    string
	lastToken    string
}

func (g *stubGateway) Search(_ context.Context, query, pageToken string) (*model.SearchPage, error) {
	g.searchCalls++
	g.lastQuery, g.lastToken = query, pageToken
	if g.searchErr != nil {
		return nil, g.searchErr
	}
	if g.page == nil {
		return &model.SearchPage{}, nil
	}
	return g.page, nil
}

func (g *stubGateway) Details(_ context.Context, _ string) (*model.PlaceDetails, error) {
	g.detailsCalls++
	if g.detailsErr != nil {
		return nil, g.detailsErr
	}
	return g.details, nil
}

func (g *stubGateway) RefreshDetails(ctx context.Context, placeID string) (*model.PlaceDetails, error) {
	g.refreshCalls++
	return g.Details(ctx, placeID)
}

func (g *stubGateway) DemoMode() bool { return false }

// mapDetailsCache is an in-process places.DetailsCache.
type mapDetailsCache struct {
	items map[string]*model.PlaceDetails
}

func newMapDetailsCache() *mapDetailsCache {
	return &mapDetailsCache{items: map[string]*model.PlaceDetails{}}
}

func (c *mapDetailsCache) GetPlaceDetails(_ context.Context, placeID string) (*model.PlaceDetails, error) {
	if d, ok := c.items[placeID]; ok {
		return d, nil
	}
	return nil, errors.New("miss")
}

func (c *mapDetailsCache) SetPlaceDetails(_ context.Context, d *model.PlaceDetails) error {
	c.items[d.PlaceID] = d
	return nil
}

var errProviderDown = errors.New("provider down")

func ptr[T any](v T) *T { return &v }
