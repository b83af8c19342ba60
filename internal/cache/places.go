package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Briancute/local-lead-finder/internal/model"
)

const (
	placeKeyPrefix = "place:details:"

	// PlaceDetailsTTL is how long provider details stay cached.
	PlaceDetailsTTL = 24 * time.Hour
)

// Common cache errors.
var (
	ErrCacheMiss = errors.New("cache miss")
)

func placeKey(placeID string) string {
	return placeKeyPrefix + placeID
}

// GetPlaceDetails retrieves cached details for a place.
// Returns ErrCacheMiss if not found.
func (c *Cache) GetPlaceDetails(ctx context.Context, placeID string) (*model.PlaceDetails, error) {
	data, err := c.client.Get(ctx, placeKey(placeID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var details model.PlaceDetails
	if err := json.Unmarshal(data, &details); err != nil {
		// Corrupt entry, drop it
		c.client.Del(ctx, placeKey(placeID))
		return nil, ErrCacheMiss
	}
	return &details, nil
}

// SetPlaceDetails stores details for a place with PlaceDetailsTTL.
func (c *Cache) SetPlaceDetails(ctx context.Context, details *model.PlaceDetails) error {
	if details == nil || details.PlaceID == "" {
		return nil
	}

	data, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("marshal place details: %w", err)
	}

	if err := c.client.Set(ctx, placeKey(details.PlaceID), data, PlaceDetailsTTL).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// InvalidatePlaceDetails removes cached details for a place.
func (c *Cache) InvalidatePlaceDetails(ctx context.Context, placeID string) error {
	return c.client.Del(ctx, placeKey(placeID)).Err()
}
