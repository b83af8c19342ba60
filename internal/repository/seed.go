package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Briancute/local-lead-finder/internal/model"
)

// Demo account seeded at startup so the service is usable without setup.
const (
	DemoEmail     = "demo@leadfinder.com"
	DemoPassword  = "demo123"
	DemoName      = "Demo User"
	demoQuotaUsed = 5
)

// SeedDemoUser creates the demo account in the given store if it is absent.
// passwordHash is the hash of DemoPassword.
func SeedDemoUser(ctx context.Context, store UserRepository, passwordHash string) (*model.User, error) {
	existing, err := store.GetUserByEmail(ctx, DemoEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to look up demo user: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	user := &model.User{
		Name:          DemoName,
		Email:         DemoEmail,
		PasswordHash:  passwordHash,
		APIQuotaUsed:  demoQuotaUsed,
		APIQuotaLimit: model.DefaultAPIQuotaLimit,
	}
	if err := store.CreateUser(ctx, user); err != nil {
		// Another instance seeded it first.
		if errors.Is(err, ErrEmailExists) {
			return store.GetUserByEmail(ctx, DemoEmail)
		}
		return nil, fmt.Errorf("failed to seed demo user: %w", err)
	}
	return user, nil
}
