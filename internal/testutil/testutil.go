// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Briancute/local-lead-finder/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// FlushRedis clears the Redis database named by redisURL.
func FlushRedis(ctx context.Context, redisURL string) error {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return err
	}
	client := redis.NewClient(opt)
	defer client.Close()
	return client.FlushDB(ctx).Err()
}

// TestDatabaseName returns a fresh MongoDB database name so that
// integration runs never share state.
func TestDatabaseName() string {
	return fmt.Sprintf("leadfinder_test_%d", time.Now().UnixNano())
}

// ============================================================================
// Test Data Factories
// ============================================================================

var seq atomic.Int64

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d-%d", prefix, time.Now().UnixNano(), seq.Add(1))
}

// UniqueEmail generates a unique, already normalized email address.
func UniqueEmail(prefix string) string {
	return strings.ToLower(UniqueID(prefix)) + "@example.com"
}

// NewTestUser creates an unsaved user with sensible defaults. The password
// hash is a placeholder and does not verify against any password.
func NewTestUser(t testing.TB) *model.User {
	t.Helper()
	return &model.User{
		Name:          "Test User",
		Email:         UniqueEmail("user"),
		PasswordHash:  "not-a-real-hash",
		APIQuotaLimit: model.DefaultAPIQuotaLimit,
	}
}

// NewTestLead creates an unsaved lead owned by userID.
func NewTestLead(t testing.TB, userID, businessName string) *model.Lead {
	t.Helper()
	return &model.Lead{
		UserID:       userID,
		BusinessName: businessName,
		Status:       model.LeadStatusNew,
		Tags:         []string{},
	}
}

// NewTestTemplate creates an unsaved template owned by userID.
func NewTestTemplate(t testing.TB, userID, name string) *model.EmailTemplate {
	t.Helper()
	return &model.EmailTemplate{
		UserID:  userID,
		Name:    name,
		Subject: "Hello " + model.BusinessNamePlaceholder,
		Body:    "Hi " + model.BusinessNamePlaceholder + ", we help local businesses grow.",
	}
}
