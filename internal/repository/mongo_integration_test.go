//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Briancute/local-lead-finder/internal/database"
	"github.com/Briancute/local-lead-finder/internal/testutil"
)

// ============================================================================
// MongoDB Store Integration Tests
// ============================================================================

func TestIntegrationMongoStore_Contract(t *testing.T) {
	runStoreContract(t, newMongoTestStore)
}

func TestIntegrationMongoStore_MalformedIDIsAbsent(t *testing.T) {
	store := newMongoTestStore(t).(*MongoStore)
	ctx := context.Background()

	lead, err := store.GetLead(ctx, "not-an-object-id", "owner")
	if err != nil || lead != nil {
		t.Fatalf("GetLead(malformed) = %+v, %v; want nil, nil", lead, err)
	}
	deleted, err := store.DeleteTemplate(ctx, "zzz", "owner")
	if err != nil || deleted {
		t.Fatalf("DeleteTemplate(malformed) = %v, %v; want false, nil", deleted, err)
	}
}

func newMongoTestStore(t *testing.T) Store {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	uri := testutil.RequireEnv(t, "MONGODB_URI")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := database.Connect(ctx, database.Options{
		URI:            uri,
		Database:       testutil.TestDatabaseName(),
		ConnectTimeout: 5 * time.Second,
	}, nil)
	if err != nil {
		t.Fatalf("connect mongodb: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Database().Drop(context.Background())
		_ = conn.Close(context.Background())
	})

	store := NewMongoStore(conn.Database())
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	return store
}
