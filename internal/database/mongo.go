// Package database manages the MongoDB connection and its liveness flag.
package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ErrNoURI is returned by Connect when no connection string is configured.
var ErrNoURI = errors.New("mongodb uri not configured")

// Mongo wraps a connected client. It is live from a successful Connect
// until the first failed heartbeat after it, and stays down from then on
// so that writes made to the fallback store are not hidden by a later
// switch back. It never redials on its own.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
	ready  atomic.Bool
	down   atomic.Bool
	logger *slog.Logger
}

// Options configures Connect.
type Options struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// Connect dials MongoDB, pings it within the connect timeout and marks the
// connection live. A failure is returned to the caller, which decides
// whether to continue without the database.
func Connect(ctx context.Context, opts Options, logger *slog.Logger) (*Mongo, error) {
	if opts.URI == "" {
		return nil, ErrNoURI
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 5 * time.Second
	}

	m := &Mongo{logger: logger}

	clientOpts := options.Client().
		ApplyURI(opts.URI).
		SetConnectTimeout(opts.ConnectTimeout).
		SetServerSelectionTimeout(opts.ConnectTimeout).
		SetServerMonitor(&event.ServerMonitor{
			ServerHeartbeatFailed: func(e *event.ServerHeartbeatFailedEvent) {
				m.markDown(e.Failure)
			},
		})

	connectCtx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	m.client = client
	m.db = client.Database(opts.Database)
	m.ready.Store(true)

	return m, nil
}

// markDown latches the connection as not live. Heartbeat failures before
// Connect finishes are ignored; Connect's own ping decides those.
func (m *Mongo) markDown(cause error) {
	if !m.ready.Load() || m.down.Swap(true) {
		return
	}
	if m.logger != nil {
		m.logger.Warn("mongodb unreachable, using in-memory store", "error", cause)
	}
}

// IsLive reports whether requests should use MongoDB. A nil Mongo is never live.
func (m *Mongo) IsLive() bool {
	if m == nil {
		return false
	}
	return m.ready.Load() && !m.down.Load()
}

// Database returns the configured database handle.
func (m *Mongo) Database() *mongo.Database {
	return m.db
}

// Ping checks database connectivity.
func (m *Mongo) Ping(ctx context.Context) error {
	if m == nil || m.client == nil {
		return ErrNoURI
	}
	return m.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client and marks the connection not live.
func (m *Mongo) Close(ctx context.Context) error {
	if m == nil || m.client == nil {
		return nil
	}
	m.ready.Store(false)
	return m.client.Disconnect(ctx)
}

// RedactURI strips credentials from a connection string for logging.
func RedactURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "<unparseable>"
	}
	if u.User != nil {
		u.User = url.User("redacted")
	}
	return u.String()
}
