// Package mongodb connects the booking document store.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Alijeyrad/clinicdesk_backend/config"
)

const defaultTimeout = 10 * time.Second

// Timeout is the connect and per-operation timeout for cfg.
func Timeout(cfg config.MongoConfig) time.Duration {
	if cfg.TimeoutSeconds <= 0 {
		return defaultTimeout
	}
	return time.Duration(cfg.TimeoutSeconds) * time.Second
}

// ClientOptions builds driver options for cfg. Reads use the primary so a
// booking written by one request is visible to the next.
func ClientOptions(cfg config.MongoConfig) *options.ClientOptions {
	timeout := Timeout(cfg)
	return options.Client().
		ApplyURI(cfg.URI).
		SetAppName("clinicdesk").
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout).
		SetTimeout(timeout).
		SetReadPreference(readpref.Primary())
}

// Connect dials MongoDB, pings the primary and returns the configured database.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, *mongo.Database, error) {
	if cfg.URI == "" {
		return nil, nil, fmt.Errorf("mongo uri is empty")
	}

	client, err := mongo.Connect(ctx, ClientOptions(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, Timeout(cfg))
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}
