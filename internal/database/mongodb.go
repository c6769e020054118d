package database

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DefaultDatabase is used when the connection string names no database.
const DefaultDatabase = "test"

// ConnectMongo opens a connection and returns the client. Caller should call client.Disconnect(ctx).
func ConnectMongo(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	clientOpts := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// NameFromURI returns the database named in the URI path, or DefaultDatabase.
// Parsed by hand: seed lists ("h1:27017,h2:27017") are not valid url hosts and
// the driver's parser resolves SRV records.
func NameFromURI(uri string) string {
	_, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return DefaultDatabase
	}
	_, path, ok := strings.Cut(rest, "/")
	if !ok {
		return DefaultDatabase
	}
	path, _, _ = strings.Cut(path, "?")
	name, err := url.PathUnescape(path)
	if err != nil || name == "" {
		return DefaultDatabase
	}
	return name
}

// Pinger reports whether the datastore is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ClientPinger adapts a mongo client to Pinger.
type ClientPinger struct {
	Client  *mongo.Client
	Timeout time.Duration
}

func (p ClientPinger) Ping(ctx context.Context) error {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}
	return p.Client.Ping(ctx, readpref.Primary())
}
