package database

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"spawn-admin/pkg/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
)

// MongoConfig holds the connection settings of the SEO URL store
type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
	Telemetry      bool
}

// LoadMongoConfig reads MONGODB_URI, MONGODB_DATABASE and
// MONGODB_CONNECT_TIMEOUT; the database defaults to the service name
func LoadMongoConfig(serviceName string) MongoConfig {
	return MongoConfig{
		URI:            config.GetEnv("MONGODB_URI", "mongodb://localhost:27017"),
		Database:       config.GetEnv("MONGODB_DATABASE", serviceName),
		ConnectTimeout: config.GetDurationEnv("MONGODB_CONNECT_TIMEOUT", 10*time.Second),
		Telemetry:      config.GetBoolEnv("ENABLE_TELEMETRY", false),
	}
}

// MongoDB wraps the client and the selected database
type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// NewMongoDB connects and pings within cfg.ConnectTimeout
func NewMongoDB(ctx context.Context, cfg MongoConfig) (*MongoDB, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(cfg.ConnectTimeout)
	if cfg.Telemetry {
		opts.SetMonitor(otelmongo.NewMonitor())
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB at %s: %w", redactURI(cfg.URI), err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB at %s: %w", redactURI(cfg.URI), err)
	}

	log.Printf("🍃 MongoDB connected: %s/%s", redactURI(cfg.URI), cfg.Database)

	return &MongoDB{
		Client:   client,
		Database: client.Database(cfg.Database),
	}, nil
}

// Close disconnects the client
func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// redactURI drops credentials and query options for logging
func redactURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "<invalid uri>"
	}
	u.User = nil
	u.RawQuery = ""
	u.Path = ""
	return u.String()
}
