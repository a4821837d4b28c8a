package database

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/mkravets/eduline/internal/config"
)

// Connector owns the process-wide mongo client. In serverless deployments
// the connection is established lazily on the first request and reused by
// every invocation that lands on the same instance; the pool size cap keeps
// a burst of instances from exhausting the database's connection limit.
type Connector struct {
	cfg    config.DatabaseConfig
	logger zerolog.Logger

	mu     sync.Mutex
	client *mongo.Client
	db     *mongo.Database
}

func NewConnector(cfg config.DatabaseConfig, logger zerolog.Logger) *Connector {
	return &Connector{
		cfg:    cfg,
		logger: logger,
	}
}

// Connect establishes the connection eagerly. Long-running deployments call
// this once at startup.
func (c *Connector) Connect(ctx context.Context) error {
	_, err := c.Database(ctx)
	return err
}

// Database returns the connected database handle, dialing on first use.
func (c *Connector) Database(ctx context.Context) (*mongo.Database, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		return c.db, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, c.cfg.ConnectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(c.cfg.URI).
		SetMaxPoolSize(c.cfg.MaxPoolSize).
		SetServerSelectionTimeout(c.cfg.ConnectTimeout)

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	if err := ensureIndexes(connectCtx, client.Database(c.cfg.Name)); err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}

	c.client = client
	c.db = client.Database(c.cfg.Name)

	c.logger.Info().
		Str("database", c.cfg.Name).
		Uint64("max_pool_size", c.cfg.MaxPoolSize).
		Msg("Database connection established")

	return c.db, nil
}

// Collection resolves a collection handle, connecting first if needed.
func (c *Connector) Collection(ctx context.Context, name string) (*mongo.Collection, error) {
	db, err := c.Database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}

func (c *Connector) Ping(ctx context.Context) error {
	c.mu.Lock()
	client := c.client
	c.mu.Unlock()

	if client == nil {
		return fmt.Errorf("database not connected")
	}
	return client.Ping(ctx, readpref.Primary())
}

func (c *Connector) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return nil
	}
	err := c.client.Disconnect(ctx)
	c.client = nil
	c.db = nil
	return err
}
