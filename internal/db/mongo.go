package db

import (
	"context"
	"fmt"

	"github.com/yigit/coursehub/internal/config"
	"github.com/yigit/coursehub/internal/pkg/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// MongoDB wraps the shared client and the application database handle
type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// NewMongoDB connects to MongoDB and verifies the primary is reachable
func NewMongoDB(cfg *config.Config) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout())
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(cfg.Database.URI).
		SetMaxPoolSize(uint64(cfg.Database.MaxOpenConns)).
		SetMinPoolSize(uint64(cfg.Database.MaxIdleConns)).
		SetMaxConnIdleTime(cfg.ConnMaxIdleTime())

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to establish mongo connection: %w", err)
	}

	return &MongoDB{
		Client:   client,
		Database: client.Database(cfg.Database.Name),
	}, nil
}

// Collection returns a handle to the named collection
func (m *MongoDB) Collection(name string) *mongo.Collection {
	return m.Database.Collection(name)
}

// Ping checks that the primary is reachable
func (m *MongoDB) Ping(ctx context.Context) error {
	return m.Client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client
func (m *MongoDB) Close(ctx context.Context) error {
	if m.Client == nil {
		return nil
	}
	return m.Client.Disconnect(ctx)
}

// SessionFn is a function that executes within a transaction
type SessionFn func(sc mongo.SessionContext) error

// WithTransaction runs fn inside a snapshot-read, majority-write transaction.
// Commit is attempted exactly once and any error aborts the transaction.
// Unlike mongo.Session.WithTransaction nothing is retried.
func (m *MongoDB) WithTransaction(ctx context.Context, fn SessionFn) error {
	session, err := m.Client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	return mongo.WithSession(ctx, session, func(sc mongo.SessionContext) error {
		if err := session.StartTransaction(txnOpts); err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}

		if err := fn(sc); err != nil {
			if abortErr := session.AbortTransaction(sc); abortErr != nil {
				logger.Error().Err(abortErr).Msg("Failed to abort transaction")
			}
			return err
		}

		if err := session.CommitTransaction(sc); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil
	})
}
