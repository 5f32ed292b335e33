package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/yigit/coursehub/internal/db"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/dberrors"
	"go.mongodb.org/mongo-driver/mongo"
)

// mongoTxUnitOfWork runs the work inside a snapshot/majority MongoDB transaction.
// The repository picks up the session from the SessionContext it is called with.
type mongoTxUnitOfWork struct {
	database *db.MongoDB
	repo     *MongoCourseRepository
}

// NewMongoTxUnitOfWork returns a transactional unit of work for the MongoDB driver
func NewMongoTxUnitOfWork(database *db.MongoDB, repo *MongoCourseRepository) UnitOfWork {
	return &mongoTxUnitOfWork{database: database, repo: repo}
}

func (u *mongoTxUnitOfWork) Do(ctx context.Context, fn WorkFn) error {
	err := u.database.WithTransaction(ctx, func(sc mongo.SessionContext) error {
		return fn(sc, u.repo)
	})
	if dberrors.IsTransactionConflict(err) {
		u.repo.logger.Warn().Err(err).Msg("Transaction aborted by a write conflict")
	}
	return apperrors.NewStoreError(err)
}

// pgTxUnitOfWork runs the work inside a REPEATABLE READ transaction, which is
// snapshot isolation in PostgreSQL.
type pgTxUnitOfWork struct {
	database *db.PostgresDB
	repo     *PostgresCourseRepository
}

// NewPostgresTxUnitOfWork returns a transactional unit of work for the postgres driver
func NewPostgresTxUnitOfWork(database *db.PostgresDB, repo *PostgresCourseRepository) UnitOfWork {
	return &pgTxUnitOfWork{database: database, repo: repo}
}

func (u *pgTxUnitOfWork) Do(ctx context.Context, fn WorkFn) error {
	opts := pgx.TxOptions{IsoLevel: pgx.RepeatableRead}
	err := u.database.WithTransaction(ctx, opts, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, u.repo.WithTx(tx))
	})
	if dberrors.IsTransactionConflict(err) {
		u.repo.logger.Warn().Err(err).Msg("Transaction aborted by a serialization failure")
	}
	return apperrors.NewStoreError(err)
}

// memoryTxUnitOfWork serializes units and restores the previous state on failure
type memoryTxUnitOfWork struct {
	repo *MemoryCourseRepository
}

// NewMemoryTxUnitOfWork returns a transactional unit of work for the in-memory driver
func NewMemoryTxUnitOfWork(repo *MemoryCourseRepository) UnitOfWork {
	return &memoryTxUnitOfWork{repo: repo}
}

func (u *memoryTxUnitOfWork) Do(ctx context.Context, fn WorkFn) error {
	u.repo.txMu.Lock()
	defer u.repo.txMu.Unlock()

	snapshot := u.repo.snapshot()
	if err := fn(ctx, u.repo); err != nil {
		u.repo.restore(snapshot)
		return err
	}
	return nil
}
