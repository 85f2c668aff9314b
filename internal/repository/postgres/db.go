package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/repository"
)

type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// txAttempts bounds how many times RunTx re-runs fn after a
// serialization or deadlock failure.
const txAttempts = 3

type Store struct {
	pool *pgxpool.Pool
	db   DB
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) handle() DB {
	if s.db != nil {
		return s.db
	}
	return s.pool
}

func (s *Store) Catalog() repository.CatalogRepo            { return &CatalogRepo{db: s.handle()} }
func (s *Store) Attendance() repository.AttendanceRepo      { return &AttendanceRepo{db: s.handle()} }
func (s *Store) Invites() repository.InviteRepo             { return &InviteRepo{db: s.handle()} }
func (s *Store) Notifications() repository.NotificationRepo { return &NotificationRepo{db: s.handle()} }

// RunTx runs fn inside a serializable read-write transaction and hands it
// a Store bound to that transaction. Serialization and deadlock failures
// are retried up to txAttempts times with doubling backoff, so fn must be
// safe to re-run. Nested calls reuse the enclosing transaction.
func (s *Store) RunTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	const op = "postgres.Store.RunTx"

	if s.db != nil {
		return fn(ctx, s)
	}

	var err error
	backoff := 5 * time.Millisecond

	for attempt := 0; attempt < txAttempts; attempt++ {
		err = s.runTxOnce(ctx, fn)
		if err == nil || !IsRetryable(err) {
			return err
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%s:%w", op, ctx.Err())
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return err
}

func (s *Store) runTxOnce(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.Serializable,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return err
	}

	defer tx.Rollback(ctx)

	if err := fn(ctx, &Store{pool: s.pool, db: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}
