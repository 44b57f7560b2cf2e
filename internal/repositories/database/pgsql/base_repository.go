package pgsql

import (
	"context"
	"errors"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BaseRepository carries the shared pgx pool and the transaction helpers the
// ledger repositories build their atomic writes on. Multi-row writes (group
// posting, payment recording, balance updates) always run inside a Begin /
// defer Rollback / Commit bracket so a failed step leaves nothing behind.
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin opens a storage transaction on the shared pool.
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit finalizes a storage transaction.
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

// Rollback abandons a storage transaction. Safe to defer unconditionally:
// rolling back an already-committed transaction reports pgx.ErrTxClosed,
// which is not an error here.
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}
