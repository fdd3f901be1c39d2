package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type WatcherRepository struct {
	pool *pgxpool.Pool
}

func NewWatcherRepository(pool *pgxpool.Pool) *WatcherRepository {
	return &WatcherRepository{pool: pool}
}

func (r *WatcherRepository) GetCursor(ctx context.Context, key string) (uint64, bool, error) {
	q := `SELECT block_number FROM watcher_cursors WHERE key = $1`
	var block int64
	err := r.pool.QueryRow(ctx, q, key).Scan(&block)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return uint64(block), true, nil
}

func (r *WatcherRepository) SetCursor(ctx context.Context, key string, blockNumber uint64) error {
	q := `
INSERT INTO watcher_cursors (key, block_number)
VALUES ($1, $2)
ON CONFLICT (key)
DO UPDATE SET block_number = EXCLUDED.block_number
`
	_, err := r.pool.Exec(ctx, q, key, int64(blockNumber))
	return err
}
