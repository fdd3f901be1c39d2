package postgres

import (
	"context"
	"errors"

	"github.com/chainpay/backend/internal/domain/reputation"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReputationRepository is the warm cache layer: one durable row per user,
// refreshed on every oracle fetch.
type ReputationRepository struct {
	pool *pgxpool.Pool
}

func NewReputationRepository(pool *pgxpool.Pool) *ReputationRepository {
	return &ReputationRepository{pool: pool}
}

func (r *ReputationRepository) GetByWallet(ctx context.Context, wallet string) (*reputation.WarmRecord, error) {
	q := `
SELECT user_id, wallet_address, score, tier, last_synced_at
FROM reputation_cache
WHERE wallet_address = $1
`
	out := &reputation.WarmRecord{}
	err := r.pool.QueryRow(ctx, q, wallet).Scan(
		&out.UserID, &out.WalletAddress, &out.Score, &out.Tier, &out.LastSyncedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ReputationRepository) Upsert(ctx context.Context, in reputation.WarmUpsertInput) error {
	q := `
INSERT INTO reputation_cache (user_id, wallet_address, score, tier, last_synced_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (user_id)
DO UPDATE SET
  wallet_address = EXCLUDED.wallet_address,
  score = EXCLUDED.score,
  tier = EXCLUDED.tier,
  last_synced_at = EXCLUDED.last_synced_at
`
	_, err := r.pool.Exec(ctx, q, in.UserID, in.WalletAddress, in.Score, in.Tier, in.LastSyncedAt)
	return err
}

func (r *ReputationRepository) DeleteByWallet(ctx context.Context, wallet string) error {
	q := `DELETE FROM reputation_cache WHERE wallet_address = $1`
	_, err := r.pool.Exec(ctx, q, wallet)
	return err
}
