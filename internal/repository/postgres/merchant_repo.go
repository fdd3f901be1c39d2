package postgres

import (
	"context"
	"errors"

	"github.com/chainpay/backend/internal/domain/merchant"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MerchantRepository struct {
	pool *pgxpool.Pool
}

func NewMerchantRepository(pool *pgxpool.Pool) *MerchantRepository {
	return &MerchantRepository{pool: pool}
}

func (r *MerchantRepository) GetByID(ctx context.Context, id string) (*merchant.Entity, error) {
	q := `SELECT id, name, category, is_active, created_at FROM merchants WHERE id = $1`
	out := &merchant.Entity{}
	err := r.pool.QueryRow(ctx, q, id).Scan(&out.ID, &out.Name, &out.Category, &out.IsActive, &out.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MerchantRepository) List(ctx context.Context, f merchant.ListFilter) ([]merchant.Entity, error) {
	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	q := `
SELECT id, name, category, is_active, created_at
FROM merchants
WHERE ($1 = false OR is_active)
ORDER BY name ASC
LIMIT $2 OFFSET $3
`
	rows, err := r.pool.Query(ctx, q, f.ActiveOnly, f.Limit, f.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]merchant.Entity, 0)
	for rows.Next() {
		var item merchant.Entity
		if err := rows.Scan(&item.ID, &item.Name, &item.Category, &item.IsActive, &item.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
