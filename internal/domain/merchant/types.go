package merchant

import (
	"context"
	"time"
)

type Entity struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type ListFilter struct {
	ActiveOnly bool
	Limit      int32
	Offset     int32
}

type Repository interface {
	GetByID(ctx context.Context, id string) (*Entity, error)
	List(ctx context.Context, f ListFilter) ([]Entity, error)
}
