package merchant

import (
	"context"
	"errors"
	"strings"
)

var ErrNotFound = errors.New("merchant_not_found")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListMerchants(ctx context.Context, limit, offset int32) ([]Entity, error) {
	return s.repo.List(ctx, ListFilter{ActiveOnly: true, Limit: limit, Offset: offset})
}

func (s *Service) GetMerchant(ctx context.Context, id string) (*Entity, error) {
	m, err := s.FindMerchant(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNotFound
	}
	return m, nil
}

// FindMerchant returns (nil, nil) when the merchant does not exist. The quote
// engine consumes this form to distinguish absence from lookup failure.
func (s *Service) FindMerchant(ctx context.Context, id string) (*Entity, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	return s.repo.GetByID(ctx, id)
}
