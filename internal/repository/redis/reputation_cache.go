package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/chainpay/backend/internal/domain/reputation"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const keyPrefix = "reputation:"

// ReputationCache is the hot cache layer backed by redis. Expiry is handled
// by the store's own TTL, so a Get hit is by definition unexpired.
type ReputationCache struct {
	client *goredis.Client
}

func NewReputationCache(client *goredis.Client) *ReputationCache {
	return &ReputationCache{client: client}
}

type snapshotRecord struct {
	WalletAddress string          `json:"wallet_address"`
	Score         int32           `json:"score"`
	Tier          string          `json:"tier"`
	InterestRate  decimal.Decimal `json:"interest_rate"`
	MaxCredit     decimal.Decimal `json:"max_credit"`
	LastUpdated   time.Time       `json:"last_updated"`
}

func (c *ReputationCache) Get(ctx context.Context, wallet string) (*reputation.Snapshot, error) {
	payload, err := c.client.Get(ctx, cacheKey(wallet)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rec snapshotRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, err
	}
	return &reputation.Snapshot{
		WalletAddress: rec.WalletAddress,
		Score:         rec.Score,
		Tier:          reputation.Tier(rec.Tier),
		InterestRate:  rec.InterestRate,
		MaxCredit:     rec.MaxCredit,
		LastUpdated:   rec.LastUpdated,
	}, nil
}

func (c *ReputationCache) Set(ctx context.Context, snapshot *reputation.Snapshot, ttl time.Duration) error {
	payload, err := json.Marshal(snapshotRecord{
		WalletAddress: snapshot.WalletAddress,
		Score:         snapshot.Score,
		Tier:          string(snapshot.Tier),
		InterestRate:  snapshot.InterestRate,
		MaxCredit:     snapshot.MaxCredit,
		LastUpdated:   snapshot.LastUpdated,
	})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey(snapshot.WalletAddress), payload, ttl).Err()
}

func (c *ReputationCache) Delete(ctx context.Context, wallet string) error {
	return c.client.Del(ctx, cacheKey(wallet)).Err()
}

func cacheKey(wallet string) string {
	return keyPrefix + reputation.NormalizeWallet(wallet)
}
