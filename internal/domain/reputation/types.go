package reputation

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Tier string

const (
	TierGold   Tier = "gold"
	TierSilver Tier = "silver"
	TierBronze Tier = "bronze"
	TierPoor   Tier = "poor"
)

// Snapshot is a point-in-time reputation record. A new snapshot replaces a
// prior one; tier, interest rate and credit limit are always derived together
// from the score via the policy table.
type Snapshot struct {
	WalletAddress string
	Score         int32
	Tier          Tier
	InterestRate  decimal.Decimal
	MaxCredit     decimal.Decimal
	LastUpdated   time.Time
}

type WarmRecord struct {
	UserID        string
	WalletAddress string
	Score         int32
	Tier          Tier
	LastSyncedAt  time.Time
}

type WarmUpsertInput struct {
	UserID        string
	WalletAddress string
	Score         int32
	Tier          Tier
	LastSyncedAt  time.Time
}

// HotCache is the ephemeral cache layer. Get returns (nil, nil) on a miss or
// an expired entry.
type HotCache interface {
	Get(ctx context.Context, wallet string) (*Snapshot, error)
	Set(ctx context.Context, snapshot *Snapshot, ttl time.Duration) error
	Delete(ctx context.Context, wallet string) error
}

// WarmStore is the persisted cache layer. GetByWallet returns (nil, nil) when
// no record exists; staleness is the caller's concern.
type WarmStore interface {
	GetByWallet(ctx context.Context, wallet string) (*WarmRecord, error)
	Upsert(ctx context.Context, in WarmUpsertInput) error
	DeleteByWallet(ctx context.Context, wallet string) error
}

type UserLookup interface {
	FindUserIDByWallet(ctx context.Context, wallet string) (string, bool, error)
}

// ScoreOracle is the on-chain source of truth. Every cache layer holds a copy
// of its output.
type ScoreOracle interface {
	FetchScore(ctx context.Context, wallet string) (int32, error)
}
