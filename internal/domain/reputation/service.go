package reputation

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

type Service struct {
	hot       HotCache
	warm      WarmStore
	users     UserLookup
	oracle    ScoreOracle
	logger    *slog.Logger
	hotTTL    time.Duration
	staleness time.Duration
	now       func() time.Time
	flight    singleflight.Group
}

func NewService(hot HotCache, warm WarmStore, users UserLookup, oracle ScoreOracle, logger *slog.Logger, hotTTL, staleness time.Duration) *Service {
	if hotTTL <= 0 {
		hotTTL = 120 * time.Second
	}
	if staleness <= 0 {
		staleness = 60 * time.Minute
	}
	return &Service{
		hot:       hot,
		warm:      warm,
		users:     users,
		oracle:    oracle,
		logger:    logger,
		hotTTL:    hotTTL,
		staleness: staleness,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// GetReputation resolves a snapshot through the hot cache, then the warm
// store, then the oracle. Cache-layer failures are logged and treated as
// misses so the oracle remains the safety valve; only an oracle failure
// surfaces to the caller.
func (s *Service) GetReputation(ctx context.Context, wallet string) (*Snapshot, error) {
	wallet = NormalizeWallet(wallet)
	if wallet == "" {
		return nil, errors.New("missing_wallet")
	}

	snap, err := s.hot.Get(ctx, wallet)
	if err != nil {
		s.logger.Warn("hot cache read failed", "wallet", wallet, "err", err)
	} else if snap != nil {
		return snap, nil
	}

	rec, err := s.warm.GetByWallet(ctx, wallet)
	if err != nil {
		s.logger.Warn("warm store read failed", "wallet", wallet, "err", err)
	} else if rec != nil && s.now().Sub(rec.LastSyncedAt) < s.staleness {
		snap := NewSnapshot(wallet, rec.Score, rec.LastSyncedAt)
		if err := s.hot.Set(ctx, snap, s.hotTTL); err != nil {
			s.logger.Warn("hot cache back-fill failed", "wallet", wallet, "err", err)
		}
		return snap, nil
	}

	return s.fetchFromOracle(ctx, wallet)
}

// InvalidateReputation drops the wallet from both cache layers. Each
// sub-operation runs regardless of the other failing.
func (s *Service) InvalidateReputation(ctx context.Context, wallet string) error {
	wallet = NormalizeWallet(wallet)
	if wallet == "" {
		return errors.New("missing_wallet")
	}

	var errs []error
	if err := s.hot.Delete(ctx, wallet); err != nil {
		s.logger.Warn("hot cache invalidation failed", "wallet", wallet, "err", err)
		errs = append(errs, err)
	}
	if err := s.warm.DeleteByWallet(ctx, wallet); err != nil {
		s.logger.Warn("warm store invalidation failed", "wallet", wallet, "err", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// fetchFromOracle collapses concurrent misses for the same wallet onto one
// oracle call.
func (s *Service) fetchFromOracle(ctx context.Context, wallet string) (*Snapshot, error) {
	out, err, _ := s.flight.Do(wallet, func() (any, error) {
		score, err := s.oracle.FetchScore(ctx, wallet)
		if err != nil {
			return nil, err
		}
		snap := NewSnapshot(wallet, score, s.now())
		s.persist(ctx, snap)
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return out.(*Snapshot), nil
}

// persist writes the fresh snapshot back into both cache layers. These are
// best-effort side effects: a failed write-back must never fail the read that
// triggered it.
func (s *Service) persist(ctx context.Context, snap *Snapshot) {
	if err := s.hot.Set(ctx, snap, s.hotTTL); err != nil {
		s.logger.Warn("hot cache write-back failed", "wallet", snap.WalletAddress, "err", err)
	}

	userID, ok, err := s.users.FindUserIDByWallet(ctx, snap.WalletAddress)
	if err != nil {
		s.logger.Warn("warm store write-back skipped, user lookup failed", "wallet", snap.WalletAddress, "err", err)
		return
	}
	if !ok {
		return
	}
	if err := s.warm.Upsert(ctx, WarmUpsertInput{
		UserID:        userID,
		WalletAddress: snap.WalletAddress,
		Score:         snap.Score,
		Tier:          snap.Tier,
		LastSyncedAt:  snap.LastUpdated,
	}); err != nil {
		s.logger.Warn("warm store write-back failed", "wallet", snap.WalletAddress, "err", err)
	}
}

func NormalizeWallet(wallet string) string {
	return strings.ToLower(strings.TrimSpace(wallet))
}
