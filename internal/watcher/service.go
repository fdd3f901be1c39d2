package watcher

import (
	"context"
	"log/slog"
	"strings"

	"github.com/chainpay/backend/internal/blockchain"
)

const cursorKey = "watcher.reputation_registry.last_block"

type CursorRepository interface {
	GetCursor(ctx context.Context, key string) (uint64, bool, error)
	SetCursor(ctx context.Context, key string, blockNumber uint64) error
}

type Invalidator interface {
	InvalidateReputation(ctx context.Context, wallet string) error
}

// Service tails ReputationChanged events from the registry contract and drops
// the affected wallets from both cache layers, so the next read re-queries
// the chain. Invalidation is idempotent; re-processing a block range is
// harmless.
type Service struct {
	repo          CursorRepository
	rpc           blockchain.RPCClient
	invalidator   Invalidator
	logger        *slog.Logger
	contractAddr  string
	startBlock    uint64
	blockBatch    uint64
	confirmations uint64
}

func NewService(repo CursorRepository, rpc blockchain.RPCClient, invalidator Invalidator, logger *slog.Logger, contractAddr string, startBlock, blockBatch, confirmations uint64) *Service {
	if blockBatch == 0 {
		blockBatch = 500
	}
	return &Service{
		repo:          repo,
		rpc:           rpc,
		invalidator:   invalidator,
		logger:        logger,
		contractAddr:  strings.TrimSpace(contractAddr),
		startBlock:    startBlock,
		blockBatch:    blockBatch,
		confirmations: confirmations,
	}
}

func (s *Service) RunOnce(ctx context.Context) error {
	latest, err := s.rpc.BlockNumber(ctx)
	if err != nil {
		return err
	}

	if latest < s.confirmations {
		return nil
	}
	safeHead := latest - s.confirmations

	last, ok, err := s.repo.GetCursor(ctx, cursorKey)
	if err != nil {
		return err
	}
	var fromBlock uint64
	if ok {
		fromBlock = last + 1
	} else {
		fromBlock = s.startBlock
	}
	if fromBlock > safeHead {
		return nil
	}

	toBlock := minUint64(safeHead, fromBlock+s.blockBatch-1)
	logs, err := s.rpc.GetLogs(ctx, blockchain.LogFilter{
		FromBlock: fromBlock,
		ToBlock:   toBlock,
		Address:   s.contractAddr,
		Topics:    []string{blockchain.TopicReputationChanged},
	})
	if err != nil {
		return err
	}

	for _, lg := range logs {
		if lg.Removed || len(lg.Topics) < 2 {
			continue
		}
		wallet, err := blockchain.WalletFromTopic(lg.Topics[1])
		if err != nil {
			s.logger.Warn("skipping malformed reputation event", "tx", lg.TransactionHash, "err", err)
			continue
		}
		if err := s.invalidator.InvalidateReputation(ctx, wallet); err != nil {
			s.logger.Warn("reputation invalidation incomplete", "wallet", wallet, "err", err)
		}
	}

	return s.repo.SetCursor(ctx, cursorKey, toBlock)
}

func minUint64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
