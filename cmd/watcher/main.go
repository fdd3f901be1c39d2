package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chainpay/backend/internal/blockchain"
	"github.com/chainpay/backend/internal/cache"
	"github.com/chainpay/backend/internal/config"
	"github.com/chainpay/backend/internal/db"
	reputationdomain "github.com/chainpay/backend/internal/domain/reputation"
	"github.com/chainpay/backend/internal/observability"
	postgresrepo "github.com/chainpay/backend/internal/repository/postgres"
	redisrepo "github.com/chainpay/backend/internal/repository/redis"
	"github.com/chainpay/backend/internal/watcher"
)

func main() {
	cfg := config.Load()
	logger := observability.NewLogger(cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect postgres", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect redis", "err", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	rpc, err := blockchain.NewJSONRPCClient(cfg.ChainHTTPRPC)
	if err != nil {
		logger.Error("failed to build rpc client", "err", err)
		os.Exit(1)
	}

	oracle, err := blockchain.NewOracleFromConfig(cfg)
	if err != nil {
		logger.Error("failed to build score oracle", "err", err)
		os.Exit(1)
	}

	reputationService := reputationdomain.NewService(
		redisrepo.NewReputationCache(redisClient),
		postgresrepo.NewReputationRepository(pool),
		postgresrepo.NewUserRepository(pool),
		oracle,
		logger,
		cfg.HotCacheTTL,
		cfg.WarmStalenessWindow,
	)

	svc := watcher.NewService(
		postgresrepo.NewWatcherRepository(pool),
		rpc,
		reputationService,
		logger,
		cfg.ReputationRegistry,
		cfg.WatcherStartBlock,
		cfg.WatcherBlockBatch,
		cfg.WatcherConfirmations,
	)

	interval := cfg.WatcherPollInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("watcher started", "interval", interval.String(), "registry", cfg.ReputationRegistry)
	for {
		select {
		case <-sigCtx.Done():
			logger.Info("watcher stopped")
			return
		case <-ticker.C:
			runCtx, runCancel := context.WithTimeout(context.Background(), 30*time.Second)
			err := svc.RunOnce(runCtx)
			runCancel()
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("watcher run failed", "err", err)
			}
		}
	}
}
