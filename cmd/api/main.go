package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chainpay/backend/internal/auth"
	"github.com/chainpay/backend/internal/blockchain"
	"github.com/chainpay/backend/internal/cache"
	"github.com/chainpay/backend/internal/config"
	"github.com/chainpay/backend/internal/db"
	merchantdomain "github.com/chainpay/backend/internal/domain/merchant"
	quotedomain "github.com/chainpay/backend/internal/domain/quote"
	reputationdomain "github.com/chainpay/backend/internal/domain/reputation"
	"github.com/chainpay/backend/internal/http/handlers"
	"github.com/chainpay/backend/internal/observability"
	postgresrepo "github.com/chainpay/backend/internal/repository/postgres"
	redisrepo "github.com/chainpay/backend/internal/repository/redis"
	"github.com/chainpay/backend/internal/server"
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

	oracle, err := blockchain.NewOracleFromConfig(cfg)
	if err != nil {
		logger.Error("failed to build score oracle", "err", err)
		os.Exit(1)
	}

	verifier, err := auth.NewVerifierFromMode(cfg.WalletVerifierMode)
	if err != nil {
		logger.Error("failed to build wallet verifier", "err", err)
		os.Exit(1)
	}

	authRepo := db.NewAuthRepository(pool)
	jwtManager := auth.NewJWTManager(cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTSigningKey)
	authService := auth.NewService(authRepo, jwtManager, verifier, cfg.JWTAccessTTL, cfg.JWTRefreshTTL, cfg.NonceTTL)
	authHandler := handlers.NewAuthHandler(authService, auth.CookieConfig{Domain: cfg.CookieDomain, Secure: cfg.CookieSecure}, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	reputationService := reputationdomain.NewService(
		redisrepo.NewReputationCache(redisClient),
		postgresrepo.NewReputationRepository(pool),
		postgresrepo.NewUserRepository(pool),
		oracle,
		logger,
		cfg.HotCacheTTL,
		cfg.WarmStalenessWindow,
	)
	merchantService := merchantdomain.NewService(postgresrepo.NewMerchantRepository(pool))
	quoteService := quotedomain.NewService(reputationService, merchantService)

	r := server.NewRouter(cfg, logger, server.Dependencies{
		DBPinger:          pool,
		CachePinger:       cache.Pinger{Client: redisClient},
		AuthHandler:       authHandler,
		ReputationHandler: handlers.NewReputationHandler(reputationService),
		QuoteHandler:      handlers.NewQuoteHandler(quoteService),
		MerchantHandler:   handlers.NewMerchantHandler(merchantService),
		JWTManager:        jwtManager,
	})
	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("api server starting", "addr", cfg.Addr())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = httpServer.Shutdown(shutdownCtx)
	logger.Info("api server stopped")
}
