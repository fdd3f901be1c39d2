package server

import (
	"log/slog"
	"net/http"

	"github.com/chainpay/backend/internal/auth"
	"github.com/chainpay/backend/internal/config"
	"github.com/chainpay/backend/internal/http/handlers"
	"github.com/chainpay/backend/internal/http/middleware"
	"github.com/chainpay/backend/internal/version"
	"github.com/gin-gonic/gin"
)

type Dependencies struct {
	DBPinger          handlers.Pinger
	CachePinger       handlers.Pinger
	AuthHandler       *handlers.AuthHandler
	ReputationHandler *handlers.ReputationHandler
	QuoteHandler      *handlers.QuoteHandler
	MerchantHandler   *handlers.MerchantHandler
	JWTManager        *auth.JWTManager
}

func NewRouter(cfg config.Config, logger *slog.Logger, deps Dependencies) *gin.Engine {
	if cfg.Env == "prod" || cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestBodyLimit(cfg.MaxRequestBodyBytes))
	r.Use(func(c *gin.Context) {
		logger.Info("request", "method", c.Request.Method, "path", c.Request.URL.Path)
		c.Next()
	})

	health := handlers.NewHealthHandler(deps.DBPinger, deps.CachePinger)
	meta := handlers.NewMetaHandler(cfg.Env, version.Version)

	r.GET("/health", health.Health)
	r.GET("/ready", health.Ready)
	r.GET("/v1/meta", meta.GetMeta)

	if deps.AuthHandler != nil && deps.JWTManager != nil {
		authGroup := r.Group("/v1/auth")
		authGroup.POST("/challenge", deps.AuthHandler.Challenge)
		authGroup.POST("/verify", deps.AuthHandler.Verify)
		authGroup.POST("/refresh", deps.AuthHandler.Refresh)
		authGroup.POST("/logout", deps.AuthHandler.Logout)

		protected := authGroup.Group("")
		protected.Use(middleware.RequireAuth(deps.JWTManager))
		protected.GET("/me", deps.AuthHandler.Me)

		if deps.ReputationHandler != nil {
			repGroup := r.Group("/v1")
			repGroup.Use(middleware.RequireAuth(deps.JWTManager))
			repGroup.GET("/reputation/:wallet", deps.ReputationHandler.GetReputation)
		}
		if deps.QuoteHandler != nil {
			quoteGroup := r.Group("/v1")
			quoteGroup.Use(middleware.RequireAuth(deps.JWTManager))
			quoteGroup.POST("/loans/quote", deps.QuoteHandler.CalculateQuote)
		}
	}

	if deps.MerchantHandler != nil {
		merchantGroup := r.Group("/v1")
		merchantGroup.GET("/merchants", deps.MerchantHandler.ListMerchants)
		merchantGroup.GET("/merchants/:merchantId", deps.MerchantHandler.GetMerchant)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	})

	return r
}
