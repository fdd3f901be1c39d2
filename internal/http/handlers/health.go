package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	dbPinger    Pinger
	cachePinger Pinger
}

func NewHealthHandler(dbPinger, cachePinger Pinger) *HealthHandler {
	return &HealthHandler{dbPinger: dbPinger, cachePinger: cachePinger}
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "chainpay-backend",
	})
}

func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	database := "ok"
	if h.dbPinger == nil || h.dbPinger.Ping(ctx) != nil {
		database = "error"
	}
	cache := "ok"
	if h.cachePinger == nil || h.cachePinger.Ping(ctx) != nil {
		cache = "error"
	}

	if database != "ok" || cache != "ok" {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "not_ready",
			"database": database,
			"cache":    cache,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ready",
		"database": database,
		"cache":    cache,
	})
}
