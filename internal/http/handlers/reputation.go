package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/chainpay/backend/internal/domain/reputation"
	"github.com/gin-gonic/gin"
)

type ReputationService interface {
	GetReputation(ctx context.Context, wallet string) (*reputation.Snapshot, error)
}

type ReputationHandler struct {
	reputationService ReputationService
}

func NewReputationHandler(reputationService ReputationService) *ReputationHandler {
	return &ReputationHandler{reputationService: reputationService}
}

func (h *ReputationHandler) GetReputation(c *gin.Context) {
	wallet := strings.TrimSpace(c.Param("wallet"))
	if wallet == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_wallet"})
		return
	}

	snapshot, err := h.reputationService.GetReputation(c.Request.Context(), wallet)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reputation_unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"wallet_address": snapshot.WalletAddress,
		"score":          snapshot.Score,
		"tier":           snapshot.Tier,
		"interest_rate":  snapshot.InterestRate,
		"max_credit":     snapshot.MaxCredit,
		"last_updated":   snapshot.LastUpdated,
	})
}
