package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	merchantdomain "github.com/chainpay/backend/internal/domain/merchant"
	"github.com/gin-gonic/gin"
)

type MerchantService interface {
	ListMerchants(ctx context.Context, limit, offset int32) ([]merchantdomain.Entity, error)
	GetMerchant(ctx context.Context, id string) (*merchantdomain.Entity, error)
}

type MerchantHandler struct {
	merchantService MerchantService
}

func NewMerchantHandler(merchantService MerchantService) *MerchantHandler {
	return &MerchantHandler{merchantService: merchantService}
}

func (h *MerchantHandler) ListMerchants(c *gin.Context) {
	limit, _ := strconv.ParseInt(strings.TrimSpace(c.DefaultQuery("limit", "50")), 10, 32)
	offset, _ := strconv.ParseInt(strings.TrimSpace(c.DefaultQuery("offset", "0")), 10, 32)

	items, err := h.merchantService.ListMerchants(c.Request.Context(), int32(limit), int32(offset))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list_merchants_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *MerchantHandler) GetMerchant(c *gin.Context) {
	id := strings.TrimSpace(c.Param("merchantId"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_merchant_id"})
		return
	}

	item, err := h.merchantService.GetMerchant(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, merchantdomain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "merchant_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get_merchant_failed"})
		return
	}
	c.JSON(http.StatusOK, item)
}
