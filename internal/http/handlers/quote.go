package handlers

import (
	"context"
	"errors"
	"net/http"

	quotedomain "github.com/chainpay/backend/internal/domain/quote"
	"github.com/gin-gonic/gin"
)

type QuoteService interface {
	CalculateQuote(ctx context.Context, wallet string, req quotedomain.Request) (*quotedomain.LoanQuote, error)
}

type QuoteHandler struct {
	quoteService QuoteService
}

func NewQuoteHandler(quoteService QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

func (h *QuoteHandler) CalculateQuote(c *gin.Context) {
	wallet, ok := c.Get("wallet_address")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req quotedomain.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	result, err := h.quoteService.CalculateQuote(c.Request.Context(), wallet.(string), req)
	if err != nil {
		h.renderQuoteError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *QuoteHandler) renderQuoteError(c *gin.Context, err error) {
	var creditErr *quotedomain.CreditLimitError
	switch {
	case errors.Is(err, quotedomain.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_amount"})
	case errors.Is(err, quotedomain.ErrInvalidTerm):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_term"})
	case errors.Is(err, quotedomain.ErrMerchantNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "merchant_not_found"})
	case errors.Is(err, quotedomain.ErrMerchantInactive):
		c.JSON(http.StatusBadRequest, gin.H{"error": "merchant_inactive"})
	case errors.As(err, &creditErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "amount_exceeds_credit",
			"message":   creditErr.Error(),
			"requested": creditErr.Requested,
			"limit":     creditErr.Limit,
		})
	default:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "quote_failed"})
	}
}
