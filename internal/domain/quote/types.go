package quote

import (
	"context"
	"errors"
	"fmt"
	"time"

	merchantdomain "github.com/chainpay/backend/internal/domain/merchant"
	"github.com/chainpay/backend/internal/domain/reputation"
	"github.com/shopspring/decimal"
)

const (
	minTermMonths = 1
	maxTermMonths = 12
)

var (
	ErrInvalidAmount    = errors.New("invalid_amount")
	ErrInvalidTerm      = errors.New("invalid_term")
	ErrMerchantNotFound = errors.New("merchant_not_found")
	ErrMerchantInactive = errors.New("merchant_inactive")
)

// CreditLimitError carries both figures so the caller can render them.
type CreditLimitError struct {
	Requested decimal.Decimal
	Limit     decimal.Decimal
}

func (e *CreditLimitError) Error() string {
	return fmt.Sprintf("amount_exceeds_credit: requested %s exceeds credit limit %s", e.Requested.StringFixed(2), e.Limit.StringFixed(2))
}

type Request struct {
	Amount     decimal.Decimal `json:"amount"`
	MerchantID string          `json:"merchant_id"`
	TermMonths int32           `json:"term_months"`
}

type ScheduledPayment struct {
	PaymentNumber int32           `json:"payment_number"`
	Amount        decimal.Decimal `json:"amount"`
	DueDate       time.Time       `json:"due_date"`
}

// LoanQuote is computed per request and never stored.
type LoanQuote struct {
	WalletAddress  string             `json:"wallet_address"`
	MerchantID     string             `json:"merchant_id"`
	MerchantName   string             `json:"merchant_name"`
	Amount         decimal.Decimal    `json:"amount"`
	Guarantee      decimal.Decimal    `json:"guarantee"`
	LoanAmount     decimal.Decimal    `json:"loan_amount"`
	InterestRate   decimal.Decimal    `json:"interest_rate"`
	TotalRepayment decimal.Decimal    `json:"total_repayment"`
	TermMonths     int32              `json:"term_months"`
	Schedule       []ScheduledPayment `json:"schedule"`
}

type ReputationResolver interface {
	GetReputation(ctx context.Context, wallet string) (*reputation.Snapshot, error)
}

// MerchantLookup returns (nil, nil) when the merchant does not exist.
type MerchantLookup interface {
	FindMerchant(ctx context.Context, merchantID string) (*merchantdomain.Entity, error)
}
