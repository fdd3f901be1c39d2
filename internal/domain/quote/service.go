package quote

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// The guarantee/financed split is fixed across tiers; only the interest rate
// and credit ceiling vary with reputation.
var (
	guaranteeRatio = decimal.NewFromFloat(0.20)
	financedRatio  = decimal.NewFromFloat(0.80)
)

type Service struct {
	reputations ReputationResolver
	merchants   MerchantLookup
	now         func() time.Time
}

func NewService(reputations ReputationResolver, merchants MerchantLookup) *Service {
	return &Service{
		reputations: reputations,
		merchants:   merchants,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// CalculateQuote validates the request against the wallet's reputation and
// the merchant directory, then derives the financial breakdown and repayment
// schedule. No loan math happens without a resolved score.
func (s *Service) CalculateQuote(ctx context.Context, wallet string, req Request) (*LoanQuote, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}
	if req.TermMonths < minTermMonths || req.TermMonths > maxTermMonths {
		return nil, ErrInvalidTerm
	}

	snapshot, err := s.reputations.GetReputation(ctx, wallet)
	if err != nil {
		return nil, err
	}

	merchant, err := s.merchants.FindMerchant(ctx, req.MerchantID)
	if err != nil {
		return nil, err
	}
	if merchant == nil {
		return nil, ErrMerchantNotFound
	}
	if !merchant.IsActive {
		return nil, ErrMerchantInactive
	}

	if req.Amount.GreaterThan(snapshot.MaxCredit) {
		return nil, &CreditLimitError{Requested: req.Amount, Limit: snapshot.MaxCredit}
	}

	// Round after each multiplication, to currency minor units.
	guarantee := req.Amount.Mul(guaranteeRatio).Round(2)
	loanAmount := req.Amount.Mul(financedRatio).Round(2)
	interest := loanAmount.Mul(snapshot.InterestRate).Mul(decimal.NewFromInt32(req.TermMonths)).Div(decimal.NewFromInt(1200))
	totalRepayment := loanAmount.Add(interest).Round(2)

	return &LoanQuote{
		WalletAddress:  snapshot.WalletAddress,
		MerchantID:     merchant.ID,
		MerchantName:   merchant.Name,
		Amount:         req.Amount,
		Guarantee:      guarantee,
		LoanAmount:     loanAmount,
		InterestRate:   snapshot.InterestRate,
		TotalRepayment: totalRepayment,
		TermMonths:     req.TermMonths,
		Schedule:       GenerateSchedule(totalRepayment, req.TermMonths, s.now()),
	}, nil
}
