package reputation

import (
	"time"

	"github.com/shopspring/decimal"
)

type TierTerms struct {
	Tier         Tier
	InterestRate decimal.Decimal
	MaxCredit    decimal.Decimal
}

// Tier thresholds and terms are policy, not derivation. Changing a rate or a
// ceiling happens here and nowhere else.
var tierPolicy = []struct {
	minScore int32
	terms    TierTerms
}{
	{minScore: 90, terms: TierTerms{Tier: TierGold, InterestRate: decimal.NewFromInt(5), MaxCredit: decimal.NewFromInt(5000)}},
	{minScore: 75, terms: TierTerms{Tier: TierSilver, InterestRate: decimal.NewFromInt(8), MaxCredit: decimal.NewFromInt(3000)}},
	{minScore: 60, terms: TierTerms{Tier: TierBronze, InterestRate: decimal.NewFromInt(12), MaxCredit: decimal.NewFromInt(1500)}},
	{minScore: 0, terms: TierTerms{Tier: TierPoor, InterestRate: decimal.NewFromInt(18), MaxCredit: decimal.NewFromInt(500)}},
}

// Classify maps a raw score to its tier terms. Total over all integers:
// anything below the bronze threshold lands on poor.
func Classify(score int32) TierTerms {
	for _, band := range tierPolicy {
		if score >= band.minScore {
			return band.terms
		}
	}
	return tierPolicy[len(tierPolicy)-1].terms
}

// NewSnapshot derives a full snapshot from a raw score as of the given time.
func NewSnapshot(wallet string, score int32, at time.Time) *Snapshot {
	terms := Classify(score)
	return &Snapshot{
		WalletAddress: wallet,
		Score:         score,
		Tier:          terms.Tier,
		InterestRate:  terms.InterestRate,
		MaxCredit:     terms.MaxCredit,
		LastUpdated:   at,
	}
}
