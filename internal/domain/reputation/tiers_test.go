package reputation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestClassifyThresholds(t *testing.T) {
	cases := []struct {
		score        int32
		tier         Tier
		interestRate int64
		maxCredit    int64
	}{
		{score: 100, tier: TierGold, interestRate: 5, maxCredit: 5000},
		{score: 90, tier: TierGold, interestRate: 5, maxCredit: 5000},
		{score: 89, tier: TierSilver, interestRate: 8, maxCredit: 3000},
		{score: 75, tier: TierSilver, interestRate: 8, maxCredit: 3000},
		{score: 74, tier: TierBronze, interestRate: 12, maxCredit: 1500},
		{score: 60, tier: TierBronze, interestRate: 12, maxCredit: 1500},
		{score: 59, tier: TierPoor, interestRate: 18, maxCredit: 500},
		{score: 0, tier: TierPoor, interestRate: 18, maxCredit: 500},
	}

	for _, tc := range cases {
		terms := Classify(tc.score)
		require.Equal(t, tc.tier, terms.Tier, "score %d", tc.score)
		require.True(t, decimal.NewFromInt(tc.interestRate).Equal(terms.InterestRate), "score %d rate", tc.score)
		require.True(t, decimal.NewFromInt(tc.maxCredit).Equal(terms.MaxCredit), "score %d credit", tc.score)
	}
}

func TestClassifyTotalAndDeterministic(t *testing.T) {
	for score := int32(0); score <= 100; score++ {
		first := Classify(score)
		second := Classify(score)
		require.Equal(t, first.Tier, second.Tier, "score %d", score)
		require.True(t, first.InterestRate.Equal(second.InterestRate))
		require.True(t, first.MaxCredit.Equal(second.MaxCredit))
		require.Contains(t, []Tier{TierGold, TierSilver, TierBronze, TierPoor}, first.Tier)
	}
}

func TestNewSnapshotDerivesJointly(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)
	snap := NewSnapshot("0xabc", 75, at)

	require.Equal(t, "0xabc", snap.WalletAddress)
	require.Equal(t, int32(75), snap.Score)
	require.Equal(t, TierSilver, snap.Tier)
	require.True(t, decimal.NewFromInt(8).Equal(snap.InterestRate))
	require.True(t, decimal.NewFromInt(3000).Equal(snap.MaxCredit))
	require.Equal(t, at, snap.LastUpdated)
}
