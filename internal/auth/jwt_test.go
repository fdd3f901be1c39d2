package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJWTMintParseRoundtrip(t *testing.T) {
	mgr := NewJWTManager("chainpay", "chainpay-api", "test-signing-key")

	token, err := mgr.Mint("user-1", "0xabc", "sess-1", "access", time.Minute)
	require.NoError(t, err)

	claims, err := mgr.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.Equal(t, "0xabc", claims.Wallet)
	require.Equal(t, "sess-1", claims.SessionID)
	require.Equal(t, "access", claims.Type)
}

func TestJWTParseRejectsExpired(t *testing.T) {
	mgr := NewJWTManager("chainpay", "chainpay-api", "test-signing-key")

	token, err := mgr.Mint("user-1", "0xabc", "sess-1", "access", -time.Minute)
	require.NoError(t, err)

	_, err = mgr.Parse(token)
	require.Error(t, err)
}

func TestJWTParseRejectsWrongSecret(t *testing.T) {
	mgr := NewJWTManager("chainpay", "chainpay-api", "test-signing-key")
	other := NewJWTManager("chainpay", "chainpay-api", "different-key")

	token, err := mgr.Mint("user-1", "0xabc", "sess-1", "access", time.Minute)
	require.NoError(t, err)

	_, err = other.Parse(token)
	require.Error(t, err)
}

func TestJWTParseRejectsWrongIssuerOrAudience(t *testing.T) {
	mgr := NewJWTManager("chainpay", "chainpay-api", "test-signing-key")

	token, err := mgr.Mint("user-1", "0xabc", "sess-1", "refresh", time.Minute)
	require.NoError(t, err)

	_, err = NewJWTManager("someone-else", "chainpay-api", "test-signing-key").Parse(token)
	require.Error(t, err)

	_, err = NewJWTManager("chainpay", "other-api", "test-signing-key").Parse(token)
	require.Error(t, err)
}
