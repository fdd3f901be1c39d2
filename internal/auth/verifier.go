package auth

import (
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/sha3"
)

var walletPattern = regexp.MustCompile(`^0x[0-9a-f]{40}$`)

// WalletVerifier checks that a signature over the challenge message was
// produced by the holder of the wallet.
type WalletVerifier interface {
	VerifySignature(wallet, message, signature string) error
}

// ChallengeMessage is the exact string the wallet signs for a nonce.
func ChallengeMessage(wallet, nonce string) string {
	return fmt.Sprintf("chainpay-auth:%s:%s", wallet, nonce)
}

func ValidWallet(wallet string) bool {
	return walletPattern.MatchString(wallet)
}

// KeccakVerifier accepts the keccak-256 digest of the challenge message as
// the signature. Dev and test environments only; production deployments plug
// in an ECDSA recovery verifier behind the same interface.
type KeccakVerifier struct{}

func NewKeccakVerifier() *KeccakVerifier {
	return &KeccakVerifier{}
}

func (v *KeccakVerifier) VerifySignature(wallet, message, signature string) error {
	if !ValidWallet(wallet) {
		return errors.New("invalid wallet address")
	}

	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write([]byte(message))
	expected := hex.EncodeToString(h.Sum(nil))

	got := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(signature)), "0x")
	if got != expected {
		return errors.New("signature mismatch")
	}
	return nil
}

func NewVerifierFromMode(mode string) (WalletVerifier, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "keccak":
		return NewKeccakVerifier(), nil
	default:
		return nil, fmt.Errorf("invalid WALLET_VERIFIER_MODE: %s", mode)
	}
}
