package blockchain

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// ReputationChanged(address wallet, uint256 newScore)
var TopicReputationChanged = eventTopic("ReputationChanged(address,uint256)")

func eventTopic(signature string) string {
	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write([]byte(signature))
	return fmt.Sprintf("0x%x", h.Sum(nil))
}

// WalletFromTopic extracts the address from an indexed address topic (a
// 32-byte word with the address in the low 20 bytes).
func WalletFromTopic(topic string) (string, error) {
	clean := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(topic)), "0x")
	if len(clean) != 64 {
		return "", fmt.Errorf("invalid address topic: %q", topic)
	}
	return "0x" + clean[24:], nil
}
