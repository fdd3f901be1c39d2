package blockchain

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/sha3"
)

const maxScore = 100

var ErrOracleUnavailable = errors.New("oracle_unavailable")

// scoreOf(address)
var scoreOfSelector = methodSelector("scoreOf(address)")

// RegistryOracle reads a wallet's reputation score from the on-chain
// reputation registry contract.
type RegistryOracle struct {
	rpc          RPCClient
	contractAddr string
}

func NewRegistryOracle(rpc RPCClient, contractAddr string) (*RegistryOracle, error) {
	if strings.TrimSpace(contractAddr) == "" {
		return nil, fmt.Errorf("missing REPUTATION_REGISTRY_ADDRESS")
	}
	return &RegistryOracle{rpc: rpc, contractAddr: strings.TrimSpace(contractAddr)}, nil
}

func (o *RegistryOracle) FetchScore(ctx context.Context, wallet string) (int32, error) {
	data, err := encodeScoreOfCall(wallet)
	if err != nil {
		return 0, err
	}

	out, err := o.rpc.Call(ctx, o.contractAddr, data)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrOracleUnavailable, err.Error())
	}

	score, err := decodeUint256(out)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrOracleUnavailable, err.Error())
	}
	if score > maxScore {
		return 0, fmt.Errorf("%w: score %d out of range", ErrOracleUnavailable, score)
	}
	return int32(score), nil
}

func encodeScoreOfCall(wallet string) (string, error) {
	addr := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(wallet)), "0x")
	if len(addr) != 40 {
		return "", fmt.Errorf("invalid wallet address: %q", wallet)
	}
	// 4-byte selector + address left-padded to 32 bytes.
	return "0x" + scoreOfSelector + strings.Repeat("0", 24) + addr, nil
}

func decodeUint256(v string) (uint64, error) {
	clean := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(v)), "0x")
	if clean == "" {
		return 0, fmt.Errorf("empty call result")
	}
	clean = strings.TrimLeft(clean, "0")
	if clean == "" {
		return 0, nil
	}
	if len(clean) > 16 {
		return 0, fmt.Errorf("call result overflows uint64")
	}
	return strconv.ParseUint(clean, 16, 64)
}

func methodSelector(signature string) string {
	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write([]byte(signature))
	return fmt.Sprintf("%x", h.Sum(nil)[:4])
}

// StubOracle derives a stable pseudo-score from the wallet address. Dev and
// test environments only; it stands in for the registry contract so the read
// path can be exercised without a chain.
type StubOracle struct {
	latency time.Duration
}

func NewStubOracle(latency time.Duration) *StubOracle {
	return &StubOracle{latency: latency}
}

func (o *StubOracle) FetchScore(ctx context.Context, wallet string) (int32, error) {
	if strings.TrimSpace(wallet) == "" {
		return 0, fmt.Errorf("%w: missing wallet", ErrOracleUnavailable)
	}
	if o.latency > 0 {
		select {
		case <-ctx.Done():
			return 0, fmt.Errorf("%w: %s", ErrOracleUnavailable, ctx.Err().Error())
		case <-time.After(o.latency):
		}
	}

	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(wallet))))
	sum := h.Sum(nil)
	return int32(binary.BigEndian.Uint64(sum[:8]) % (maxScore + 1)), nil
}
