package blockchain

import (
	"fmt"
	"strings"

	"github.com/chainpay/backend/internal/config"
	"github.com/chainpay/backend/internal/domain/reputation"
)

func NewOracleFromConfig(cfg config.Config) (reputation.ScoreOracle, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.OracleMode))
	if mode == "" || mode == "stub" {
		return NewStubOracle(0), nil
	}
	if mode != "real" {
		return nil, fmt.Errorf("invalid ORACLE_MODE: %s", cfg.OracleMode)
	}

	rpc, err := NewJSONRPCClient(cfg.ChainHTTPRPC)
	if err != nil {
		return nil, err
	}
	return NewRegistryOracle(rpc, cfg.ReputationRegistry)
}
