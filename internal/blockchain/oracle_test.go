package blockchain

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const oracleWallet = "0x1234567890abcdef1234567890abcdef12345678"

type fakeCallRPC struct {
	result   string
	err      error
	lastTo   string
	lastData string
}

func (f *fakeCallRPC) BlockNumber(_ context.Context) (uint64, error) {
	return 0, errors.New("not implemented")
}

func (f *fakeCallRPC) GetLogs(_ context.Context, _ LogFilter) ([]LogEntry, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeCallRPC) Call(_ context.Context, to, data string) (string, error) {
	f.lastTo = to
	f.lastData = data
	if f.err != nil {
		return "", f.err
	}
	return f.result, nil
}

func TestRegistryOracleFetchScore(t *testing.T) {
	rpc := &fakeCallRPC{result: "0x000000000000000000000000000000000000000000000000000000000000005d"}
	oracle, err := NewRegistryOracle(rpc, "0xcontract")
	require.NoError(t, err)

	score, err := oracle.FetchScore(context.Background(), oracleWallet)
	require.NoError(t, err)
	require.Equal(t, int32(93), score)
	require.Equal(t, "0xcontract", rpc.lastTo)
	require.Equal(t, "0x"+scoreOfSelector+strings.Repeat("0", 24)+oracleWallet[2:], rpc.lastData)
}

func TestRegistryOracleRejectsOutOfRangeScore(t *testing.T) {
	rpc := &fakeCallRPC{result: "0x65"} // 101
	oracle, err := NewRegistryOracle(rpc, "0xcontract")
	require.NoError(t, err)

	_, err = oracle.FetchScore(context.Background(), oracleWallet)
	require.ErrorIs(t, err, ErrOracleUnavailable)
}

func TestRegistryOracleWrapsRPCFailure(t *testing.T) {
	rpc := &fakeCallRPC{err: errors.New("connection refused")}
	oracle, err := NewRegistryOracle(rpc, "0xcontract")
	require.NoError(t, err)

	_, err = oracle.FetchScore(context.Background(), oracleWallet)
	require.ErrorIs(t, err, ErrOracleUnavailable)
}

func TestRegistryOracleRequiresContractAddress(t *testing.T) {
	_, err := NewRegistryOracle(&fakeCallRPC{}, "  ")
	require.Error(t, err)
}

func TestEncodeScoreOfCall(t *testing.T) {
	data, err := encodeScoreOfCall("0x1234567890ABCDEF1234567890abcdef12345678")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(data, "0x"+scoreOfSelector))
	require.Len(t, data, 2+8+64)
	require.True(t, strings.HasSuffix(data, oracleWallet[2:]))

	_, err = encodeScoreOfCall("0x1234")
	require.Error(t, err)
}

func TestDecodeUint256(t *testing.T) {
	cases := []struct {
		in   string
		want uint64
	}{
		{in: "0x0000000000000000000000000000000000000000000000000000000000000000", want: 0},
		{in: "0x000000000000000000000000000000000000000000000000000000000000004b", want: 75},
		{in: "0x64", want: 100},
	}
	for _, tc := range cases {
		got, err := decodeUint256(tc.in)
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, got, tc.in)
	}

	_, err := decodeUint256("")
	require.Error(t, err)
	_, err = decodeUint256("0xffffffffffffffffffffffffffffffffffffffff")
	require.Error(t, err)
}

func TestWalletFromTopic(t *testing.T) {
	topic := "0x000000000000000000000000" + oracleWallet[2:]
	wallet, err := WalletFromTopic(topic)
	require.NoError(t, err)
	require.Equal(t, oracleWallet, wallet)

	_, err = WalletFromTopic("0x1234")
	require.Error(t, err)
}

func TestStubOracleDeterministicAndInRange(t *testing.T) {
	oracle := NewStubOracle(0)

	first, err := oracle.FetchScore(context.Background(), oracleWallet)
	require.NoError(t, err)
	second, err := oracle.FetchScore(context.Background(), "  " + strings.ToUpper(oracleWallet[:6]) + oracleWallet[6:])
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.GreaterOrEqual(t, first, int32(0))
	require.LessOrEqual(t, first, int32(100))

	_, err = oracle.FetchScore(context.Background(), " ")
	require.ErrorIs(t, err, ErrOracleUnavailable)
}

func TestStubOracleHonorsContext(t *testing.T) {
	oracle := NewStubOracle(time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := oracle.FetchScore(ctx, oracleWallet)
	require.ErrorIs(t, err, ErrOracleUnavailable)
}
