package reputation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeHot struct {
	mu       sync.Mutex
	entries  map[string]*Snapshot
	getCalls int
	setCalls int
	delCalls int
	getErr   error
	setErr   error
	delErr   error
	lastTTL  time.Duration
}

func (f *fakeHot) Get(_ context.Context, wallet string) (*Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.entries[wallet], nil
}

func (f *fakeHot) Set(_ context.Context, snapshot *Snapshot, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCalls++
	if f.setErr != nil {
		return f.setErr
	}
	f.lastTTL = ttl
	if f.entries == nil {
		f.entries = map[string]*Snapshot{}
	}
	f.entries[snapshot.WalletAddress] = snapshot
	return nil
}

func (f *fakeHot) Delete(_ context.Context, wallet string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delCalls++
	if f.delErr != nil {
		return f.delErr
	}
	delete(f.entries, wallet)
	return nil
}

type fakeWarm struct {
	mu         sync.Mutex
	rec        *WarmRecord
	getCalls   int
	upserts    int
	deletes    int
	getErr     error
	upsertErr  error
	deleteErr  error
	lastUpsert WarmUpsertInput
}

func (f *fakeWarm) GetByWallet(_ context.Context, _ string) (*WarmRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.rec, nil
}

func (f *fakeWarm) Upsert(_ context.Context, in WarmUpsertInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.lastUpsert = in
	return nil
}

func (f *fakeWarm) DeleteByWallet(_ context.Context, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	return f.deleteErr
}

type fakeUsers struct {
	id  string
	ok  bool
	err error
}

func (f *fakeUsers) FindUserIDByWallet(_ context.Context, _ string) (string, bool, error) {
	return f.id, f.ok, f.err
}

type fakeOracle struct {
	score   int32
	err     error
	latency time.Duration
	calls   atomic.Int32
}

func (f *fakeOracle) FetchScore(_ context.Context, _ string) (int32, error) {
	f.calls.Add(1)
	if f.latency > 0 {
		time.Sleep(f.latency)
	}
	if f.err != nil {
		return 0, f.err
	}
	return f.score, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(hot *fakeHot, warm *fakeWarm, users *fakeUsers, oracle *fakeOracle) *Service {
	return NewService(hot, warm, users, oracle, testLogger(), 2*time.Minute, time.Hour)
}

const testWallet = "0x00112233445566778899aabbccddeeff00112233"

func TestGetReputationHotHitShortCircuits(t *testing.T) {
	snap := NewSnapshot(testWallet, 92, time.Now().UTC())
	hot := &fakeHot{entries: map[string]*Snapshot{testWallet: snap}}
	warm := &fakeWarm{}
	oracle := &fakeOracle{score: 10}
	svc := newTestService(hot, warm, &fakeUsers{}, oracle)

	got, err := svc.GetReputation(context.Background(), testWallet)
	require.NoError(t, err)
	require.Equal(t, snap, got)
	require.Equal(t, 0, warm.getCalls)
	require.Equal(t, int32(0), oracle.calls.Load())
}

func TestGetReputationWarmFreshBackfillsHot(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	syncedAt := now.Add(-59 * time.Minute)
	hot := &fakeHot{}
	warm := &fakeWarm{rec: &WarmRecord{UserID: "u-1", WalletAddress: testWallet, Score: 75, Tier: TierSilver, LastSyncedAt: syncedAt}}
	oracle := &fakeOracle{score: 10}
	svc := newTestService(hot, warm, &fakeUsers{}, oracle)
	svc.now = func() time.Time { return now }

	got, err := svc.GetReputation(context.Background(), testWallet)
	require.NoError(t, err)
	require.Equal(t, int32(75), got.Score)
	require.Equal(t, TierSilver, got.Tier)
	require.Equal(t, syncedAt, got.LastUpdated)
	require.Equal(t, int32(0), oracle.calls.Load())
	require.Equal(t, 1, hot.setCalls)
	require.Equal(t, 2*time.Minute, hot.lastTTL)
}

func TestGetReputationWarmStaleFallsToOracle(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	hot := &fakeHot{}
	warm := &fakeWarm{rec: &WarmRecord{UserID: "u-1", WalletAddress: testWallet, Score: 75, LastSyncedAt: now.Add(-61 * time.Minute)}}
	oracle := &fakeOracle{score: 93}
	svc := newTestService(hot, warm, &fakeUsers{id: "u-1", ok: true}, oracle)
	svc.now = func() time.Time { return now }

	got, err := svc.GetReputation(context.Background(), testWallet)
	require.NoError(t, err)
	require.Equal(t, int32(93), got.Score)
	require.Equal(t, TierGold, got.Tier)
	require.Equal(t, now, got.LastUpdated)
	require.Equal(t, int32(1), oracle.calls.Load())
	require.Equal(t, 1, hot.setCalls)
	require.Equal(t, 1, warm.upserts)
	require.Equal(t, "u-1", warm.lastUpsert.UserID)
	require.Equal(t, now, warm.lastUpsert.LastSyncedAt)
}

func TestGetReputationCacheFailuresDegradeToOracle(t *testing.T) {
	hot := &fakeHot{getErr: errors.New("redis down"), setErr: errors.New("redis down")}
	warm := &fakeWarm{getErr: errors.New("pg down"), upsertErr: errors.New("pg down")}
	oracle := &fakeOracle{score: 50}
	svc := newTestService(hot, warm, &fakeUsers{id: "u-1", ok: true}, oracle)

	got, err := svc.GetReputation(context.Background(), testWallet)
	require.NoError(t, err)
	require.Equal(t, int32(50), got.Score)
	require.Equal(t, TierPoor, got.Tier)
	require.Equal(t, int32(1), oracle.calls.Load())
}

func TestGetReputationWarmWriteBackFailureSwallowed(t *testing.T) {
	warm := &fakeWarm{upsertErr: errors.New("constraint violation")}
	svc := newTestService(&fakeHot{}, warm, &fakeUsers{id: "u-1", ok: true}, &fakeOracle{score: 70})

	got, err := svc.GetReputation(context.Background(), testWallet)
	require.NoError(t, err)
	require.Equal(t, int32(70), got.Score)
	require.Equal(t, 1, warm.upserts)
}

func TestGetReputationUnknownWalletSkipsWarmWrite(t *testing.T) {
	warm := &fakeWarm{}
	svc := newTestService(&fakeHot{}, warm, &fakeUsers{ok: false}, &fakeOracle{score: 70})

	_, err := svc.GetReputation(context.Background(), testWallet)
	require.NoError(t, err)
	require.Equal(t, 0, warm.upserts)
}

func TestGetReputationOracleDownPropagates(t *testing.T) {
	oracleErr := errors.New("oracle_unavailable")
	svc := newTestService(&fakeHot{}, &fakeWarm{}, &fakeUsers{}, &fakeOracle{err: oracleErr})

	_, err := svc.GetReputation(context.Background(), testWallet)
	require.ErrorIs(t, err, oracleErr)
}

func TestGetReputationNormalizesWallet(t *testing.T) {
	svc := newTestService(&fakeHot{}, &fakeWarm{}, &fakeUsers{}, &fakeOracle{score: 80})

	got, err := svc.GetReputation(context.Background(), "  0x00112233445566778899AABBCCDDEEFF00112233 ")
	require.NoError(t, err)
	require.Equal(t, testWallet, got.WalletAddress)
}

func TestGetReputationDeduplicatesConcurrentOracleFetches(t *testing.T) {
	oracle := &fakeOracle{score: 65, latency: 50 * time.Millisecond}
	svc := newTestService(&fakeHot{}, &fakeWarm{}, &fakeUsers{}, oracle)

	const callers = 8
	results := make([]*Snapshot, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.GetReputation(context.Background(), testWallet)
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, int32(65), results[i].Score)
	}
	require.Equal(t, int32(1), oracle.calls.Load())
}

func TestInvalidateReputationDropsBothLayers(t *testing.T) {
	hot := &fakeHot{entries: map[string]*Snapshot{testWallet: NewSnapshot(testWallet, 90, time.Now().UTC())}}
	warm := &fakeWarm{rec: &WarmRecord{WalletAddress: testWallet}}
	svc := newTestService(hot, warm, &fakeUsers{}, &fakeOracle{})

	require.NoError(t, svc.InvalidateReputation(context.Background(), testWallet))
	require.Equal(t, 1, hot.delCalls)
	require.Equal(t, 1, warm.deletes)
}

func TestInvalidateReputationContinuesPastFailure(t *testing.T) {
	hot := &fakeHot{delErr: errors.New("redis down")}
	warm := &fakeWarm{}
	svc := newTestService(hot, warm, &fakeUsers{}, &fakeOracle{})

	err := svc.InvalidateReputation(context.Background(), testWallet)
	require.Error(t, err)
	require.Equal(t, 1, warm.deletes)
}
