package pricing

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/goleak"

	"repairdesk/core/types"
	rderrors "repairdesk/internal/errors"
)

type fakeTierSource struct {
	mu       sync.Mutex
	tiers    map[string][]types.QualityTier
	failures map[string]error
	delay    time.Duration
	calls    map[string]int

	inFlight    int32
	maxInFlight int32
}

func newFakeTierSource() *fakeTierSource {
	return &fakeTierSource{
		tiers:    make(map[string][]types.QualityTier),
		failures: make(map[string]error),
		calls:    make(map[string]int),
	}
}

func (f *fakeTierSource) PricingOptions(ctx context.Context, issueID string) ([]types.QualityTier, error) {
	n := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	for {
		cur := atomic.LoadInt32(&f.maxInFlight)
		if n <= cur || atomic.CompareAndSwapInt32(&f.maxInFlight, cur, n) {
			break
		}
	}

	f.mu.Lock()
	f.calls[issueID]++
	err := f.failures[issueID]
	tiers := f.tiers[issueID]
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return tiers, nil
}

func tier(id int, price string) types.QualityTier {
	return types.QualityTier{
		ID:           id,
		Tier:         types.TierStandard,
		Price:        decimal.RequireFromString(price),
		WarrantyDays: 90,
		Availability: types.AvailabilityInStock,
	}
}

func TestResolveBatchIsolatesFailures(t *testing.T) {
	defer goleak.VerifyNone(t)

	src := newFakeTierSource()
	src.tiers["5"] = []types.QualityTier{tier(7, "89.50"), tier(8, "120.00")}
	src.tiers["6"] = nil
	src.failures["9"] = errors.New("502 bad gateway")

	r := NewResolver(src, Options{MaxConcurrency: 2})
	results := r.ResolveBatch(context.Background(), []string{"5", "6", "9"})

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	if res := results["5"]; !res.OK() || len(res.Tiers) != 2 {
		t.Errorf("issue 5: expected two tiers, got %+v", res)
	}
	if res := results["6"]; !res.OK() || len(res.Tiers) != 0 {
		t.Errorf("issue 6: zero tiers is a valid result, got %+v", res)
	}
	res := results["9"]
	if res.OK() {
		t.Fatal("issue 9 should have failed")
	}
	if !rderrors.IsType(res.Err, rderrors.TypePricing) {
		t.Errorf("expected pricing error, got %v", res.Err)
	}
}

func TestResolveBatchDedupesAndNormalizes(t *testing.T) {
	src := newFakeTierSource()
	src.tiers["5"] = []types.QualityTier{tier(7, "10")}

	r := NewResolver(src, Options{})
	results := r.ResolveBatch(context.Background(), []string{"5", "05", " 5", ""})

	if len(results) != 1 {
		t.Fatalf("expected a single result, got %d", len(results))
	}
	if src.calls["5"] != 1 {
		t.Errorf("expected one backend call, got %d", src.calls["5"])
	}
}

func TestResolveBatchRespectsConcurrencyLimit(t *testing.T) {
	defer goleak.VerifyNone(t)

	src := newFakeTierSource()
	src.delay = 20 * time.Millisecond

	r := NewResolver(src, Options{MaxConcurrency: 2})
	r.ResolveBatch(context.Background(), []string{"1", "2", "3", "4", "5", "6"})

	if got := atomic.LoadInt32(&src.maxInFlight); got > 2 {
		t.Errorf("expected at most 2 concurrent lookups, saw %d", got)
	}
}

func TestResolveTimeoutIsRetryable(t *testing.T) {
	defer goleak.VerifyNone(t)

	src := newFakeTierSource()
	src.delay = time.Second

	r := NewResolver(src, Options{Timeout: 10 * time.Millisecond})
	res := r.Resolve(context.Background(), "5")

	if res.OK() {
		t.Fatal("expected timeout")
	}
	if !errors.Is(res.Err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", res.Err)
	}
	if !rderrors.IsRetryable(res.Err) {
		t.Error("timeouts should be retryable")
	}
}

func TestResolveWithoutID(t *testing.T) {
	r := NewResolver(newFakeTierSource(), Options{})
	if res := r.Resolve(context.Background(), "  "); res.OK() {
		t.Error("expected input error for blank id")
	}
}
