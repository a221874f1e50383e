package blocktime

import (
	"context"
	"errors"
	"testing"
)

// chainProbe simulates a chain where block n has timestamp
// genesisTime + n*blockTime, tracking how often each block is probed.
func chainProbe(genesisTime, blockTime uint64, counts map[uint64]int) ProbeFunc {
	return func(_ context.Context, number uint64) (uint64, error) {
		if counts != nil {
			counts[number]++
		}
		return genesisTime + number*blockTime, nil
	}
}

func TestFirstAtOrAfterExactBoundary(t *testing.T) {
	// Block n has timestamp 1000+12n, latest is 100000.
	probe := chainProbe(1000, 12, nil)
	resolver := NewResolver(probe, 5000)

	cases := []struct {
		target uint64
		want   uint64
	}{
		{1000 + 12*70000, 70000},     // exact block timestamp
		{1000 + 12*70000 - 1, 70000}, // just before a block
		{1000 + 12*70000 + 1, 70001}, // just after a block
		{1000, 0},                    // genesis timestamp
		{0, 0},                       // before genesis
	}

	for _, tc := range cases {
		got, err := resolver.FirstAtOrAfter(context.Background(), tc.target, 100000)
		if err != nil {
			t.Fatalf("target %d: %v", tc.target, err)
		}
		if got != tc.want {
			t.Fatalf("target %d: got block %d, want %d", tc.target, got, tc.want)
		}
	}
}

func TestFirstAtOrAfterBeyondLatest(t *testing.T) {
	probe := chainProbe(1000, 12, nil)
	resolver := NewResolver(probe, 5000)

	latest := uint64(100000)
	latestTS := uint64(1000 + 12*100000)

	got, err := resolver.FirstAtOrAfter(context.Background(), latestTS+1, latest)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != latest {
		t.Fatalf("got block %d, want latest %d", got, latest)
	}
}

func TestFirstAtOrAfterShortChain(t *testing.T) {
	// Chain shorter than one stride: lower bound clamps to genesis.
	probe := chainProbe(500, 3, nil)
	resolver := NewResolver(probe, 5000)

	got, err := resolver.FirstAtOrAfter(context.Background(), 500+3*17, 42)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != 17 {
		t.Fatalf("got block %d, want 17", got)
	}
}

func TestFirstAtOrAfterGenesisAtOrAfterTarget(t *testing.T) {
	// Even block 0 satisfies the predicate; scan terminates at genesis
	// and the search degenerates to 0.
	probe := chainProbe(99999, 12, nil)
	resolver := NewResolver(probe, 100)

	got, err := resolver.FirstAtOrAfter(context.Background(), 10, 2500)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != 0 {
		t.Fatalf("got block %d, want 0", got)
	}
}

func TestFirstAtOrAfterMemoizesProbes(t *testing.T) {
	counts := make(map[uint64]int)
	probe := chainProbe(1000, 12, counts)
	resolver := NewResolver(probe, 5000)

	if _, err := resolver.FirstAtOrAfter(context.Background(), 1000+12*99999, 100000); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	for number, count := range counts {
		if count > 1 {
			t.Fatalf("block %d probed %d times", number, count)
		}
	}
}

func TestFirstAtOrAfterPropagatesProbeError(t *testing.T) {
	probeErr := errors.New("rpc down")
	probe := func(_ context.Context, _ uint64) (uint64, error) {
		return 0, probeErr
	}
	resolver := NewResolver(probe, 5000)

	if _, err := resolver.FirstAtOrAfter(context.Background(), 12345, 100000); !errors.Is(err, probeErr) {
		t.Fatalf("expected probe error, got %v", err)
	}
}

func TestNewResolverDefaultStride(t *testing.T) {
	resolver := NewResolver(chainProbe(0, 1, nil), 0)
	if resolver.stride != DefaultStride {
		t.Fatalf("stride %d, want %d", resolver.stride, DefaultStride)
	}
}
