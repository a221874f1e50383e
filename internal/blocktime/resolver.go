package blocktime

import (
	"context"
	"fmt"
)

// ProbeFunc returns the timestamp of the block with the given number.
// Every call may be a network round-trip.
type ProbeFunc func(ctx context.Context, number uint64) (uint64, error)

// DefaultStride is the coarse backward scan step in blocks.
const DefaultStride = 5000

// Resolver maps a wall-clock timestamp onto the chain's block-number
// coordinate system. It assumes block timestamps are non-decreasing
// with block number, which the chain guarantees.
type Resolver struct {
	probe  ProbeFunc
	stride uint64
}

// NewResolver builds a resolver over a timestamp probe. A zero stride
// selects DefaultStride.
func NewResolver(probe ProbeFunc, stride uint64) *Resolver {
	if stride == 0 {
		stride = DefaultStride
	}
	return &Resolver{probe: probe, stride: stride}
}

// FirstAtOrAfter returns the smallest block number in [0, latest] whose
// timestamp is >= target. When even the latest block predates target,
// it returns latest. Probes are memoized for the duration of the call,
// so each block is fetched at most once.
//
// Phase 1 walks backward from latest in stride-sized hops until it
// finds a block older than target (a known lower bound) or reaches
// genesis. Phase 2 binary-searches the bracketed range for the exact
// boundary.
func (r *Resolver) FirstAtOrAfter(ctx context.Context, target, latest uint64) (uint64, error) {
	if r.probe == nil {
		return 0, fmt.Errorf("probe is nil")
	}

	memo := make(map[uint64]uint64)
	probe := func(ctx context.Context, number uint64) (uint64, error) {
		if ts, ok := memo[number]; ok {
			return ts, nil
		}
		ts, err := r.probe(ctx, number)
		if err != nil {
			return 0, fmt.Errorf("probe block %d: %w", number, err)
		}
		memo[number] = ts
		return ts, nil
	}

	low := latest
	for low > 0 {
		if low > r.stride {
			low -= r.stride
		} else {
			low = 0
		}
		ts, err := probe(ctx, low)
		if err != nil {
			return 0, err
		}
		if ts < target {
			break
		}
	}

	return searchBoundary(ctx, probe, low, latest, target)
}

// searchBoundary is an integer binary search for the smallest index in
// [lo, hi] whose probed key is >= target. When no index satisfies the
// predicate it converges to hi.
func searchBoundary(ctx context.Context, probe ProbeFunc, lo, hi, target uint64) (uint64, error) {
	for lo < hi {
		mid := lo + (hi-lo)/2
		ts, err := probe(ctx, mid)
		if err != nil {
			return 0, err
		}
		if ts < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo, nil
}
