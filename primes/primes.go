// Package primes implements trial-division primality testing and helpers
// for finding primes in a range.
//
// IsPrime follows standard trial division: n ≤ 1 is not prime, otherwise n
// is prime iff no i in [2, ⌊√n⌋] divides it. In particular IsPrime(2) and
// IsPrime(3) are true.
package primes

import (
	"context"
	"math"
	"slices"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/bits-and-blooms/bitset"
	"github.com/hupe1980/distmat/internal/parallel"
)

// IsPrime reports whether n is prime.
func IsPrime(n int) bool {
	if n <= 1 {
		return false
	}
	return isPrime(uint64(n))
}

func isPrime(n uint64) bool {
	if n <= 1 {
		return false
	}
	limit := isqrt(n)
	for i := uint64(2); i <= limit; i++ {
		if n%i == 0 {
			return false
		}
	}
	return true
}

// isqrt returns ⌊√n⌋ exactly; the float estimate is corrected in integers.
func isqrt(n uint64) uint64 {
	r := uint64(math.Sqrt(float64(n)))
	for r > 0 && r > n/r {
		r--
	}
	for r+1 <= n/(r+1) {
		r++
	}
	return r
}

// Sieve returns a bitset where bit i is set iff i is prime, for i ≤ limit.
func Sieve(limit uint) *bitset.BitSet {
	b := bitset.New(limit + 1)
	if limit < 2 {
		return b
	}

	b.FlipRange(2, limit+1)
	for i := uint(2); i*i <= limit; i++ {
		if !b.Test(i) {
			continue
		}
		for j := i * i; j <= limit; j += i {
			b.Clear(j)
		}
	}
	return b
}

// InRange returns every prime p with lo ≤ p ≤ hi.
//
// The range is split across up to workers goroutines (GOMAXPROCS if <= 0);
// each chunk collects into its own bitmap and the parts are OR-ed at the
// end. ctx is only checked between chunks.
func InRange(ctx context.Context, lo, hi uint32, workers int) (*roaring.Bitmap, error) {
	if lo > hi {
		return roaring.New(), nil
	}

	n := int(uint64(hi) - uint64(lo) + 1)

	var (
		mu    sync.Mutex
		parts []*roaring.Bitmap
	)

	err := parallel.For(ctx, n, parallel.Config{Workers: workers}, func(from, to int) {
		part := roaring.New()
		for i := from; i < to; i++ {
			v := uint64(lo) + uint64(i)
			if isPrime(v) {
				part.Add(uint32(v))
			}
		}

		mu.Lock()
		parts = append(parts, part)
		mu.Unlock()
	})
	if err != nil {
		return nil, err
	}

	return roaring.FastOr(parts...), nil
}

// Largest returns the k largest members of bm in ascending order.
// It returns fewer than k values if bm is smaller.
func Largest(bm *roaring.Bitmap, k int) []uint32 {
	if k <= 0 || bm == nil {
		return nil
	}

	out := make([]uint32, 0, min(uint64(k), bm.GetCardinality()))
	it := bm.ReverseIterator()
	for it.HasNext() && len(out) < k {
		out = append(out, it.Next())
	}

	slices.Reverse(out)
	return out
}
