package simd

import (
	"math/rand"
	"strconv"
	"testing"
)

// Compare dispatch against the plain loops with:
//   go test ./internal/simd -run '^$' -bench . -benchmem
//   DISTMAT_SIMD=generic go test ./internal/simd -run '^$' -bench . -benchmem

func BenchmarkCityBlock(b *testing.B) {
	r := rand.New(rand.NewSource(1))
	for _, dim := range []int{50, 128, 1024} {
		va := randomFloats(r, dim)
		vb := randomFloats(r, dim)

		b.Run("generic/"+strconv.Itoa(dim), func(b *testing.B) {
			for b.Loop() {
				_ = cityBlockGeneric(va, vb)
			}
		})
		b.Run("unrolled/"+strconv.Itoa(dim), func(b *testing.B) {
			for b.Loop() {
				_ = cityBlockUnrolled(va, vb)
			}
		})
	}
}

func BenchmarkCityBlockRows(b *testing.B) {
	r := rand.New(rand.NewSource(1))
	const dim, rows = 50, 2000
	query := randomFloats(r, dim)
	targets := randomFloats(r, dim*rows)
	out := make([]float64, rows)

	b.ResetTimer()
	for b.Loop() {
		CityBlockRows(query, targets, dim, out)
	}
}
