//go:build amd64 && !noasm

package simd

import "golang.org/x/sys/cpu"

func init() {
	// The unrolled kernels only pay off with FMA-capable AVX2 pipelines.
	hasAVX2 = cpu.X86.HasAVX2 && cpu.X86.HasFMA
	hasAVX512F = cpu.X86.HasAVX512F
	hasAVX512BW = cpu.X86.HasAVX512BW
	initCapabilities()
}
