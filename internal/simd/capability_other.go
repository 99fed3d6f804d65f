//go:build (!amd64 && !arm64) || noasm

package simd

// Without feature detection everything stays on the generic kernels.
func init() {
	initCapabilities()
}
