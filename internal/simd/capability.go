package simd

import (
	"os"
	"runtime"
	"strings"
)

// EnvOverride names the environment variable that forces a kernel ISA.
const EnvOverride = "DISTMAT_SIMD"

// ISA identifies the instruction set detected on the host. It only selects
// the kernel family (see KernelFamily); all kernels are portable Go and no
// vector instructions are emitted for a particular ISA.
type ISA uint8

const (
	// Generic is the plain single-accumulator Go implementation.
	Generic ISA = iota
	// NEON is ARM64 Advanced SIMD.
	NEON
	// SVE2 is ARM64 scalable vectors.
	SVE2
	// AVX2 is x86-64 AVX2 with FMA.
	AVX2
	// AVX512 is x86-64 AVX-512 (F+BW).
	AVX512
)

// String returns the lowercase name of the ISA.
func (i ISA) String() string {
	switch i {
	case Generic:
		return "generic"
	case NEON:
		return "neon"
	case SVE2:
		return "sve2"
	case AVX2:
		return "avx2"
	case AVX512:
		return "avx512"
	default:
		return "unknown"
	}
}

// ParseISA parses a case-insensitive ISA name.
func ParseISA(s string) (ISA, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "generic":
		return Generic, true
	case "neon":
		return NEON, true
	case "sve2":
		return SVE2, true
	case "avx2":
		return AVX2, true
	case "avx512":
		return AVX512, true
	default:
		return Generic, false
	}
}

// Set once by the platform init before any kernel runs.
var (
	activeISA   ISA
	hasOverride bool

	hasASIMD    bool
	hasSVE2     bool
	hasAVX2     bool
	hasAVX512F  bool
	hasAVX512BW bool
)

// Features is a snapshot of what the runtime detected.
type Features struct {
	GOOS       string
	GOARCH     string
	Active     ISA
	Kernel     string
	Overridden bool
	ASIMD      bool
	SVE2       bool
	AVX2       bool
	AVX512     bool
}

// Detected returns the detected CPU features and the active ISA.
func Detected() Features {
	return Features{
		GOOS:       runtime.GOOS,
		GOARCH:     runtime.GOARCH,
		Active:     activeISA,
		Kernel:     kernelFamily,
		Overridden: hasOverride,
		ASIMD:      hasASIMD,
		SVE2:       hasSVE2,
		AVX2:       hasAVX2,
		AVX512:     hasAVX512F && hasAVX512BW,
	}
}

// initCapabilities runs from the platform init after the feature flags are
// filled in. It picks the ISA and binds the kernels to it.
func initCapabilities() {
	activeISA = selectBestISA()

	if override := os.Getenv(EnvOverride); override != "" {
		// An unavailable override falls back to auto-detection.
		if isa, ok := ParseISA(override); ok && isISAAvailable(isa) {
			hasOverride = true
			activeISA = isa
		}
	}

	bindKernels(activeISA)
}

func isISAAvailable(isa ISA) bool {
	switch isa {
	case Generic:
		return true
	case NEON:
		return hasASIMD
	case SVE2:
		return hasSVE2
	case AVX2:
		return hasAVX2
	case AVX512:
		return hasAVX512F && hasAVX512BW
	default:
		return false
	}
}

func selectBestISA() ISA {
	switch runtime.GOARCH {
	case "arm64":
		// Apple's SVE2 is slower than NEON; Graviton and Ampere run SVE2 natively.
		if hasSVE2 && runtime.GOOS != "darwin" {
			return SVE2
		}
		if hasASIMD {
			return NEON
		}
	case "amd64":
		if hasAVX512F && hasAVX512BW {
			return AVX512
		}
		if hasAVX2 {
			return AVX2
		}
	}
	return Generic
}

// ActiveISA returns the ISA the kernels are bound to.
func ActiveISA() ISA {
	return activeISA
}

// IsOverridden reports whether DISTMAT_SIMD selected the ISA.
func IsOverridden() bool {
	return hasOverride
}
