package spmod

import "github.com/klauspost/cpuid/v2"

// Backend identifies which lane width a vectorized codelet pass should
// target. DetectBackend computes it from the host capability set each
// time it is called (once per new ntt Plan, and on every package-level
// ntt.Forward/Inverse call).
type Backend int

const (
	// Scalar processes one sp_t at a time.
	Scalar Backend = iota
	// Lanes2 batches two 64-bit lanes, appropriate on AVX2-capable hosts.
	Lanes2
	// Lanes4 batches four 32-bit lanes, appropriate when AVX2 is present
	// and the working prime fits 32 bits.
	Lanes4
)

// DetectBackend inspects the host CPU capability set and returns the
// widest lane width this process can exploit. Go lacks portable SIMD
// intrinsics, so "vectorized" here means a batched scalar loop over a
// lane-sized chunk of a spv, not raw assembly.
func DetectBackend() Backend {
	if cpuid.CPU.Supports(cpuid.AVX2) {
		return Lanes2
	}
	return Scalar
}

// MulVec applies Mul across a vector of operand pairs using the batching
// strategy indicated by backend. The numeric result is identical to
// calling Mul element-wise regardless of backend; only the loop
// structure (and, on real SIMD-capable runtimes, the instruction
// selection) differs.
func (m *Modulus) MulVec(backend Backend, x, y, out []uint64) {
	lane := 1
	switch backend {
	case Lanes2:
		lane = 2
	case Lanes4:
		lane = 4
	}

	n := len(x)
	i := 0
	for ; i+lane <= n; i += lane {
		for l := 0; l < lane; l++ {
			out[i+l] = m.Mul(x[i+l], y[i+l])
		}
	}
	for ; i < n; i++ {
		out[i] = m.Mul(x[i], y[i])
	}
}
