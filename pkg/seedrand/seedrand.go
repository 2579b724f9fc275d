// Package seedrand provides a tiny deterministic pseudo-random stream used
// for reproducible synthetic data. It is a 32-bit xorshift, good enough for
// demo variety and nothing more; it is not cryptographic.
package seedrand

// zeroSeed replaces a zero seed, which is a fixpoint of xorshift.
const zeroSeed = 0x9e3779b9

// Stream is a deterministic random stream. The same seed always yields the
// same infinite sequence, across processes.
type Stream struct {
	state uint32
}

// New returns a stream seeded with the given value.
func New(seed uint32) *Stream {
	if seed == 0 {
		seed = zeroSeed
	}
	return &Stream{state: seed}
}

// Float64 returns the next value in [0, 1).
func (s *Stream) Float64() float64 {
	s.state ^= s.state << 13
	s.state ^= s.state >> 17
	s.state ^= s.state << 5
	return float64(s.state) / (1 << 32)
}

// Intn returns the next value in [0, n). n must be positive.
func (s *Stream) Intn(n int) int {
	return int(s.Float64() * float64(n))
}

// Range returns the next value in [lo, hi).
func (s *Stream) Range(lo, hi float64) float64 {
	return lo + s.Float64()*(hi-lo)
}
