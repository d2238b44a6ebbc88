package random

import (
	"crypto/rand"
	"encoding/binary"
	"math/big"
	mathrand "math/rand/v2"
)

// Random provides random number generation that can be mocked for testing
type Random interface {
	// Intn returns a random int in [0, n)
	Intn(n int) int
}

// Factory creates an independent Random.
// Callers that must not share state with concurrent work ask for a fresh one.
type Factory func() Random

// CryptoRandom implements Random using crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// Intn returns a cryptographically random int in [0, n)
func (r *CryptoRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	max := big.NewInt(int64(n))
	result, err := rand.Int(rand.Reader, max)
	if err != nil {
		// Fall back to 0 on error (should never happen with crypto/rand)
		return 0
	}
	return int(result.Int64())
}

// SeededRandom is a PCG generator owned by a single caller.
// It is not safe for concurrent use.
type SeededRandom struct {
	rng *mathrand.Rand
}

// NewSeeded creates a SeededRandom with the given seed
func NewSeeded(seed1, seed2 uint64) *SeededRandom {
	return &SeededRandom{rng: mathrand.New(mathrand.NewPCG(seed1, seed2))}
}

// NewFromEntropy creates a SeededRandom seeded from crypto/rand
func NewFromEntropy() *SeededRandom {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return NewSeeded(mathrand.Uint64(), mathrand.Uint64())
	}
	return NewSeeded(binary.LittleEndian.Uint64(buf[:8]), binary.LittleEndian.Uint64(buf[8:]))
}

// Intn returns a pseudo-random int in [0, n)
func (r *SeededRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return r.rng.IntN(n)
}

// EntropyFactory returns a Factory producing a freshly seeded source per call
func EntropyFactory() Factory {
	return func() Random { return NewFromEntropy() }
}
