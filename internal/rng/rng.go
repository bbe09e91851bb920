// Package rng provides the injectable random source combat damage
// calculation needs: deterministic for tests, drawing from the
// platform's non-deterministic PRNG by default.
package rng

import (
	"crypto/rand"
	"encoding/binary"
	"math/big"
	mathrand "math/rand"
)

// Source draws a uniform float64 in [0,1).
type Source interface {
	Float64() float64
}

// Default returns a Source seeded from crypto/rand, falling back to a
// fixed seed only if the OS entropy source is unavailable.
func Default() Source {
	var seedBytes [8]byte
	if _, err := rand.Read(seedBytes[:]); err != nil {
		return mathrand.New(mathrand.NewSource(1))
	}
	seed := int64(binary.LittleEndian.Uint64(seedBytes[:]))
	return mathrand.New(mathrand.NewSource(seed))
}

// Deterministic returns a Source that always yields a fixed value,
// useful for tests that need predictable combat outcomes.
type Deterministic float64

func (d Deterministic) Float64() float64 { return float64(d) }

// FloatIn draws a uniform value in [lo, hi) from src.
func FloatIn(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// CryptoFloat draws directly from crypto/rand without a seeded PRNG, for
// callers that want to avoid math/rand's determinism entirely.
func CryptoFloat() float64 {
	n, err := rand.Int(rand.Reader, big.NewInt(1<<53))
	if err != nil {
		return 0.5
	}
	return float64(n.Int64()) / float64(1<<53)
}
