// Package rng provides the seeded random sources threaded through every
// synthesizer. Each body and component derives its own stream from the system
// seed so that generation order does not change the output.
package rng

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	mrand "math/rand"
)

// New returns a deterministic generator for seed.
func New(seed int64) *mrand.Rand {
	return mrand.New(mrand.NewSource(seed))
}

// Derive mixes a salt into seed, producing an independent stream seed.
func Derive(seed int64, salt string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:%s", seed, salt)))
	return int64(h.Sum64() >> 1)
}

// For returns a generator for the (seed, salt) stream.
func For(seed int64, salt string) *mrand.Rand {
	return New(Derive(seed, salt))
}

// Range returns a uniform value in [lo, hi).
func Range(r *mrand.Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// IntRange returns a uniform integer in [lo, hi].
func IntRange(r *mrand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.Intn(hi-lo+1)
}

// Chance reports whether a draw falls under p.
func Chance(r *mrand.Rand, p float64) bool {
	return r.Float64() < p
}

// RandomSeed draws a fresh seed from crypto/rand. Used when the configured
// seed is 0.
func RandomSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// This should never happen; fall back to a fixed seed.
		return 42
	}
	return int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
}
