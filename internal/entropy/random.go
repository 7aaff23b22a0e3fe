// Package entropy supplies seeds and seeded generators for the colony engine.
// Unseeded runs draw their seed from crypto/rand; seeded runs are fully
// reproducible.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand/v2"
)

// Seed returns a fresh non-zero seed from crypto/rand. Zero is reserved to
// mean "pick one for me" throughout the engine options.
func Seed() int64 {
	for {
		var buf [8]byte
		if _, err := rand.Read(buf[:]); err != nil {
			// crypto/rand does not fail on supported platforms.
			panic("entropy: crypto/rand unavailable: " + err.Error())
		}
		// Keep it positive so it prints and stores cleanly.
		s := int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
		if s != 0 {
			return s
		}
	}
}

// Resolve returns seed unchanged unless it is zero, in which case a fresh
// seed is drawn.
func Resolve(seed int64) int64 {
	if seed == 0 {
		return Seed()
	}
	return seed
}

// Derive mixes a parent seed and a stream index into an independent child
// seed (splitmix64 finalizer). Children of the same parent never collide for
// distinct streams in practice and never return zero.
func Derive(seed int64, stream uint64) int64 {
	z := uint64(seed) + (stream+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	z ^= z >> 31
	s := int64(z >> 1)
	if s == 0 {
		return 1
	}
	return s
}

// NewRand returns a PCG generator seeded from seed. Each trial owns one; the
// generator is not safe for concurrent use.
func NewRand(seed int64) *mrand.Rand {
	return mrand.New(mrand.NewPCG(uint64(seed), uint64(seed)^0xda3e39cb94b95bdb))
}

// Uniform returns a value in [lo, hi).
func Uniform(r *mrand.Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}
