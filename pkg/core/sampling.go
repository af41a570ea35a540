package core

import (
	"math"
	"math/rand"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
	// Clone returns an independent sampler with the same configuration
	Clone() Sampler
	// Seed restarts the sample stream deterministically
	Seed(seed int64)
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	seed   int64
	random *rand.Rand
}

// NewRandomSampler creates a sampler seeded with the given value
func NewRandomSampler(seed int64) *RandomSampler {
	return &RandomSampler{seed: seed, random: rand.New(rand.NewSource(seed))}
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// Clone returns a new sampler restarted from this sampler's seed
func (r *RandomSampler) Clone() Sampler {
	return NewRandomSampler(r.seed)
}

// Seed restarts the generator from the given seed
func (r *RandomSampler) Seed(seed int64) {
	r.seed = seed
	r.random = rand.New(rand.NewSource(seed))
}

// PixelSeed derives a per-pixel seed so a pixel's samples do not depend on
// which worker renders it
func PixelSeed(base int64, x, y int) int64 {
	h := uint64(base)*0x9E3779B97F4A7C15 ^ uint64(x)*0xC2B2AE3D27D4EB4F ^ uint64(y)*0x165667B19E3779F9
	h ^= h >> 33
	h *= 0xFF51AFD7ED558CCD
	h ^= h >> 33
	return int64(h & math.MaxInt64)
}
