package common

import (
	"sync/atomic"
	"time"
)

// Initial state words for the xorshift128 generator.
const (
	seedY uint32 = 362436069
	seedZ uint32 = 521288629
	seedW uint32 = 88675123

	warmupRounds = 32
)

// Random implements a seeded xorshift128 pseudo-random number generator.
// Produces deterministic sequences for reproducible sound generation.
// A Random must not be shared between independent random sequences.
type Random struct {
	seed       uint32
	x, y, z, w uint32
}

// NewRandom creates a new seeded random number generator.
// A seed of 0 is replaced with a time-derived seed.
func NewRandom(seed uint32) *Random {
	r := &Random{}
	r.SetSeed(seed)
	return r
}

// SetSeed sets a new seed and resets the generator state.
func (r *Random) SetSeed(seed uint32) {
	if seed == 0 {
		seed = TimeSeed()
	}
	r.seed = seed
	r.x = seed
	r.y = seedY
	r.z = seedZ
	r.w = seedW

	// Decorrelate the first outputs from the seed.
	for i := 0; i < warmupRounds; i++ {
		r.Uint32()
	}
}

// Seed returns the effective seed, including a substituted time seed.
func (r *Random) Seed() uint32 {
	return r.seed
}

// Uint32 advances the generator by one step.
func (r *Random) Uint32() uint32 {
	t := r.x ^ (r.x << 11)
	r.x, r.y, r.z = r.y, r.z, r.w
	r.w = r.w ^ (r.w >> 19) ^ t ^ (t >> 8)
	return r.w + 0x80000000
}

// Float generates a random float in the closed range [min, max].
// Reversed bounds are swapped.
func (r *Random) Float(min, max float32) float32 {
	if max < min {
		min, max = max, min
	}
	n := float32(r.Uint32()) / float32(0xffffffff)
	return min + float32((max-min)*n)
}

// Bool returns true with probability p.
func (r *Random) Bool(p float32) bool {
	return r.Float(0, 1) < p
}

// Choice picks one of items. An empty list yields 0 without consuming a draw.
func (r *Random) Choice(items []int) int {
	if len(items) == 0 {
		return 0
	}
	i := int(r.Float(0, float32(len(items))))
	if i >= len(items) {
		i = len(items) - 1
	}
	return items[i]
}

var timeSeedCounter atomic.Uint32

// TimeSeed returns a non-zero seed derived from the wall clock. Consecutive
// calls differ even when the clock has not advanced between them.
func TimeSeed() uint32 {
	n := timeSeedCounter.Add(1)
	seed := uint32(time.Now().UnixNano()) ^ (n * 0x9e3779b9)
	if seed == 0 {
		seed = n
	}
	return seed
}

// DeriveSeed generates a deterministic seed for the index-th item of a batch.
// The result is never 0.
func DeriveSeed(base uint32, index int) uint32 {
	seed := base ^ (uint32(index) * 2654435761)
	seed = (seed ^ (seed >> 16)) * 0x85ebca6b
	seed = (seed ^ (seed >> 13)) * 0xc2b2ae35
	seed ^= seed >> 16
	if seed == 0 {
		seed = 1
	}
	return seed
}
