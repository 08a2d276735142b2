// Package randutil centralises how the shoe, the session store and the
// simulator derive their random sources.
package randutil

import (
	rand "math/rand/v2"
	"time"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from seed. Both PCG
// state words are derived from the one seed so equal seeds replay equal shoes.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// FromOptional uses *seed when set and a time-based seed otherwise. The seed
// actually used is returned so callers can log it for replays.
func FromOptional(seed *int64) (*rand.Rand, int64) {
	s := time.Now().UnixNano()
	if seed != nil {
		s = *seed
	}
	return New(s), s
}

// Child derives an independent generator from parent, for handing each game
// or worker its own source.
func Child(parent *rand.Rand) *rand.Rand {
	return New(parent.Int64())
}

// splitmix64 finaliser
func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
