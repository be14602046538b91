// Package seeded provides a deterministic string-seeded pseudo-random
// generator and sampling helpers. The same seed always yields the same
// sequence, which the pickup pipeline relies on for reproducible
// defaulting and scoring. Not suitable for anything security-sensitive.
package seeded

import "math"

// RNG produces pseudo-random floats in [0, 1).
type RNG func() float64

// Hash derives a 32-bit state from a seed string using an FNV-1a style
// mix. Every character contributes and order matters.
func Hash(seed string) uint32 {
	hash := uint32(2166136261)
	for i := 0; i < len(seed); i++ {
		hash ^= uint32(seed[i])
		hash *= 16777619
	}
	return hash
}

// New returns a generator whose output sequence is fully determined by
// the seed. The state advances with a xorshift-style mixing step per call.
func New(seed string) RNG {
	t := Hash(seed)
	return func() float64 {
		t += 0x6D2B79F5
		r := (t ^ (t >> 15)) * (t | 1)
		r ^= r + (r^(r>>7))*(r|61)
		return float64(r^(r>>14)) / 4294967296
	}
}

// Between returns a uniform float in [min, max) rounded to the given
// number of decimal places.
func Between(min, max float64, decimals int, rng RNG) float64 {
	value := min + rng()*(max-min)
	scale := math.Pow(10, float64(decimals))
	return math.Round(value*scale) / scale
}

// Int returns a uniform integer in [min, max], inclusive of both bounds.
func Int(min, max int, rng RNG) int {
	return int(rng()*float64(max-min+1)) + min
}

// PickOne returns a uniformly chosen element. The second return is false
// when the list is empty.
func PickOne[T any](list []T, rng RNG) (T, bool) {
	var zero T
	if len(list) == 0 {
		return zero, false
	}
	return list[int(rng()*float64(len(list)))], true
}

// PickMany samples min(count, len(list)) elements without replacement.
// Elements appear in sampling order, not input order.
func PickMany[T any](list []T, count int, rng RNG) []T {
	if len(list) == 0 {
		return nil
	}
	copied := make([]T, len(list))
	copy(copied, list)

	limit := count
	if limit > len(copied) {
		limit = len(copied)
	}

	chosen := make([]T, 0, limit)
	for len(chosen) < limit {
		idx := int(rng() * float64(len(copied)))
		chosen = append(chosen, copied[idx])
		copied = append(copied[:idx], copied[idx+1:]...)
	}
	return chosen
}
