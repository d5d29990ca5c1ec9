package app

import "time"

// DailyKey returns the YYYY-MM-DD key for the calendar day of t, in t's
// location. Two calls within the same local calendar day yield the same key;
// the key flips exactly at local midnight. No timezone normalization happens
// here: devices near a zone boundary see the transition at different
// real-world instants, which is a documented property of the daily quiz.
func DailyKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// DeterministicRandom maps a seed string to a reproducible float in [0,1].
// It folds the seed's bytes into a wrapping 32-bit signed accumulator
// (h = h*31 + c, expressed as a shift) and normalizes the absolute magnitude
// by 2^31. The result is bit-identical for a given seed on every platform and
// run; no entropy source is involved. Spread only needs to be reasonable for
// the finite seed space actually used (date-category-index strings).
//
// The accumulator value math.MinInt32 normalizes to exactly 1.0; callers that
// map the value to a slice index must treat an out-of-range index as a
// dropped slot.
func DeterministicRandom(seed string) float64 {
	var hash int32
	for i := 0; i < len(seed); i++ {
		hash = hash<<5 - hash + int32(seed[i])
	}
	mag := int64(hash)
	if mag < 0 {
		mag = -mag
	}
	return float64(mag) / (1 << 31)
}
