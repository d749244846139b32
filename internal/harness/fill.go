package harness

import "math/rand/v2"

// DefaultSeed seeds every pseudo-random fill so runs are reproducible.
const DefaultSeed = 42

// Fill sets every element of dst to v.
func Fill[T Number](dst []T, v T) {
	for i := range dst {
		dst[i] = v
	}
}

// FillRamp sets dst[i] = base + i%period, computed in T arithmetic.
func FillRamp[T Number](dst []T, base T, period int) {
	for i := range dst {
		dst[i] = base + T(i%period)
	}
}

// Shuffle permutes s with a PCG source seeded from seed.
func Shuffle[T any](s []T, seed uint64) {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	r.Shuffle(len(s), func(i, j int) {
		s[i], s[j] = s[j], s[i]
	})
}

// RepeatSum adds v to itself n times in T arithmetic. Integer results wrap the
// same way the kernels do.
func RepeatSum[T Number](v T, n int) T {
	if !IsFloat[T]() {
		return T(n) * v
	}
	var sum T
	for i := 0; i < n; i++ {
		sum += v
	}
	return sum
}
