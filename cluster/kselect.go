package cluster

import "math"

// ChooseK picks the cluster count for n samples.
//
// A caller-requested k of at least 2 is used verbatim; anything lower falls
// back to the adaptive policy: n/2 for tiny datasets, n/10 for small ones,
// sqrt(n) beyond that, never below 2. The result is clamped to n since a
// partition cannot have more clusters than points.
func ChooseK(n, requested int) int {
	var k int
	switch {
	case requested >= 2:
		k = requested
	case n <= 20:
		k = maxInt(2, n/2)
	case n <= 200:
		k = maxInt(2, n/10)
	default:
		k = maxInt(2, int(math.Sqrt(float64(n))))
	}

	if k > n {
		k = n
	}
	if k < 1 {
		k = 1
	}
	return k
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
