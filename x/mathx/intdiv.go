package mathx

import "golang.org/x/exp/constraints"

// CeilDiv returns ceil(a/b). b == 0 yields 0.
func CeilDiv[T constraints.Unsigned](a, b T) T {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}

// Log2Ceil returns the smallest n with 1<<n >= v. v == 0 yields 0.
func Log2Ceil[T constraints.Unsigned](v T) uint8 {
	var n uint8
	for T(1)<<n < v {
		n++
	}
	return n
}
