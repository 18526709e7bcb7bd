/*
Package bitint provides the power-of-2 helpers used to size FFT windows
for the output analyzer.

Usage:

	// Pad a 1000-frame block to a valid transform size
	size := bitint.NextPowerOfTwo(1000) // Returns 1024

	// Verify a transform size
	ok := bitint.IsPowerOfTwo(size)

NextPowerOfTwo subtracts 1 before taking the bit length so that exact
powers of 2 are preserved rather than doubled:

	8-1 = 7 (0111), bits.Len(7) = 3, 1<<3 = 8
*/
package bitint

import "math/bits"

// NextPowerOfTwo returns the smallest power of 2 >= size.
//
//	Input  Output
//	4      4
//	5      8
//	0      1
//	-1     1
func NextPowerOfTwo(size int) int {
	if size <= 0 {
		return 1
	}
	return 1 << bits.Len(uint(size-1))
}

// IsPowerOfTwo checks if n is a power of 2. A power of 2 has exactly one
// bit set, so clearing the lowest set bit with n&(n-1) leaves zero.
func IsPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}
