// Package geometry translates between tile/scan-line coordinates, mip/rip
// level indices, data windows, and byte-exact block layouts.
package geometry

import "github.com/johannesvollmer/exrs-sub002/attribute"

// DivP is OpenEXR's positive-floor division: divide(x, s) always rounds
// towards negative infinity, unlike Go's truncating integer division.
func DivP(x, s int) int {
	if x >= 0 {
		return x / s
	}
	return -((-x + s - 1) / s)
}

// ModP is the corresponding positive-floor modulo: the result is always in
// [0, s).
func ModP(x, s int) int {
	return ((x % s) + s) % s
}

// NumSamples counts the multiples of s in the inclusive range [a, b], i.e.
// the cardinality of {k : a <= k*s <= b}.
func NumSamples(s, a, b int) int {
	lowIndex := DivP(a, s)
	highIndex := DivP(b, s)

	n := highIndex - lowIndex
	if lowIndex*s >= a {
		n++
	}
	if n < 0 {
		return 0
	}
	return n
}

// FloorLog2 returns floor(log2(x)) for x >= 1.
func FloorLog2(x int) int {
	r := 0
	for x > 1 {
		x >>= 1
		r++
	}
	return r
}

// CeilLog2 returns ceil(log2(x)) for x >= 1.
func CeilLog2(x int) int {
	r := 0
	p := 1
	for p < x {
		p <<= 1
		r++
	}
	return r
}

// RoundLevelSize computes one dimension's pixel size at a mip/rip level,
// given the full-resolution size and the rounding mode.
func RoundLevelSize(mode attribute.RoundingMode, fullSize, level int) int {
	if fullSize <= 0 {
		return 0
	}
	shifted := fullSize
	for i := 0; i < level; i++ {
		if mode == attribute.RoundUp {
			shifted = (shifted + 1) / 2
		} else {
			shifted = shifted / 2
		}
		if shifted < 1 {
			shifted = 1
		}
	}
	return shifted
}
