package dwa

import (
	"math"
	"sync"

	"github.com/x448/float16"
)

var (
	nonlinearTablesOnce sync.Once
	toLinearTable       [1 << 16]uint16
	toNonlinearTable    [1 << 16]uint16
)

func initNonlinearTables() {
	nonlinearTablesOnce.Do(func() {
		for x := 0; x < 1<<16; x++ {
			toLinearTable[x] = convertToLinear(uint16(x))
			toNonlinearTable[x] = convertToNonlinear(uint16(x))
		}
	})
}

func isHalfInfOrNaN(bits uint16) bool {
	return bits&0x7c00 == 0x7c00
}

// convertToLinear maps a perceptually-quantized half back to linear:
// f <= 1 -> f^2.2, f > 1 -> e^(2.2*(f-1)), sign preserved.
func convertToLinear(bits uint16) uint16 {
	if bits == 0 || isHalfInfOrNaN(bits) {
		return 0
	}

	f := float64(float16.Frombits(bits).Float32())
	sign := 1.0
	if f < 0 {
		sign = -1.0
	}
	abs := math.Abs(f)

	var z float64
	if abs <= 1.0 {
		z = sign * math.Pow(abs, 2.2)
	} else {
		z = sign * math.Exp(2.2*(abs-1.0))
	}
	return float16.Fromfloat32(float32(z)).Bits()
}

// convertToNonlinear is the exact inverse of convertToLinear.
func convertToNonlinear(bits uint16) uint16 {
	if bits == 0 || isHalfInfOrNaN(bits) {
		return 0
	}

	f := float64(float16.Frombits(bits).Float32())
	sign := 1.0
	if f < 0 {
		sign = -1.0
	}
	abs := math.Abs(f)

	var z float64
	if abs <= 1.0 {
		z = sign * math.Pow(abs, 1.0/2.2)
	} else {
		z = sign * (math.Log(abs)/2.2 + 1.0)
	}
	return float16.Fromfloat32(float32(z)).Bits()
}
