// Package dwa implements the DWAA/DWAB DCT-based lossy compression
// schemes: channel classification, CSC, forward/inverse 8x8 DCT,
// nonlinear perceptual quantization, zig-zag scan and AC run-length
// coding, with DC terms delta-coded across blocks and the coefficient
// stream carried over zlib deflate.
package dwa

import "math"

const blockDim = 8
const blockSamples = blockDim * blockDim

// zigzag is the scan order that turns the 8x8 coefficient grid into a
// 64-entry stream ordered from lowest to highest spatial frequency.
var zigzag = [64]int{
	0, 1, 8, 16, 9, 2, 3, 10,
	17, 24, 32, 25, 18, 11, 4, 5,
	12, 19, 26, 33, 40, 48, 41, 34,
	27, 20, 13, 6, 7, 14, 21, 28,
	35, 42, 49, 56, 57, 50, 43, 36,
	29, 22, 15, 23, 30, 37, 44, 51,
	58, 59, 52, 45, 38, 31, 39, 46,
	53, 60, 61, 54, 47, 55, 62, 63,
}

// dctBasis[u][x] holds cos((2x+1)u*pi/16), the shared basis for both the
// forward and inverse 1D transforms.
var dctBasis [blockDim][blockDim]float64

func init() {
	for u := 0; u < blockDim; u++ {
		for x := 0; x < blockDim; x++ {
			dctBasis[u][x] = math.Cos(float64(2*x+1) * float64(u) * math.Pi / 16)
		}
	}
}

func alpha(u int) float64 {
	if u == 0 {
		return 1 / math.Sqrt2
	}
	return 1
}

// forwardDCT1D transforms 8 spatial samples into 8 frequency coefficients.
func forwardDCT1D(in [blockDim]float64) [blockDim]float64 {
	var out [blockDim]float64
	for u := 0; u < blockDim; u++ {
		var sum float64
		for x := 0; x < blockDim; x++ {
			sum += in[x] * dctBasis[u][x]
		}
		out[u] = 0.5 * alpha(u) * sum
	}
	return out
}

// inverseDCT1D is the exact inverse of forwardDCT1D.
func inverseDCT1D(in [blockDim]float64) [blockDim]float64 {
	var out [blockDim]float64
	for x := 0; x < blockDim; x++ {
		var sum float64
		for u := 0; u < blockDim; u++ {
			sum += alpha(u) * in[u] * dctBasis[u][x]
		}
		out[x] = 0.5 * sum
	}
	return out
}

// forwardDCT8x8 runs the separable 2D DCT-II over a row-major 8x8 block.
func forwardDCT8x8(block [blockSamples]float64) [blockSamples]float64 {
	var rows [blockSamples]float64
	for y := 0; y < blockDim; y++ {
		var row [blockDim]float64
		copy(row[:], block[y*blockDim:(y+1)*blockDim])
		transformed := forwardDCT1D(row)
		copy(rows[y*blockDim:(y+1)*blockDim], transformed[:])
	}

	var out [blockSamples]float64
	for x := 0; x < blockDim; x++ {
		var col [blockDim]float64
		for y := 0; y < blockDim; y++ {
			col[y] = rows[y*blockDim+x]
		}
		transformed := forwardDCT1D(col)
		for y := 0; y < blockDim; y++ {
			out[y*blockDim+x] = transformed[y]
		}
	}
	return out
}

// inverseDCT8x8 is the exact inverse of forwardDCT8x8.
func inverseDCT8x8(coeffs [blockSamples]float64) [blockSamples]float64 {
	var cols [blockSamples]float64
	for x := 0; x < blockDim; x++ {
		var col [blockDim]float64
		for y := 0; y < blockDim; y++ {
			col[y] = coeffs[y*blockDim+x]
		}
		transformed := inverseDCT1D(col)
		for y := 0; y < blockDim; y++ {
			cols[y*blockDim+x] = transformed[y]
		}
	}

	var out [blockSamples]float64
	for y := 0; y < blockDim; y++ {
		var row [blockDim]float64
		copy(row[:], cols[y*blockDim:(y+1)*blockDim])
		transformed := inverseDCT1D(row)
		copy(out[y*blockDim:(y+1)*blockDim], transformed[:])
	}
	return out
}
