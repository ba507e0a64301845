package dwa

import (
	"encoding/binary"

	"github.com/johannesvollmer/exrs-sub002/geometry"
)

// gridDims returns the block grid size covering a width x height plane
// with 8x8 blocks, edges zero-padded.
func gridDims(width, height int) (bx, by int) {
	return (width + blockDim - 1) / blockDim, (height + blockDim - 1) / blockDim
}

// extractBlock reads one zero-padded 8x8 block from a row-major plane.
func extractBlock(plane []float64, width, height, blockX, blockY int) [blockSamples]float64 {
	var block [blockSamples]float64
	for dy := 0; dy < blockDim; dy++ {
		y := blockY*blockDim + dy
		if y >= height {
			continue
		}
		for dx := 0; dx < blockDim; dx++ {
			x := blockX*blockDim + dx
			if x >= width {
				continue
			}
			block[dy*blockDim+dx] = plane[y*width+x]
		}
	}
	return block
}

func insertBlock(plane []float64, width, height, blockX, blockY int, block [blockSamples]float64) {
	for dy := 0; dy < blockDim; dy++ {
		y := blockY*blockDim + dy
		if y >= height {
			continue
		}
		for dx := 0; dx < blockDim; dx++ {
			x := blockX*blockDim + dx
			if x >= width {
				continue
			}
			plane[y*width+x] = block[dy*blockDim+dx]
		}
	}
}

// encodePlaneDCT runs the forward DCT/quantize/zigzag/AC-RLE pipeline
// over every block of one float64 plane, DC-delta-coded in raster order,
// and returns the resulting coefficient stream.
func encodePlaneDCT(samples []float64, width, height int, level float64) []int32 {
	table := quantTable(level)
	bx, by := gridDims(width, height)

	var stream []int32
	prevDC := int32(0)
	for blockY := 0; blockY < by; blockY++ {
		for blockX := 0; blockX < bx; blockX++ {
			block := extractBlock(samples, width, height, blockX, blockY)
			coeffs := forwardDCT8x8(block)

			var zz [blockSamples]int32
			levels := quantize(coeffs, table)
			for i, pos := range zigzag {
				zz[i] = levels[pos]
			}

			dc := zz[0]
			stream = append(stream, dc-prevDC)
			prevDC = dc

			stream = encodeACRun(stream, zz)
		}
	}
	return stream
}

func int32StreamToBytes(stream []int32) []byte {
	out := make([]byte, len(stream)*4)
	for i, v := range stream {
		binary.LittleEndian.PutUint32(out[i*4:], uint32(v))
	}
	return out
}

func bytesToInt32Stream(data []byte) []int32 {
	out := make([]int32, len(data)/4)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return out
}

func encodePlainGroup(data []byte, p plane, rect geometry.AbsoluteIndices, level float64) ([]byte, error) {
	samples := readHalfPlaneNonlinear(data, p)
	stream := encodePlaneDCT(samples, rect.Size.X, rect.Size.Y, level)
	return deflateBytes(int32StreamToBytes(stream))
}

func decodePlainGroup(out []byte, p plane, rect geometry.AbsoluteIndices, chunk []byte) error {
	// The deflated stream length is unknown ahead of time (run-length
	// coding makes it data-dependent), so size the inflate buffer
	// generously and trust zlib's own end-of-stream marker.
	raw, err := inflateAll(chunk)
	if err != nil {
		return err
	}
	stream := bytesToInt32Stream(raw)
	samples, _ := decodePlaneDCTCounting(stream, rect.Size.X, rect.Size.Y, defaultCompressionLevel)
	writeHalfPlaneLinear(out, p, samples)
	return nil
}

func encodeCSCGroup(data []byte, planes []plane, indices []int, rect geometry.AbsoluteIndices, level float64) ([]byte, error) {
	rPlane, gPlane, bPlane := planes[indices[0]], planes[indices[1]], planes[indices[2]]
	r := readHalfPlaneNonlinear(planeBytes(data, rPlane), rPlane)
	g := readHalfPlaneNonlinear(planeBytes(data, gPlane), gPlane)
	b := readHalfPlaneNonlinear(planeBytes(data, bPlane), bPlane)

	n := len(r)
	y := make([]float64, n)
	cb := make([]float64, n)
	cr := make([]float64, n)
	for i := 0; i < n; i++ {
		y[i], cb[i], cr[i] = rgbToYCbCr(r[i], g[i], b[i])
	}

	width, height := rect.Size.X, rect.Size.Y
	var stream []int32
	stream = append(stream, encodePlaneDCT(y, width, height, level)...)
	stream = append(stream, encodePlaneDCT(cb, width, height, level)...)
	stream = append(stream, encodePlaneDCT(cr, width, height, level)...)

	return deflateBytes(int32StreamToBytes(stream))
}

func decodeCSCGroup(out []byte, planes []plane, indices []int, rect geometry.AbsoluteIndices, chunk []byte) error {
	raw, err := inflateAll(chunk)
	if err != nil {
		return err
	}
	stream := bytesToInt32Stream(raw)
	width, height := rect.Size.X, rect.Size.Y

	// Each plane's stream length varies with its own run-length coding,
	// so decode one plane at a time and track how far it advanced.
	y, consumed := decodePlaneDCTCounting(stream, width, height, defaultCompressionLevel)
	cb, consumed2 := decodePlaneDCTCounting(stream[consumed:], width, height, defaultCompressionLevel)
	cr, _ := decodePlaneDCTCounting(stream[consumed+consumed2:], width, height, defaultCompressionLevel)

	n := len(y)
	r := make([]float64, n)
	g := make([]float64, n)
	b := make([]float64, n)
	for i := 0; i < n; i++ {
		r[i], g[i], b[i] = yCbCrToRGB(y[i], cb[i], cr[i])
	}

	rPlane, gPlane, bPlane := planes[indices[0]], planes[indices[1]], planes[indices[2]]
	writeHalfPlaneLinear(out, rPlane, r)
	writeHalfPlaneLinear(out, gPlane, g)
	writeHalfPlaneLinear(out, bPlane, b)
	return nil
}

// decodePlaneDCTCounting reverses encodePlaneDCT for one plane and also
// returns the number of stream entries it consumed, needed when several
// planes share one stream.
func decodePlaneDCTCounting(stream []int32, width, height int, level float64) ([]float64, int) {
	table := quantTable(level)
	bx, by := gridDims(width, height)
	samples := make([]float64, width*height)

	pos := 0
	prevDC := int32(0)
	for blockY := 0; blockY < by; blockY++ {
		for blockX := 0; blockX < bx; blockX++ {
			dcDelta := stream[pos]
			pos++
			dc := prevDC + dcDelta
			prevDC = dc

			ac, next, err := decodeACRun(stream, pos)
			if err != nil {
				break
			}
			pos = next
			ac[0] = dc

			var levels [blockSamples]int32
			for i, p := range zigzag {
				levels[p] = ac[i]
			}

			coeffs := dequantize(levels, table)
			block := inverseDCT8x8(coeffs)
			insertBlock(samples, width, height, blockX, blockY, block)
		}
	}
	return samples, pos
}

