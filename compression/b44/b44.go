// Package b44 implements the B44 and B44A lossy half-float compression
// schemes: 4x4 pixel blocks packed to 14 bytes, or 3 bytes when B44A finds
// a uniform ("flat") block.
package b44

import (
	"encoding/binary"

	exr "github.com/johannesvollmer/exrs-sub002"
	"github.com/johannesvollmer/exrs-sub002/attribute"
	"github.com/johannesvollmer/exrs-sub002/compression"
	"github.com/johannesvollmer/exrs-sub002/geometry"
)

func init() {
	compression.Register(attribute.CompressionB44, Codec{flatFields: false})
	compression.Register(attribute.CompressionB44A, Codec{flatFields: true})
}

// Codec implements compression.Codec for B44 (flatFields false) and B44A
// (flatFields true, which additionally packs uniform blocks in 3 bytes).
type Codec struct {
	flatFields bool
}

func (Codec) MayLoseData() bool { return true }

func (c Codec) Compress(channels attribute.ChannelList, data []byte, rect geometry.AbsoluteIndices) ([]byte, error) {
	return CompressBytes(channels, data, rect, c.flatFields)
}

func (c Codec) Decompress(channels attribute.ChannelList, compressed []byte, rect geometry.AbsoluteIndices, _ bool) ([]byte, error) {
	return DecompressBytes(channels, compressed, rect)
}

// CompressBytes partitions each F16 channel into 4x4 blocks (edge blocks
// padded by replication) and packs each with pack14/pack3. U32 and F32
// channels pass through unmodified.
func CompressBytes(channels attribute.ChannelList, uncompressedLE []byte, rect geometry.AbsoluteIndices, flatFields bool) ([]byte, error) {
	offset := 0
	out := make([]byte, 0, len(uncompressedLE))

	for _, ch := range channels.List {
		size := ch.SampleType.ByteSize()
		width, height := rect.Size.X, rect.Size.Y
		planeBytes := width * height * size
		if offset+planeBytes > len(uncompressedLE) {
			return nil, exr.Invalid("b44 input shorter than channel layout")
		}
		plane := uncompressedLE[offset : offset+planeBytes]
		offset += planeBytes

		if ch.SampleType != attribute.SampleF16 {
			out = append(out, plane...)
			continue
		}

		samples := planeToHalves(plane, width, height)
		out = append(out, packPlane(samples, width, height, flatFields)...)
	}

	return out, nil
}

// DecompressBytes reverses CompressBytes.
func DecompressBytes(channels attribute.ChannelList, compressed []byte, rect geometry.AbsoluteIndices) ([]byte, error) {
	offset := 0
	out := make([]byte, 0, rect.Size.X*rect.Size.Y*channels.BytesPerPixel)

	for _, ch := range channels.List {
		size := ch.SampleType.ByteSize()
		width, height := rect.Size.X, rect.Size.Y

		if ch.SampleType != attribute.SampleF16 {
			planeBytes := width * height * size
			if offset+planeBytes > len(compressed) {
				return nil, exr.Invalid("b44 compressed data shorter than channel layout")
			}
			out = append(out, compressed[offset:offset+planeBytes]...)
			offset += planeBytes
			continue
		}

		samples, consumed, err := unpackPlane(compressed[offset:], width, height)
		if err != nil {
			return nil, err
		}
		offset += consumed
		out = append(out, halvesToPlane(samples, width, height)...)
	}

	return out, nil
}

func planeToHalves(plane []byte, width, height int) []uint16 {
	samples := make([]uint16, width*height)
	for i := range samples {
		samples[i] = binary.LittleEndian.Uint16(plane[i*2:])
	}
	return samples
}

func halvesToPlane(samples []uint16, width, height int) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], s)
	}
	return out
}

// blockCount returns how many 4-wide blocks are needed to cover n samples,
// rounding up.
func blockCount(n int) int { return (n + 3) / 4 }

func packPlane(samples []uint16, width, height int, flatFields bool) []byte {
	bx, by := blockCount(width), blockCount(height)
	out := make([]byte, 0, bx*by*14)

	var block [16]uint16
	for blockY := 0; blockY < by; blockY++ {
		for blockX := 0; blockX < bx; blockX++ {
			gatherBlock(samples, width, height, blockX*4, blockY*4, &block)

			var buf [14]byte
			n := pack14(block, buf[:], flatFields)
			out = append(out, buf[:n]...)
		}
	}
	return out
}

func unpackPlane(compressed []byte, width, height int) ([]uint16, int, error) {
	bx, by := blockCount(width), blockCount(height)
	samples := make([]uint16, width*height)

	consumed := 0
	var block [16]uint16
	for blockY := 0; blockY < by; blockY++ {
		for blockX := 0; blockX < bx; blockX++ {
			if consumed >= len(compressed) {
				return nil, 0, exr.Invalid("b44 stream truncated")
			}

			marker := byte(0)
			if consumed+2 < len(compressed) {
				marker = compressed[consumed+2]
			}

			var n int
			if marker == flatFieldMarker {
				if consumed+3 > len(compressed) {
					return nil, 0, exr.Invalid("b44 stream truncated")
				}
				unpack3(compressed[consumed:consumed+3], &block)
				n = 3
			} else {
				if consumed+14 > len(compressed) {
					return nil, 0, exr.Invalid("b44 stream truncated")
				}
				unpack14(compressed[consumed:consumed+14], &block)
				n = 14
			}
			consumed += n

			scatterBlock(samples, width, height, blockX*4, blockY*4, &block)
		}
	}
	return samples, consumed, nil
}

// gatherBlock reads a 4x4 neighborhood starting at (x0,y0), replicating
// the last valid row/column to fill a block that runs past the edge.
func gatherBlock(samples []uint16, width, height, x0, y0 int, block *[16]uint16) {
	for dy := 0; dy < 4; dy++ {
		y := y0 + dy
		if y >= height {
			y = height - 1
		}
		for dx := 0; dx < 4; dx++ {
			x := x0 + dx
			if x >= width {
				x = width - 1
			}
			block[dy*4+dx] = samples[y*width+x]
		}
	}
}

func scatterBlock(samples []uint16, width, height, x0, y0 int, block *[16]uint16) {
	for dy := 0; dy < 4; dy++ {
		y := y0 + dy
		if y >= height {
			continue
		}
		for dx := 0; dx < 4; dx++ {
			x := x0 + dx
			if x >= width {
				continue
			}
			samples[y*width+x] = block[dy*4+dx]
		}
	}
}
