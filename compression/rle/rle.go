// Package rle implements the byte-granular run-length compression scheme.
package rle

import (
	exr "github.com/johannesvollmer/exrs-sub002"
	"github.com/johannesvollmer/exrs-sub002/attribute"
	"github.com/johannesvollmer/exrs-sub002/compression"
	"github.com/johannesvollmer/exrs-sub002/geometry"
)

const (
	minRunLength = 3
	maxRunLength = 127
)

func init() {
	compression.Register(attribute.CompressionRLE, Codec{})
}

// Codec implements compression.Codec for the RLE scheme.
type Codec struct{}

func (Codec) MayLoseData() bool { return false }

// Compress run-length encodes data after applying the byte-interleave
// preprocessor.
func (Codec) Compress(_ attribute.ChannelList, data []byte, _ geometry.AbsoluteIndices) ([]byte, error) {
	return CompressBytes(data), nil
}

// Decompress reverses Compress, then undoes the preprocessor.
func (Codec) Decompress(_ attribute.ChannelList, compressed []byte, rect geometry.AbsoluteIndices, _ bool) ([]byte, error) {
	return DecompressBytes(compressed, expectedSize(rect))
}

func expectedSize(rect geometry.AbsoluteIndices) int {
	return rect.Size.X * rect.Size.Y
}

// CompressBytes applies the byte-interleave preprocessor to raw and
// run-length encodes the result.
func CompressBytes(raw []byte) []byte {
	data := compression.Preprocess(raw)

	compressed := make([]byte, 0, len(data))
	runStart := 0
	runEnd := 1

	for runStart < len(data) {
		for runEnd < len(data) &&
			data[runStart] == data[runEnd] &&
			int32(runEnd-runStart)-1 < maxRunLength {
			runEnd++
		}

		if runEnd-runStart >= minRunLength {
			compressed = append(compressed, byte(int32(runEnd-runStart)-1), data[runStart])
			runStart = runEnd
		} else {
			for runEnd < len(data) &&
				((runEnd+1 >= len(data) || data[runEnd] != data[runEnd+1]) ||
					(runEnd+2 >= len(data) || data[runEnd+1] != data[runEnd+2])) &&
				runEnd-runStart < maxRunLength {
				runEnd++
			}

			compressed = append(compressed, byte(int32(runStart)-int32(runEnd)))
			compressed = append(compressed, data[runStart:runEnd]...)

			runStart = runEnd
			runEnd++
		}
	}

	return compressed
}

// DecompressBytes is the raw RLE decoder, returning the preprocessed
// stream with the interleave preprocessor undone.
func DecompressBytes(compressed []byte, expectedByteSize int) ([]byte, error) {
	decompressed := make([]byte, 0, expectedByteSize)
	remaining := compressed

	for len(remaining) > 0 {
		count := int32(int8(remaining[0]))
		remaining = remaining[1:]

		if count < 0 {
			n := int(-count)
			if n > len(remaining) {
				return nil, exr.Invalid("compressed data")
			}
			decompressed = append(decompressed, remaining[:n]...)
			remaining = remaining[n:]
		} else {
			if len(remaining) == 0 {
				return nil, exr.Invalid("compressed data")
			}
			value := remaining[0]
			remaining = remaining[1:]
			for i := int32(0); i <= count; i++ {
				decompressed = append(decompressed, value)
			}
		}
	}

	return compression.Unpreprocess(decompressed), nil
}
