// Package pxr24 implements the PXR24 compression scheme: per-channel
// 24-bit float truncation (lossless on U32/F16) followed by the
// byte-interleave preprocessor and zlib deflate.
package pxr24

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"

	exr "github.com/johannesvollmer/exrs-sub002"
	"github.com/johannesvollmer/exrs-sub002/attribute"
	"github.com/johannesvollmer/exrs-sub002/compression"
	"github.com/johannesvollmer/exrs-sub002/geometry"
)

func init() {
	compression.Register(attribute.CompressionPXR24, Codec{})
}

// Codec implements compression.Codec for PXR24.
type Codec struct{}

func (Codec) MayLoseData() bool { return true }

func (Codec) Compress(channels attribute.ChannelList, data []byte, rect geometry.AbsoluteIndices) ([]byte, error) {
	return CompressBytes(channels, data, rect)
}

func (Codec) Decompress(channels attribute.ChannelList, compressed []byte, rect geometry.AbsoluteIndices, _ bool) ([]byte, error) {
	return DecompressBytes(channels, compressed, rect)
}

// CompressBytes truncates F32 channels to their top 3 bytes, leaves
// F16/U32 channels untouched, then applies the shared preprocessor and
// deflate.
func CompressBytes(channels attribute.ChannelList, uncompressedLE []byte, rect geometry.AbsoluteIndices) ([]byte, error) {
	truncated, err := truncateChannels(channels, uncompressedLE, rect)
	if err != nil {
		return nil, err
	}

	preprocessed := compression.Preprocess(truncated)

	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestSpeed)
	if err != nil {
		return nil, exr.Invalid("pxr24 compressor")
	}
	if _, err := w.Write(preprocessed); err != nil {
		return nil, exr.InvalidWrap("pxr24 compress", err)
	}
	if err := w.Close(); err != nil {
		return nil, exr.InvalidWrap("pxr24 compress", err)
	}

	return buf.Bytes(), nil
}

// DecompressBytes reverses CompressBytes, zero-filling the truncated
// mantissa byte of F32 channels on the way back out.
func DecompressBytes(channels attribute.ChannelList, compressed []byte, rect geometry.AbsoluteIndices) ([]byte, error) {
	truncatedSize := truncatedByteSize(channels, rect)

	r, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, exr.InvalidWrap("pxr24 decompress", err)
	}
	defer r.Close()

	limited := io.LimitReader(r, int64(truncatedSize)+1)
	packed, err := io.ReadAll(limited)
	if err != nil {
		return nil, exr.InvalidWrap("pxr24 decompress", err)
	}
	if len(packed) != truncatedSize {
		return nil, exr.Invalid("pxr24 decompressed size mismatch")
	}

	truncated := compression.Unpreprocess(packed)
	return expandChannels(channels, truncated, rect)
}

func truncatedByteSize(channels attribute.ChannelList, rect geometry.AbsoluteIndices) int {
	pixels := rect.Size.X * rect.Size.Y
	total := 0
	for _, ch := range channels.List {
		if ch.SampleType == attribute.SampleF32 {
			total += pixels * 3
		} else {
			total += pixels * ch.SampleType.ByteSize()
		}
	}
	return total
}

func truncateChannels(channels attribute.ChannelList, data []byte, rect geometry.AbsoluteIndices) ([]byte, error) {
	pixels := rect.Size.X * rect.Size.Y
	out := make([]byte, 0, truncatedByteSize(channels, rect))

	offset := 0
	for _, ch := range channels.List {
		size := ch.SampleType.ByteSize()
		planeBytes := pixels * size
		if offset+planeBytes > len(data) {
			return nil, exr.Invalid("pxr24 input shorter than channel layout")
		}
		plane := data[offset : offset+planeBytes]
		offset += planeBytes

		if ch.SampleType != attribute.SampleF32 {
			out = append(out, plane...)
			continue
		}

		for i := 0; i < pixels; i++ {
			// Little-endian F32: byte 0 is the low mantissa byte, which
			// PXR24 discards; bytes 1-3 (mid mantissa, exponent, sign)
			// are kept.
			out = append(out, plane[i*4+1], plane[i*4+2], plane[i*4+3])
		}
	}
	return out, nil
}

func expandChannels(channels attribute.ChannelList, truncated []byte, rect geometry.AbsoluteIndices) ([]byte, error) {
	pixels := rect.Size.X * rect.Size.Y
	sampleBytes := 0
	for _, ch := range channels.List {
		sampleBytes += ch.SampleType.ByteSize()
	}
	out := make([]byte, 0, pixels*sampleBytes)

	offset := 0
	for _, ch := range channels.List {
		size := ch.SampleType.ByteSize()

		if ch.SampleType != attribute.SampleF32 {
			planeBytes := pixels * size
			if offset+planeBytes > len(truncated) {
				return nil, exr.Invalid("pxr24 stream shorter than channel layout")
			}
			out = append(out, truncated[offset:offset+planeBytes]...)
			offset += planeBytes
			continue
		}

		planeBytes := pixels * 3
		if offset+planeBytes > len(truncated) {
			return nil, exr.Invalid("pxr24 stream shorter than channel layout")
		}
		plane := truncated[offset : offset+planeBytes]
		offset += planeBytes

		for i := 0; i < pixels; i++ {
			out = append(out, 0, plane[i*3], plane[i*3+1], plane[i*3+2])
		}
	}
	return out, nil
}
