// Package zip implements the ZIP1 (per-scan-line) and ZIP16 (16-scan-line
// block) compression schemes. Both share the same byte stream transform;
// they differ only in how many scan lines are grouped into one chunk
// before this codec ever sees the data, which is handled by the caller.
package zip

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
	compression.Register(attribute.CompressionZIPS, Codec{})
	compression.Register(attribute.CompressionZIP, Codec{})
}

// Codec implements compression.Codec for ZIP1 and ZIP16.
type Codec struct{}

func (Codec) MayLoseData() bool { return false }

func (Codec) Compress(_ attribute.ChannelList, data []byte, _ geometry.AbsoluteIndices) ([]byte, error) {
	return CompressBytes(data)
}

func (Codec) Decompress(channels attribute.ChannelList, compressed []byte, rect geometry.AbsoluteIndices, _ bool) ([]byte, error) {
	return DecompressBytes(compressed, channelByteSize(channels, rect))
}

func channelByteSize(channels attribute.ChannelList, rect geometry.AbsoluteIndices) int {
	pixels := rect.Size.X * rect.Size.Y
	total := 0
	for _, ch := range channels.List {
		total += pixels * ch.SampleType.ByteSize()
	}
	return total
}

// CompressBytes applies the byte-interleave preprocessor, then deflates
// the result at the compression level the reference implementation uses.
func CompressBytes(raw []byte) ([]byte, error) {
	preprocessed := compression.Preprocess(raw)

	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestSpeed)
	if err != nil {
		return nil, exr.Invalid("zip compressor")
	}
	if _, err := w.Write(preprocessed); err != nil {
		return nil, exr.InvalidWrap("zip compress", err)
	}
	if err := w.Close(); err != nil {
		return nil, exr.InvalidWrap("zip compress", err)
	}

	return buf.Bytes(), nil
}

// DecompressBytes inflates compressed, bounded by expectedByteSize, then
// undoes the preprocessor.
func DecompressBytes(compressed []byte, expectedByteSize int) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, exr.InvalidWrap("zip decompress", err)
	}
	defer r.Close()

	limited := io.LimitReader(r, int64(expectedByteSize)+1)
	out, err := io.ReadAll(limited)
	if err != nil {
		return nil, exr.InvalidWrap("zip decompress", err)
	}
	if len(out) != expectedByteSize {
		return nil, exr.Invalid("zip decompressed size mismatch")
	}

	return compression.Unpreprocess(out), nil
}
