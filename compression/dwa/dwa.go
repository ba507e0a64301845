package dwa

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/klauspost/compress/zlib"
	"github.com/x448/float16"

	exr "github.com/johannesvollmer/exrs-sub002"
	"github.com/johannesvollmer/exrs-sub002/attribute"
	"github.com/johannesvollmer/exrs-sub002/compression"
	"github.com/johannesvollmer/exrs-sub002/compression/rle"
	"github.com/johannesvollmer/exrs-sub002/geometry"
)

func init() {
	compression.Register(attribute.CompressionDWAA, Codec{})
	compression.Register(attribute.CompressionDWAB, Codec{})
}

// Codec implements compression.Codec for DWAA and DWAB. The two differ
// only in scan-lines-per-block, which is a concern of the block layer,
// not of this codec.
type Codec struct{}

func (Codec) MayLoseData() bool { return true }

func (c Codec) Compress(channels attribute.ChannelList, data []byte, rect geometry.AbsoluteIndices) ([]byte, error) {
	return CompressBytes(channels, data, rect, defaultCompressionLevel)
}

func (c Codec) Decompress(channels attribute.ChannelList, compressed []byte, rect geometry.AbsoluteIndices, _ bool) ([]byte, error) {
	return DecompressBytes(channels, compressed, rect)
}

type plane struct {
	offset int
	size   int
	ch     attribute.ChannelDescription
}

func channelPlanes(channels attribute.ChannelList, rect geometry.AbsoluteIndices) []plane {
	planes := make([]plane, len(channels.List))
	offset := 0
	for i, ch := range channels.List {
		size := rect.Size.X * rect.Size.Y * ch.SampleType.ByteSize()
		planes[i] = plane{offset: offset, size: size, ch: ch}
		offset += size
	}
	return planes
}

// CompressBytes classifies the channel list into DCT/RLE/deflate groups
// and codes each independently.
func CompressBytes(channels attribute.ChannelList, uncompressedLE []byte, rect geometry.AbsoluteIndices, level float64) ([]byte, error) {
	initNonlinearTables()
	planes := channelPlanes(channels, rect)

	var out []byte
	for _, g := range classifyChannels(channels) {
		var encoded []byte
		var err error

		switch g.kind {
		case groupDCTCSC:
			encoded, err = encodeCSCGroup(uncompressedLE, planes, g.indices, rect, level)
		case groupDCTPlain:
			p := planes[g.indices[0]]
			encoded, err = encodePlainGroup(planeBytes(uncompressedLE, p), p, rect, level)
		case groupRLE:
			encoded = rle.CompressBytes(planeBytes(uncompressedLE, planes[g.indices[0]]))
		default:
			encoded, err = deflateBytes(planeBytes(uncompressedLE, planes[g.indices[0]]))
		}
		if err != nil {
			return nil, err
		}
		out = appendU32(out, uint32(len(encoded)))
		out = append(out, encoded...)
	}
	return out, nil
}

// DecompressBytes reverses CompressBytes.
func DecompressBytes(channels attribute.ChannelList, compressed []byte, rect geometry.AbsoluteIndices) ([]byte, error) {
	initNonlinearTables()
	planes := channelPlanes(channels, rect)

	total := 0
	for _, p := range planes {
		total += p.size
	}
	out := make([]byte, total)

	r := compressed
	for _, g := range classifyChannels(channels) {
		length, rest, err := readU32(r)
		if err != nil {
			return nil, err
		}
		if uint32(len(rest)) < length {
			return nil, exr.Invalid("dwa group stream truncated")
		}
		chunk := rest[:length]
		r = rest[length:]

		switch g.kind {
		case groupDCTCSC:
			if err := decodeCSCGroup(out, planes, g.indices, rect, chunk); err != nil {
				return nil, err
			}
		case groupDCTPlain:
			if err := decodePlainGroup(out, planes[g.indices[0]], rect, chunk); err != nil {
				return nil, err
			}
		case groupRLE:
			p := planes[g.indices[0]]
			decoded, err := rle.DecompressBytes(chunk, p.size)
			if err != nil {
				return nil, err
			}
			copy(out[p.offset:p.offset+p.size], decoded)
		default:
			p := planes[g.indices[0]]
			decoded, err := inflateBytes(chunk, p.size)
			if err != nil {
				return nil, err
			}
			copy(out[p.offset:p.offset+p.size], decoded)
		}
	}
	return out, nil
}

func planeBytes(data []byte, p plane) []byte {
	return data[p.offset : p.offset+p.size]
}

func deflateBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestSpeed)
	if err != nil {
		return nil, exr.Invalid("dwa compressor")
	}
	if _, err := w.Write(data); err != nil {
		return nil, exr.InvalidWrap("dwa compress", err)
	}
	if err := w.Close(); err != nil {
		return nil, exr.InvalidWrap("dwa compress", err)
	}
	return buf.Bytes(), nil
}

// inflateAll decompresses without a known output size, relying on
// zlib's own end-of-stream marker. Used for the DCT groups, whose
// coefficient stream length is data-dependent because of run-length
// coding.
func inflateAll(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, exr.InvalidWrap("dwa decompress", err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, exr.InvalidWrap("dwa decompress", err)
	}
	return out, nil
}

func inflateBytes(data []byte, expected int) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, exr.InvalidWrap("dwa decompress", err)
	}
	defer r.Close()
	out, err := io.ReadAll(io.LimitReader(r, int64(expected)+1))
	if err != nil {
		return nil, exr.InvalidWrap("dwa decompress", err)
	}
	if len(out) != expected {
		return nil, exr.Invalid("dwa decompressed size mismatch")
	}
	return out, nil
}

// readHalfPlaneNonlinear reads a channel plane (F16 or F32 storage) and
// returns it as a nonlinear-domain float64 grid, widening F32 samples
// through half precision as the nonlinear table operates on half bits.
func readHalfPlaneNonlinear(data []byte, p plane) []float64 {
	n := len(data) / byteSizeOrOne(p.ch)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		var bits uint16
		if p.ch.SampleType == attribute.SampleF32 {
			f := math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
			bits = float16.Fromfloat32(f).Bits()
		} else {
			bits = binary.LittleEndian.Uint16(data[i*2:])
		}
		out[i] = halfBitsToFloat64(toNonlinearTable[bits])
	}
	return out
}

func writeHalfPlaneLinear(out []byte, p plane, samples []float64) {
	for i, v := range samples {
		nonlinearBits := float16.Fromfloat32(float32(v)).Bits()
		linearBits := toLinearTable[nonlinearBits]
		if p.ch.SampleType == attribute.SampleF32 {
			f := float16.Frombits(linearBits).Float32()
			binary.LittleEndian.PutUint32(out[p.offset+i*4:], math.Float32bits(f))
		} else {
			binary.LittleEndian.PutUint16(out[p.offset+i*2:], linearBits)
		}
	}
}

func halfBitsToFloat64(bits uint16) float64 {
	return float64(float16.Frombits(bits).Float32())
}

func byteSizeOrOne(ch attribute.ChannelDescription) int {
	return ch.SampleType.ByteSize()
}

func appendU32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func readU32(buf []byte) (uint32, []byte, error) {
	if len(buf) < 4 {
		return 0, nil, exr.Invalid("dwa stream truncated")
	}
	return binary.LittleEndian.Uint32(buf), buf[4:], nil
}
