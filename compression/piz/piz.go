package piz

import (
	"encoding/binary"

	exr "github.com/johannesvollmer/exrs-sub002"
	"github.com/johannesvollmer/exrs-sub002/attribute"
	"github.com/johannesvollmer/exrs-sub002/compression"
	"github.com/johannesvollmer/exrs-sub002/geometry"
)

func init() {
	compression.Register(attribute.CompressionPIZ, Codec{})
}

// Codec implements compression.Codec for PIZ.
type Codec struct{}

func (Codec) MayLoseData() bool { return false }

func (Codec) Compress(channels attribute.ChannelList, data []byte, rect geometry.AbsoluteIndices) ([]byte, error) {
	return CompressBytes(channels, data, rect)
}

func (Codec) Decompress(channels attribute.ChannelList, compressed []byte, rect geometry.AbsoluteIndices, _ bool) ([]byte, error) {
	return DecompressBytes(channels, compressed, rect)
}

// channelGrid describes one channel's token plane within the shared
// token buffer handed to the wavelet transform.
type channelGrid struct {
	offset int // token index of this channel's first token
	width  int // tokens per row (pixels * tokens-per-sample)
	height int
}

func layoutChannels(channels attribute.ChannelList, rect geometry.AbsoluteIndices) ([]channelGrid, int) {
	grids := make([]channelGrid, len(channels.List))
	offset := 0
	for i, ch := range channels.List {
		tokensPerSample := ch.SampleType.ByteSize() / 2
		width := rect.Size.X * tokensPerSample
		height := rect.Size.Y
		grids[i] = channelGrid{offset: offset, width: width, height: height}
		offset += width * height
	}
	return grids, offset
}

// CompressBytes runs the full PIZ pipeline: token partition,
// frequency-sparse LUT, per-channel wavelet transform, canonical Huffman
// coding.
func CompressBytes(channels attribute.ChannelList, uncompressedLE []byte, rect geometry.AbsoluteIndices) ([]byte, error) {
	if len(uncompressedLE)%2 != 0 {
		return nil, exr.Invalid("piz input length must be even")
	}
	tokens := bytesToTokensLE(uncompressedLE)

	grids, total := layoutChannels(channels, rect)
	if total != len(tokens) {
		return nil, exr.Invalid("piz channel layout does not match buffer size")
	}

	lut := buildSparseLUT(tokens)
	lut.apply(tokens)
	max := lut.max()

	for _, g := range grids {
		if g.width == 0 || g.height == 0 {
			continue
		}
		waveletEncode(tokens[g.offset:g.offset+g.width*g.height], g.width, g.height, 1, g.width, max)
	}

	freq := make([]uint64, 1<<16)
	for _, t := range tokens {
		freq[t]++
	}
	codes := buildCanonicalCodes(freq)

	w := &bitWriter{}
	for _, t := range tokens {
		c := codes[t]
		w.writeBits(c.bits, c.length)
	}
	payload := w.flush()

	return encodePizStream(lut.inverse, codes, len(tokens), payload), nil
}

// DecompressBytes reverses CompressBytes exactly.
func DecompressBytes(channels attribute.ChannelList, compressed []byte, rect geometry.AbsoluteIndices) ([]byte, error) {
	lutInverse, codes, tokenCount, payload, err := decodePizStream(compressed)
	if err != nil {
		return nil, err
	}

	table, maxLen := buildDecodeTable(codes)
	r := &bitReader{data: payload}
	tokens := make([]uint16, tokenCount)
	for i := range tokens {
		sym, err := r.readSymbol(table, maxLen)
		if err != nil {
			return nil, err
		}
		tokens[i] = uint16(sym)
	}

	grids, total := layoutChannels(channels, rect)
	if total != len(tokens) {
		return nil, exr.Invalid("piz channel layout does not match token stream")
	}

	max := uint16(0)
	if len(lutInverse) > 0 {
		max = uint16(len(lutInverse) - 1)
	}
	for _, g := range grids {
		if g.width == 0 || g.height == 0 {
			continue
		}
		waveletDecode(tokens[g.offset:g.offset+g.width*g.height], g.width, g.height, 1, g.width, max)
	}

	lut := &sparseLUT{inverse: lutInverse}
	lut.unapply(tokens)

	return tokensToBytesLE(tokens), nil
}

func bytesToTokensLE(data []byte) []uint16 {
	tokens := make([]uint16, len(data)/2)
	for i := range tokens {
		tokens[i] = binary.LittleEndian.Uint16(data[i*2:])
	}
	return tokens
}

func tokensToBytesLE(tokens []uint16) []byte {
	out := make([]byte, len(tokens)*2)
	for i, t := range tokens {
		binary.LittleEndian.PutUint16(out[i*2:], t)
	}
	return out
}

// encodePizStream serializes: LUT inverse table, the sparse code-length
// table (symbol, length pairs), the token count, and the bit-packed
// payload, in that order, each length-prefixed.
func encodePizStream(lutInverse []uint16, codes []huffCode, tokenCount int, payload []byte) []byte {
	var buf []byte
	buf = appendU32(buf, uint32(len(lutInverse)))
	for _, v := range lutInverse {
		buf = appendU16(buf, v)
	}

	var present []int
	for sym, c := range codes {
		if c.length > 0 {
			present = append(present, sym)
		}
	}
	buf = appendU32(buf, uint32(len(present)))
	for _, sym := range present {
		buf = appendU16(buf, uint16(sym))
		buf = append(buf, codes[sym].length)
	}

	buf = appendU32(buf, uint32(tokenCount))
	buf = appendU32(buf, uint32(len(payload)))
	buf = append(buf, payload...)
	return buf
}

func decodePizStream(data []byte) (lutInverse []uint16, codes []huffCode, tokenCount int, payload []byte, err error) {
	r := data

	lutLen, r, err := readU32(r)
	if err != nil {
		return nil, nil, 0, nil, err
	}
	lutInverse = make([]uint16, lutLen)
	for i := range lutInverse {
		var v uint16
		v, r, err = readU16(r)
		if err != nil {
			return nil, nil, 0, nil, err
		}
		lutInverse[i] = v
	}

	codes = make([]huffCode, 1<<16)
	var codeCount uint32
	codeCount, r, err = readU32(r)
	if err != nil {
		return nil, nil, 0, nil, err
	}
	for i := uint32(0); i < codeCount; i++ {
		var sym uint16
		sym, r, err = readU16(r)
		if err != nil {
			return nil, nil, 0, nil, err
		}
		if len(r) == 0 {
			return nil, nil, 0, nil, exr.Invalid("piz stream truncated")
		}
		length := r[0]
		r = r[1:]
		codes[sym] = huffCode{length: length, bits: 0}
	}

	// Reassign canonical bit patterns for the restored lengths, matching
	// the encoder's deterministic (length, symbol) ordering.
	lengths := make([]int, len(codes))
	for sym, c := range codes {
		lengths[sym] = int(c.length)
	}
	assignCanonicalCodes(lengths, codes)

	var count32 uint32
	count32, r, err = readU32(r)
	if err != nil {
		return nil, nil, 0, nil, err
	}
	tokenCount = int(count32)

	var payloadLen uint32
	payloadLen, r, err = readU32(r)
	if err != nil {
		return nil, nil, 0, nil, err
	}
	if uint32(len(r)) < payloadLen {
		return nil, nil, 0, nil, exr.Invalid("piz payload truncated")
	}
	payload = r[:payloadLen]

	return lutInverse, codes, tokenCount, payload, nil
}

func appendU32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendU16(buf []byte, v uint16) []byte {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	return append(buf, tmp[:]...)
}

func readU32(buf []byte) (uint32, []byte, error) {
	if len(buf) < 4 {
		return 0, nil, exr.Invalid("piz stream truncated")
	}
	return binary.LittleEndian.Uint32(buf), buf[4:], nil
}

func readU16(buf []byte) (uint16, []byte, error) {
	if len(buf) < 2 {
		return 0, nil, exr.Invalid("piz stream truncated")
	}
	return binary.LittleEndian.Uint16(buf), buf[2:], nil
}
