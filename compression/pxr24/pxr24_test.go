package pxr24

import (
	"bytes"
	"encoding/binary"
	"math"
	"math/rand"
	"testing"

	"github.com/johannesvollmer/exrs-sub002/attribute"
	"github.com/johannesvollmer/exrs-sub002/geometry"
)

func mixedChannels(t *testing.T) attribute.ChannelList {
	t.Helper()
	names := []string{"A", "Z"}
	types := []attribute.SampleType{attribute.SampleU32, attribute.SampleF32}

	var list []attribute.ChannelDescription
	for i, n := range names {
		name, err := attribute.NewText(n, false)
		if err != nil {
			t.Fatal(err)
		}
		list = append(list, attribute.ChannelDescription{
			Name: name, SampleType: types[i], Sampling: attribute.Vec2[int]{X: 1, Y: 1},
		})
	}
	return attribute.NewChannelList(list)
}

func TestCompressDecompressLosslessOnU32(t *testing.T) {
	channels := mixedChannels(t)
	rect := geometry.AbsoluteIndices{Size: attribute.Vec2[int]{X: 4, Y: 2}}

	rng := rand.New(rand.NewSource(9))
	pixels := rect.Size.X * rect.Size.Y

	var raw []byte
	u32s := make([]uint32, pixels)
	for i := range u32s {
		u32s[i] = rng.Uint32()
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], u32s[i])
		raw = append(raw, b[:]...)
	}
	f32s := make([]float32, pixels)
	for i := range f32s {
		f32s[i] = rng.Float32() * 100
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(f32s[i]))
		raw = append(raw, b[:]...)
	}

	compressed, err := CompressBytes(channels, raw, rect)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	decompressed, err := DecompressBytes(channels, compressed, rect)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}

	// U32 plane must round-trip exactly.
	if !bytes.Equal(decompressed[:pixels*4], raw[:pixels*4]) {
		t.Fatalf("u32 plane mismatch")
	}

	// F32 plane loses its low mantissa byte; compare with that byte zeroed.
	for i := 0; i < pixels; i++ {
		off := pixels*4 + i*4
		want := raw[off : off+4]
		got := decompressed[off : off+4]
		if got[0] != 0 || got[1] != want[1] || got[2] != want[2] || got[3] != want[3] {
			t.Fatalf("f32 sample %d: got %v want high bytes of %v", i, got, want)
		}
	}
}
