package dwa

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/x448/float16"

	"github.com/johannesvollmer/exrs-sub002/attribute"
	"github.com/johannesvollmer/exrs-sub002/geometry"
)

func mustText(t *testing.T, s string) attribute.Text {
	t.Helper()
	text, err := attribute.NewText(s, false)
	if err != nil {
		t.Fatal(err)
	}
	return text
}

func synthesizeHalfPlane(width, height int, f func(x, y int) float32) []byte {
	out := make([]byte, width*height*2)
	i := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			bits := float16.Fromfloat32(f(x, y)).Bits()
			binary.LittleEndian.PutUint16(out[i*2:], bits)
			i++
		}
	}
	return out
}

func TestCompressDecompressRGBTripletApproximatesOriginal(t *testing.T) {
	width, height := 16, 16
	channels := attribute.NewChannelList([]attribute.ChannelDescription{
		{Name: mustText(t, "R"), SampleType: attribute.SampleF16, Sampling: attribute.Vec2[int]{X: 1, Y: 1}},
		{Name: mustText(t, "G"), SampleType: attribute.SampleF16, Sampling: attribute.Vec2[int]{X: 1, Y: 1}},
		{Name: mustText(t, "B"), SampleType: attribute.SampleF16, Sampling: attribute.Vec2[int]{X: 1, Y: 1}},
	})
	rect := geometry.AbsoluteIndices{Size: attribute.Vec2[int]{X: width, Y: height}}

	var raw []byte
	raw = append(raw, synthesizeHalfPlane(width, height, func(x, y int) float32 { return float32(x) / 16 })...)
	raw = append(raw, synthesizeHalfPlane(width, height, func(x, y int) float32 { return float32(y) / 16 })...)
	raw = append(raw, synthesizeHalfPlane(width, height, func(x, y int) float32 { return 0.5 })...)

	compressed, err := CompressBytes(channels, raw, rect, defaultCompressionLevel)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	decompressed, err := DecompressBytes(channels, compressed, rect)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if len(decompressed) != len(raw) {
		t.Fatalf("length mismatch: got %d want %d", len(decompressed), len(raw))
	}

	maxDiff := float32(0)
	for i := 0; i < len(raw); i += 2 {
		a := float16.Frombits(binary.LittleEndian.Uint16(raw[i:])).Float32()
		b := float16.Frombits(binary.LittleEndian.Uint16(decompressed[i:])).Float32()
		diff := float32(math.Abs(float64(a - b)))
		if diff > maxDiff {
			maxDiff = diff
		}
	}
	if maxDiff > 0.3 {
		t.Fatalf("lossy reconstruction drifted too far: max diff %v", maxDiff)
	}
}

func TestCompressDecompressAlphaIsLossless(t *testing.T) {
	width, height := 8, 8
	channels := attribute.NewChannelList([]attribute.ChannelDescription{
		{Name: mustText(t, "A"), SampleType: attribute.SampleF16, Sampling: attribute.Vec2[int]{X: 1, Y: 1}},
	})
	rect := geometry.AbsoluteIndices{Size: attribute.Vec2[int]{X: width, Y: height}}

	raw := synthesizeHalfPlane(width, height, func(x, y int) float32 { return float32(x+y) * 0.1 })

	compressed, err := CompressBytes(channels, raw, rect, defaultCompressionLevel)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	decompressed, err := DecompressBytes(channels, compressed, rect)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	for i := range raw {
		if raw[i] != decompressed[i] {
			t.Fatalf("alpha channel must round-trip exactly, byte %d: got %d want %d", i, decompressed[i], raw[i])
		}
	}
}
