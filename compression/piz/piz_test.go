package piz

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/johannesvollmer/exrs-sub002/attribute"
	"github.com/johannesvollmer/exrs-sub002/geometry"
)

func testChannels(t *testing.T) attribute.ChannelList {
	t.Helper()
	r, err := attribute.NewText("R", false)
	if err != nil {
		t.Fatal(err)
	}
	g, err := attribute.NewText("G", false)
	if err != nil {
		t.Fatal(err)
	}
	list := []attribute.ChannelDescription{
		{Name: r, SampleType: attribute.SampleF16, Sampling: attribute.Vec2[int]{X: 1, Y: 1}},
		{Name: g, SampleType: attribute.SampleF16, Sampling: attribute.Vec2[int]{X: 1, Y: 1}},
	}
	return attribute.NewChannelList(list)
}

func TestCompressDecompressRoundTrip(t *testing.T) {
	channels := testChannels(t)
	rect := geometry.AbsoluteIndices{Size: attribute.Vec2[int]{X: 8, Y: 4}}

	rng := rand.New(rand.NewSource(3))
	raw := make([]byte, rect.Size.X*rect.Size.Y*len(channels.List)*2)
	rng.Read(raw)

	compressed, err := CompressBytes(channels, raw, rect)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}

	decompressed, err := DecompressBytes(channels, compressed, rect)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !bytes.Equal(decompressed, raw) {
		t.Fatalf("round trip mismatch")
	}
}

func TestCompressDecompressConstantData(t *testing.T) {
	channels := testChannels(t)
	rect := geometry.AbsoluteIndices{Size: attribute.Vec2[int]{X: 4, Y: 4}}

	raw := make([]byte, rect.Size.X*rect.Size.Y*len(channels.List)*2)
	for i := range raw {
		raw[i] = 7
	}

	compressed, err := CompressBytes(channels, raw, rect)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	decompressed, err := DecompressBytes(channels, compressed, rect)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !bytes.Equal(decompressed, raw) {
		t.Fatalf("round trip mismatch on constant data")
	}
}
