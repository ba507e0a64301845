package b44

import (
	"testing"

	"github.com/johannesvollmer/exrs-sub002/attribute"
	"github.com/johannesvollmer/exrs-sub002/geometry"
)

func channelListU32(width, height int) attribute.ChannelList {
	name, _ := attribute.NewText("Z", false)
	return attribute.NewChannelList([]attribute.ChannelDescription{
		{Name: name, SampleType: attribute.SampleU32, Sampling: attribute.Vec2[int]{X: 1, Y: 1}},
	})
}

func rectOf(width, height int) geometry.AbsoluteIndices {
	return geometry.AbsoluteIndices{Size: attribute.Vec2[int]{X: width, Y: height}}
}

func TestPack14UnpackRoundTripApproximate(t *testing.T) {
	block := [16]uint16{
		0x3c00, 0x3c01, 0x3c02, 0x3c03,
		0x3c10, 0x3c11, 0x3c12, 0x3c13,
		0x3c20, 0x3c21, 0x3c22, 0x3c23,
		0x3c30, 0x3c31, 0x3c32, 0x3c33,
	}

	var buf [14]byte
	n := pack14(block, buf[:], false)
	if n != 14 {
		t.Fatalf("expected 14 bytes, got %d", n)
	}

	var result [16]uint16
	unpack14(buf[:], &result)

	if result[0] != block[0] {
		t.Fatalf("anchor sample must round-trip exactly: got %#x want %#x", result[0], block[0])
	}

	for i, v := range result {
		diff := int(v) - int(block[i])
		if diff < -4 || diff > 4 {
			t.Fatalf("sample %d drifted too far: got %#x want %#x", i, v, block[i])
		}
	}
}

func TestPack14FlatFieldUses3Bytes(t *testing.T) {
	var block [16]uint16
	for i := range block {
		block[i] = 0x3c00
	}

	var buf [14]byte
	n := pack14(block, buf[:], true)
	if n != 3 {
		t.Fatalf("expected flat-field block to pack to 3 bytes, got %d", n)
	}

	var result [16]uint16
	unpack3(buf[:3], &result)
	for i, v := range result {
		if v != block[i] {
			t.Fatalf("flat field sample %d: got %#x want %#x", i, v, block[i])
		}
	}
}

func TestCompressDecompressPassesThroughNonHalfChannels(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	ch := channelListU32(2, 1)
	rect := rectOf(2, 1)

	compressed, err := CompressBytes(ch, data, rect, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(compressed) != len(data) {
		t.Fatalf("expected pass-through length %d, got %d", len(data), len(compressed))
	}
}
