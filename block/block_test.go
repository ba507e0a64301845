package block

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/johannesvollmer/exrs-sub002/attribute"
	_ "github.com/johannesvollmer/exrs-sub002/compression/zip"
	"github.com/johannesvollmer/exrs-sub002/meta"
)

func testHeader(t *testing.T, width, height int) *meta.Header {
	t.Helper()
	rText, err := attribute.NewText("R", false)
	if err != nil {
		t.Fatal(err)
	}
	channels := attribute.NewChannelList([]attribute.ChannelDescription{
		{Name: rText, SampleType: attribute.SampleF16, Sampling: attribute.Vec2[int]{X: 1, Y: 1}},
	})

	return &meta.Header{
		LayerSize:   attribute.Vec2[uint32]{X: uint32(width), Y: uint32(height)},
		DataWindow:  attribute.NewIntegerBoundsFromMinMax(attribute.Vec2[int32]{X: 0, Y: 0}, attribute.Vec2[int32]{X: int32(width - 1), Y: int32(height - 1)}),
		Compression: attribute.CompressionZIP,
		Blocks:      meta.BlockDescription{Kind: meta.BlockScanLines},
		Channels:    channels,
	}
}

func TestCompressToChunkDecompressChunkRoundTrip(t *testing.T) {
	width, height := 8, 4
	header := testHeader(t, width, height)
	headers := []*meta.Header{header}
	metaData := &meta.MetaData{Headers: headers}

	data := make([]byte, width*height*2)
	rand.New(rand.NewSource(11)).Read(data)

	original := UncompressedBlock{
		Index: BlockIndex{
			Layer:         0,
			PixelPosition: attribute.Vec2[int]{X: 0, Y: 0},
			PixelSize:     attribute.Vec2[int]{X: width, Y: height},
		},
		Data: data,
	}

	chunk, err := CompressToChunk(original, headers)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}

	decompressed, err := DecompressChunk(chunk, metaData, true)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}

	if !bytes.Equal(decompressed.Data, data) {
		t.Fatalf("round trip mismatch: got %v want %v", decompressed.Data, data)
	}
	if decompressed.Index.PixelSize != original.Index.PixelSize {
		t.Fatalf("pixel size mismatch: got %+v want %+v", decompressed.Index.PixelSize, original.Index.PixelSize)
	}
}

func TestWriteChunkReadChunkRoundTrip(t *testing.T) {
	width, height := 8, 4
	header := testHeader(t, width, height)
	headers := []*meta.Header{header}
	metaData := &meta.MetaData{Headers: headers}

	data := make([]byte, width*height*2)
	rand.New(rand.NewSource(5)).Read(data)

	block := UncompressedBlock{
		Index: BlockIndex{
			Layer:     0,
			PixelSize: attribute.Vec2[int]{X: width, Y: height},
		},
		Data: data,
	}

	chunk, err := CompressToChunk(block, headers)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteChunk(&buf, chunk, headers); err != nil {
		t.Fatalf("write chunk: %v", err)
	}

	readBack, err := ReadChunk(&buf, metaData)
	if err != nil {
		t.Fatalf("read chunk: %v", err)
	}

	sb, ok := readBack.Block.(ScanLineBlock)
	if !ok {
		t.Fatalf("expected ScanLineBlock, got %T", readBack.Block)
	}
	original := chunk.Block.(ScanLineBlock)
	if !bytes.Equal(sb.CompressedPixelsLE, original.CompressedPixelsLE) {
		t.Fatalf("compressed payload mismatch after chunk round trip")
	}
}

func TestLinesCoversEveryChannelRow(t *testing.T) {
	header := testHeader(t, 4, 3)
	block := UncompressedBlock{
		Index: BlockIndex{PixelSize: attribute.Vec2[int]{X: 4, Y: 3}},
		Data:  make([]byte, 4*3*2),
	}
	lines := block.Lines(header.Channels)
	if len(lines) != 3 {
		t.Fatalf("expected 3 rows for a single-channel 4x3 block, got %d", len(lines))
	}
	for i, l := range lines {
		if l.Location.Y != i {
			t.Fatalf("line %d has Y=%d", i, l.Location.Y)
		}
		if len(l.Value) != 4*2 {
			t.Fatalf("line %d byte length = %d, want %d", i, len(l.Value), 4*2)
		}
	}
}
