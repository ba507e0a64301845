package chunkio

import (
	"io"
	"math/rand"
	"testing"

	"github.com/cespare/xxhash/v2"

	"github.com/johannesvollmer/exrs-sub002/attribute"
	"github.com/johannesvollmer/exrs-sub002/block"
	_ "github.com/johannesvollmer/exrs-sub002/compression/zip" // registers CompressionZIPS too
	"github.com/johannesvollmer/exrs-sub002/meta"
)

// memFile is a minimal in-memory io.ReadWriteSeeker, standing in for a
// buffered file handle in tests.
type memFile struct {
	buf []byte
	pos int64
}

func (m *memFile) Read(p []byte) (int, error) {
	if m.pos >= int64(len(m.buf)) {
		return 0, io.EOF
	}
	n := copy(p, m.buf[m.pos:])
	m.pos += int64(n)
	return n, nil
}

func (m *memFile) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	copy(m.buf[m.pos:end], p)
	m.pos = end
	return len(p), nil
}

func (m *memFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		m.pos = offset
	case io.SeekCurrent:
		m.pos += offset
	case io.SeekEnd:
		m.pos = int64(len(m.buf)) + offset
	}
	return m.pos, nil
}

func testHeader(t *testing.T, width, height int) *meta.Header {
	t.Helper()
	rText, err := attribute.NewText("R", false)
	if err != nil {
		t.Fatal(err)
	}
	channels := attribute.NewChannelList([]attribute.ChannelDescription{
		{Name: rText, SampleType: attribute.SampleF16, Sampling: attribute.Vec2[int]{X: 1, Y: 1}},
	})

	h := &meta.Header{
		LayerSize:   attribute.Vec2[uint32]{X: uint32(width), Y: uint32(height)},
		DataWindow:  attribute.NewIntegerBoundsFromMinMax(attribute.Vec2[int32]{X: 0, Y: 0}, attribute.Vec2[int32]{X: int32(width - 1), Y: int32(height - 1)}),
		Compression: attribute.CompressionZIPS,
		Blocks:      meta.BlockDescription{Kind: meta.BlockScanLines},
		Channels:    channels,
	}

	name, _ := attribute.NewText("dataWindow", false)
	h.OwnAttributes = []attribute.Attribute{{Name: name, Value: h.DataWindow}}
	for _, pair := range []struct {
		name  string
		value any
	}{
		{"displayWindow", h.DataWindow},
		{"pixelAspectRatio", float32(1)},
		{"screenWindowCenter", attribute.Vec2[float32]{}},
		{"screenWindowWidth", float32(1)},
		{"lineOrder", attribute.LineOrderIncreasing},
		{"compression", h.Compression},
		{"channels", h.Channels},
	} {
		n, _ := attribute.NewText(pair.name, false)
		h.OwnAttributes = append(h.OwnAttributes, attribute.Attribute{Name: n, Value: pair.value})
	}

	return h
}

func writeTestFile(t *testing.T, width, height, scanLinesPerChunk int) (*memFile, []*meta.Header, [][]byte) {
	t.Helper()
	header := testHeader(t, width, height)
	headers := []*meta.Header{header}
	version := meta.NewVersionWord(2, false, false, false, false)

	f := &memFile{}
	w, err := Create(f, headers, version)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	rng := rand.New(rand.NewSource(42))
	chunkCount := header.ExpectedChunkCount()
	var planes [][]byte
	for i := 0; i < chunkCount; i++ {
		rowBytes := width * 2
		data := make([]byte, rowBytes*scanLinesPerChunk)
		rng.Read(data)
		planes = append(planes, data)

		b := block.UncompressedBlock{
			Index: block.BlockIndex{
				Layer:         0,
				PixelPosition: attribute.Vec2[int]{X: 0, Y: i * scanLinesPerChunk},
				PixelSize:     attribute.Vec2[int]{X: width, Y: scanLinesPerChunk},
			},
			Data: data,
		}
		chunk, err := block.CompressToChunk(b, headers)
		if err != nil {
			t.Fatalf("compress chunk %d: %v", i, err)
		}
		if err := w.WriteChunk(chunk); err != nil {
			t.Fatalf("write chunk %d: %v", i, err)
		}
	}

	if err := w.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	return f, headers, planes
}

func TestWriterReaderRoundTrip(t *testing.T) {
	width, height, scans := 8, 4, 1
	f, _, planes := writeTestFile(t, width, height, scans)

	f.pos = 0
	r, err := Open(f, true)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	chunks, err := r.AllChunks()
	if err != nil {
		t.Fatalf("all chunks: %v", err)
	}
	if len(chunks) != len(planes) {
		t.Fatalf("got %d chunks, want %d", len(chunks), len(planes))
	}

	blocks, err := r.DecompressSequential(chunks, nil)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	for i, b := range blocks {
		if string(b.Data) != string(planes[i]) {
			t.Fatalf("chunk %d data mismatch", i)
		}
	}
}

func TestDecompressParallelMatchesSequential(t *testing.T) {
	width, height, scans := 8, 8, 1
	f, _, _ := writeTestFile(t, width, height, scans)

	f.pos = 0
	r, err := Open(f, true)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	chunks, err := r.AllChunks()
	if err != nil {
		t.Fatalf("all chunks: %v", err)
	}

	sequential, err := r.DecompressSequential(chunks, nil)
	if err != nil {
		t.Fatalf("sequential: %v", err)
	}
	parallel, err := r.DecompressParallel(chunks, 4)
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}

	if len(sequential) != len(parallel) {
		t.Fatalf("length mismatch: %d vs %d", len(sequential), len(parallel))
	}
	for i := range sequential {
		if fingerprint(sequential[i].Data) != fingerprint(parallel[i].Data) {
			t.Fatalf("block %d differs between sequential and parallel decode", i)
		}
	}
}

func fingerprint(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// TestCompressParallelWritesDeclaredOrder checks that CompressParallel's
// reordering buffer puts every chunk back in declared order before writing
// it, regardless of which worker finished it first, by comparing the
// resulting file against one written sequentially with the same data.
func TestCompressParallelWritesDeclaredOrder(t *testing.T) {
	width, height := 8, 16
	header := testHeader(t, width, height)
	headers := []*meta.Header{header}
	version := meta.NewVersionWord(2, false, false, false, false)

	rng := rand.New(rand.NewSource(7))
	chunkCount := header.ExpectedChunkCount()
	blocks := make([]block.UncompressedBlock, chunkCount)
	for i := 0; i < chunkCount; i++ {
		data := make([]byte, width*2)
		rng.Read(data)
		blocks[i] = block.UncompressedBlock{
			Index: block.BlockIndex{
				Layer:         0,
				PixelPosition: attribute.Vec2[int]{X: 0, Y: i},
				PixelSize:     attribute.Vec2[int]{X: width, Y: 1},
			},
			Data: data,
		}
	}

	parallelFile := &memFile{}
	pw, err := Create(parallelFile, headers, version)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := pw.CompressParallel(blocks, 4); err != nil {
		t.Fatalf("compress parallel: %v", err)
	}
	if err := pw.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	sequentialFile := &memFile{}
	sw, err := Create(sequentialFile, headers, version)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, b := range blocks {
		c, err := block.CompressToChunk(b, headers)
		if err != nil {
			t.Fatalf("compress: %v", err)
		}
		if err := sw.WriteChunk(c); err != nil {
			t.Fatalf("write chunk: %v", err)
		}
	}
	if err := sw.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	parallelFile.pos = 0
	pr, err := Open(parallelFile, true)
	if err != nil {
		t.Fatalf("open parallel: %v", err)
	}
	parallelChunks, err := pr.AllChunks()
	if err != nil {
		t.Fatalf("all chunks: %v", err)
	}
	parallelBlocks, err := pr.DecompressSequential(parallelChunks, nil)
	if err != nil {
		t.Fatalf("decompress parallel-written file: %v", err)
	}

	for i, b := range parallelBlocks {
		if string(b.Data) != string(blocks[i].Data) {
			t.Fatalf("chunk %d out of order or corrupted in parallel-written file", i)
		}
	}
}
