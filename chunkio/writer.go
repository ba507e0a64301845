package chunkio

import (
	"io"
	"sync"

	exr "github.com/johannesvollmer/exrs-sub002"
	"github.com/johannesvollmer/exrs-sub002/block"
	"github.com/johannesvollmer/exrs-sub002/ioutil"
	"github.com/johannesvollmer/exrs-sub002/meta"
)

// Writer writes a file's magic number, version, headers, and a
// placeholder offset table, then accepts chunks one at a time, recording
// each chunk's offset in memory; Finalize writes the collected offsets
// over the placeholder tables. The destination must be seekable so the
// offset table can be patched after the fact.
type Writer struct {
	dest       io.WriteSeeker
	headers    []*meta.Header
	version    meta.VersionWord
	tables     []meta.OffsetTable
	tableStart []int64 // file offset of each header's offset table, for patching
	nextChunk  []int   // next unwritten index within each header's table
}

// Create writes the magic number, version word, headers, and a
// zero-filled offset table placeholder for every header, leaving the
// cursor at the start of the chunk stream.
func Create(dest io.WriteSeeker, headers []*meta.Header, version meta.VersionWord) (*Writer, error) {
	if _, err := dest.Write(meta.Magic[:]); err != nil {
		return nil, exr.Io(err)
	}
	if err := ioutil.WriteU32(dest, uint32(version)); err != nil {
		return nil, exr.Io(err)
	}
	if err := meta.WriteHeaders(dest, headers, version); err != nil {
		return nil, err
	}

	w := &Writer{
		dest:      dest,
		headers:   headers,
		version:   version,
		tables:    make([]meta.OffsetTable, len(headers)),
		nextChunk: make([]int, len(headers)),
	}

	w.tableStart = make([]int64, len(headers))
	for i, h := range headers {
		pos, err := dest.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, exr.Io(err)
		}
		w.tableStart[i] = pos

		count := int(h.ChunkCount)
		if count == 0 {
			count = h.ExpectedChunkCount()
		}
		w.tables[i] = make(meta.OffsetTable, count)
		if err := meta.WriteOffsetTable(dest, w.tables[i]); err != nil {
			return nil, err
		}
	}

	return w, nil
}

// WriteChunk appends a compressed chunk to the stream and records its
// offset in the owning header's in-memory offset table. Chunks for one
// header must be written in the order its offset table expects (file
// order, i.e. increasing line order unless the header's LineOrder is
// RandomY, in which case any order is acceptable as long as the caller
// tracks which slot each chunk belongs to via WriteChunkAt).
func (w *Writer) WriteChunk(c block.Chunk) error {
	idx := w.nextChunk[c.PartIndex]
	if idx >= len(w.tables[c.PartIndex]) {
		return exr.Invalid("more chunks written than the offset table has room for")
	}
	return w.WriteChunkAt(c, idx)
}

// WriteChunkAt writes a chunk and records it at a specific slot in its
// header's offset table, for writers that produce chunks out of order
// (parallel compression, RandomY).
func (w *Writer) WriteChunkAt(c block.Chunk, slotIndex int) error {
	if c.PartIndex < 0 || c.PartIndex >= len(w.headers) {
		return exr.Invalid("chunk part index")
	}
	if slotIndex < 0 || slotIndex >= len(w.tables[c.PartIndex]) {
		return exr.Invalid("chunk slot index out of range")
	}

	offset, err := w.dest.Seek(0, io.SeekCurrent)
	if err != nil {
		return exr.Io(err)
	}
	if err := block.WriteChunk(w.dest, c, w.headers); err != nil {
		return err
	}

	w.tables[c.PartIndex][slotIndex] = uint64(offset)
	w.nextChunk[c.PartIndex]++
	return nil
}

// CompressParallel compresses blocks with a bounded pool of workerCount
// goroutines, but writes the resulting chunks to the stream in exactly the
// order blocks were given, regardless of which worker finishes first. A
// chunk that finishes ahead of its turn sits in a reordering buffer until
// every chunk before it has been written. That buffer is not bounded by
// the worker count: the collector keeps receiving results while it waits,
// so every chunk that finishes before a slow earlier one stays in memory
// until that one is written, up to all but one chunk of blocks. blocks must
// already be in each part's declared line order, the same order WriteChunk
// requires.
func (w *Writer) CompressParallel(blocks []block.UncompressedBlock, workerCount int) error {
	if workerCount < 1 {
		workerCount = 1
	}
	if len(blocks) == 0 {
		return nil
	}
	if workerCount > len(blocks) {
		workerCount = len(blocks)
	}

	type result struct {
		index int
		chunk block.Chunk
		err   error
	}

	jobs := make(chan int, len(blocks))
	for i := range blocks {
		jobs <- i
	}
	close(jobs)

	results := make(chan result, workerCount)
	var wg sync.WaitGroup
	wg.Add(workerCount)
	for n := 0; n < workerCount; n++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				c, err := block.CompressToChunk(blocks[i], w.headers)
				results <- result{index: i, chunk: c, err: err}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	pending := make(map[int]block.Chunk, workerCount)
	next := 0
	var firstErr error
	for res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		pending[res.index] = res.chunk
		for {
			c, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			if firstErr == nil {
				if err := w.WriteChunk(c); err != nil {
					firstErr = err
				}
			}
			next++
		}
	}
	return firstErr
}

// Finalize seeks back and rewrites every header's offset table with the
// real offsets collected so far, then returns the cursor to the end of
// the file. Every slot must have been written at least once, or this
// reports an error instead of leaving a zero (meaning "unwritten") entry
// in the table.
func (w *Writer) Finalize() error {
	end, err := w.dest.Seek(0, io.SeekCurrent)
	if err != nil {
		return exr.Io(err)
	}

	for i, table := range w.tables {
		for _, offset := range table {
			if offset == 0 {
				return exr.Invalid("offset table has an unwritten chunk slot")
			}
		}
		if _, err := w.dest.Seek(w.tableStart[i], io.SeekStart); err != nil {
			return exr.Io(err)
		}
		if err := meta.WriteOffsetTable(w.dest, table); err != nil {
			return err
		}
	}

	_, err = w.dest.Seek(end, io.SeekStart)
	return exr.Io(err)
}
