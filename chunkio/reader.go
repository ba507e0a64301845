// Package chunkio drives the chunk-level reader and writer that sit on
// top of package block: locating the offset table, pulling chunks out in
// (or out of) line order, decompressing them sequentially or with a
// bounded worker pool, and reporting progress.
package chunkio

import (
	"io"

	exr "github.com/johannesvollmer/exrs-sub002"
	"github.com/johannesvollmer/exrs-sub002/block"
	"github.com/johannesvollmer/exrs-sub002/meta"
)

// Reader owns a file's metadata and offset tables and can pull chunks
// from the underlying stream, either in the order they appear in the
// offset table or in whatever order the caller requests.
type Reader struct {
	source   io.ReadSeeker
	MetaData *meta.MetaData
	Offsets  []meta.OffsetTable
	Pedantic bool
}

// Open reads the magic number, version, headers, and offset tables from
// source, leaving the cursor positioned at the first chunk.
func Open(source io.ReadSeeker, pedantic bool) (*Reader, error) {
	version, err := meta.ReadMagicAndVersion(source)
	if err != nil {
		return nil, err
	}
	headers, err := meta.ReadHeaders(source, version)
	if err != nil {
		return nil, err
	}
	offsets, err := meta.ReadOffsetTables(source, headers)
	if err != nil {
		return nil, err
	}

	if pedantic {
		for _, h := range headers {
			if err := h.ValidateRequiredAttributes(version.MultiPart()); err != nil {
				return nil, err
			}
		}
	}

	return &Reader{
		source:   source,
		MetaData: &meta.MetaData{Version: version, Headers: headers},
		Offsets:  offsets,
		Pedantic: pedantic,
	}, nil
}

// Header returns the header for part index i.
func (r *Reader) Header(i int) *meta.Header { return r.MetaData.Headers[i] }

// AllChunks returns every chunk in the file, read in offset-table order
// (which is file order, and matches increasing line order unless the
// header declares RandomY, in which case the offset table itself is the
// only authority on order).
func (r *Reader) AllChunks() ([]block.Chunk, error) {
	var chunks []block.Chunk
	for _, table := range r.Offsets {
		for _, offset := range table {
			chunk, err := r.chunkAt(offset)
			if err != nil {
				return nil, err
			}
			chunks = append(chunks, chunk)
		}
	}
	return chunks, nil
}

// FilterChunks returns every chunk for which keep(partIndex, chunkIndexInPart)
// reports true, without reading or allocating the ones that don't pass.
func (r *Reader) FilterChunks(keep func(partIndex, chunkIndexInPart int) bool) ([]block.Chunk, error) {
	var chunks []block.Chunk
	for partIndex, table := range r.Offsets {
		for i, offset := range table {
			if !keep(partIndex, i) {
				continue
			}
			chunk, err := r.chunkAt(offset)
			if err != nil {
				return nil, err
			}
			chunks = append(chunks, chunk)
		}
	}
	return chunks, nil
}

// ChunkAt reads and parses the single chunk stored at the given chunk
// index within partIndex's offset table, seeking the underlying stream.
// This is the "on demand" access pattern: callers decide which blocks
// they need instead of walking the whole file.
func (r *Reader) ChunkAt(partIndex, chunkIndexInPart int) (block.Chunk, error) {
	if partIndex < 0 || partIndex >= len(r.Offsets) {
		return block.Chunk{}, exr.Invalid("chunk part index")
	}
	table := r.Offsets[partIndex]
	if chunkIndexInPart < 0 || chunkIndexInPart >= len(table) {
		return block.Chunk{}, exr.Invalid("chunk index")
	}
	return r.chunkAt(table[chunkIndexInPart])
}

func (r *Reader) chunkAt(offset uint64) (block.Chunk, error) {
	if _, err := r.source.Seek(int64(offset), io.SeekStart); err != nil {
		return block.Chunk{}, exr.Io(err)
	}
	return block.ReadChunk(r.source, r.MetaData)
}

// DecompressSequential decompresses every chunk in chunks, in order,
// calling onProgress after each one with the fraction of chunks done so
// far. Returns exr.Aborted immediately if onProgress returns it.
func (r *Reader) DecompressSequential(chunks []block.Chunk, onProgress func(fraction float64) error) ([]block.UncompressedBlock, error) {
	out := make([]block.UncompressedBlock, len(chunks))
	for i, c := range chunks {
		b, err := block.DecompressChunk(c, r.MetaData, r.Pedantic)
		if err != nil {
			return nil, err
		}
		out[i] = b
		if onProgress != nil {
			if err := onProgress(float64(i+1) / float64(len(chunks))); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// DecompressParallel decompresses every chunk in chunks using a bounded
// pool of workerCount goroutines, preserving the input order in the
// returned slice. Every dispatched job always reports exactly one result
// (success or error), so the pool never has to be told to stop early to
// avoid a stuck drain; the first error among all results is what gets
// returned, first-error-wins, once every worker has finished.
func (r *Reader) DecompressParallel(chunks []block.Chunk, workerCount int) ([]block.UncompressedBlock, error) {
	if workerCount < 1 {
		workerCount = 1
	}
	if len(chunks) == 0 {
		return nil, nil
	}
	if workerCount > len(chunks) {
		workerCount = len(chunks)
	}

	type result struct {
		index int
		block block.UncompressedBlock
		err   error
	}

	jobs := make(chan int, len(chunks))
	for i := range chunks {
		jobs <- i
	}
	close(jobs)

	results := make(chan result, len(chunks))
	for w := 0; w < workerCount; w++ {
		go func() {
			for i := range jobs {
				b, err := block.DecompressChunk(chunks[i], r.MetaData, r.Pedantic)
				results <- result{index: i, block: b, err: err}
			}
		}()
	}

	out := make([]block.UncompressedBlock, len(chunks))
	var firstErr error
	for i := 0; i < len(chunks); i++ {
		res := <-results
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		out[res.index] = res.block
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}
