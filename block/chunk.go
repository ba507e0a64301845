// Package block implements the low-level interface for the raw pixel
// blocks of an image: compressing an UncompressedBlock into its on-disk
// Chunk representation, and decompressing a Chunk back.
package block

import (
	"io"

	exr "github.com/johannesvollmer/exrs-sub002"
	"github.com/johannesvollmer/exrs-sub002/attribute"
	"github.com/johannesvollmer/exrs-sub002/geometry"
	"github.com/johannesvollmer/exrs-sub002/ioutil"
	"github.com/johannesvollmer/exrs-sub002/meta"
)

// maxBlockByteSizeCap is the smallest limit a single chunk's declared byte
// size is checked against: the limit is the larger of this value and the
// header's uncompressed block byte size, so a compressed chunk slightly
// larger than its raw block still reads while a corrupt or adversarial
// length field cannot force a larger allocation.
const maxBlockByteSizeCap = 16 * 65535

// Chunk is one length-prefixed unit of a file's pixel data: a part index
// plus either a flat or deep scan-line/tile block of (still compressed)
// bytes.
type Chunk struct {
	PartIndex int
	Block     CompressedBlock
}

// CompressedBlock is implemented by ScanLineBlock, TileBlock,
// DeepScanLineBlock, and DeepTileBlock.
type CompressedBlock interface {
	isCompressedBlock()
}

// ScanLineBlock holds one or more compressed scan lines for a flat
// scan-line part. YCoordinate is the pixel-space row of the first line.
type ScanLineBlock struct {
	YCoordinate     int32
	CompressedPixelsLE []byte
}

func (ScanLineBlock) isCompressedBlock() {}

// TileBlock holds one compressed tile for a flat tiled part.
type TileBlock struct {
	Coordinates     geometry.TileCoordinates
	CompressedPixelsLE []byte
}

func (TileBlock) isCompressedBlock() {}

// DeepScanLineBlock holds one or more deep scan lines: a per-column
// sample-count offset table (itself compressed) plus the compressed
// sample payload.
type DeepScanLineBlock struct {
	YCoordinate                int32
	DecompressedSampleDataSize uint64
	CompressedPixelOffsetTable []byte
	CompressedSampleDataLE     []byte
}

func (DeepScanLineBlock) isCompressedBlock() {}

// DeepTileBlock is DeepScanLineBlock's tiled counterpart.
type DeepTileBlock struct {
	Coordinates                geometry.TileCoordinates
	DecompressedSampleDataSize uint64
	CompressedPixelOffsetTable []byte
	CompressedSampleDataLE     []byte
}

func (DeepTileBlock) isCompressedBlock() {}

// ReadChunk parses one chunk from r. metaData is needed to resolve which
// header (and therefore which block shape and byte size cap) the part
// index refers to.
func ReadChunk(r io.Reader, metaData *meta.MetaData) (Chunk, error) {
	partIndex := 0
	if metaData.Version.MultiPart() {
		v, err := ioutil.ReadI32(r)
		if err != nil {
			return Chunk{}, exr.Io(err)
		}
		partIndex = int(v)
	}
	if partIndex < 0 || partIndex >= len(metaData.Headers) {
		return Chunk{}, exr.Invalid("chunk data part number")
	}

	header := metaData.Headers[partIndex]
	maxBlockByteSize := maxBlockBytesize(header)

	var cb CompressedBlock
	var err error
	switch {
	case !header.IsTiled() && !header.Deep:
		cb, err = readScanLineBlock(r, maxBlockByteSize)
	case header.IsTiled() && !header.Deep:
		cb, err = readTileBlock(r, maxBlockByteSize)
	case !header.IsTiled() && header.Deep:
		cb, err = readDeepScanLineBlock(r, maxBlockByteSize)
	default:
		cb, err = readDeepTileBlock(r, maxBlockByteSize)
	}
	if err != nil {
		return Chunk{}, err
	}

	return Chunk{PartIndex: partIndex, Block: cb}, nil
}

// WriteChunk serializes one chunk. headers is only consulted to assert the
// part index is in range; single-part files omit the part index field.
func WriteChunk(w io.Writer, c Chunk, headers []*meta.Header) error {
	if c.PartIndex < 0 || c.PartIndex >= len(headers) {
		return exr.Invalid("chunk part index out of range")
	}
	if len(headers) != 1 {
		if err := ioutil.WriteI32(w, int32(c.PartIndex)); err != nil {
			return exr.Io(err)
		}
	}

	switch b := c.Block.(type) {
	case ScanLineBlock:
		return writeScanLineBlock(w, b)
	case TileBlock:
		return writeTileBlock(w, b)
	case DeepScanLineBlock:
		return writeDeepScanLineBlock(w, b)
	case DeepTileBlock:
		return writeDeepTileBlock(w, b)
	default:
		return exr.Invalid("unknown chunk block type")
	}
}

func maxBlockBytesize(h *meta.Header) int {
	size := h.MaxBlockPixelSize()
	bytesPerPixel := 0
	for _, ch := range h.Channels.List {
		bytesPerPixel += ch.SampleType.ByteSize()
	}
	n := int(size.X) * int(size.Y) * bytesPerPixel
	if n < maxBlockByteSizeCap {
		return maxBlockByteSizeCap
	}
	return n
}

func readScanLineBlock(r io.Reader, maxBlockByteSize int) (ScanLineBlock, error) {
	y, err := ioutil.ReadI32(r)
	if err != nil {
		return ScanLineBlock{}, exr.Io(err)
	}
	data, err := ioutil.ReadI32SizedVec(r, int64(maxBlockByteSize), int64(maxBlockByteSize))
	if err != nil {
		return ScanLineBlock{}, err
	}
	return ScanLineBlock{YCoordinate: y, CompressedPixelsLE: data}, nil
}

func writeScanLineBlock(w io.Writer, b ScanLineBlock) error {
	if err := ioutil.WriteI32(w, b.YCoordinate); err != nil {
		return exr.Io(err)
	}
	return ioutil.WriteI32SizedVec(w, b.CompressedPixelsLE)
}

func readTileBlock(r io.Reader, maxBlockByteSize int) (TileBlock, error) {
	coords, err := readTileCoordinates(r)
	if err != nil {
		return TileBlock{}, err
	}
	data, err := ioutil.ReadI32SizedVec(r, int64(maxBlockByteSize), int64(maxBlockByteSize))
	if err != nil {
		return TileBlock{}, err
	}
	return TileBlock{Coordinates: coords, CompressedPixelsLE: data}, nil
}

func writeTileBlock(w io.Writer, b TileBlock) error {
	if err := writeTileCoordinates(w, b.Coordinates); err != nil {
		return err
	}
	return ioutil.WriteI32SizedVec(w, b.CompressedPixelsLE)
}

func readTileCoordinates(r io.Reader) (geometry.TileCoordinates, error) {
	tx, err := ioutil.ReadI32(r)
	if err != nil {
		return geometry.TileCoordinates{}, exr.Io(err)
	}
	ty, err := ioutil.ReadI32(r)
	if err != nil {
		return geometry.TileCoordinates{}, exr.Io(err)
	}
	lx, err := ioutil.ReadI32(r)
	if err != nil {
		return geometry.TileCoordinates{}, exr.Io(err)
	}
	ly, err := ioutil.ReadI32(r)
	if err != nil {
		return geometry.TileCoordinates{}, exr.Io(err)
	}
	return geometry.TileCoordinates{
		TileIndex:  attribute.Vec2[int]{X: int(tx), Y: int(ty)},
		LevelIndex: attribute.Vec2[int]{X: int(lx), Y: int(ly)},
	}, nil
}

func writeTileCoordinates(w io.Writer, tc geometry.TileCoordinates) error {
	for _, v := range []int32{int32(tc.TileIndex.X), int32(tc.TileIndex.Y), int32(tc.LevelIndex.X), int32(tc.LevelIndex.Y)} {
		if err := ioutil.WriteI32(w, v); err != nil {
			return exr.Io(err)
		}
	}
	return nil
}

func readDeepScanLineBlock(r io.Reader, maxBlockByteSize int) (DeepScanLineBlock, error) {
	y, err := ioutil.ReadI32(r)
	if err != nil {
		return DeepScanLineBlock{}, exr.Io(err)
	}
	offsetTableSize, err := ioutil.ReadU64(r)
	if err != nil {
		return DeepScanLineBlock{}, exr.Io(err)
	}
	sampleDataSize, err := ioutil.ReadU64(r)
	if err != nil {
		return DeepScanLineBlock{}, exr.Io(err)
	}
	decompressedSize, err := ioutil.ReadU64(r)
	if err != nil {
		return DeepScanLineBlock{}, exr.Io(err)
	}
	offsetTable, err := ioutil.ReadSizedVec(r, int64(offsetTableSize), int64(maxBlockByteSize), int64(maxBlockByteSize))
	if err != nil {
		return DeepScanLineBlock{}, err
	}
	sampleData, err := ioutil.ReadSizedVec(r, int64(sampleDataSize), int64(maxBlockByteSize), int64(maxBlockByteSize))
	if err != nil {
		return DeepScanLineBlock{}, err
	}
	return DeepScanLineBlock{
		YCoordinate:                y,
		DecompressedSampleDataSize: decompressedSize,
		CompressedPixelOffsetTable: offsetTable,
		CompressedSampleDataLE:     sampleData,
	}, nil
}

func writeDeepScanLineBlock(w io.Writer, b DeepScanLineBlock) error {
	if err := ioutil.WriteI32(w, b.YCoordinate); err != nil {
		return exr.Io(err)
	}
	if err := ioutil.WriteU64(w, uint64(len(b.CompressedPixelOffsetTable))); err != nil {
		return exr.Io(err)
	}
	if err := ioutil.WriteU64(w, uint64(len(b.CompressedSampleDataLE))); err != nil {
		return exr.Io(err)
	}
	if err := ioutil.WriteU64(w, b.DecompressedSampleDataSize); err != nil {
		return exr.Io(err)
	}
	if _, err := w.Write(b.CompressedPixelOffsetTable); err != nil {
		return exr.Io(err)
	}
	if _, err := w.Write(b.CompressedSampleDataLE); err != nil {
		return exr.Io(err)
	}
	return nil
}

func readDeepTileBlock(r io.Reader, maxBlockByteSize int) (DeepTileBlock, error) {
	coords, err := readTileCoordinates(r)
	if err != nil {
		return DeepTileBlock{}, err
	}
	offsetTableSize, err := ioutil.ReadU64(r)
	if err != nil {
		return DeepTileBlock{}, exr.Io(err)
	}
	sampleDataSize, err := ioutil.ReadU64(r)
	if err != nil {
		return DeepTileBlock{}, exr.Io(err)
	}
	decompressedSize, err := ioutil.ReadU64(r)
	if err != nil {
		return DeepTileBlock{}, exr.Io(err)
	}
	offsetTable, err := ioutil.ReadSizedVec(r, int64(offsetTableSize), int64(maxBlockByteSize), int64(maxBlockByteSize))
	if err != nil {
		return DeepTileBlock{}, err
	}
	sampleData, err := ioutil.ReadSizedVec(r, int64(sampleDataSize), int64(maxBlockByteSize), int64(maxBlockByteSize))
	if err != nil {
		return DeepTileBlock{}, err
	}
	return DeepTileBlock{
		Coordinates:                coords,
		DecompressedSampleDataSize: decompressedSize,
		CompressedPixelOffsetTable: offsetTable,
		CompressedSampleDataLE:     sampleData,
	}, nil
}

func writeDeepTileBlock(w io.Writer, b DeepTileBlock) error {
	if err := writeTileCoordinates(w, b.Coordinates); err != nil {
		return err
	}
	if err := ioutil.WriteU64(w, uint64(len(b.CompressedPixelOffsetTable))); err != nil {
		return exr.Io(err)
	}
	if err := ioutil.WriteU64(w, uint64(len(b.CompressedSampleDataLE))); err != nil {
		return exr.Io(err)
	}
	if err := ioutil.WriteU64(w, b.DecompressedSampleDataSize); err != nil {
		return exr.Io(err)
	}
	if _, err := w.Write(b.CompressedPixelOffsetTable); err != nil {
		return exr.Io(err)
	}
	if _, err := w.Write(b.CompressedSampleDataLE); err != nil {
		return exr.Io(err)
	}
	return nil
}
