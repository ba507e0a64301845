package block

import (
	exr "github.com/johannesvollmer/exrs-sub002"
	"github.com/johannesvollmer/exrs-sub002/attribute"
	"github.com/johannesvollmer/exrs-sub002/compression"
	"github.com/johannesvollmer/exrs-sub002/geometry"
	"github.com/johannesvollmer/exrs-sub002/meta"
)

// BlockIndex locates one block of pixel data within the whole image: the
// part, the top-left pixel position and size of the block, and the
// mip/rip level.
type BlockIndex = geometry.BlockIndex

// UncompressedBlock is a block of pixel data, decompressed but still in
// the file's little-endian sample layout, together with where it belongs
// in the image. Every supported build target is little-endian, so no
// byte-swap step exists between this and the codecs' own output.
type UncompressedBlock struct {
	Index BlockIndex
	Data  []byte
}

// DecompressChunk decompresses a (possibly still deep, which is rejected
// for now) chunk into an UncompressedBlock. Pedantic additionally asks the
// codec to double check its own output where that is cheap to do.
func DecompressChunk(c Chunk, metaData *meta.MetaData, pedantic bool) (UncompressedBlock, error) {
	if c.PartIndex < 0 || c.PartIndex >= len(metaData.Headers) {
		return UncompressedBlock{}, exr.Invalid("chunk part index")
	}
	header := metaData.Headers[c.PartIndex]

	tc, compressedLE, err := blockCoordinatesAndPayload(header, c.Block)
	if err != nil {
		return UncompressedBlock{}, err
	}

	tileIndices, err := header.GetAbsoluteBlockPixelCoordinates(tc)
	if err != nil {
		return UncompressedBlock{}, err
	}

	codec, err := compression.Get(header.Compression)
	if err != nil {
		return UncompressedBlock{}, err
	}

	data, err := codec.Decompress(header.Channels, compressedLE, tileIndices, pedantic)
	if err != nil {
		return UncompressedBlock{}, err
	}

	return UncompressedBlock{
		Index: BlockIndex{
			Layer:         c.PartIndex,
			PixelPosition: tileIndices.Position,
			PixelSize:     tileIndices.Size,
			Level:         tc.LevelIndex,
		},
		Data: data,
	}, nil
}

// CompressToChunk compresses an UncompressedBlock, consuming it, and
// returns the on-disk Chunk. When the chosen compression is lossless, the
// result is immediately decompressed again and compared byte-for-byte
// against the input as an internal consistency check, mirroring the
// reference encoder's own debug assertion.
func CompressToChunk(b UncompressedBlock, headers []*meta.Header) (Chunk, error) {
	if b.Index.Layer < 0 || b.Index.Layer >= len(headers) {
		return Chunk{}, exr.Invalid("block layer index")
	}
	header := headers[b.Index.Layer]

	bytesPerPixel := 0
	for _, ch := range header.Channels.List {
		bytesPerPixel += ch.SampleType.ByteSize()
	}
	expected := b.Index.PixelSize.X * b.Index.PixelSize.Y * bytesPerPixel
	if expected != len(b.Data) {
		return Chunk{}, exr.Invalid("uncompressed block byte size mismatch")
	}

	tileSize := header.MaxBlockPixelSize()
	tc := geometry.TileCoordinates{
		TileIndex: attribute.Vec2[int]{
			X: divFloor(b.Index.PixelPosition.X, int(tileSize.X)),
			Y: divFloor(b.Index.PixelPosition.Y, int(tileSize.Y)),
		},
		LevelIndex: b.Index.Level,
	}

	absoluteIndices, err := header.GetAbsoluteBlockPixelCoordinates(tc)
	if err != nil {
		return Chunk{}, err
	}

	codec, err := compression.Get(header.Compression)
	if err != nil {
		return Chunk{}, err
	}

	compressedLE, err := codec.Compress(header.Channels, b.Data, absoluteIndices)
	if err != nil {
		return Chunk{}, err
	}

	if !codec.MayLoseData() {
		roundTripped, err := codec.Decompress(header.Channels, compressedLE, absoluteIndices, true)
		if err != nil {
			return Chunk{}, exr.InvalidWrap("compression round trip", err)
		}
		if !bytesEqual(roundTripped, b.Data) {
			return Chunk{}, exr.Invalid("compression method not round tripping")
		}
	}

	var cb CompressedBlock
	if header.IsTiled() {
		cb = TileBlock{Coordinates: tc, CompressedPixelsLE: compressedLE}
	} else {
		y := int32(b.Index.PixelPosition.Y) + header.LayerPosition.Y
		cb = ScanLineBlock{YCoordinate: y, CompressedPixelsLE: compressedLE}
	}

	return Chunk{PartIndex: b.Index.Layer, Block: cb}, nil
}

// blockCoordinatesAndPayload resolves a chunk's compressed-pixels payload
// and the TileCoordinates (block index, level) it occupies. For scan-line
// blocks this reconstructs the block's row index from its absolute
// y-coordinate; tiles already carry it directly.
func blockCoordinatesAndPayload(header *meta.Header, cb CompressedBlock) (geometry.TileCoordinates, []byte, error) {
	switch b := cb.(type) {
	case ScanLineBlock:
		scansPerBlock := header.Compression.ScanLinesPerBlock()
		dataRelativeY := int(b.YCoordinate - header.LayerPosition.Y)
		tc := geometry.TileCoordinates{
			TileIndex: attribute.Vec2[int]{X: 0, Y: dataRelativeY / scansPerBlock},
		}
		return tc, b.CompressedPixelsLE, nil
	case TileBlock:
		return b.Coordinates, b.CompressedPixelsLE, nil
	default:
		return geometry.TileCoordinates{}, nil, exr.NotSupported("deep data decompression not supported yet")
	}
}

func divFloor(a, b int) int {
	if b == 0 {
		return 0
	}
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
