// Package meta models a file's version word, its ordered per-part headers,
// and the offset tables that locate each part's chunks.
package meta

import (
	exr "github.com/johannesvollmer/exrs-sub002"
	"github.com/johannesvollmer/exrs-sub002/attribute"
	"github.com/johannesvollmer/exrs-sub002/geometry"
)

// BlockKind distinguishes scan-line parts from tiled parts.
type BlockKind int

const (
	BlockScanLines BlockKind = iota
	BlockTiles
)

// BlockDescription is ScanLines, or Tiles with an attached TileDescription.
type BlockDescription struct {
	Kind  BlockKind
	Tiles attribute.TileDescription
}

// Header is one part's worth of metadata: required geometry and
// compression attributes, plus an open bag of arbitrary attributes
// (including ones this codec does not specifically model).
type Header struct {
	LayerSize          attribute.Vec2[uint32]
	LayerPosition      attribute.Vec2[int32]
	DataWindow         attribute.IntegerBounds
	DisplayWindow      attribute.IntegerBounds
	PixelAspectRatio   float32
	ScreenWindowCenter attribute.Vec2[float32]
	ScreenWindowWidth  float32
	LineOrder          attribute.LineOrder
	Compression        attribute.Compression
	Blocks             BlockDescription
	Channels           attribute.ChannelList

	Deep               bool
	DeepDataVersion    *int32
	MaxSamplesPerPixel *int32

	Name      *string
	Type      *string
	ChunkCount int32

	// OwnAttributes holds every attribute parsed from this header's
	// stream, in file order, including the required ones above (so a
	// header can be re-serialized without losing custom attributes or
	// attribute ordering).
	OwnAttributes []attribute.Attribute
}

// IsTiled reports whether this header describes a tiled part.
func (h *Header) IsTiled() bool { return h.Blocks.Kind == BlockTiles }

// MaxBlockPixelSize returns the largest pixel rectangle one block of this
// header can cover: the tile size for tiled parts, or (layer width,
// scan-lines-per-block) for scan-line parts.
func (h *Header) MaxBlockPixelSize() attribute.Vec2[uint32] {
	if h.IsTiled() {
		return h.Blocks.Tiles.TileSize
	}
	return attribute.Vec2[uint32]{
		X: h.LayerSize.X,
		Y: uint32(h.Compression.ScanLinesPerBlock()),
	}
}

// LevelPixelSize returns the (width, height) of the given mip/rip level.
func (h *Header) LevelPixelSize(level attribute.Vec2[int]) attribute.Vec2[uint32] {
	if !h.IsTiled() || h.Blocks.Tiles.LevelMode == attribute.LevelSingular {
		return h.LayerSize
	}
	return geometry.LevelPixelSize(
		h.Blocks.Tiles.RoundingMode,
		int(h.LayerSize.X), int(h.LayerSize.Y),
		level.X, level.Y,
	)
}

// GetAbsoluteBlockPixelCoordinates resolves a TileCoordinates (which tile,
// at which level) to a data-window-relative pixel rectangle.
func (h *Header) GetAbsoluteBlockPixelCoordinates(tc geometry.TileCoordinates) (geometry.AbsoluteIndices, error) {
	levelSize := h.LevelPixelSize(tc.LevelIndex)

	if !h.IsTiled() {
		// Scan-line "tiles" are exactly scansPerBlock rows starting at
		// tileIndex.Y * scansPerBlock.
		scansPerBlock := h.Compression.ScanLinesPerBlock()
		posY := tc.TileIndex.Y * scansPerBlock
		sizeY := scansPerBlock
		if posY+sizeY > int(levelSize.Y) {
			sizeY = int(levelSize.Y) - posY
		}
		if sizeY < 0 {
			return geometry.AbsoluteIndices{}, exr.Invalid("scan line block out of range")
		}
		return geometry.AbsoluteIndices{
			Position:   attribute.Vec2[int]{X: 0, Y: posY},
			Size:       attribute.Vec2[int]{X: int(levelSize.X), Y: sizeY},
			LevelIndex: tc.LevelIndex,
		}, nil
	}

	bounds := geometry.TileBounds(h.Blocks.Tiles.TileSize, levelSize, tc.TileIndex)
	bounds.LevelIndex = tc.LevelIndex
	if bounds.Size.X <= 0 || bounds.Size.Y <= 0 {
		return geometry.AbsoluteIndices{}, exr.Invalid("tile coordinate bug")
	}
	return bounds, nil
}

// Validate checks the tile size of a tiled header, that a deep header uses
// a compression supporting deep data, and the data window against the
// layer size.
func (h *Header) Validate() error {
	if h.IsTiled() {
		if h.Blocks.Tiles.TileSize.X == 0 || h.Blocks.Tiles.TileSize.Y == 0 {
			return exr.Invalid("tile size")
		}
	}
	if h.Deep && !h.Compression.SupportsDeepData() {
		return exr.Invalid("compression does not support deep data")
	}
	if err := h.DataWindow.Validate(&h.LayerSize); err != nil {
		return err
	}
	return nil
}
