package meta

import (
	"github.com/johannesvollmer/exrs-sub002/attribute"
	"github.com/johannesvollmer/exrs-sub002/geometry"
)

// EnumerateOrderedBlocks lists every TileCoordinates this header's image
// data is split into, in increasing line order. Decreasing order is the
// same sequence reversed by the caller; RandomY's file order is whatever
// the offset table records.
func (h *Header) EnumerateOrderedBlocks() []geometry.TileCoordinates {
	if !h.IsTiled() {
		return h.enumerateScanLineBlocks()
	}
	return h.enumerateTileBlocks()
}

func (h *Header) enumerateScanLineBlocks() []geometry.TileCoordinates {
	scansPerBlock := h.Compression.ScanLinesPerBlock()
	count := (int(h.LayerSize.Y) + scansPerBlock - 1) / scansPerBlock

	out := make([]geometry.TileCoordinates, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, geometry.TileCoordinates{
			TileIndex: attribute.Vec2[int]{X: 0, Y: i},
		})
	}
	return out
}

func (h *Header) enumerateTileBlocks() []geometry.TileCoordinates {
	var out []geometry.TileCoordinates
	tileSize := h.Blocks.Tiles.TileSize

	appendLevel := func(level attribute.Vec2[int]) {
		size := h.LevelPixelSize(level)
		gridX := geometry.TileGridSize(int(tileSize.X), int(size.X))
		gridY := geometry.TileGridSize(int(tileSize.Y), int(size.Y))
		for y := 0; y < gridY; y++ {
			for x := 0; x < gridX; x++ {
				out = append(out, geometry.TileCoordinates{
					TileIndex:  attribute.Vec2[int]{X: x, Y: y},
					LevelIndex: level,
				})
			}
		}
	}

	switch h.Blocks.Tiles.LevelMode {
	case attribute.LevelSingular:
		appendLevel(attribute.Vec2[int]{})

	case attribute.LevelMipMap:
		levels := geometry.MipLevelCount(h.Blocks.Tiles.RoundingMode, int(h.LayerSize.X), int(h.LayerSize.Y))
		for l := 0; l < levels; l++ {
			appendLevel(attribute.Vec2[int]{X: l, Y: l})
		}

	case attribute.LevelRipMap:
		nx, ny := geometry.RipLevelCounts(h.Blocks.Tiles.RoundingMode, int(h.LayerSize.X), int(h.LayerSize.Y))
		for ly := 0; ly < ny; ly++ {
			for lx := 0; lx < nx; lx++ {
				appendLevel(attribute.Vec2[int]{X: lx, Y: ly})
			}
		}
	}

	return out
}

// ExpectedChunkCount returns the number of chunks this header's geometry
// requires, used to validate the "chunkCount" attribute and the offset
// table length.
func (h *Header) ExpectedChunkCount() int {
	return len(h.EnumerateOrderedBlocks())
}
