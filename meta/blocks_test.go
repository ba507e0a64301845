package meta

import (
	"testing"

	"github.com/johannesvollmer/exrs-sub002/attribute"
)

func TestExpectedChunkCountTiledMipMap(t *testing.T) {
	h := &Header{
		LayerSize:   attribute.Vec2[uint32]{X: 8, Y: 8},
		Compression: attribute.CompressionZIP,
		Blocks: BlockDescription{
			Kind: BlockTiles,
			Tiles: attribute.TileDescription{
				TileSize:     attribute.Vec2[uint32]{X: 4, Y: 4},
				LevelMode:    attribute.LevelMipMap,
				RoundingMode: attribute.RoundUp,
			},
		},
	}

	if got := h.ExpectedChunkCount(); got != 6 {
		t.Fatalf("ExpectedChunkCount() = %d, want 6", got)
	}
}

func TestExpectedChunkCountScanLines(t *testing.T) {
	h := &Header{
		LayerSize:   attribute.Vec2[uint32]{X: 100, Y: 10},
		Compression: attribute.CompressionRLE,
	}

	if got := h.ExpectedChunkCount(); got != 10 {
		t.Fatalf("ExpectedChunkCount() = %d, want 10 (1 scan line per block)", got)
	}
}
