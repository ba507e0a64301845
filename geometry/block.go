package geometry

import "github.com/johannesvollmer/exrs-sub002/attribute"

// TileCoordinates locates one block within a tiled part: which tile, and at
// which mip/rip level. LevelIndex is (0,0) for scan lines and singular
// levels.
type TileCoordinates struct {
	TileIndex  attribute.Vec2[int]
	LevelIndex attribute.Vec2[int]
}

// BlockIndex is a globally unique identifier for one block of pixel data:
// the layer, the top-left pixel position (data-window-local), the pixel
// size of the block (which shrinks at image edges), and the level.
type BlockIndex struct {
	Layer         int
	PixelPosition attribute.Vec2[int]
	PixelSize     attribute.Vec2[int]
	Level         attribute.Vec2[int]
}

// AbsoluteIndices is a block's pixel rectangle in data-window-relative
// coordinates, together with the level it was read at.
type AbsoluteIndices struct {
	Position   attribute.Vec2[int]
	Size       attribute.Vec2[int]
	LevelIndex attribute.Vec2[int]
}

// TileGridSize returns how many tiles of tileSize are needed to cover
// levelSize pixels in one dimension.
func TileGridSize(tileSize, levelSize int) int {
	if tileSize <= 0 {
		return 0
	}
	return (levelSize + tileSize - 1) / tileSize
}

// TileBounds returns the pixel rectangle of tile index `index` (0-based)
// within a level of the given pixel size, clipped at the level edge.
func TileBounds(tileSize attribute.Vec2[uint32], levelSize attribute.Vec2[uint32], index attribute.Vec2[int]) AbsoluteIndices {
	posX := index.X * int(tileSize.X)
	posY := index.Y * int(tileSize.Y)

	sizeX := int(tileSize.X)
	if posX+sizeX > int(levelSize.X) {
		sizeX = int(levelSize.X) - posX
	}
	sizeY := int(tileSize.Y)
	if posY+sizeY > int(levelSize.Y) {
		sizeY = int(levelSize.Y) - posY
	}

	return AbsoluteIndices{
		Position: attribute.Vec2[int]{X: posX, Y: posY},
		Size:     attribute.Vec2[int]{X: sizeX, Y: sizeY},
	}
}
