package geometry

import "github.com/johannesvollmer/exrs-sub002/attribute"

// LevelCount returns how many levels a single dimension chain has before
// reaching size 1, given the rounding mode.
func LevelCount(mode attribute.RoundingMode, size int) int {
	if size <= 1 {
		return 1
	}
	if mode == attribute.RoundUp {
		return CeilLog2(size) + 1
	}
	return FloorLog2(size) + 1
}

// MipLevelCount returns the number of levels in a mip chain, driven by the
// larger of the two dimensions; both dimensions shrink together.
func MipLevelCount(mode attribute.RoundingMode, width, height int) int {
	largest := width
	if height > largest {
		largest = height
	}
	return LevelCount(mode, largest)
}

// RipLevelCounts returns the independent x and y level counts of a rip
// grid; the total number of levels is their product.
func RipLevelCounts(mode attribute.RoundingMode, width, height int) (x, y int) {
	return LevelCount(mode, width), LevelCount(mode, height)
}

// LevelSize returns the pixel size of a single dimension at the given
// level index within a mip or rip chain.
func LevelSize(mode attribute.RoundingMode, fullSize, level int) int {
	return RoundLevelSize(mode, fullSize, level)
}

// LevelPixelSize returns the (width, height) of a 2D level. For a mip
// chain lx == ly; for a rip grid they vary independently.
func LevelPixelSize(mode attribute.RoundingMode, fullWidth, fullHeight, lx, ly int) attribute.Vec2[uint32] {
	return attribute.Vec2[uint32]{
		X: uint32(LevelSize(mode, fullWidth, lx)),
		Y: uint32(LevelSize(mode, fullHeight, ly)),
	}
}
