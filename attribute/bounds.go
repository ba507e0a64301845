package attribute

import (
	"math"

	exr "github.com/johannesvollmer/exrs-sub002"
)

// IntegerBounds models a data or display window, or any other pixel
// section: a signed 2D position plus an unsigned 2D size.
type IntegerBounds struct {
	Position Vec2[int32]
	Size     Vec2[uint32]
}

// Max returns the inclusive bottom-right corner (xMax, yMax) as encoded on
// disk for a box2i attribute.
func (b IntegerBounds) Max() Vec2[int32] {
	return Vec2[int32]{
		X: b.Position.X + int32(b.Size.X) - 1,
		Y: b.Position.Y + int32(b.Size.Y) - 1,
	}
}

// NewIntegerBoundsFromMinMax builds an IntegerBounds from the on-disk
// xMin,yMin,xMax,yMax encoding of a box2i.
func NewIntegerBoundsFromMinMax(min, max Vec2[int32]) IntegerBounds {
	return IntegerBounds{
		Position: min,
		Size: Vec2[uint32]{
			X: uint32(max.X - min.X + 1),
			Y: uint32(max.Y - min.Y + 1),
		},
	}
}

// Validate enforces that position+size-1 fits in an i32, and, when bound is
// non-nil, that this section does not exceed it.
func (b IntegerBounds) Validate(bound *Vec2[uint32]) error {
	maxX := int64(b.Position.X) + int64(b.Size.X) - 1
	maxY := int64(b.Position.Y) + int64(b.Size.Y) - 1
	if maxX > math.MaxInt32 || maxY > math.MaxInt32 {
		return exr.Invalid("bounds overflow i32")
	}
	if bound != nil {
		if b.Size.X > bound.X || b.Size.Y > bound.Y {
			return exr.Invalid("bounds exceed layer size")
		}
	}
	return nil
}

// FloatBounds is the box2f counterpart, used for the screen window and
// similarly shaped floating-point rectangles.
type FloatBounds struct {
	Min, Max Vec2[float32]
}
