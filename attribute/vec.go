package attribute

// Vec2 is an ordered pair with componentwise arithmetic, used throughout
// the codec for positions, sizes, sampling rates, and level indices.
type Vec2[T Number] struct {
	X, Y T
}

// Number is the set of scalar types a Vec2 may hold.
type Number interface {
	~int | ~int32 | ~int64 | ~uint32 | ~uint64 | ~float32 | ~float64
}

func (v Vec2[T]) Add(o Vec2[T]) Vec2[T] { return Vec2[T]{v.X + o.X, v.Y + o.Y} }
func (v Vec2[T]) Sub(o Vec2[T]) Vec2[T] { return Vec2[T]{v.X - o.X, v.Y - o.Y} }
func (v Vec2[T]) Mul(o Vec2[T]) Vec2[T] { return Vec2[T]{v.X * o.X, v.Y * o.Y} }

// Area returns X*Y, useful for pixel counts and byte-size computations.
func (v Vec2[T]) Area() T { return v.X * v.Y }

// Vec3 is the three-component counterpart used by the v3i/v3f attributes.
type Vec3[T Number] struct {
	X, Y, Z T
}
