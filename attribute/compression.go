package attribute

// Compression names one of the block compression schemes a header may
// declare. The actual codec implementations live in package compression
// and its subpackages; this type is just the wire-level attribute value
// plus the geometric facts the container layer needs about each scheme.
type Compression int32

const (
	CompressionNone  Compression = 0
	CompressionRLE   Compression = 1
	CompressionZIPS  Compression = 2 // ZIP1: one scan line per block
	CompressionZIP   Compression = 3 // ZIP16: sixteen scan lines per block
	CompressionPIZ   Compression = 4
	CompressionPXR24 Compression = 5
	CompressionB44   Compression = 6
	CompressionB44A  Compression = 7
	CompressionDWAA  Compression = 8
	CompressionDWAB  Compression = 9
)

// ScanLinesPerBlock returns how many scan lines make up one block of this
// compression, for non-tiled parts.
func (c Compression) ScanLinesPerBlock() int {
	switch c {
	case CompressionNone, CompressionRLE, CompressionZIPS:
		return 1
	case CompressionZIP, CompressionPXR24:
		return 16
	case CompressionPIZ, CompressionB44, CompressionB44A, CompressionDWAA:
		return 32
	case CompressionDWAB:
		return 256
	default:
		return 1
	}
}

// MayLoseData reports whether this compression can discard information for
// the given sample type.
func (c Compression) MayLoseData(sample SampleType) bool {
	switch c {
	case CompressionPXR24:
		return sample == SampleF32
	case CompressionB44, CompressionB44A:
		return sample == SampleF16
	case CompressionDWAA, CompressionDWAB:
		return sample == SampleF16 || sample == SampleF32
	default:
		return false
	}
}

// SupportsDeepData reports whether this compression may be used for deep
// scan-line or deep tile parts.
func (c Compression) SupportsDeepData() bool {
	switch c {
	case CompressionNone, CompressionRLE, CompressionZIPS, CompressionZIP:
		return true
	default:
		return false
	}
}

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionRLE:
		return "rle"
	case CompressionZIPS:
		return "zips"
	case CompressionZIP:
		return "zip"
	case CompressionPIZ:
		return "piz"
	case CompressionPXR24:
		return "pxr24"
	case CompressionB44:
		return "b44"
	case CompressionB44A:
		return "b44a"
	case CompressionDWAA:
		return "dwaa"
	case CompressionDWAB:
		return "dwab"
	default:
		return "unknown"
	}
}

// LineOrder controls the order blocks are written and expected to be read
// in for a layer.
type LineOrder int32

const (
	LineOrderIncreasing LineOrder = 0
	LineOrderDecreasing LineOrder = 1
	LineOrderRandomY    LineOrder = 2
)

// RoundingMode controls how a mip/rip level's pixel size is derived from
// the full-resolution size.
type RoundingMode int32

const (
	RoundDown RoundingMode = 0
	RoundUp   RoundingMode = 1
)

// LevelMode selects how many resolution levels a tiled part stores.
type LevelMode int32

const (
	LevelSingular LevelMode = 0
	LevelMipMap   LevelMode = 1
	LevelRipMap   LevelMode = 2
)

// TileDescription is the payload of the "tiles" attribute.
type TileDescription struct {
	TileSize     Vec2[uint32]
	LevelMode    LevelMode
	RoundingMode RoundingMode
}

// EnvironmentMap selects the projection used by an environment map image.
type EnvironmentMap int32

const (
	EnvMapLatLong EnvironmentMap = 0
	EnvMapCube    EnvironmentMap = 1
)
