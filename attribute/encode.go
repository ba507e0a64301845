package attribute

import (
	"bytes"

	exr "github.com/johannesvollmer/exrs-sub002"
	"github.com/johannesvollmer/exrs-sub002/ioutil"
)

// encodeValue returns the on-disk kind name and serialized payload for v.
func encodeValue(v any) (kind string, payload []byte, err error) {
	var buf bytes.Buffer

	switch val := v.(type) {
	case IntegerBounds:
		max := val.Max()
		_ = ioutil.WriteI32(&buf, val.Position.X)
		_ = ioutil.WriteI32(&buf, val.Position.Y)
		_ = ioutil.WriteI32(&buf, max.X)
		_ = ioutil.WriteI32(&buf, max.Y)
		return "box2i", buf.Bytes(), nil

	case FloatBounds:
		_ = ioutil.WriteF32(&buf, val.Min.X)
		_ = ioutil.WriteF32(&buf, val.Min.Y)
		_ = ioutil.WriteF32(&buf, val.Max.X)
		_ = ioutil.WriteF32(&buf, val.Max.Y)
		return "box2f", buf.Bytes(), nil

	case ChannelList:
		return "chlist", writeChannelList(val), nil

	case Chromaticities:
		for _, p := range []Vec2[float32]{val.Red, val.Green, val.Blue, val.White} {
			_ = ioutil.WriteF32(&buf, p.X)
			_ = ioutil.WriteF32(&buf, p.Y)
		}
		return "chromaticities", buf.Bytes(), nil

	case Compression:
		_ = ioutil.WriteU8(&buf, byte(val))
		return "compression", buf.Bytes(), nil

	case float64:
		b := float64ToBits(val)
		buf.Write(b[:])
		return "double", buf.Bytes(), nil

	case EnvironmentMap:
		_ = ioutil.WriteU8(&buf, byte(val))
		return "envmap", buf.Bytes(), nil

	case float32:
		_ = ioutil.WriteF32(&buf, val)
		return "float", buf.Bytes(), nil

	case int32:
		_ = ioutil.WriteI32(&buf, val)
		return "int", buf.Bytes(), nil

	case KeyCode:
		for _, f := range []int32{
			val.FilmManufacturerCode, val.FilmType, val.Prefix, val.Count,
			val.PerfOffset, val.PerfsPerFrame, val.PerfsPerCount,
		} {
			_ = ioutil.WriteI32(&buf, f)
		}
		return "keycode", buf.Bytes(), nil

	case LineOrder:
		_ = ioutil.WriteU8(&buf, byte(val))
		return "lineOrder", buf.Bytes(), nil

	case M33f:
		for _, f := range val {
			_ = ioutil.WriteF32(&buf, f)
		}
		return "m33f", buf.Bytes(), nil

	case M44f:
		for _, f := range val {
			_ = ioutil.WriteF32(&buf, f)
		}
		return "m44f", buf.Bytes(), nil

	case Preview:
		_ = ioutil.WriteU32(&buf, val.Width)
		_ = ioutil.WriteU32(&buf, val.Height)
		buf.Write(val.Pixels)
		return "preview", buf.Bytes(), nil

	case Rational:
		_ = ioutil.WriteI32(&buf, val.Numerator)
		_ = ioutil.WriteU32(&buf, val.Denominator)
		return "rational", buf.Bytes(), nil

	case string:
		return "string", []byte(val), nil

	case []string:
		for _, s := range val {
			_ = ioutil.WriteI32(&buf, int32(len(s)))
			buf.WriteString(s)
		}
		return "stringvector", buf.Bytes(), nil

	case TileDescription:
		_ = ioutil.WriteU32(&buf, val.TileSize.X)
		_ = ioutil.WriteU32(&buf, val.TileSize.Y)
		_ = ioutil.WriteU8(&buf, byte(val.LevelMode)|byte(val.RoundingMode)<<4)
		return "tiledesc", buf.Bytes(), nil

	case TimeCode:
		_ = ioutil.WriteU32(&buf, val.TimeAndFlags)
		_ = ioutil.WriteU32(&buf, val.UserData)
		return "timecode", buf.Bytes(), nil

	case Vec2[int32]:
		_ = ioutil.WriteI32(&buf, val.X)
		_ = ioutil.WriteI32(&buf, val.Y)
		return "v2i", buf.Bytes(), nil

	case Vec2[float32]:
		_ = ioutil.WriteF32(&buf, val.X)
		_ = ioutil.WriteF32(&buf, val.Y)
		return "v2f", buf.Bytes(), nil

	case Vec3[int32]:
		_ = ioutil.WriteI32(&buf, val.X)
		_ = ioutil.WriteI32(&buf, val.Y)
		_ = ioutil.WriteI32(&buf, val.Z)
		return "v3i", buf.Bytes(), nil

	case Vec3[float32]:
		_ = ioutil.WriteF32(&buf, val.X)
		_ = ioutil.WriteF32(&buf, val.Y)
		_ = ioutil.WriteF32(&buf, val.Z)
		return "v3f", buf.Bytes(), nil

	case Raw:
		return val.Kind, val.Data, nil

	default:
		return "", nil, exr.Invalid("unsupported attribute value type")
	}
}
