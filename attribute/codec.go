package attribute

import (
	"bytes"
	"io"
	"math"

	exr "github.com/johannesvollmer/exrs-sub002"
	"github.com/johannesvollmer/exrs-sub002/ioutil"
)

// Attribute is one name/kind/payload triple as it appears in a header.
// Value holds one of the concrete Go types documented in decodeValue, or a
// Raw byte slice for kinds this codec does not interpret.
type Attribute struct {
	Name  Text
	Value any
}

// ReadAttribute parses one `name kind size payload` record. The caller
// supplies longNames (from the version word) and the allocation caps that
// bound the declared payload size.
func ReadAttribute(r *ioutil.PeekReader, longNames bool, softMax, hardMax int64) (Attribute, error) {
	maxLen := MaxTextLength(longNames)

	name, err := ioutil.ReadCString(r, maxLen)
	if err != nil {
		return Attribute{}, err
	}
	kind, err := ioutil.ReadCString(r, maxLen)
	if err != nil {
		return Attribute{}, err
	}
	payload, err := ioutil.ReadI32SizedVec(r, softMax, hardMax)
	if err != nil {
		return Attribute{}, err
	}

	value, err := decodeValue(kind, payload, longNames)
	if err != nil {
		return Attribute{}, err
	}

	nameText, err := NewText(name, longNames)
	if err != nil {
		return Attribute{}, err
	}
	return Attribute{Name: nameText, Value: value}, nil
}

// WriteAttribute serializes a into the `name kind size payload` wire
// format.
func WriteAttribute(w io.Writer, a Attribute, longNames bool) error {
	kind, payload, err := encodeValue(a.Value)
	if err != nil {
		return err
	}
	if err := ioutil.WriteCString(w, a.Name.String()); err != nil {
		return err
	}
	if err := ioutil.WriteCString(w, kind); err != nil {
		return err
	}
	if err := ioutil.WriteI32(w, int32(len(payload))); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

func decodeValue(kind string, payload []byte, longNames bool) (any, error) {
	r := bytes.NewReader(payload)
	switch kind {
	case "box2i":
		min, max, err := readBox2i(r)
		if err != nil {
			return nil, err
		}
		return NewIntegerBoundsFromMinMax(min, max), nil

	case "box2f":
		vals, err := readFloats(r, 4)
		if err != nil {
			return nil, err
		}
		return FloatBounds{
			Min: Vec2[float32]{X: vals[0], Y: vals[1]},
			Max: Vec2[float32]{X: vals[2], Y: vals[3]},
		}, nil

	case "chlist":
		return readChannelList(r, longNames)

	case "chromaticities":
		vals, err := readFloats(r, 8)
		if err != nil {
			return nil, err
		}
		return Chromaticities{
			Red:   Vec2[float32]{X: vals[0], Y: vals[1]},
			Green: Vec2[float32]{X: vals[2], Y: vals[3]},
			Blue:  Vec2[float32]{X: vals[4], Y: vals[5]},
			White: Vec2[float32]{X: vals[6], Y: vals[7]},
		}, nil

	case "compression":
		v, err := ioutil.ReadU8(r)
		return Compression(v), err

	case "double":
		var b [8]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return nil, err
		}
		return bitsToFloat64(b), nil

	case "envmap":
		v, err := ioutil.ReadU8(r)
		return EnvironmentMap(v), err

	case "float":
		return ioutil.ReadF32(r)

	case "int":
		return ioutil.ReadI32(r)

	case "keycode":
		return readKeyCode(r)

	case "lineOrder":
		v, err := ioutil.ReadU8(r)
		return LineOrder(v), err

	case "m33f":
		vals, err := readFloats(r, 9)
		if err != nil {
			return nil, err
		}
		var m M33f
		copy(m[:], vals)
		return m, nil

	case "m44f":
		vals, err := readFloats(r, 16)
		if err != nil {
			return nil, err
		}
		var m M44f
		copy(m[:], vals)
		return m, nil

	case "preview":
		return readPreview(r)

	case "rational":
		num, err := ioutil.ReadI32(r)
		if err != nil {
			return nil, err
		}
		den, err := ioutil.ReadU32(r)
		if err != nil {
			return nil, err
		}
		return Rational{Numerator: num, Denominator: den}, nil

	case "string":
		return string(payload), nil

	case "stringvector":
		// Sizeless: consumes all declared bytes as a sequence of
		// length-prefixed strings.
		return readStringVector(r)

	case "tiledesc":
		return readTileDescription(r)

	case "timecode":
		tf, err := ioutil.ReadU32(r)
		if err != nil {
			return nil, err
		}
		ud, err := ioutil.ReadU32(r)
		if err != nil {
			return nil, err
		}
		return TimeCode{TimeAndFlags: tf, UserData: ud}, nil

	case "v2i":
		x, err := ioutil.ReadI32(r)
		if err != nil {
			return nil, err
		}
		y, err := ioutil.ReadI32(r)
		return Vec2[int32]{X: x, Y: y}, err

	case "v2f":
		vals, err := readFloats(r, 2)
		if err != nil {
			return nil, err
		}
		return Vec2[float32]{X: vals[0], Y: vals[1]}, nil

	case "v3i":
		vals := make([]int32, 3)
		for i := range vals {
			v, err := ioutil.ReadI32(r)
			if err != nil {
				return nil, err
			}
			vals[i] = v
		}
		return Vec3[int32]{X: vals[0], Y: vals[1], Z: vals[2]}, nil

	case "v3f":
		vals, err := readFloats(r, 3)
		if err != nil {
			return nil, err
		}
		return Vec3[float32]{X: vals[0], Y: vals[1], Z: vals[2]}, nil

	default:
		return Raw{Kind: kind, Data: payload}, nil
	}
}

func readFloats(r io.Reader, n int) ([]float32, error) {
	out := make([]float32, n)
	for i := range out {
		v, err := ioutil.ReadF32(r)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func readBox2i(r io.Reader) (min, max Vec2[int32], err error) {
	vals := make([]int32, 4)
	for i := range vals {
		vals[i], err = ioutil.ReadI32(r)
		if err != nil {
			return
		}
	}
	min = Vec2[int32]{X: vals[0], Y: vals[1]}
	max = Vec2[int32]{X: vals[2], Y: vals[3]}
	return
}

func readKeyCode(r io.Reader) (KeyCode, error) {
	fields := make([]int32, 7)
	for i := range fields {
		v, err := ioutil.ReadI32(r)
		if err != nil {
			return KeyCode{}, err
		}
		fields[i] = v
	}
	return KeyCode{
		FilmManufacturerCode: fields[0],
		FilmType:             fields[1],
		Prefix:               fields[2],
		Count:                fields[3],
		PerfOffset:           fields[4],
		PerfsPerFrame:        fields[5],
		PerfsPerCount:        fields[6],
	}, nil
}

func readPreview(r io.Reader) (Preview, error) {
	w, err := ioutil.ReadU32(r)
	if err != nil {
		return Preview{}, err
	}
	h, err := ioutil.ReadU32(r)
	if err != nil {
		return Preview{}, err
	}
	pixels, err := ioutil.ReadSizedVec(r, int64(w)*int64(h)*4, ioutil.DefaultSoftMax, ioutil.DefaultHardMax)
	if err != nil {
		return Preview{}, err
	}
	return Preview{Width: w, Height: h, Pixels: pixels}, nil
}

func readTileDescription(r io.Reader) (TileDescription, error) {
	x, err := ioutil.ReadU32(r)
	if err != nil {
		return TileDescription{}, err
	}
	y, err := ioutil.ReadU32(r)
	if err != nil {
		return TileDescription{}, err
	}
	mode, err := ioutil.ReadU8(r)
	if err != nil {
		return TileDescription{}, err
	}
	return TileDescription{
		TileSize:     Vec2[uint32]{X: x, Y: y},
		LevelMode:    LevelMode(mode & 0x0f),
		RoundingMode: RoundingMode(mode >> 4),
	}, nil
}

func readStringVector(r io.Reader) ([]string, error) {
	var out []string
	for {
		length, err := ioutil.ReadI32(r)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		if length < 0 {
			return nil, exr.Invalid("negative string length")
		}
		s, err := ioutil.ReadSizedVec(r, int64(length), ioutil.DefaultSoftMax, ioutil.DefaultHardMax)
		if err != nil {
			return nil, err
		}
		out = append(out, string(s))
	}
}

func readChannelList(r io.Reader, longNames bool) (ChannelList, error) {
	pr := ioutil.NewPeekReader(r)
	var channels []ChannelDescription

	for {
		done, err := pr.SkipIfEqual(0)
		if err != nil {
			return ChannelList{}, err
		}
		if done {
			break
		}

		name, err := ioutil.ReadCString(pr, MaxTextLength(longNames))
		if err != nil {
			return ChannelList{}, err
		}
		sampleType, err := ioutil.ReadI32(pr)
		if err != nil {
			return ChannelList{}, err
		}
		quantize, err := ioutil.ReadU8(pr)
		if err != nil {
			return ChannelList{}, err
		}
		var reserved [3]byte
		if _, err := io.ReadFull(pr, reserved[:]); err != nil {
			return ChannelList{}, err
		}
		xSampling, err := ioutil.ReadI32(pr)
		if err != nil {
			return ChannelList{}, err
		}
		ySampling, err := ioutil.ReadI32(pr)
		if err != nil {
			return ChannelList{}, err
		}

		text, err := NewText(name, longNames)
		if err != nil {
			return ChannelList{}, err
		}

		channels = append(channels, ChannelDescription{
			Name:             text,
			SampleType:       SampleType(sampleType),
			QuantizeLinearly: quantize != 0,
			Sampling:         Vec2[int]{X: int(xSampling), Y: int(ySampling)},
		})
	}

	return NewChannelList(channels), nil
}

func writeChannelList(list ChannelList) []byte {
	var buf bytes.Buffer
	for _, c := range list.List {
		_ = ioutil.WriteCString(&buf, c.Name.String())
		_ = ioutil.WriteI32(&buf, int32(c.SampleType))
		quantize := byte(0)
		if c.QuantizeLinearly {
			quantize = 1
		}
		_ = ioutil.WriteU8(&buf, quantize)
		buf.Write([]byte{0, 0, 0})
		_ = ioutil.WriteI32(&buf, int32(c.Sampling.X))
		_ = ioutil.WriteI32(&buf, int32(c.Sampling.Y))
	}
	_ = ioutil.WriteU8(&buf, 0)
	return buf.Bytes()
}

func bitsToFloat64(b [8]byte) float64 {
	var u uint64
	for i := 7; i >= 0; i-- {
		u = u<<8 | uint64(b[i])
	}
	return math.Float64frombits(u)
}

func float64ToBits(v float64) [8]byte {
	u := math.Float64bits(v)
	var b [8]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(u)
		u >>= 8
	}
	return b
}
