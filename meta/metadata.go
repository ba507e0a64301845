package meta

import (
	"io"

	exr "github.com/johannesvollmer/exrs-sub002"
	"github.com/johannesvollmer/exrs-sub002/attribute"
	"github.com/johannesvollmer/exrs-sub002/ioutil"
)

// MetaData is the version word plus the ordered list of per-part headers.
type MetaData struct {
	Version VersionWord
	Headers []*Header
}

// ReadMagicAndVersion validates the magic number and parses the version
// word, failing fast (before any further allocation) on a bad magic byte.
func ReadMagicAndVersion(r io.Reader) (VersionWord, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return 0, exr.Io(err)
	}
	if magic != Magic {
		return 0, exr.Invalid("magic number")
	}
	raw, err := ioutil.ReadU32(r)
	if err != nil {
		return 0, exr.Io(err)
	}
	version := VersionWord(raw)
	if err := version.Validate(); err != nil {
		return 0, err
	}
	return version, nil
}

// ReadHeaders reads the attribute stream of every part, terminated by a
// null byte per part, with an extra terminating null byte for multi-part
// files. A single-part file has exactly one header.
func ReadHeaders(r io.Reader, version VersionWord) ([]*Header, error) {
	pr := ioutil.NewPeekReader(r)
	var headers []*Header

	for {
		h, err := readOneHeader(pr, version.LongNames())
		if err != nil {
			return nil, err
		}
		headers = append(headers, h)

		if !version.MultiPart() {
			break
		}

		done, err := pr.SkipIfEqual(0)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
	}

	for _, h := range headers {
		if err := h.Validate(); err != nil {
			return nil, err
		}
	}

	return headers, nil
}

func readOneHeader(pr *ioutil.PeekReader, longNames bool) (*Header, error) {
	h := &Header{}

	for {
		done, err := pr.SkipIfEqual(0)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}

		attr, err := attribute.ReadAttribute(pr, longNames, ioutil.DefaultSoftMax, ioutil.DefaultHardMax)
		if err != nil {
			return nil, err
		}
		h.OwnAttributes = append(h.OwnAttributes, attr)
		applyKnownAttribute(h, attr)
	}

	return h, nil
}

func applyKnownAttribute(h *Header, attr attribute.Attribute) {
	switch attr.Name.String() {
	case "dataWindow":
		if v, ok := attr.Value.(attribute.IntegerBounds); ok {
			h.DataWindow = v
			h.LayerSize = v.Size
		}
	case "displayWindow":
		if v, ok := attr.Value.(attribute.IntegerBounds); ok {
			h.DisplayWindow = v
		}
	case "pixelAspectRatio":
		if v, ok := attr.Value.(float32); ok {
			h.PixelAspectRatio = v
		}
	case "screenWindowCenter":
		if v, ok := attr.Value.(attribute.Vec2[float32]); ok {
			h.ScreenWindowCenter = v
		}
	case "screenWindowWidth":
		if v, ok := attr.Value.(float32); ok {
			h.ScreenWindowWidth = v
		}
	case "lineOrder":
		if v, ok := attr.Value.(attribute.LineOrder); ok {
			h.LineOrder = v
		}
	case "compression":
		if v, ok := attr.Value.(attribute.Compression); ok {
			h.Compression = v
		}
	case "channels":
		if v, ok := attr.Value.(attribute.ChannelList); ok {
			h.Channels = v
		}
	case "tiles":
		if v, ok := attr.Value.(attribute.TileDescription); ok {
			h.Blocks = BlockDescription{Kind: BlockTiles, Tiles: v}
		}
	case "name":
		if v, ok := attr.Value.(string); ok {
			h.Name = &v
		}
	case "type":
		if v, ok := attr.Value.(string); ok {
			h.Type = &v
			h.Deep = v == "deepscanline" || v == "deeptile"
		}
	case "chunkCount":
		if v, ok := attr.Value.(int32); ok {
			h.ChunkCount = v
		}
	case "version":
		if v, ok := attr.Value.(int32); ok {
			h.DeepDataVersion = &v
		}
	case "maxSamplesPerPixel":
		if v, ok := attr.Value.(int32); ok {
			h.MaxSamplesPerPixel = &v
		}
	}
}

// WriteHeaders serializes every header's attribute stream, each terminated
// by a null byte, with a final extra null byte for multi-part files.
func WriteHeaders(w io.Writer, headers []*Header, version VersionWord) error {
	for _, h := range headers {
		for _, attr := range h.OwnAttributes {
			if err := attribute.WriteAttribute(w, attr, version.LongNames()); err != nil {
				return err
			}
		}
		if err := ioutil.WriteU8(w, 0); err != nil {
			return err
		}
	}
	if version.MultiPart() {
		if err := ioutil.WriteU8(w, 0); err != nil {
			return err
		}
	}
	return nil
}
