package meta

import exr "github.com/johannesvollmer/exrs-sub002"

const (
	versionFormatMask = 0x00FF
	flagSingleTile    = 1 << 9
	flagLongNames     = 1 << 10
	flagDeepData      = 1 << 11
	flagMultiPart     = 1 << 12
	knownFlagsMask    = flagSingleTile | flagLongNames | flagDeepData | flagMultiPart
)

// VersionWord is the u32 immediately following the magic number.
type VersionWord uint32

// NewVersionWord builds a version word for the given flag combination.
func NewVersionWord(formatVersion int, singleTile, longNames, deepData, multiPart bool) VersionWord {
	v := VersionWord(formatVersion & versionFormatMask)
	if singleTile {
		v |= flagSingleTile
	}
	if longNames {
		v |= flagLongNames
	}
	if deepData {
		v |= flagDeepData
	}
	if multiPart {
		v |= flagMultiPart
	}
	return v
}

func (v VersionWord) FormatVersion() int { return int(v) & versionFormatMask }
func (v VersionWord) SingleTile() bool   { return v&flagSingleTile != 0 }
func (v VersionWord) LongNames() bool    { return v&flagLongNames != 0 }
func (v VersionWord) DeepData() bool     { return v&flagDeepData != 0 }
func (v VersionWord) MultiPart() bool    { return v&flagMultiPart != 0 }

// Validate enforces the mutual-exclusion rules between the single-tile,
// deep-data, and multi-part flags, and rejects any reserved bit being set.
func (v VersionWord) Validate() error {
	reserved := uint32(v) &^ uint32(versionFormatMask|knownFlagsMask)
	if reserved != 0 {
		return exr.Invalid("reserved version bits set")
	}
	if v.SingleTile() && v.MultiPart() {
		return exr.Invalid("single-tile and multi-part are mutually exclusive")
	}
	if v.SingleTile() && v.DeepData() {
		return exr.Invalid("single-tile and deep data are mutually exclusive")
	}
	if v.DeepData() && !v.MultiPart() {
		return exr.Invalid("deep data requires multi-part")
	}
	return nil
}

// Magic is the four-byte file signature that must open every EXR file.
var Magic = [4]byte{0x76, 0x2F, 0x31, 0x01}
