// Package compression defines the Codec interface shared by every block
// compression scheme, its registry, and the byte-interleave preprocessor
// several of the codecs share.
package compression

import (
	"github.com/johannesvollmer/exrs-sub002/attribute"
	"github.com/johannesvollmer/exrs-sub002/geometry"
)

// Codec is the universal interface for one compression scheme. Both
// methods operate on little-endian byte streams holding each channel's
// samples together, one channel after another, which package block
// passes through unchanged since every supported
// build target is already little-endian.
type Codec interface {
	// Compress turns an uncompressed little-endian block into its
	// compressed on-disk representation.
	Compress(channels attribute.ChannelList, uncompressedLE []byte, rect geometry.AbsoluteIndices) ([]byte, error)

	// Decompress is the inverse. When pedantic is true, implementations
	// may perform extra internal consistency checks.
	Decompress(channels attribute.ChannelList, compressedLE []byte, rect geometry.AbsoluteIndices, pedantic bool) ([]byte, error)

	// MayLoseData reports whether this codec can discard information for
	// at least one sample type it accepts.
	MayLoseData() bool
}
