package dwa

import exr "github.com/johannesvollmer/exrs-sub002"

// acEndOfBlock and acZeroRunBase implement the AC run-length scheme: a
// zig-zag-ordered coefficient stream is scanned, and any run of zero
// coefficients followed by a nonzero one (or the end of the block) is
// replaced by a single marker instead of being written out literally.
const (
	acEndOfBlock = 0xff00
	acZeroRunBase = 0xff00
)

// encodeACRun appends the zig-zag AC coefficients (indices 1..63) of one
// block to out, replacing runs of zeros with 0xff00|n markers and the
// block's trailing zero run with a single 0xff00 end-of-block marker.
func encodeACRun(out []int32, zigzagCoeffs [blockSamples]int32) []int32 {
	lastNonZero := 0
	for i := 1; i < blockSamples; i++ {
		if zigzagCoeffs[i] != 0 {
			lastNonZero = i
		}
	}

	zeroRun := 0
	for i := 1; i <= lastNonZero; i++ {
		if zigzagCoeffs[i] == 0 {
			zeroRun++
			continue
		}
		for zeroRun > 0 {
			n := zeroRun
			if n > 0xff {
				n = 0xff
			}
			out = append(out, int32(acZeroRunBase|n))
			zeroRun -= n
		}
		out = append(out, zigzagCoeffs[i])
	}
	out = append(out, acEndOfBlock)
	return out
}

// decodeACRun reconstructs one block's 63 AC coefficients (index 1..63)
// from the run-length stream starting at pos, returning the next read
// position.
func decodeACRun(stream []int32, pos int) (coeffs [blockSamples]int32, next int, err error) {
	i := 1
	for {
		if pos >= len(stream) {
			return coeffs, pos, exr.Invalid("dwa ac stream truncated")
		}
		v := stream[pos]
		pos++

		if v == acEndOfBlock {
			return coeffs, pos, nil
		}
		if v&^0xff == acZeroRunBase {
			n := int(v & 0xff)
			i += n
			if i > blockSamples {
				return coeffs, pos, exr.Invalid("dwa ac zero run overflows block")
			}
			continue
		}

		if i >= blockSamples {
			return coeffs, pos, exr.Invalid("dwa ac coefficient overflows block")
		}
		coeffs[i] = v
		i++
	}
}
