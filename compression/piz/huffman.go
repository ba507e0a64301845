package piz

import (
	"sort"

	exr "github.com/johannesvollmer/exrs-sub002"
)

// maxCodeLength bounds canonical Huffman code length. The reference
// codec allows up to 58 bits; this implementation limits to 32, which
// comfortably covers the sparse alphabets PIZ ever produces (at most
// 2^16 distinct 16-bit tokens) and keeps code words in a uint32.
const maxCodeLength = 32

type huffCode struct {
	length uint8
	bits   uint32
}

// buildCanonicalCodes assigns canonical Huffman codes to every symbol
// with a nonzero frequency, returning the per-symbol code table. Symbol
// indices with frequency 0 are left at the zero value (unused).
func buildCanonicalCodes(freq []uint64) []huffCode {
	type node struct {
		freq     uint64
		symbol   int
		left     *node
		right    *node
		isLeaf   bool
	}

	var leaves []*node
	for sym, f := range freq {
		if f > 0 {
			leaves = append(leaves, &node{freq: f, symbol: sym, isLeaf: true})
		}
	}

	codes := make([]huffCode, len(freq))
	if len(leaves) == 0 {
		return codes
	}
	if len(leaves) == 1 {
		codes[leaves[0].symbol] = huffCode{length: 1, bits: 0}
		return codes
	}

	// Build the Huffman tree with a simple repeated-scan priority queue;
	// the alphabets here are small enough (<= 65536 sparse symbols) that
	// this avoids pulling in a heap just for this one call site.
	queue := append([]*node(nil), leaves...)
	for len(queue) > 1 {
		sort.Slice(queue, func(i, j int) bool { return queue[i].freq < queue[j].freq })
		a, b := queue[0], queue[1]
		parent := &node{freq: a.freq + b.freq, left: a, right: b}
		queue = append(queue[2:], parent)
	}

	lengths := make([]int, len(freq))
	var walk func(n *node, depth int)
	walk = func(n *node, depth int) {
		if n.isLeaf {
			if depth == 0 {
				depth = 1
			}
			lengths[n.symbol] = depth
			return
		}
		walk(n.left, depth+1)
		walk(n.right, depth+1)
	}
	walk(queue[0], 0)

	limitCodeLengths(lengths, maxCodeLength)
	assignCanonicalCodes(lengths, codes)
	return codes
}

// limitCodeLengths clamps any code length exceeding limit to limit, then
// restores the Kraft inequality by repeatedly lengthening the currently
// shortest code that is still below limit.
func limitCodeLengths(lengths []int, limit int) {
	overflow := false
	for _, l := range lengths {
		if l > limit {
			overflow = true
			break
		}
	}
	if !overflow {
		return
	}

	for i, l := range lengths {
		if l > limit {
			lengths[i] = limit
		}
	}

	for {
		var kraft uint64 // fixed point, denominator 2^limit
		for _, l := range lengths {
			if l > 0 {
				kraft += uint64(1) << (limit - l)
			}
		}
		full := uint64(1) << limit
		if kraft <= full {
			break
		}

		// Lengthening a short code frees up Kraft-inequality headroom;
		// repeat on the currently-shortest eligible code until it fits.
		shortest := -1
		for i, l := range lengths {
			if l > 0 && l < limit && (shortest == -1 || l < lengths[shortest]) {
				shortest = i
			}
		}
		if shortest == -1 {
			break // alphabet too large for limit; codes stay non-canonical-optimal but valid lengths
		}
		lengths[shortest]++
	}
}

// assignCanonicalCodes implements the standard canonical-code assignment:
// sort symbols by (length, symbol), then walk assigning consecutive
// integers, left-shifted whenever length increases.
func assignCanonicalCodes(lengths []int, codes []huffCode) {
	type entry struct {
		symbol int
		length int
	}
	var entries []entry
	for sym, l := range lengths {
		if l > 0 {
			entries = append(entries, entry{sym, l})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].length != entries[j].length {
			return entries[i].length < entries[j].length
		}
		return entries[i].symbol < entries[j].symbol
	})

	code := uint32(0)
	prevLen := entries[0].length
	for _, e := range entries {
		code <<= uint(e.length - prevLen)
		codes[e.symbol] = huffCode{length: uint8(e.length), bits: code}
		code++
		prevLen = e.length
	}
}

// bitWriter packs code words MSB-first into a byte slice.
type bitWriter struct {
	buf     []byte
	cur     uint64
	curBits uint
}

func (w *bitWriter) writeBits(bits uint32, length uint8) {
	w.cur = (w.cur << length) | uint64(bits)
	w.curBits += uint(length)
	for w.curBits >= 8 {
		w.curBits -= 8
		w.buf = append(w.buf, byte(w.cur>>w.curBits))
	}
}

func (w *bitWriter) flush() []byte {
	if w.curBits > 0 {
		w.buf = append(w.buf, byte(w.cur<<(8-w.curBits)))
		w.curBits = 0
	}
	return w.buf
}

type bitReader struct {
	data    []byte
	pos     int
	cur     uint64
	curBits uint
}

func (r *bitReader) fill() {
	for r.curBits <= 56 && r.pos < len(r.data) {
		r.cur = (r.cur << 8) | uint64(r.data[r.pos])
		r.pos++
		r.curBits += 8
	}
}

// readSymbol walks the canonical code table bit by bit using the decode
// table built by buildDecodeTable.
func (r *bitReader) readSymbol(table map[huffCode]int, maxLen uint8) (int, error) {
	r.fill()
	var code uint32
	for length := uint8(1); length <= maxLen; length++ {
		if r.curBits < uint(length) {
			return 0, exr.Invalid("huffman stream truncated")
		}
		bit := (r.cur >> (r.curBits - uint(length))) & 1
		code = (code << 1) | uint32(bit)
		if sym, ok := table[huffCode{length: length, bits: code}]; ok {
			r.curBits -= uint(length)
			return sym, nil
		}
	}
	return 0, exr.Invalid("huffman code not in table")
}

func buildDecodeTable(codes []huffCode) (map[huffCode]int, uint8) {
	table := make(map[huffCode]int)
	var maxLen uint8
	for sym, c := range codes {
		if c.length == 0 {
			continue
		}
		table[c] = sym
		if c.length > maxLen {
			maxLen = c.length
		}
	}
	return table, maxLen
}
