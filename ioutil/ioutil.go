// Package ioutil provides the little-endian scalar I/O, peeking reader, and
// size-capped allocation helpers the rest of the codec is built on.
package ioutil

import (
	"encoding/binary"
	"io"
	"math"

	exr "github.com/johannesvollmer/exrs-sub002"
	"github.com/x448/float16"
)

// Default soft and hard caps for a single size-prefixed allocation. These
// bound how much memory an adversarial length field can force the reader
// to commit before the bytes backing it have actually been read.
const (
	DefaultSoftMax = 1 << 20 // 1 MiB grown incrementally
	DefaultHardMax = 1 << 30 // 1 GiB absolute ceiling
)

// PeekReader supports one byte of lookahead, used to detect the null
// terminator of a text field without consuming it when it isn't one.
type PeekReader struct {
	r      io.Reader
	peeked bool
	value  byte
	err    error
}

// NewPeekReader wraps r for peeking.
func NewPeekReader(r io.Reader) *PeekReader {
	return &PeekReader{r: r}
}

// Peek returns the next byte without consuming it.
func (p *PeekReader) Peek() (byte, error) {
	if !p.peeked {
		var b [1]byte
		_, err := io.ReadFull(p.r, b[:])
		p.value, p.err = b[0], err
		p.peeked = true
	}
	return p.value, p.err
}

// SkipIfEqual consumes the next byte iff it equals value, reporting whether
// it did.
func (p *PeekReader) SkipIfEqual(value byte) (bool, error) {
	b, err := p.Peek()
	if err != nil {
		return false, err
	}
	if b == value {
		p.peeked = false
		return true, nil
	}
	return false, nil
}

// ReadByte consumes and returns the next byte.
func (p *PeekReader) ReadByte() (byte, error) {
	if p.peeked {
		p.peeked = false
		return p.value, p.err
	}
	var b [1]byte
	_, err := io.ReadFull(p.r, b[:])
	return b[0], err
}

// Read implements io.Reader, accounting for a pending peeked byte.
func (p *PeekReader) Read(dst []byte) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if p.peeked {
		p.peeked = false
		dst[0] = p.value
		if p.err != nil {
			return 1, p.err
		}
		n, err := p.r.Read(dst[1:])
		return n + 1, err
	}
	return p.r.Read(dst)
}

// Tracking wraps a reader or writer and counts the bytes moved through it,
// supporting a bounded relative skip forward.
type Tracking struct {
	rw       io.ReadWriteSeeker
	position int64
}

// NewTracking wraps rw, starting the position counter at 0.
func NewTracking(rw io.ReadWriteSeeker) *Tracking {
	return &Tracking{rw: rw}
}

// Position returns the number of bytes read or written through this wrapper.
func (t *Tracking) Position() int64 { return t.position }

func (t *Tracking) Read(p []byte) (int, error) {
	n, err := t.rw.Read(p)
	t.position += int64(n)
	return n, err
}

func (t *Tracking) Write(p []byte) (int, error) {
	n, err := t.rw.Write(p)
	t.position += int64(n)
	return n, err
}

// seekSkipThreshold is the point above which SkipForward prefers an actual
// seek over discarding bytes by reading them, mirroring the threshold used
// by the reference `Tracking::skip_write`/seek bookkeeping.
const seekSkipThreshold = 1 << 16

// SkipForward advances the position by delta bytes. Small deltas are
// consumed by copying to io.Discard (keeping the position counter and the
// underlying stream's cursor precisely in sync even on non-seekable
// wrappers); large deltas seek directly.
func (t *Tracking) SkipForward(delta int64) error {
	if delta < 0 {
		return exr.Invalid("negative skip")
	}
	if delta == 0 {
		return nil
	}
	if delta < seekSkipThreshold {
		_, err := io.CopyN(io.Discard, t, delta)
		return err
	}
	if _, err := t.rw.Seek(delta, io.SeekCurrent); err != nil {
		return err
	}
	t.position += delta
	return nil
}

// SeekAbsolute seeks to an absolute file offset, updating the position
// counter accordingly.
func (t *Tracking) SeekAbsolute(offset int64) error {
	if _, err := t.rw.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	t.position = offset
	return nil
}

// ---- little-endian scalar helpers ----

func ReadU8(r io.Reader) (uint8, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func WriteU8(w io.Writer, v uint8) error {
	_, err := w.Write([]byte{v})
	return err
}

func ReadI32(r io.Reader) (int32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b[:])), nil
}

func WriteI32(w io.Writer, v int32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	_, err := w.Write(b[:])
	return err
}

func ReadU32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func WriteU32(w io.Writer, v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func ReadU64(r io.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func WriteU64(w io.Writer, v uint64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func ReadF32(r io.Reader) (float32, error) {
	v, err := ReadU32(r)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func WriteF32(w io.Writer, v float32) error {
	return WriteU32(w, math.Float32bits(v))
}

// ReadF16 reads a little-endian half-float sample, stored on disk as a raw
// u16 bit pattern and reinterpreted (never converted) per spec.
func ReadF16(r io.Reader) (float16.Float16, error) {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return float16.Float16(0), err
	}
	return float16.Frombits(binary.LittleEndian.Uint16(b[:])), nil
}

func WriteF16(w io.Writer, v float16.Float16) error {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v.Bits())
	_, err := w.Write(b[:])
	return err
}

// ---- size-capped sized reads ----

// ReadI32SizedVec reads a length-prefixed (i32) byte vector, rejecting
// negative lengths and honoring soft/hard allocation caps by growing the
// buffer incrementally instead of allocating the declared size up front.
func ReadI32SizedVec(r io.Reader, softMax, hardMax int64) ([]byte, error) {
	n, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, exr.Invalid("negative array size")
	}
	return ReadSizedVec(r, int64(n), softMax, hardMax)
}

// WriteI32SizedVec writes data prefixed with its length as an i32.
func WriteI32SizedVec(w io.Writer, data []byte) error {
	if err := WriteI32(w, int32(len(data))); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}

// ReadSizedVec reads exactly n bytes, growing the destination buffer in
// soft-capped chunks so that a length field alone can never force an
// allocation larger than hardMax.
func ReadSizedVec(r io.Reader, n, softMax, hardMax int64) ([]byte, error) {
	if hardMax > 0 && n > hardMax {
		return nil, exr.Invalid("array size exceeds hard cap")
	}

	out := make([]byte, 0, minI64(n, softMax))
	remaining := n
	for remaining > 0 {
		chunk := remaining
		if chunk > softMax {
			chunk = softMax
		}
		buf := make([]byte, chunk)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		out = append(out, buf...)
		remaining -= chunk
	}
	return out, nil
}

func minI64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// ReadCString reads a null-terminated byte string, rejecting any string
// longer than maxLen bytes (not counting the terminator).
func ReadCString(r io.ByteReader, maxLen int) (string, error) {
	var buf []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			return "", err
		}
		if b == 0 {
			return string(buf), nil
		}
		if len(buf) >= maxLen {
			return "", exr.Invalid("text too long")
		}
		buf = append(buf, b)
	}
}

// WriteCString writes s followed by a null terminator.
func WriteCString(w io.Writer, s string) error {
	if _, err := io.WriteString(w, s); err != nil {
		return err
	}
	return WriteU8(w, 0)
}
