package ioutil

import (
	"bytes"
	"testing"
)

func TestPeekReaderSkipIfEqual(t *testing.T) {
	cases := []struct {
		name  string
		input []byte
		want  byte
		skip  bool
	}{
		{"matches", []byte{0, 1, 2}, 0, true},
		{"no match", []byte{5, 1, 2}, 0, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := NewPeekReader(bytes.NewReader(c.input))
			skipped, err := r.SkipIfEqual(c.want)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if skipped != c.skip {
				t.Fatalf("skip = %v, want %v", skipped, c.skip)
			}
		})
	}
}

func TestReadWriteScalarsRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteI32(&buf, -12345); err != nil {
		t.Fatal(err)
	}
	if err := WriteU64(&buf, 0xDEADBEEFCAFEBABE); err != nil {
		t.Fatal(err)
	}
	if err := WriteF32(&buf, 3.14159); err != nil {
		t.Fatal(err)
	}

	i, err := ReadI32(&buf)
	if err != nil || i != -12345 {
		t.Fatalf("ReadI32 = %d, %v", i, err)
	}
	u, err := ReadU64(&buf)
	if err != nil || u != 0xDEADBEEFCAFEBABE {
		t.Fatalf("ReadU64 = %x, %v", u, err)
	}
	f, err := ReadF32(&buf)
	if err != nil || f != 3.14159 {
		t.Fatalf("ReadF32 = %v, %v", f, err)
	}
}

func TestReadI32SizedVecRejectsNegativeLength(t *testing.T) {
	var buf bytes.Buffer
	_ = WriteI32(&buf, -1)

	_, err := ReadI32SizedVec(&buf, DefaultSoftMax, DefaultHardMax)
	if err == nil {
		t.Fatal("expected error for negative array size")
	}
}

func TestReadSizedVecHonorsHardCap(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(make([]byte, 100))

	_, err := ReadSizedVec(&buf, 100, 10, 50)
	if err == nil {
		t.Fatal("expected hard cap violation")
	}
}

func TestCStringRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCString(&buf, "dataWindow"); err != nil {
		t.Fatal(err)
	}

	r := NewPeekReader(&buf)
	s, err := ReadCString(r, 31)
	if err != nil {
		t.Fatal(err)
	}
	if s != "dataWindow" {
		t.Fatalf("got %q", s)
	}
}

func TestTrackingSkipForward(t *testing.T) {
	data := bytes.Repeat([]byte{0xAB}, 1<<17)
	rw := &seekableBuffer{data: data}
	tr := NewTracking(rw)

	if err := tr.SkipForward(10); err != nil {
		t.Fatal(err)
	}
	if tr.Position() != 10 {
		t.Fatalf("position = %d", tr.Position())
	}

	if err := tr.SkipForward(1 << 17 - 10); err != nil {
		t.Fatal(err)
	}
	if tr.Position() != int64(len(data)) {
		t.Fatalf("position = %d, want %d", tr.Position(), len(data))
	}
}

// seekableBuffer is a minimal io.ReadWriteSeeker over an in-memory slice,
// used only to exercise Tracking's seek-vs-discard skip strategy.
type seekableBuffer struct {
	data []byte
	pos  int64
}

func (s *seekableBuffer) Read(p []byte) (int, error) {
	n := copy(p, s.data[s.pos:])
	s.pos += int64(n)
	if n == 0 {
		return 0, bytes.ErrTooLarge
	}
	return n, nil
}

func (s *seekableBuffer) Write(p []byte) (int, error) {
	n := copy(s.data[s.pos:], p)
	s.pos += int64(n)
	return n, nil
}

func (s *seekableBuffer) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case 0:
		s.pos = offset
	case 1:
		s.pos += offset
	case 2:
		s.pos = int64(len(s.data)) + offset
	}
	return s.pos, nil
}
