package piz

import "testing"

func TestLiftingRoundTrip14Bit(t *testing.T) {
	pairs := [][2]uint16{
		{13, 54}, {3, 123}, {423, 53}, {1, 23}, {23, 515}, {513, 43},
		{16374, 16381}, {16284, 3}, {2, 1}, {0, 0}, {0, 4}, {3, 0},
	}
	for _, p := range pairs {
		l, h := encode14bit(p[0], p[1])
		a, b := decode14bit(l, h)
		if a != p[0] || b != p[1] {
			t.Fatalf("14bit(%d,%d): got (%d,%d)", p[0], p[1], a, b)
		}
	}
}

func TestLiftingRoundTrip16Bit(t *testing.T) {
	pairs := [][2]uint16{
		{13, 54}, {3, 123}, {423, 53}, {1, 23}, {23, 515}, {513, 43},
		{16385, 56384}, {18384, 36384}, {2, 1}, {0, 0}, {0, 4}, {3, 0},
	}
	for _, p := range pairs {
		l, h := encode16bit(p[0], p[1])
		a, b := decode16bit(l, h)
		if a != p[0] || b != p[1] {
			t.Fatalf("16bit(%d,%d): got (%d,%d)", p[0], p[1], a, b)
		}
	}
}

func TestWaveletRoundTripImage14Bit(t *testing.T) {
	data := []uint16{
		13, 54, 3, 123, 423, 53,
		1, 23, 23, 515, 513, 43,
		16374, 16381, 16284, 3, 2, 1,
		0, 0, 0, 4, 3, 0,
	}
	transformed := append([]uint16(nil), data...)

	var max uint16
	for _, v := range data {
		if v > max {
			max = v
		}
	}

	waveletEncode(transformed, 6, 4, 1, 6, max)
	waveletDecode(transformed, 6, 4, 1, 6, max)

	for i := range data {
		if transformed[i] != data[i] {
			t.Fatalf("index %d: got %d want %d", i, transformed[i], data[i])
		}
	}
}

func TestWaveletRoundTripImage16Bit(t *testing.T) {
	data := []uint16{
		13, 54, 3, 123, 423, 53,
		1, 23, 23, 515, 513, 43,
		16385, 56384, 18384, 36384, 2, 1,
		0, 0, 0, 4, 3, 0,
	}
	transformed := append([]uint16(nil), data...)

	var max uint16
	for _, v := range data {
		if v > max {
			max = v
		}
	}

	waveletEncode(transformed, 6, 4, 1, 6, max)
	waveletDecode(transformed, 6, 4, 1, 6, max)

	for i := range data {
		if transformed[i] != data[i] {
			t.Fatalf("index %d: got %d want %d", i, transformed[i], data[i])
		}
	}
}
