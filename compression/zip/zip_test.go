package zip

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestCompressDecompressRoundTrip(t *testing.T) {
	sizes := []int{0, 1, 17, 256, 4099}
	rng := rand.New(rand.NewSource(7))

	for _, n := range sizes {
		data := make([]byte, n)
		rng.Read(data)

		compressed, err := CompressBytes(data)
		if err != nil {
			t.Fatalf("size %d: compress: %v", n, err)
		}

		decompressed, err := DecompressBytes(compressed, n)
		if err != nil {
			t.Fatalf("size %d: decompress: %v", n, err)
		}
		if !bytes.Equal(decompressed, data) {
			t.Fatalf("size %d: round trip mismatch", n)
		}
	}
}

func TestDecompressRejectsSizeMismatch(t *testing.T) {
	compressed, err := CompressBytes([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := DecompressBytes(compressed, 4); err == nil {
		t.Fatal("expected size mismatch error")
	}
}
