package rle

import (
	"bytes"
	"testing"
)

func TestCompressDecompressRoundTrip(t *testing.T) {
	data := []byte{0, 23, 4, 4, 4, 4, 4, 4, 4, 4, 4, 5, 0, 0, 0, 1, 23, 43, 4}

	compressed := CompressBytes(data)
	decompressed, err := DecompressBytes(compressed, len(data))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decompressed, data) {
		t.Fatalf("got %v, want %v", decompressed, data)
	}
}

func TestDecompressRejectsTruncatedLiteralRun(t *testing.T) {
	// count = -5 (take 5 raw bytes) but only 2 remain.
	compressed := []byte{0xFB, 1, 2}
	if _, err := DecompressBytes(compressed, 16); err == nil {
		t.Fatal("expected error for truncated literal run")
	}
}
