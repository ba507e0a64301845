package compression

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestPreprocessRoundTrip(t *testing.T) {
	sizes := []int{0, 1, 2, 3, 7, 16, 17, 1000}
	rng := rand.New(rand.NewSource(1))

	for _, n := range sizes {
		data := make([]byte, n)
		rng.Read(data)

		got := Unpreprocess(Preprocess(data))
		if !bytes.Equal(got, data) {
			t.Fatalf("size %d: round trip mismatch", n)
		}
	}
}
