package compression

// Preprocess applies the byte-interleave preprocessor shared by RLE, ZIP,
// and PXR24: split the stream into two halves, interleave them byte by
// byte, then delta-code the result. Operates on the uncompressed
// little-endian stream before the entropy stage.
func Preprocess(data []byte) []byte {
	interleaved := interleaveHalves(data)
	return encodeDeltas(interleaved)
}

// Unpreprocess is the exact inverse of Preprocess.
func Unpreprocess(data []byte) []byte {
	deltaDecoded := decodeDeltas(data)
	return deinterleaveHalves(deltaDecoded)
}

func interleaveHalves(data []byte) []byte {
	n := len(data)
	split := (n + 1) / 2
	half1, half2 := data[:split], data[split:]

	out := make([]byte, n)
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			out[i] = half1[i/2]
		} else {
			out[i] = half2[i/2]
		}
	}
	return out
}

func deinterleaveHalves(data []byte) []byte {
	n := len(data)
	split := (n + 1) / 2

	out := make([]byte, n)
	half1, half2 := out[:split], out[split:]
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			half1[i/2] = data[i]
		} else {
			half2[i/2] = data[i]
		}
	}
	return out
}

func encodeDeltas(data []byte) []byte {
	out := make([]byte, len(data))
	if len(data) == 0 {
		return out
	}
	out[0] = data[0]
	for i := 1; i < len(data); i++ {
		out[i] = data[i] - data[i-1] + 128
	}
	return out
}

func decodeDeltas(data []byte) []byte {
	out := make([]byte, len(data))
	if len(data) == 0 {
		return out
	}
	out[0] = data[0]
	for i := 1; i < len(data); i++ {
		out[i] = out[i-1] + data[i] - 128
	}
	return out
}
