package dwa

// baseQuantTable is the standard JPEG luminance quantization table,
// reused here as the starting point for DWA's per-channel quantization;
// entries are scaled by the compression level before use.
var baseQuantTable = [blockSamples]float64{
	16, 11, 10, 16, 24, 40, 51, 61,
	12, 12, 14, 19, 26, 58, 60, 55,
	14, 13, 16, 24, 40, 57, 69, 56,
	14, 17, 22, 29, 51, 87, 80, 62,
	18, 22, 37, 56, 68, 109, 103, 77,
	24, 35, 55, 64, 81, 104, 113, 92,
	49, 64, 78, 87, 103, 121, 120, 101,
	72, 92, 95, 98, 112, 100, 103, 99,
}

// defaultCompressionLevel is DWA's default quantization aggressiveness.
const defaultCompressionLevel = 45.0

func quantTable(level float64) [blockSamples]float64 {
	var out [blockSamples]float64
	scale := level / defaultCompressionLevel
	for i, v := range baseQuantTable {
		q := v * scale
		if q < 1 {
			q = 1
		}
		out[i] = q
	}
	return out
}

func quantize(coeffs [blockSamples]float64, table [blockSamples]float64) [blockSamples]int32 {
	var out [blockSamples]int32
	for i, c := range coeffs {
		out[i] = int32(roundHalfAwayFromZero(c / table[i]))
	}
	return out
}

func dequantize(levels [blockSamples]int32, table [blockSamples]float64) [blockSamples]float64 {
	var out [blockSamples]float64
	for i, l := range levels {
		out[i] = float64(l) * table[i]
	}
	return out
}

func roundHalfAwayFromZero(v float64) float64 {
	if v >= 0 {
		return float64(int64(v + 0.5))
	}
	return float64(int64(v - 0.5))
}
