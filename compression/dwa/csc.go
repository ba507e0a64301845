package dwa

// BT.709 luma/chroma coefficients, used to decorrelate an R,G,B triplet
// before the lossy DCT stage.
const (
	kr = 0.2126
	kb = 0.0722
)

// rgbToYCbCr converts an R, G, B triplet of nonlinear-domain samples to
// Y, Cb, Cr (luma, blue-difference and red-difference chroma).
func rgbToYCbCr(r, g, b float64) (y, cb, cr2 float64) {
	y = kr*r + (1-kr-kb)*g + kb*b
	cb = 0.5 * (b - y) / (1 - kb)
	cr2 = 0.5 * (r - y) / (1 - kr)
	return
}

// yCbCrToRGB is the exact inverse of rgbToYCbCr.
func yCbCrToRGB(y, cb, cr2 float64) (r, g, b float64) {
	r = y + cr2*2*(1-kr)
	b = y + cb*2*(1-kb)
	g = (y - kr*r - kb*b) / (1 - kr - kb)
	return
}
