// Package piz implements the lossless PIZ compression scheme: a
// frequency-sparse lookup table, a 2D integer Haar wavelet transform, and
// canonical Huffman entropy coding.
package piz

// waveletEncode runs the forward 2D integer wavelet transform over a
// count_x by count_y grid of 16-bit tokens addressed through offset_x /
// offset_y (so the same routine serves both tile rows and columns of a
// larger buffer). max bounds the input range and selects the 14-bit or
// 16-bit modular lifting step.
func waveletEncode(buffer []uint16, countX, countY, offsetX, offsetY int, max uint16) {
	is14Bit := max < (1 << 14)
	count := countX
	if countY < count {
		count = countY
	}

	p, p2 := 1, 2
	for p2 <= count {
		endY := offsetY * (countY - p2)
		o1x, o1y := offsetX*p, offsetY*p
		o2x, o2y := offsetX*p2, offsetY*p2

		py := 0
		for ; py <= endY; py += o2y {
			endX := py + offsetX*(countX-p2)
			px := py
			for ; px <= endX; px += o2x {
				posRight := px + o1x
				posTop := px + o1y
				posTopRight := posTop + o1x

				encode := encode16bit
				if is14Bit {
					encode = encode14bit
				}

				center, right := encode(buffer[px], buffer[posRight])
				top, topRight := encode(buffer[posTop], buffer[posTopRight])
				center, top = encode(center, top)
				right, topRight = encode(right, topRight)

				buffer[px] = center
				buffer[posTop] = top
				buffer[posRight] = right
				buffer[posTopRight] = topRight
			}

			if countX&p != 0 {
				posTop := px + o1y
				var center, top uint16
				if is14Bit {
					center, top = encode14bit(buffer[px], buffer[posTop])
				} else {
					center, top = encode16bit(buffer[px], buffer[posTop])
				}
				buffer[px] = center
				buffer[posTop] = top
			}
		}

		if countY&p != 0 {
			endX := py + offsetX*(countX-p2)
			px := py
			for ; px <= endX; px += o2x {
				posRight := px + o1x
				var center, right uint16
				if is14Bit {
					center, right = encode14bit(buffer[px], buffer[posRight])
				} else {
					center, right = encode16bit(buffer[px], buffer[posRight])
				}
				buffer[posRight] = right
				buffer[px] = center
			}
		}

		p = p2
		p2 <<= 1
	}
}

// waveletDecode is the exact inverse of waveletEncode.
func waveletDecode(buffer []uint16, countX, countY, offsetX, offsetY int, max uint16) {
	is14Bit := max < (1 << 14)
	count := countX
	if countY < count {
		count = countY
	}

	p := 1
	for p <= count {
		p <<= 1
	}
	p >>= 1
	p2 := p
	p >>= 1

	for p >= 1 {
		endY := offsetY * (countY - p2)
		o1x, o1y := offsetX*p, offsetY*p
		o2x, o2y := offsetX*p2, offsetY*p2

		py := 0
		for ; py <= endY; py += o2y {
			endX := py + offsetX*(countX-p2)
			px := py
			for ; px <= endX; px += o2x {
				posRight := px + o1x
				posTop := px + o1y
				posTopRight := posTop + o1x

				decode := decode16bit
				if is14Bit {
					decode = decode14bit
				}

				center, top := decode(buffer[px], buffer[posTop])
				right, topRight := decode(buffer[posRight], buffer[posTopRight])
				center, right = decode(center, right)
				top, topRight = decode(top, topRight)

				buffer[px] = center
				buffer[posTop] = top
				buffer[posRight] = right
				buffer[posTopRight] = topRight
			}

			if countX&p != 0 {
				posTop := px + o1y
				var center, top uint16
				if is14Bit {
					center, top = decode14bit(buffer[px], buffer[posTop])
				} else {
					center, top = decode16bit(buffer[px], buffer[posTop])
				}
				buffer[px] = center
				buffer[posTop] = top
			}
		}

		if countY&p != 0 {
			endX := py + offsetX*(countX-p2)
			px := py
			for ; px <= endX; px += o2x {
				posRight := px + o1x
				var center, right uint16
				if is14Bit {
					center, right = decode14bit(buffer[px], buffer[posRight])
				} else {
					center, right = decode16bit(buffer[px], buffer[posRight])
				}
				buffer[px] = center
				buffer[posRight] = right
			}
		}

		p2 = p
		p >>= 1
	}
}

func encode14bit(a, b uint16) (uint16, uint16) {
	ai, bi := int16(a), int16(b)
	m := (ai + bi) >> 1
	d := ai - bi
	return uint16(m), uint16(d)
}

func decode14bit(l, h uint16) (uint16, uint16) {
	li, hi := int32(int16(l)), int32(int16(h))
	ai := li + (hi & 1) + (hi >> 1)
	a := int16(ai)
	b := int16(ai - hi)
	return uint16(a), uint16(b)
}

const (
	bitCount = 16
	waveletOffset = 1 << (bitCount - 1)
	modMask       = (1 << bitCount) - 1
)

func encode16bit(a, b uint16) (uint16, uint16) {
	ai, bi := int32(a), int32(b)
	aOffset := (ai + waveletOffset) & modMask
	m := (aOffset + bi) >> 1
	d := aOffset - bi
	if d < 0 {
		m = (m + waveletOffset) & modMask
	}
	d &= modMask
	return uint16(m), uint16(d)
}

func decode16bit(l, h uint16) (uint16, uint16) {
	m, d := int32(l), int32(h)
	b := (m - (d >> 1)) & modMask
	a := (d + b - waveletOffset) & modMask
	return uint16(a), uint16(b)
}
