package attribute

import "sort"

// SampleType is the scalar storage type of a channel: U32, F16, or F32.
type SampleType int32

const (
	SampleU32 SampleType = 0
	SampleF16 SampleType = 1
	SampleF32 SampleType = 2
)

// ByteSize returns the on-disk and in-memory size of one sample.
func (s SampleType) ByteSize() int {
	switch s {
	case SampleF16:
		return 2
	default:
		return 4
	}
}

// ChannelDescription names one image channel and its storage and
// subsampling parameters. Sampling factors must be >= 1; the data window
// position and size must be multiples of the sampling in every dimension.
type ChannelDescription struct {
	Name             Text
	SampleType       SampleType
	QuantizeLinearly bool
	Sampling         Vec2[int]
}

// ChannelList is kept alphabetically ordered by channel name.
type ChannelList struct {
	List []ChannelDescription

	// BytesPerPixel is valid only when every channel's sampling is (1,1);
	// otherwise the byte size must be computed per-section.
	BytesPerPixel int
}

// NewChannelList sorts channels by name and computes BytesPerPixel when
// uniform sampling makes that cached value meaningful.
func NewChannelList(channels []ChannelDescription) ChannelList {
	sorted := append([]ChannelDescription(nil), channels...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name.String() < sorted[j].Name.String()
	})

	uniform := true
	bytes := 0
	for _, c := range sorted {
		if c.Sampling.X != 1 || c.Sampling.Y != 1 {
			uniform = false
		}
		bytes += c.SampleType.ByteSize()
	}
	if !uniform {
		bytes = 0
	}

	return ChannelList{List: sorted, BytesPerPixel: bytes}
}
