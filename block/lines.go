package block

import "github.com/johannesvollmer/exrs-sub002/attribute"

// LineIndex locates one row of one channel's samples within a block.
type LineIndex struct {
	ChannelIndex int
	Y            int // row within the block, 0-based
	Width        int // number of samples in this row
}

// LineSlice pairs a LineIndex with the bytes of that row.
type LineSlice struct {
	Location LineIndex
	Value    []byte
}

// linesInBlock enumerates every (byteRange, LineIndex) pair of a block
// shaped width x height, in the channel-major, row-minor order the block's
// byte layout uses: every row of the first channel, then every row of the
// second, and so on.
func linesInBlock(width, height int, channels attribute.ChannelList) []struct {
	Start, End int
	Line       LineIndex
} {
	var out []struct {
		Start, End int
		Line       LineIndex
	}

	offset := 0
	for ci, ch := range channels.List {
		rowSamples := width / ch.Sampling.X
		if rowSamples == 0 {
			rowSamples = width
		}
		rowBytes := rowSamples * ch.SampleType.ByteSize()
		rows := height / ch.Sampling.Y
		if rows == 0 {
			rows = height
		}
		for y := 0; y < rows; y++ {
			out = append(out, struct {
				Start, End int
				Line       LineIndex
			}{
				Start: offset,
				End:   offset + rowBytes,
				Line:  LineIndex{ChannelIndex: ci, Y: y, Width: rowSamples},
			})
			offset += rowBytes
		}
	}
	return out
}

// Lines returns every row of every channel in this block, as read-only
// byte slices into the block's data.
func (b UncompressedBlock) Lines(channels attribute.ChannelList) []LineSlice {
	entries := linesInBlock(b.Index.PixelSize.X, b.Index.PixelSize.Y, channels)
	out := make([]LineSlice, len(entries))
	for i, e := range entries {
		out[i] = LineSlice{Location: e.Line, Value: b.Data[e.Start:e.End]}
	}
	return out
}

// CollectBlockDataFromLines builds a block's byte buffer by calling
// extractLine once per (channel, row), matching the layout Lines expects.
func CollectBlockDataFromLines(channels attribute.ChannelList, width, height int, extractLine func(LineIndex, []byte)) []byte {
	entries := linesInBlock(width, height, channels)
	total := 0
	if len(entries) > 0 {
		total = entries[len(entries)-1].End
	}
	data := make([]byte, total)
	for _, e := range entries {
		extractLine(e.Line, data[e.Start:e.End])
	}
	return data
}
