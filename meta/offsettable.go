package meta

import (
	"io"

	"github.com/johannesvollmer/exrs-sub002/ioutil"
)

// OffsetTable holds one absolute file offset per chunk of a single part,
// sorted by line order.
type OffsetTable []uint64

// ReadOffsetTable reads count u64 offsets.
func ReadOffsetTable(r io.Reader, count int) (OffsetTable, error) {
	table := make(OffsetTable, count)
	for i := range table {
		v, err := ioutil.ReadU64(r)
		if err != nil {
			return nil, err
		}
		table[i] = v
	}
	return table, nil
}

// WriteOffsetTable writes the table verbatim.
func WriteOffsetTable(w io.Writer, table OffsetTable) error {
	for _, v := range table {
		if err := ioutil.WriteU64(w, v); err != nil {
			return err
		}
	}
	return nil
}

// ReadOffsetTables reads one offset table per header, in header order,
// sized by each header's expected chunk count.
func ReadOffsetTables(r io.Reader, headers []*Header) ([]OffsetTable, error) {
	tables := make([]OffsetTable, len(headers))
	for i, h := range headers {
		count := int(h.ChunkCount)
		if count == 0 {
			count = h.ExpectedChunkCount()
		}
		table, err := ReadOffsetTable(r, count)
		if err != nil {
			return nil, err
		}
		tables[i] = table
	}
	return tables, nil
}
