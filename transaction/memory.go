package transaction

import (
	"io"
	"strconv"
)

// MemorySource serves records from a slice.
type MemorySource struct {
	records []Record
	pos     int
}

func NewMemorySource(records []Record) *MemorySource {
	return &MemorySource{records: records}
}

// NewMemorySourceFromTransactions expands each transaction into one record
// per item. Transactions get TIDs 1, 2, 3... in slice order.
func NewMemorySourceFromTransactions(trns [][]string) *MemorySource {
	records := make([]Record, 0)
	for i, tr := range trns {
		tid := strconv.Itoa(i + 1)
		for _, item := range tr {
			records = append(records, Record{TID: tid, Item: item})
		}
	}
	return NewMemorySource(records)
}

func (ms *MemorySource) Reset() error {
	ms.pos = 0
	return nil
}

func (ms *MemorySource) Next() (Record, error) {
	if ms.pos >= len(ms.records) {
		return Record{}, io.EOF
	}
	rec := ms.records[ms.pos]
	ms.pos++
	return rec, nil
}

func (ms *MemorySource) Close() error {
	return nil
}
