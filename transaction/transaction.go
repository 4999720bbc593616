// Package transaction provides the record sources mining reads from. A
// source is consumed twice per run, so every Source can be rewound with
// Reset.
package transaction

import (
	"io"

	"github.com/pkg/errors"
)

// Column positions of the space separated input format: tid time item number.
const (
	TidCol = iota
	TimeCol
	ItemCol
	NumberCol
)

// ErrMalformedRecord is returned for input lines that do not carry an item.
var ErrMalformedRecord = errors.New("transaction: malformed record")

// Record is one item occurrence inside a transaction.
type Record struct {
	TID    string
	Time   string
	Item   string
	Number string
}

// Source yields records in storage order. Next returns io.EOF once the
// source is exhausted; Reset starts over from the first record.
type Source interface {
	Reset() error
	Next() (Record, error)
	Close() error
}

// Transaction groups the items of consecutive records sharing a TID.
type Transaction struct {
	TID   string
	Items []string
}

// ReadTransactions reads src from its current position and calls fn for
// every run of consecutive records with the same TID. Items keep record
// order and duplicates are kept.
func ReadTransactions(src Source, fn func(Transaction) error) error {
	var current *Transaction
	for {
		rec, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if current != nil && current.TID == rec.TID {
			current.Items = append(current.Items, rec.Item)
			continue
		}
		if current != nil {
			if err := fn(*current); err != nil {
				return err
			}
		}
		current = &Transaction{TID: rec.TID, Items: []string{rec.Item}}
	}
	if current != nil {
		return fn(*current)
	}
	return nil
}
