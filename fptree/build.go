package fptree

import (
	"context"

	"fpgrowth/transaction"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// BuildTree reads src twice: once to count items, once to insert every
// transaction. Transactions without frequent items add nothing.
func BuildTree(ctx context.Context, src transaction.Source, support int) (*Tree, error) {
	if support < 1 {
		return nil, ErrInvalidSupport
	}

	ft, err := CountFrequencies(src)
	if err != nil {
		return nil, err
	}
	order, err := NewFrequentItemOrder(ft, support)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"items":    len(ft.Seen),
		"frequent": order.Len(),
		"support":  support,
	}).Info("Built frequent item order.")

	t := InitTree(order)
	if err := src.Reset(); err != nil {
		return nil, err
	}

	skipped := 0
	err = transaction.ReadTransactions(src, func(tr transaction.Transaction) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		inserted, err := t.InsertTransaction(tr.Items)
		if err != nil {
			log.WithFields(log.Fields{"tid": tr.TID, "err": err}).Error("Error in tree insertion.")
			return err
		}
		if !inserted {
			skipped++
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed building fp-tree")
	}

	log.WithFields(log.Fields{
		"transactions": t.Transactions,
		"skipped":      skipped,
		"nodes":        t.NodeCount(),
	}).Info("Built fp-tree.")
	return t, nil
}
