package fptree

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type mineOptions struct {
	workers int
}

// MineOption configures Mine.
type MineOption func(*mineOptions)

// WithWorkers mines up to n header items concurrently. n <= 1 mines
// sequentially. The result does not depend on n.
func WithWorkers(n int) MineOption {
	return func(o *mineOptions) {
		o.workers = n
	}
}

// Mine generates itemsets for every header item, least frequent first, and
// tallies how many times each itemset was generated. The tally is a
// generation count, not the transaction support of the itemset.
func Mine(ctx context.Context, t *Tree, opts ...MineOption) (Patterns, error) {
	o := mineOptions{workers: 1}
	for _, opt := range opts {
		opt(&o)
	}

	headers := t.HeaderItemsAscending()
	logCtx := log.WithFields(log.Fields{
		"items":   len(headers),
		"support": t.Support(),
		"workers": o.workers,
	})
	logCtx.Debug("Mining fp-tree.")

	var (
		frequentPatterns Patterns
		err              error
	)
	if o.workers <= 1 {
		frequentPatterns, err = mineSequential(ctx, t, headers)
	} else {
		frequentPatterns, err = mineParallel(ctx, t, headers, o.workers)
	}
	if err != nil {
		return nil, err
	}

	logCtx.WithField("patterns", len(frequentPatterns)).Info("Mined fp-tree.")
	return frequentPatterns, nil
}

func mineSequential(ctx context.Context, t *Tree, headers []*HeaderItem) (Patterns, error) {
	frequentPatterns := NewPatterns()
	for _, hi := range headers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := t.mineItem(hi)
		if err != nil {
			return nil, err
		}
		frequentPatterns.Merge(res)
	}
	return frequentPatterns, nil
}

// mineParallel gives every header item its own Patterns and merges them as
// workers finish. Addition commutes, so the merge order does not matter.
func mineParallel(ctx context.Context, t *Tree, headers []*HeaderItem, workers int) (Patterns, error) {
	frequentPatterns := NewPatterns()
	var mu sync.Mutex

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for _, hi := range headers {
		if egCtx.Err() != nil {
			break
		}
		hi := hi
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			res, err := t.mineItem(hi)
			if err != nil {
				return err
			}
			mu.Lock()
			frequentPatterns.Merge(res)
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return frequentPatterns, nil
}

// mineItem runs prefix path extraction and pattern generation for one item.
func (t *Tree) mineItem(hi *HeaderItem) (Patterns, error) {
	base, err := t.ConditionalPatternBase(hi.Item)
	if err != nil {
		return nil, err
	}
	prefixPath := PrefixPath(base, t.Order, t.Support())
	res := NewPatterns()
	for _, set := range BuildFrequentPatterns(prefixPath, hi.Item) {
		res.Add(set, 1)
	}
	log.WithFields(log.Fields{
		"item":     hi.Item,
		"paths":    len(base),
		"prefix":   len(prefixPath),
		"patterns": len(res),
	}).Debug("Mined header item.")
	return res, nil
}
