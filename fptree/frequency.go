package fptree

import (
	"io"
	"sort"

	"fpgrowth/transaction"
	U "fpgrowth/util"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// FrequencyTable holds global item counts and the order in which items were
// first seen, which is the tie-break for equal counts.
type FrequencyTable struct {
	Counts map[string]int
	Seen   []string
}

func NewFrequencyTable() *FrequencyTable {
	return &FrequencyTable{Counts: make(map[string]int), Seen: make([]string, 0)}
}

// Add counts one occurrence of item.
func (ft *FrequencyTable) Add(item string) {
	if _, ok := ft.Counts[item]; !ok {
		ft.Seen = append(ft.Seen, item)
	}
	ft.Counts[item]++
}

// CountFrequencies rewinds src and counts every record once.
func CountFrequencies(src transaction.Source) (*FrequencyTable, error) {
	if err := src.Reset(); err != nil {
		return nil, err
	}
	ft := NewFrequencyTable()
	records := 0
	for {
		rec, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed counting item frequencies")
		}
		ft.Add(rec.Item)
		records++
	}
	log.WithFields(log.Fields{"records": records, "items": len(ft.Seen)}).Debug("Counted item frequencies.")
	return ft, nil
}

// FrequentItemOrder lists the items meeting the support threshold by
// descending count. Equal counts keep first-seen order.
type FrequentItemOrder struct {
	items   []string
	counts  map[string]int
	rank    map[string]int
	support int
}

// NewFrequentItemOrder keeps the items of ft with count >= support.
func NewFrequentItemOrder(ft *FrequencyTable, support int) (*FrequentItemOrder, error) {
	if support < 1 {
		return nil, ErrInvalidSupport
	}
	frequent := make([]string, 0)
	counts := make(map[string]int)
	for _, item := range ft.Seen {
		if c := ft.Counts[item]; c >= support {
			frequent = append(frequent, item)
			counts[item] = c
		}
	}
	return newOrder(U.SortOnPriority(frequent, counts, false), counts, support), nil
}

// newOrder trusts items to be sorted already.
func newOrder(items []string, counts map[string]int, support int) *FrequentItemOrder {
	rank := make(map[string]int, len(items))
	for i, item := range items {
		rank[item] = i
	}
	return &FrequentItemOrder{items: items, counts: counts, rank: rank, support: support}
}

// Items returns a copy of the ordered frequent items.
func (o *FrequentItemOrder) Items() []string {
	items := make([]string, len(o.items))
	copy(items, o.items)
	return items
}

func (o *FrequentItemOrder) Len() int {
	return len(o.items)
}

func (o *FrequentItemOrder) Support() int {
	return o.support
}

// Rank is the position of item in the order, 0 being the most frequent.
func (o *FrequentItemOrder) Rank(item string) (int, bool) {
	r, ok := o.rank[item]
	return r, ok
}

func (o *FrequentItemOrder) Contains(item string) bool {
	_, ok := o.rank[item]
	return ok
}

// Count is the global count of a frequent item, 0 for other items.
func (o *FrequentItemOrder) Count(item string) int {
	return o.counts[item]
}

// Sort drops non frequent items and orders the rest by rank. items is not
// modified.
func (o *FrequentItemOrder) Sort(items []string) []string {
	res := make([]string, 0, len(items))
	for _, item := range items {
		if o.Contains(item) {
			res = append(res, item)
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		return o.rank[res[i]] < o.rank[res[j]]
	})
	return res
}
