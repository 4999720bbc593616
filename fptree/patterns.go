package fptree

import (
	"sort"
	"strconv"
	"strings"

	U "fpgrowth/util"
)

// Itemset is a sorted set of distinct items.
type Itemset []string

func NewItemset(items ...string) Itemset {
	return Itemset(U.MakeUniqueSorted(items))
}

// Key identifies the set in a Patterns map. Every item is prefixed with its
// length so no item content can make two sets share a key.
func (s Itemset) Key() string {
	var b strings.Builder
	for _, item := range s {
		b.WriteString(strconv.Itoa(len(item)))
		b.WriteByte(':')
		b.WriteString(item)
	}
	return b.String()
}

// Less orders itemsets item by item, a prefix coming first.
func (s Itemset) Less(o Itemset) bool {
	for i := 0; i < len(s) && i < len(o); i++ {
		if s[i] != o[i] {
			return s[i] < o[i]
		}
	}
	return len(s) < len(o)
}

func (s Itemset) String() string {
	return strings.Join(s, ", ")
}

// PatternCount is an itemset with the number of times it was generated.
type PatternCount struct {
	Items Itemset `json:"fi"`
	Count int     `json:"fc"`
}

// Patterns tallies generated itemsets by key.
type Patterns map[string]*PatternCount

func NewPatterns() Patterns {
	return make(Patterns)
}

// Add increments the tally of set by n.
func (p Patterns) Add(set Itemset, n int) {
	key := set.Key()
	if pc, ok := p[key]; ok {
		pc.Count += n
		return
	}
	p[key] = &PatternCount{Items: set, Count: n}
}

// Merge adds every tally of o to p.
func (p Patterns) Merge(o Patterns) {
	for _, pc := range o {
		p.Add(pc.Items, pc.Count)
	}
}

// Count returns the tally of the set made of items, 0 if never generated.
func (p Patterns) Count(items ...string) int {
	if pc, ok := p[NewItemset(items...).Key()]; ok {
		return pc.Count
	}
	return 0
}

// Sorted lists the patterns by descending count, then ascending itemset.
func (p Patterns) Sorted() []PatternCount {
	res := make([]PatternCount, 0, len(p))
	for _, pc := range p {
		res = append(res, *pc)
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Count != res[j].Count {
			return res[i].Count > res[j].Count
		}
		return res[i].Items.Less(res[j].Items)
	})
	return res
}

// PrefixItem is an item of a prefix path with its aggregated count.
type PrefixItem struct {
	Item  string
	Count int
}

// AggregatePatternBase sums the counts of every item over all paths.
func AggregatePatternBase(base []ConditionalPattern) map[string]int {
	res := make(map[string]int)
	for _, cp := range base {
		for _, item := range cp.Items {
			res[item] += cp.Count
		}
	}
	return res
}

// PrefixPath aggregates base and keeps items reaching support, ordered by
// their rank in order.
func PrefixPath(base []ConditionalPattern, order *FrequentItemOrder, support int) []PrefixItem {
	agg := AggregatePatternBase(base)
	prefixPath := make([]PrefixItem, 0, len(agg))
	for item, count := range agg {
		if count >= support {
			prefixPath = append(prefixPath, PrefixItem{Item: item, Count: count})
		}
	}
	sort.Slice(prefixPath, func(i, j int) bool {
		ri, iok := order.Rank(prefixPath[i].Item)
		rj, jok := order.Rank(prefixPath[j].Item)
		if iok != jok {
			return iok
		}
		if ri != rj {
			return ri < rj
		}
		return prefixPath[i].Item < prefixPath[j].Item
	})
	return prefixPath
}

// BuildFrequentPatterns appends item to prefixPath and, for every window
// length l from 1 to len-1, pairs each element i with every run of l
// elements starting after it. Only contiguous runs are produced, not every
// subset. An empty prefix path gives no patterns.
func BuildFrequentPatterns(prefixPath []PrefixItem, item string) []Itemset {
	if len(prefixPath) == 0 {
		return nil
	}

	path := make([]string, 0, len(prefixPath)+1)
	for _, pi := range prefixPath {
		path = append(path, pi.Item)
	}
	path = append(path, item)
	n := len(path)

	frequentPatterns := make([]Itemset, 0)
	for length := 1; length < n; length++ {
		for i := 0; i+length <= n; i++ {
			for x := i + 1; x+length <= n; x++ {
				set := make([]string, 0, length+1)
				set = append(set, path[i])
				set = append(set, path[x:x+length]...)
				frequentPatterns = append(frequentPatterns, NewItemset(set...))
			}
		}
	}
	return frequentPatterns
}
