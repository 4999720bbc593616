package util

import (
	"sort"
)

type kv struct {
	Key   string
	Value int
}

// SortOnPriority orders ll by the values in pq, highest first. Keys with the
// same value keep their relative order from ll. With ascending set the whole
// sequence is reversed, so equal keys come out in reverse ll order.
func SortOnPriority(ll []string, pq map[string]int, ascending bool) []string {
	res := make([]string, 0, len(ll))

	ss := make([]kv, 0, len(ll))
	for _, k := range ll {
		ss = append(ss, kv{k, pq[k]})
	}

	sort.SliceStable(ss, func(i, j int) bool {
		return ss[i].Value > ss[j].Value
	})
	if !ascending {
		for _, kv := range ss {
			res = append(res, kv.Key)
		}
	} else {
		for i := len(ss) - 1; i >= 0; i-- {
			res = append(res, ss[i].Key)
		}
	}

	return res
}

// MakeUniqueSorted returns the distinct strings of trns in lexical order.
// trns is not modified.
func MakeUniqueSorted(trns []string) []string {
	trnsMap := make(map[string]bool, len(trns))
	trnsSet := make([]string, 0, len(trns))
	for _, tr := range trns {
		if _, ok := trnsMap[tr]; !ok {
			trnsMap[tr] = true
			trnsSet = append(trnsSet, tr)
		}
	}
	sort.Strings(trnsSet)
	return trnsSet
}
