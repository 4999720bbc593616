package fptree

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// ConditionalPatternBase returns one ConditionalPattern per node of item, in
// node-link order. A node right below the root yields an empty Items slice.
// Nodes nested below another node of the same item are skipped: a path is
// only followed down to the first occurrence of item.
func (t *Tree) ConditionalPatternBase(item string) ([]ConditionalPattern, error) {
	hi, ok := t.Header[item]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrItemNotInHeader, item)
	}

	condPattern := make([]ConditionalPattern, 0)
	seen := make(map[*Node]bool)
	for treeNode := hi.Head; treeNode != nil; treeNode = treeNode.AuxNode {
		if seen[treeNode] {
			log.WithField("item", item).Error("found cycle in node-link chain")
			break
		}
		seen[treeNode] = true
		if hasAncestorItem(treeNode) {
			continue
		}
		condPattern = append(condPattern, ConditionalPattern{
			Items: ascendFpTree(treeNode),
			Count: treeNode.Counter,
		})
	}
	return condPattern, nil
}

// ascendFpTree collects the items between n and the root, nearest first,
// excluding both.
func ascendFpTree(n *Node) []string {
	prefixPath := make([]string, 0)
	for p := n.ParentNode; p != nil && !p.IsRoot; p = p.ParentNode {
		prefixPath = append(prefixPath, p.Item)
	}
	return prefixPath
}

// hasAncestorItem reports whether a node above n, below the root, carries
// n's item.
func hasAncestorItem(n *Node) bool {
	for p := n.ParentNode; p != nil && !p.IsRoot; p = p.ParentNode {
		if p.Item == n.Item {
			return true
		}
	}
	return false
}
