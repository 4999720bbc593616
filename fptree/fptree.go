// Package fptree builds FP-Trees from transaction sources and mines them
// for frequent itemsets.
//
// A tree is built in two passes over a transaction.Source: the first counts
// items, the second inserts every transaction's frequent items sorted by
// descending global count. Each item has a node-link chain threading its
// nodes in creation order, starting at the header table. Once built a tree
// is only read, so Mine may work on several items at once.
package fptree

import (
	"fmt"
)

// Node is one item occurrence on a tree path.
type Node struct {
	Item    string
	Counter int
	// SubNodes keeps children in insertion order, NextMap indexes them by item.
	SubNodes   []*Node
	NextMap    map[string]*Node
	ParentNode *Node
	// AuxNode is the next node of the same item in the node-link chain.
	AuxNode *Node
	IsRoot  bool
}

// HeaderItem is the header table entry of a frequent item.
type HeaderItem struct {
	Item      string
	Frequency int
	Head      *Node
	Tail      *Node
}

// Tree is an FP-Tree with its header table. In a built tree every node-link
// chain follows node creation order. A tree rebuilt by Deserialize chains
// nodes in level order instead; mining results are the same either way.
type Tree struct {
	Root   *Node
	Header map[string]*HeaderItem
	Order  *FrequentItemOrder
	// Transactions counts inserted transactions with at least one frequent item.
	Transactions int
}

// ConditionalPattern is one prefix path of an item: the ancestors of one
// of its nodes, nearest first, and that node's count.
type ConditionalPattern struct {
	Items []string `json:"its"`
	Count int      `json:"cnt"`
}

func InitNode(item string, count int) Node {
	return Node{
		Item:     item,
		Counter:  count,
		SubNodes: make([]*Node, 0),
		NextMap:  make(map[string]*Node),
	}
}

// InitTree returns an empty tree with one header entry per item of order.
func InitTree(order *FrequentItemOrder) *Tree {
	root := InitNode("", 0)
	root.IsRoot = true
	t := &Tree{
		Root:   &root,
		Header: make(map[string]*HeaderItem, order.Len()),
		Order:  order,
	}
	for _, item := range order.items {
		t.Header[item] = &HeaderItem{Item: item, Frequency: order.Count(item)}
	}
	return t
}

// Support is the minimum support the tree was built with.
func (t *Tree) Support() int {
	return t.Order.Support()
}

// UpdateHeaderTable appends n to the tail of its item's node-link chain.
func (t *Tree) UpdateHeaderTable(n *Node) error {
	hi, ok := t.Header[n.Item]
	if !ok {
		return fmt.Errorf("%w: %s", ErrItemNotInHeader, n.Item)
	}
	if hi.Head == nil {
		hi.Head = n
	} else {
		hi.Tail.AuxNode = n
	}
	hi.Tail = n
	return nil
}

// addChild creates a child of parent carrying item and links it into the
// header table.
func (t *Tree) addChild(parent *Node, item string) (*Node, error) {
	nd := InitNode(item, 1)
	nd.ParentNode = parent
	if err := t.UpdateHeaderTable(&nd); err != nil {
		return nil, err
	}
	parent.SubNodes = append(parent.SubNodes, &nd)
	parent.NextMap[item] = &nd
	return &nd, nil
}

// InsertItemsIntoTree inserts items, in the given order, as one path from the
// root, sharing any existing prefix. Every item must be in the header table;
// nothing is inserted otherwise. Empty input is ignored.
func (t *Tree) InsertItemsIntoTree(items []string) error {
	if len(items) == 0 {
		return nil
	}
	for _, item := range items {
		if _, ok := t.Header[item]; !ok {
			return fmt.Errorf("%w: %s", ErrItemNotInHeader, item)
		}
	}

	current := t.Root
	for _, item := range items {
		if child, ok := current.NextMap[item]; ok {
			child.Counter++
			current = child
			continue
		}
		child, err := t.addChild(current, item)
		if err != nil {
			return err
		}
		current = child
	}
	t.Transactions++
	return nil
}

// InsertTransaction keeps the frequent items of a transaction, sorts them by
// the tree's order and inserts them. It reports whether anything was inserted.
func (t *Tree) InsertTransaction(items []string) (bool, error) {
	sorted := t.Order.Sort(items)
	if len(sorted) == 0 {
		return false, nil
	}
	if err := t.InsertItemsIntoTree(sorted); err != nil {
		return false, err
	}
	return true, nil
}

// NodeLinks returns the nodes of item in chain order.
func (t *Tree) NodeLinks(item string) ([]*Node, error) {
	hi, ok := t.Header[item]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrItemNotInHeader, item)
	}
	nodes := make([]*Node, 0)
	for nd := hi.Head; nd != nil; nd = nd.AuxNode {
		nodes = append(nodes, nd)
	}
	return nodes, nil
}

// HeaderItemsAscending returns the header entries by ascending frequency.
// Equal frequencies come out in reverse order rank.
func (t *Tree) HeaderItemsAscending() []*HeaderItem {
	res := make([]*HeaderItem, 0, len(t.Header))
	for i := len(t.Order.items) - 1; i >= 0; i-- {
		res = append(res, t.Header[t.Order.items[i]])
	}
	return res
}

// Walk visits every node below the root depth first, children in insertion
// order. It stops at the first error returned by fn.
func (t *Tree) Walk(fn func(n *Node) error) error {
	stack := make([]*Node, 0)
	for i := len(t.Root.SubNodes) - 1; i >= 0; i-- {
		stack = append(stack, t.Root.SubNodes[i])
	}
	for len(stack) > 0 {
		nd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if err := fn(nd); err != nil {
			return err
		}
		for i := len(nd.SubNodes) - 1; i >= 0; i-- {
			stack = append(stack, nd.SubNodes[i])
		}
	}
	return nil
}

// NodeCount is the number of nodes below the root.
func (t *Tree) NodeCount() int {
	count := 0
	t.Walk(func(*Node) error {
		count++
		return nil
	})
	return count
}
