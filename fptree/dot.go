package fptree

import (
	"bufio"
	"fmt"
	"io"
)

// WriteDot writes the tree as an undirected graphviz graph. Nodes are
// numbered depth first from 1, the root being 0, and labelled "item: count".
func (t *Tree) WriteDot(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "graph FPTree {")
	fmt.Fprintln(bw, "\t0 [label=\"root\"];")

	type frame struct {
		nd       *Node
		parentID int
	}
	stack := make([]frame, 0)
	for i := len(t.Root.SubNodes) - 1; i >= 0; i-- {
		stack = append(stack, frame{t.Root.SubNodes[i], 0})
	}
	id := 0
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		id++
		fmt.Fprintf(bw, "\t%d [label=\"%s: %d\"];\n", id, f.nd.Item, f.nd.Counter)
		fmt.Fprintf(bw, "\t%d -- %d;\n", f.parentID, id)
		for i := len(f.nd.SubNodes) - 1; i >= 0; i-- {
			stack = append(stack, frame{f.nd.SubNodes[i], id})
		}
	}

	fmt.Fprintln(bw, "}")
	return bw.Flush()
}
