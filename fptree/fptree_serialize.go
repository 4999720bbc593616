package fptree

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"fpgrowth/filestore"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// A serialized tree is a header line followed by the nodes in level order.
// After the children of each node comes one sentinel line, so a reader
// pairs every run of child lines with the next parent in its queue.
const (
	sentinelCount = -2
	sentinelItem  = "$"

	maxTreeLineBytes = 20 * 1024 * 1024
)

// TreeNode is the serialized form of a node.
type TreeNode struct {
	Item  string `json:"it"`
	Count int    `json:"cnt"`
}

type treeHeader struct {
	Support      int        `json:"sup"`
	Transactions int        `json:"trns"`
	Order        []TreeNode `json:"ord"`
}

type nodeQueue struct {
	queue []*Node
}

func (c *nodeQueue) Enqueue(n *Node) {
	c.queue = append(c.queue, n)
}

// DequeFront pops the front node, nil when the queue is empty.
func (c *nodeQueue) DequeFront() *Node {
	if len(c.queue) == 0 {
		return nil
	}
	nd := c.queue[0]
	c.queue = c.queue[1:]
	return nd
}

func (c *nodeQueue) Size() int {
	return len(c.queue)
}

func makeStringFromNode(n TreeNode) (string, error) {
	bytes, err := json.Marshal(n)
	if err != nil {
		log.Errorf("unable to marshall node :%v", n)
		return "", err
	}
	return string(bytes), nil
}

// Serialize encodes the tree as lines of JSON.
func (t *Tree) Serialize() ([]string, error) {
	hdr := treeHeader{
		Support:      t.Support(),
		Transactions: t.Transactions,
		Order:        make([]TreeNode, 0, t.Order.Len()),
	}
	for _, item := range t.Order.items {
		hdr.Order = append(hdr.Order, TreeNode{Item: item, Count: t.Order.Count(item)})
	}
	hdrBytes, err := json.Marshal(hdr)
	if err != nil {
		return nil, err
	}

	sentinel, err := makeStringFromNode(TreeNode{Item: sentinelItem, Count: sentinelCount})
	if err != nil {
		return nil, err
	}

	nodeListString := []string{string(hdrBytes)}
	nodeQueue := &nodeQueue{queue: make([]*Node, 0)}
	nodeQueue.Enqueue(t.Root)
	for nodeQueue.Size() > 0 {
		frontNode := nodeQueue.DequeFront()
		for _, nd := range frontNode.SubNodes {
			ndString, err := makeStringFromNode(TreeNode{Item: nd.Item, Count: nd.Counter})
			if err != nil {
				return nil, err
			}
			nodeListString = append(nodeListString, ndString)
			nodeQueue.Enqueue(nd)
		}
		nodeListString = append(nodeListString, sentinel)
	}
	log.Debugf("Serialized fp-tree into %d lines", len(nodeListString))
	return nodeListString, nil
}

// Deserialize rebuilds a tree from Serialize output. Node-link chains of a
// rebuilt tree follow level order.
func Deserialize(lines []string) (*Tree, error) {
	if len(lines) == 0 {
		return nil, errors.Wrap(ErrCorruptTree, "missing header")
	}
	var hdr treeHeader
	if err := json.Unmarshal([]byte(lines[0]), &hdr); err != nil {
		return nil, errors.Wrap(ErrCorruptTree, err.Error())
	}
	if hdr.Support < 1 {
		return nil, errors.Wrap(ErrCorruptTree, ErrInvalidSupport.Error())
	}
	items := make([]string, 0, len(hdr.Order))
	counts := make(map[string]int, len(hdr.Order))
	for _, tn := range hdr.Order {
		if _, ok := counts[tn.Item]; ok {
			return nil, errors.Wrap(ErrCorruptTree, fmt.Sprintf("duplicate header item %s", tn.Item))
		}
		items = append(items, tn.Item)
		counts[tn.Item] = tn.Count
	}

	t := InitTree(newOrder(items, counts, hdr.Support))
	t.Transactions = hdr.Transactions

	parents := &nodeQueue{queue: make([]*Node, 0)}
	parentNode := t.Root
	for idx := 1; idx < len(lines); idx++ {
		var tn TreeNode
		if err := json.Unmarshal([]byte(lines[idx]), &tn); err != nil {
			return nil, errors.Wrap(ErrCorruptTree, fmt.Sprintf("line %d: %v", idx+1, err))
		}
		if parentNode == nil {
			return nil, errors.Wrap(ErrCorruptTree, fmt.Sprintf("line %d: no parent left", idx+1))
		}
		if tn.Count == sentinelCount {
			parentNode = parents.DequeFront()
			continue
		}
		if tn.Count < 1 {
			return nil, errors.Wrap(ErrCorruptTree, fmt.Sprintf("line %d: invalid count %d", idx+1, tn.Count))
		}
		if _, ok := parentNode.NextMap[tn.Item]; ok {
			return nil, errors.Wrap(ErrCorruptTree, fmt.Sprintf("line %d: duplicate child %s", idx+1, tn.Item))
		}
		child, err := t.addChild(parentNode, tn.Item)
		if err != nil {
			return nil, errors.Wrap(ErrCorruptTree, fmt.Sprintf("line %d: %v", idx+1, err))
		}
		child.Counter = tn.Count
		parents.Enqueue(child)
	}
	if parentNode != nil || parents.Size() > 0 {
		return nil, errors.Wrap(ErrCorruptTree, "truncated node list")
	}
	return t, nil
}

// WriteTree writes Serialize output to w, one line each.
func (t *Tree) WriteTree(w io.Writer) error {
	nodes, err := t.Serialize()
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	for _, nd := range nodes {
		if _, err := bw.WriteString(nd + "\n"); err != nil {
			log.WithFields(log.Fields{"line": nd, "err": err}).Error("Unable to write tree line.")
			return err
		}
	}
	return bw.Flush()
}

// ReadTree reads WriteTree output.
func ReadTree(r io.Reader) (*Tree, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxTreeLineBytes)
	lines := make([]string, 0)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	log.Debugf("Number of tree lines to process:%d", len(lines))
	return Deserialize(lines)
}

func SerializeTreeToFile(fm filestore.FileManager, dir, fileName string, t *Tree) error {
	var buf bytes.Buffer
	if err := t.WriteTree(&buf); err != nil {
		log.Error("Unable to serialize tree")
		return err
	}
	if err := fm.Create(dir, fileName, bytes.NewReader(buf.Bytes())); err != nil {
		log.WithFields(log.Fields{"dir": dir, "file": fileName, "err": err}).Error("Unable to write serialized tree to file")
		return err
	}
	return nil
}

func CreateTreeFromFile(fm filestore.FileManager, dir, fileName string) (*Tree, error) {
	rc, err := fm.Get(dir, fileName)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open serialized tree")
	}
	defer rc.Close()
	return ReadTree(rc)
}
