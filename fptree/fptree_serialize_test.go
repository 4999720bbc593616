package fptree_test

import (
	"bytes"
	"context"
	"testing"

	fp "fpgrowth/fptree"
	"fpgrowth/services/disk"

	"github.com/stretchr/testify/assert"
)

func TestSerializeScenario(t *testing.T) {
	tr := buildTree(t, [][]string{{"a", "b", "c"}, {"a", "b"}, {"a", "c"}}, 2)
	lines, err := tr.Serialize()
	assert.Nil(t, err)
	assert.Equal(t, []string{
		`{"sup":2,"trns":3,"ord":[{"it":"a","cnt":3},{"it":"b","cnt":2},{"it":"c","cnt":2}]}`,
		`{"it":"a","cnt":3}`,
		`{"it":"$","cnt":-2}`,
		`{"it":"b","cnt":2}`,
		`{"it":"c","cnt":1}`,
		`{"it":"$","cnt":-2}`,
		`{"it":"c","cnt":1}`,
		`{"it":"$","cnt":-2}`,
		`{"it":"$","cnt":-2}`,
		`{"it":"$","cnt":-2}`,
	}, lines)
}

func TestSerializeRoundTrip(t *testing.T) {
	tr := buildTree(t, randomTransactions(7, 300, 25, 8), 4)
	lines, err := tr.Serialize()
	assert.Nil(t, err)

	rebuilt, err := fp.Deserialize(lines)
	assert.Nil(t, err)
	assert.Equal(t, tr.Order.Items(), rebuilt.Order.Items())
	assert.Equal(t, tr.Support(), rebuilt.Support())
	assert.Equal(t, tr.Transactions, rebuilt.Transactions)
	assert.Equal(t, tr.NodeCount(), rebuilt.NodeCount())
	for item, hi := range tr.Header {
		assert.Equal(t, hi.Frequency, rebuilt.Header[item].Frequency, item)
		nodes, _ := rebuilt.NodeLinks(item)
		orig, _ := tr.NodeLinks(item)
		assert.Len(t, nodes, len(orig), item)
	}

	again, err := rebuilt.Serialize()
	assert.Nil(t, err)
	assert.Equal(t, lines, again)

	want, err := fp.Mine(context.Background(), tr)
	assert.Nil(t, err)
	got, err := fp.Mine(context.Background(), rebuilt)
	assert.Nil(t, err)
	assert.Equal(t, want.Sorted(), got.Sorted())
}

func TestSerializeEmptyTree(t *testing.T) {
	tr := buildTree(t, [][]string{{"a"}, {"b"}}, 2)
	var buf bytes.Buffer
	assert.Nil(t, tr.WriteTree(&buf))

	rebuilt, err := fp.ReadTree(&buf)
	assert.Nil(t, err)
	assert.Equal(t, 0, rebuilt.NodeCount())
	assert.Equal(t, 0, rebuilt.Order.Len())
	assert.Equal(t, 2, rebuilt.Support())
}

func TestDeserializeCorrupt(t *testing.T) {
	hdr := `{"sup":1,"trns":1,"ord":[{"it":"a","cnt":1},{"it":"b","cnt":1}]}`
	sentinel := `{"it":"$","cnt":-2}`
	for name, lines := range map[string][]string{
		"empty":           {},
		"bad header":      {"not json"},
		"zero support":    {`{"sup":0,"trns":0,"ord":[]}`, sentinel},
		"duplicate order": {`{"sup":1,"trns":1,"ord":[{"it":"a","cnt":1},{"it":"a","cnt":1}]}`, sentinel},
		"bad node":        {hdr, "{", sentinel},
		"unknown item":    {hdr, `{"it":"z","cnt":1}`, sentinel, sentinel},
		"zero count":      {hdr, `{"it":"a","cnt":0}`, sentinel, sentinel},
		"duplicate child": {hdr, `{"it":"a","cnt":1}`, `{"it":"a","cnt":1}`, sentinel, sentinel, sentinel},
		"truncated":       {hdr, `{"it":"a","cnt":1}`, sentinel},
		"trailing":        {hdr, sentinel, sentinel},
		"missing nodes":   {hdr},
	} {
		_, err := fp.Deserialize(lines)
		assert.ErrorIs(t, err, fp.ErrCorruptTree, name)
	}
}

func TestTreeFileRoundTrip(t *testing.T) {
	dd := disk.New(t.TempDir())
	tr := buildTree(t, [][]string{{"a", "b", "c"}, {"a", "b"}, {"a", "c"}, {"b", "c", "d"}}, 2)

	dir, name := dd.GetTreeFilePathAndName("r1")
	assert.Nil(t, fp.SerializeTreeToFile(dd, dir, name, tr))

	rebuilt, err := fp.CreateTreeFromFile(dd, dir, name)
	assert.Nil(t, err)
	assert.Equal(t, tr.NodeCount(), rebuilt.NodeCount())
	assert.Equal(t, tr.Order.Items(), rebuilt.Order.Items())

	_, err = fp.CreateTreeFromFile(dd, dd.GetRunDir("missing"), name)
	assert.NotNil(t, err)
}

func TestDeserializedChainsFollowLevelOrder(t *testing.T) {
	// x is created under p first, then directly under the root
	tr := buildTree(t, [][]string{{"p", "x"}, {"x"}, {"p"}}, 1)
	assert.Equal(t, []string{"p", "x"}, tr.Order.Items())
	built, err := tr.NodeLinks("x")
	assert.Nil(t, err)
	assert.Len(t, built, 2)
	assert.Equal(t, "p", built[0].ParentNode.Item)
	assert.True(t, built[1].ParentNode.IsRoot)

	lines, err := tr.Serialize()
	assert.Nil(t, err)
	rebuilt, err := fp.Deserialize(lines)
	assert.Nil(t, err)
	links, err := rebuilt.NodeLinks("x")
	assert.Nil(t, err)
	assert.Len(t, links, 2)
	assert.True(t, links[0].ParentNode.IsRoot)
	assert.Equal(t, "p", links[1].ParentNode.Item)

	want, err := fp.Mine(context.Background(), tr)
	assert.Nil(t, err)
	got, err := fp.Mine(context.Background(), rebuilt)
	assert.Nil(t, err)
	assert.Equal(t, want.Sorted(), got.Sorted())
}
