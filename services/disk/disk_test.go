package disk

import (
	"io/ioutil"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunPaths(t *testing.T) {
	dd := New("/tmp/fpgrowth")
	assert.Equal(t, "/tmp/fpgrowth/runs/r1/", dd.GetRunDir("r1"))

	path, name := dd.GetPatternsFilePathAndName("r1")
	assert.Equal(t, dd.GetRunDir("r1"), path)
	assert.Equal(t, "patterns.txt", name)

	path, name = dd.GetTreeFilePathAndName("r1")
	assert.Equal(t, dd.GetRunDir("r1"), path)
	assert.Equal(t, "fptree.txt", name)
	assert.Equal(t, "runs/r1/", New("").GetRunDir("r1"))
}

func TestCreateAndGet(t *testing.T) {
	base := t.TempDir()
	dd := New(base)
	path, name := dd.GetPatternsFilePathAndName("abc")

	err := dd.Create(path, name, strings.NewReader("hello\n"))
	assert.Nil(t, err)

	rc, err := dd.Get(path, name)
	assert.Nil(t, err)
	defer rc.Close()
	b, err := ioutil.ReadAll(rc)
	assert.Nil(t, err)
	assert.Equal(t, "hello\n", string(b))

	size, err := dd.GetObjectSize(path, name)
	assert.Nil(t, err)
	assert.Equal(t, int64(6), size)

	_, err = dd.GetObjectSize(path, "missing.txt")
	assert.NotNil(t, err)
}

func TestGetMissingFile(t *testing.T) {
	dd := New(t.TempDir())
	_, err := dd.Get(dd.GetRunDir("none"), "patterns.txt")
	assert.NotNil(t, err, "expected error for missing file")
}
