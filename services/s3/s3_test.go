package s3

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	sd, err := New("fpgrowth-test", "us-east-1")
	assert.Nil(t, err)
	assert.Equal(t, "fpgrowth-test", sd.BucketName)
	assert.Equal(t, "us-east-1", sd.Region)
}

func TestRunPaths(t *testing.T) {
	sd, err := New("fpgrowth-test", "us-east-1")
	assert.Nil(t, err)

	assert.Equal(t, "runs/r1/", sd.GetRunDir("r1"))
	path, name := sd.GetPatternsFilePathAndName("r1")
	assert.Equal(t, "runs/r1/patterns.txt", sd.key(path, name))
	path, name = sd.GetTreeFilePathAndName("r1")
	assert.Equal(t, "runs/r1/fptree.txt", sd.key(path, name))
}
