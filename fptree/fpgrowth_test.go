package fptree_test

import (
	"context"
	"testing"

	fp "fpgrowth/fptree"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMineParallelMatchesSequential(t *testing.T) {
	defer goleak.VerifyNone(t)

	for _, seed := range []int64{1, 2, 3} {
		tr := buildTree(t, randomTransactions(seed, 400, 30, 10), 5)
		want, err := fp.Mine(context.Background(), tr)
		assert.Nil(t, err)
		for _, workers := range []int{2, 4, 16} {
			got, err := fp.Mine(context.Background(), tr, fp.WithWorkers(workers))
			assert.Nil(t, err)
			assert.Equal(t, want.Sorted(), got.Sorted(), "seed %d workers %d", seed, workers)
		}
	}
}

func TestMineEmptyTree(t *testing.T) {
	tr := buildTree(t, [][]string{{"a"}, {"b"}}, 5)
	patterns, err := fp.Mine(context.Background(), tr, fp.WithWorkers(4))
	assert.Nil(t, err)
	assert.Empty(t, patterns)
}
