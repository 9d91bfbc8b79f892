package loader

import (
	"context"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatches(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}, {4}, {5}}
	y := []float64{10, 20, 30, 40, 50}

	var got []Batch
	for b := range Batches(context.Background(), X, y, []int{4, 3, 2, 1, 0}, 2) {
		got = append(got, b)
	}
	require.Len(t, got, 3)
	assert.Equal(t, []float64{50, 40}, got[0].Y)
	assert.Equal(t, []float64{30, 20}, got[1].Y)
	assert.Equal(t, []float64{10}, got[2].Y)
	assert.Equal(t, [][]float64{{1}}, got[2].X)
}

func TestBatchesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	X := make([][]float64, 100)
	y := make([]float64, 100)
	order := make([]int, 100)
	for i := range order {
		X[i] = []float64{float64(i)}
		order[i] = i
	}
	batches := Batches(ctx, X, y, order, 10)
	<-batches
	cancel()
	for range batches {
	}
}

func TestKFoldSplit(t *testing.T) {
	folds := KFoldSplit(10, 3, rand.New(rand.NewSource(1)))
	require.Len(t, folds, 3)

	var all []int
	for _, f := range folds {
		all = append(all, f...)
	}
	sort.Ints(all)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, all)

	again := KFoldSplit(10, 3, rand.New(rand.NewSource(1)))
	assert.Equal(t, folds, again)
}

func TestComplementSubset(t *testing.T) {
	assert.Equal(t, []int{0, 2, 4}, Complement(5, []int{3, 1}))

	xs, ys := Subset([][]float64{{1}, {2}, {3}}, []float64{1, 2, 3}, []int{2, 0})
	assert.Equal(t, [][]float64{{3}, {1}}, xs)
	assert.Equal(t, []float64{3, 1}, ys)
}
