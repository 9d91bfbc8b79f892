package loader

import "math/rand"

// KFoldSplit assigns a shuffled permutation of n row indices to k folds.
func KFoldSplit(n, k int, rnd *rand.Rand) [][]int {
	if k < 1 {
		k = 1
	}
	indices := rnd.Perm(n)
	folds := make([][]int, k)
	for i := range n {
		folds[i%k] = append(folds[i%k], indices[i])
	}
	return folds
}

// Complement returns the indices in [0, n) not listed in fold, in order.
func Complement(n int, fold []int) []int {
	skip := make(map[int]struct{}, len(fold))
	for _, i := range fold {
		skip[i] = struct{}{}
	}
	out := make([]int, 0, n-len(fold))
	for i := range n {
		if _, ok := skip[i]; !ok {
			out = append(out, i)
		}
	}
	return out
}

// Subset gathers the rows of X and y at idx.
func Subset(X [][]float64, y []float64, idx []int) ([][]float64, []float64) {
	xs := make([][]float64, len(idx))
	ys := make([]float64, len(idx))
	for j, i := range idx {
		xs[j] = X[i]
		ys[j] = y[i]
	}
	return xs, ys
}
