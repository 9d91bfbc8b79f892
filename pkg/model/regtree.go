package model

import (
	"math"
	"sort"
	"sync"
)

// parallelSplitMin is the node size from which features are searched
// concurrently.
const parallelSplitMin = 256

// RegressionTree is a CART regression tree minimising squared error.
type RegressionTree struct {
	MaxDepth        int // root depth = 0. 0 => no limit
	MinSamplesSplit int
	MinSamplesLeaf  int

	root      *rtNode
	nFeatures int
}

type rtNode struct {
	isLeaf    bool
	feature   int
	threshold float64 // x <= threshold => left; NaN goes left
	left      *rtNode
	right     *rtNode

	n     int
	value float64
}

type RegressionTreeOption func(*RegressionTree)

func WithTreeDepth(d int) RegressionTreeOption {
	return func(t *RegressionTree) { t.MaxDepth = d }
}
func WithTreeMinSplit(n int) RegressionTreeOption {
	return func(t *RegressionTree) { t.MinSamplesSplit = n }
}
func WithTreeMinLeaf(n int) RegressionTreeOption {
	return func(t *RegressionTree) { t.MinSamplesLeaf = n }
}

func NewRegressionTree(opts ...RegressionTreeOption) *RegressionTree {
	t := &RegressionTree{
		MaxDepth:        3,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Fit grows the tree on X (n x p) and continuous targets y.
func (t *RegressionTree) Fit(X [][]float64, y []float64) error {
	p, err := checkXY(X, y)
	if err != nil {
		return err
	}
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	t.nFeatures = p
	t.root = t.build(X, y, idx, 0)
	return nil
}

// Predict returns the leaf value reached by each row. An unfitted tree
// predicts zero.
func (t *RegressionTree) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	if t.root == nil {
		return out
	}
	for i, x := range X {
		out[i] = t.leaf(x).value
	}
	return out
}

// leaf returns the terminal node reached by x.
func (t *RegressionTree) leaf(x []float64) *rtNode {
	node := t.root
	for !node.isLeaf {
		v := x[node.feature]
		if math.IsNaN(v) || v <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node
}

// Depth returns the depth of the deepest leaf.
func (t *RegressionTree) Depth() int {
	var walk func(n *rtNode) int
	walk = func(n *rtNode) int {
		if n == nil || n.isLeaf {
			return 0
		}
		return 1 + max(walk(n.left), walk(n.right))
	}
	return walk(t.root)
}

type rtSplit struct {
	gain      float64
	feature   int
	threshold float64
	pos       int   // number of samples going left
	order     []int // idx sorted by the split feature
}

func (t *RegressionTree) build(X [][]float64, y []float64, idx []int, depth int) *rtNode {
	sum := 0.0
	for _, i := range idx {
		sum += y[i]
	}
	node := &rtNode{isLeaf: true, n: len(idx), value: sum / float64(len(idx))}

	if t.MaxDepth > 0 && depth >= t.MaxDepth {
		return node
	}
	if len(idx) < t.MinSamplesSplit || len(idx) < 2*t.MinSamplesLeaf {
		return node
	}

	best := t.bestSplit(X, y, idx, sum)
	if best.feature < 0 || best.gain <= 1e-12 {
		return node
	}

	node.isLeaf = false
	node.feature = best.feature
	node.threshold = best.threshold
	node.left = t.build(X, y, best.order[:best.pos], depth+1)
	node.right = t.build(X, y, best.order[best.pos:], depth+1)
	return node
}

// bestSplit searches every feature and keeps the highest gain; ties go to
// the lowest feature index so fitting is deterministic.
func (t *RegressionTree) bestSplit(X [][]float64, y []float64, idx []int, total float64) rtSplit {
	results := make([]rtSplit, t.nFeatures)
	if len(idx) >= parallelSplitMin {
		var wg sync.WaitGroup
		for f := 0; f < t.nFeatures; f++ {
			wg.Add(1)
			go func(f int) {
				defer wg.Done()
				results[f] = t.splitFeature(X, y, idx, f, total)
			}(f)
		}
		wg.Wait()
	} else {
		for f := 0; f < t.nFeatures; f++ {
			results[f] = t.splitFeature(X, y, idx, f, total)
		}
	}

	best := rtSplit{feature: -1}
	for _, r := range results {
		if r.feature >= 0 && r.gain > best.gain {
			best = r
		}
	}
	return best
}

// splitFeature scans thresholds between consecutive distinct values of
// feature f. The gain is the reduction in squared error, computed from
// prefix sums as sL²/nL + sR²/nR - s²/n. Missing values sort first and go
// left with the smallest values.
func (t *RegressionTree) splitFeature(X [][]float64, y []float64, idx []int, f int, total float64) rtSplit {
	res := rtSplit{feature: -1}
	order := make([]int, len(idx))
	copy(order, idx)
	sort.SliceStable(order, func(a, b int) bool {
		va, vb := X[order[a]][f], X[order[b]][f]
		if math.IsNaN(va) {
			return !math.IsNaN(vb)
		}
		if math.IsNaN(vb) {
			return false
		}
		return va < vb
	})

	n := len(order)
	base := total * total / float64(n)
	left := 0.0
	for s := 1; s < n; s++ {
		left += y[order[s-1]]
		prev, cur := X[order[s-1]][f], X[order[s]][f]
		if math.IsNaN(cur) || prev == cur {
			continue
		}
		if s < t.MinSamplesLeaf || n-s < t.MinSamplesLeaf {
			continue
		}
		right := total - left
		gain := left*left/float64(s) + right*right/float64(n-s) - base
		if gain > res.gain {
			thr := math.Inf(-1)
			if !math.IsNaN(prev) {
				thr = (prev + cur) / 2
			}
			res = rtSplit{gain: gain, feature: f, threshold: thr, pos: s}
		}
	}
	if res.feature >= 0 {
		res.order = order
	}
	return res
}
