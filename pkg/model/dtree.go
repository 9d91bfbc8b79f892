package model

import (
	"math"
	"math/rand"
	"sort"
	"sync"
)

// DecisionTreeClassifier is a CART classifier for 0/1 labels.
type DecisionTreeClassifier struct {
	MaxDepth            int     // root depth = 0. 0 => no limit
	MinSamplesSplit     int     // minimum samples to attempt a split
	MinSamplesLeaf      int     // minimum samples required in each leaf
	Criterion           string  // "gini" (default) or "entropy"
	MaxFeatures         int     // 0 => all features, >0 => features sampled per node
	MinImpurityDecrease float64 // a split must reduce impurity by more than this
	RandomState         int64   // seed for feature sampling

	root    *ctNode
	classes []int
}

type ctNode struct {
	isLeaf    bool
	feature   int
	threshold float64 // x <= threshold => left
	nanLeft   bool    // side taken by a missing value
	left      *ctNode
	right     *ctNode

	n    int
	prob float64 // share of positive samples
}

type Option func(*DecisionTreeClassifier)

func WithMaxDepth(d int) Option { return func(t *DecisionTreeClassifier) { t.MaxDepth = d } }
func WithMinSamplesSplit(n int) Option {
	return func(t *DecisionTreeClassifier) { t.MinSamplesSplit = n }
}
func WithMinSamplesLeaf(n int) Option {
	return func(t *DecisionTreeClassifier) { t.MinSamplesLeaf = n }
}
func WithCriterion(c string) Option { return func(t *DecisionTreeClassifier) { t.Criterion = c } }
func WithMaxFeatures(k int) Option  { return func(t *DecisionTreeClassifier) { t.MaxFeatures = k } }
func WithMinImpurityDecrease(v float64) Option {
	return func(t *DecisionTreeClassifier) { t.MinImpurityDecrease = v }
}
func WithRandomState(seed int64) Option {
	return func(t *DecisionTreeClassifier) { t.RandomState = seed }
}

func NewDecisionTreeClassifier(opts ...Option) *DecisionTreeClassifier {
	d := &DecisionTreeClassifier{
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Criterion:       "gini",
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Fit grows the tree on X (n x p) and 0/1 labels y. Missing values must be
// math.NaN(); each split learns which side they take.
func (t *DecisionTreeClassifier) Fit(X [][]float64, y []float64) error {
	if _, err := checkXY(X, y); err != nil {
		return err
	}
	if err := checkBinary(y); err != nil {
		return err
	}
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	return t.fitIndices(X, y, idx)
}

// fitIndices grows the tree on the rows listed in idx. A row listed k times
// counts k times, which is how the forest weighs a bootstrap sample without
// copying X. The sample may hold a single class.
func (t *DecisionTreeClassifier) fitIndices(X [][]float64, y []float64, idx []int) error {
	if len(idx) == 0 {
		return ErrEmpty
	}
	var seen [2]bool
	for _, i := range idx {
		seen[int(y[i])] = true
	}
	t.classes = t.classes[:0]
	for c, ok := range seen {
		if ok {
			t.classes = append(t.classes, c)
		}
	}

	rnd := rand.New(rand.NewSource(t.RandomState))
	t.root = t.build(X, y, idx, 0, rnd)
	return nil
}

// PredictProba returns p(y=1) for each row. An unfitted tree returns 0.5.
func (t *DecisionTreeClassifier) PredictProba(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, x := range X {
		if t.root == nil {
			out[i] = 0.5
			continue
		}
		out[i] = t.leaf(x).prob
	}
	return out
}

// Predict returns the majority label of the leaf each row reaches.
func (t *DecisionTreeClassifier) Predict(X [][]float64) []float64 {
	return BinaryPredFromProba(t.PredictProba(X), 0.5)
}

// Classes returns the labels seen in training, ascending.
func (t *DecisionTreeClassifier) Classes() []int { return t.classes }

func (t *DecisionTreeClassifier) leaf(x []float64) *ctNode {
	node := t.root
	for !node.isLeaf {
		v := x[node.feature]
		left := v <= node.threshold
		if math.IsNaN(v) {
			left = node.nanLeft
		}
		if left {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node
}

func (t *DecisionTreeClassifier) impurity(pos, n float64) float64 {
	if n == 0 {
		return 0
	}
	p := pos / n
	if t.Criterion == "entropy" {
		h := 0.0
		for _, q := range [2]float64{p, 1 - p} {
			if q > 0 {
				h -= q * math.Log2(q)
			}
		}
		return h
	}
	return 2 * p * (1 - p)
}

// ctSplit is the best threshold found on one feature.
type ctSplit struct {
	gain      float64
	feature   int
	threshold float64
	nanLeft   bool
	left      []int
	right     []int
}

func (t *DecisionTreeClassifier) build(X [][]float64, y []float64, idx []int, depth int, rnd *rand.Rand) *ctNode {
	pos := 0.0
	for _, i := range idx {
		pos += y[i]
	}
	n := float64(len(idx))
	node := &ctNode{isLeaf: true, n: len(idx), prob: pos / n}

	if pos == 0 || pos == n {
		return node
	}
	if t.MaxDepth > 0 && depth >= t.MaxDepth {
		return node
	}
	if len(idx) < t.MinSamplesSplit || len(idx) < 2*t.MinSamplesLeaf {
		return node
	}

	best := t.bestSplit(X, y, idx, pos, t.features(len(X[0]), rnd))
	if best.feature < 0 || best.gain <= t.MinImpurityDecrease {
		return node
	}

	node.isLeaf = false
	node.feature = best.feature
	node.threshold = best.threshold
	node.nanLeft = best.nanLeft
	node.left = t.build(X, y, best.left, depth+1, rnd)
	node.right = t.build(X, y, best.right, depth+1, rnd)
	return node
}

// features returns the ascending feature indices searched at a node.
func (t *DecisionTreeClassifier) features(p int, rnd *rand.Rand) []int {
	f := make([]int, p)
	for j := range f {
		f[j] = j
	}
	if t.MaxFeatures <= 0 || t.MaxFeatures >= p {
		return f
	}
	for i := 0; i < t.MaxFeatures; i++ {
		j := i + rnd.Intn(p-i)
		f[i], f[j] = f[j], f[i]
	}
	f = f[:t.MaxFeatures]
	sort.Ints(f)
	return f
}

// bestSplit keeps the highest gain over feats; ties go to the earlier
// feature, so the result does not depend on goroutine scheduling.
func (t *DecisionTreeClassifier) bestSplit(X [][]float64, y []float64, idx []int, pos float64, feats []int) ctSplit {
	results := make([]ctSplit, len(feats))
	if len(idx) >= parallelSplitMin {
		var wg sync.WaitGroup
		for k, f := range feats {
			wg.Add(1)
			go func(k, f int) {
				defer wg.Done()
				results[k] = t.splitFeature(X, y, idx, f, pos)
			}(k, f)
		}
		wg.Wait()
	} else {
		for k, f := range feats {
			results[k] = t.splitFeature(X, y, idx, f, pos)
		}
	}

	best := ctSplit{feature: -1}
	for _, r := range results {
		if r.feature >= 0 && r.gain > best.gain {
			best = r
		}
	}
	return best
}

// splitFeature scans the thresholds between consecutive distinct values of
// feature f from running positive counts. Missing rows are tried on both
// sides; splitting the present values from the missing ones is a candidate
// too.
func (t *DecisionTreeClassifier) splitFeature(X [][]float64, y []float64, idx []int, f int, pos float64) ctSplit {
	res := ctSplit{feature: -1}

	valid := make([]int, 0, len(idx))
	var nans []int
	nanPos := 0.0
	for _, i := range idx {
		if math.IsNaN(X[i][f]) {
			nans = append(nans, i)
			nanPos += y[i]
			continue
		}
		valid = append(valid, i)
	}
	if len(valid) == 0 {
		return res
	}
	sort.SliceStable(valid, func(a, b int) bool { return X[valid[a]][f] < X[valid[b]][f] })

	n := float64(len(idx))
	parent := t.impurity(pos, n)
	gainOf := func(nl, pl float64) float64 {
		nr, pr := n-nl, pos-pl
		if nl < float64(t.MinSamplesLeaf) || nr < float64(t.MinSamplesLeaf) || nl == 0 || nr == 0 {
			return 0
		}
		return parent - (nl/n)*t.impurity(pl, nl) - (nr/n)*t.impurity(pr, nr)
	}

	cut, nanLeft := -1, false
	nanN := float64(len(nans))
	lp := 0.0
	for s := 1; s <= len(valid); s++ {
		lp += y[valid[s-1]]
		if s < len(valid) && X[valid[s-1]][f] == X[valid[s]][f] {
			continue
		}
		if s < len(valid) {
			if g := gainOf(float64(s), lp); g > res.gain {
				res.gain, cut, nanLeft = g, s, false
			}
		}
		if nanN > 0 {
			if g := gainOf(float64(s)+nanN, lp+nanPos); s < len(valid) && g > res.gain {
				res.gain, cut, nanLeft = g, s, true
			}
			if s == len(valid) {
				if g := gainOf(float64(s), lp); g > res.gain {
					res.gain, cut, nanLeft = g, s, false
				}
			}
		}
	}
	if cut < 0 {
		return res
	}

	res.feature = f
	res.nanLeft = nanLeft
	if cut == len(valid) {
		res.threshold = math.Inf(1)
	} else {
		res.threshold = (X[valid[cut-1]][f] + X[valid[cut]][f]) / 2
	}
	res.left = append([]int(nil), valid[:cut]...)
	res.right = append([]int(nil), valid[cut:]...)
	if nanLeft {
		res.left = append(res.left, nans...)
	} else {
		res.right = append(res.right, nans...)
	}
	return res
}
