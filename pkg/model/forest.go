package model

import (
	"math"
	"math/rand"
	"sync"
)

// RandomForest is a bagged ensemble of CART classifiers.
type RandomForest struct {
	NEstimators     int
	MaxDepth        int
	MinSamplesSplit int
	MaxFeatures     int // 0 => sqrt(p)
	Bootstrap       bool
	RandomState     int64

	Trees []*DecisionTreeClassifier
}

type RandomForestOption func(*RandomForest)

func WithNEstimators(n int) RandomForestOption { return func(rf *RandomForest) { rf.NEstimators = n } }
func WithBootstrap(b bool) RandomForestOption  { return func(rf *RandomForest) { rf.Bootstrap = b } }
func WithForestDepth(d int) RandomForestOption { return func(rf *RandomForest) { rf.MaxDepth = d } }
func WithForestMaxFeatures(k int) RandomForestOption {
	return func(rf *RandomForest) { rf.MaxFeatures = k }
}
func WithForestSeed(seed int64) RandomForestOption {
	return func(rf *RandomForest) { rf.RandomState = seed }
}

func NewRandomForest(opts ...RandomForestOption) *RandomForest {
	rf := &RandomForest{
		NEstimators:     100,
		MinSamplesSplit: 2,
		Bootstrap:       true,
	}
	for _, o := range opts {
		o(rf)
	}
	return rf
}

// Fit trains every tree concurrently on its own bootstrap sample. Tree i
// is seeded with RandomState+i, so the forest is reproducible.
func (rf *RandomForest) Fit(X [][]float64, y []float64) error {
	p, err := checkXY(X, y)
	if err != nil {
		return err
	}
	if err := checkBinary(y); err != nil {
		return err
	}
	n := len(X)
	maxFeatures := rf.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = max(1, int(math.Sqrt(float64(p))))
	}

	rf.Trees = make([]*DecisionTreeClassifier, rf.NEstimators)
	errs := make([]error, rf.NEstimators)
	var wg sync.WaitGroup

	for i := 0; i < rf.NEstimators; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			seed := rf.RandomState + int64(idx)
			treeRand := rand.New(rand.NewSource(seed))

			// Index-based bootstrap: the tree sees X through sampleIndices.
			sampleIndices := make([]int, n)
			for j := 0; j < n; j++ {
				if rf.Bootstrap {
					sampleIndices[j] = treeRand.Intn(n)
				} else {
					sampleIndices[j] = j
				}
			}

			tree := NewDecisionTreeClassifier(
				WithMaxDepth(rf.MaxDepth),
				WithMinSamplesSplit(rf.MinSamplesSplit),
				WithMaxFeatures(maxFeatures),
				WithRandomState(seed),
			)
			if err := tree.fitIndices(X, y, sampleIndices); err != nil {
				errs[idx] = err
				return
			}
			rf.Trees[idx] = tree
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// PredictProba averages p(y=1) over all trees.
func (rf *RandomForest) PredictProba(X [][]float64) []float64 {
	out := make([]float64, len(X))
	if len(rf.Trees) == 0 {
		for i := range out {
			out[i] = 0.5
		}
		return out
	}

	perTree := make([][]float64, len(rf.Trees))
	var wg sync.WaitGroup
	for k, tree := range rf.Trees {
		wg.Add(1)
		go func(k int, t *DecisionTreeClassifier) {
			defer wg.Done()
			perTree[k] = t.PredictProba(X)
		}(k, tree)
	}
	wg.Wait()

	for _, probs := range perTree {
		for i, p := range probs {
			out[i] += p
		}
	}
	for i := range out {
		out[i] /= float64(len(rf.Trees))
	}
	return out
}

// Predict returns the majority vote at a 0.5 threshold on averaged
// probabilities.
func (rf *RandomForest) Predict(X [][]float64) []float64 {
	return BinaryPredFromProba(rf.PredictProba(X), 0.5)
}
