package model

import (
	"math"

	"github.com/tanyaschlusser/office-nfl-pool/pkg/optim"
	"github.com/tanyaschlusser/office-nfl-pool/pkg/stats"
)

// GradientBoostingClassifier fits an additive model of regression trees on
// the binomial deviance. Each stage fits a tree to the residuals y - p and
// replaces the tree's leaf values with a single Newton step
// sum(residual) / sum(p(1-p)). The raw score starts at the log-odds of the
// training prior.
type GradientBoostingClassifier struct {
	NEstimators     int
	LearningRate    float64
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int

	init  float64
	trees []*RegressionTree
}

type BoostingOption func(*GradientBoostingClassifier)

func WithEstimators(n int) BoostingOption {
	return func(g *GradientBoostingClassifier) { g.NEstimators = n }
}
func WithLearningRate(lr float64) BoostingOption {
	return func(g *GradientBoostingClassifier) { g.LearningRate = lr }
}
func WithBoostDepth(d int) BoostingOption {
	return func(g *GradientBoostingClassifier) { g.MaxDepth = d }
}
func WithBoostMinSplit(n int) BoostingOption {
	return func(g *GradientBoostingClassifier) { g.MinSamplesSplit = n }
}
func WithBoostMinLeaf(n int) BoostingOption {
	return func(g *GradientBoostingClassifier) { g.MinSamplesLeaf = n }
}

// NewGradientBoostingClassifier returns 100 stages of depth-3 trees with a
// 0.1 learning rate unless overridden.
func NewGradientBoostingClassifier(opts ...BoostingOption) *GradientBoostingClassifier {
	g := &GradientBoostingClassifier{
		NEstimators:     100,
		LearningRate:    0.1,
		MaxDepth:        3,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Fit trains the ensemble on 0/1 labels.
func (g *GradientBoostingClassifier) Fit(X [][]float64, y []float64) error {
	if _, err := checkXY(X, y); err != nil {
		return err
	}
	if err := checkBinary(y); err != nil {
		return err
	}

	n := len(X)
	g.init = optim.Logit(stats.Mean(y))
	g.trees = make([]*RegressionTree, 0, g.NEstimators)

	raw := make([]float64, n)
	for i := range raw {
		raw[i] = g.init
	}
	prob := make([]float64, n)
	residual := make([]float64, n)

	for m := 0; m < g.NEstimators; m++ {
		for i := range raw {
			prob[i] = optim.Sigmoid(raw[i])
			residual[i] = y[i] - prob[i]
		}

		tree := NewRegressionTree(
			WithTreeDepth(g.MaxDepth),
			WithTreeMinSplit(g.MinSamplesSplit),
			WithTreeMinLeaf(g.MinSamplesLeaf),
		)
		if err := tree.Fit(X, residual); err != nil {
			return err
		}
		g.newtonStep(tree, X, residual, prob)

		for i, x := range X {
			raw[i] += g.LearningRate * tree.leaf(x).value
		}
		g.trees = append(g.trees, tree)
	}
	return nil
}

// newtonStep replaces every leaf value with the one-step Newton estimate
// of the deviance minimiser over the samples in that leaf.
func (g *GradientBoostingClassifier) newtonStep(tree *RegressionTree, X [][]float64, residual, prob []float64) {
	type acc struct{ num, den float64 }
	leaves := make(map[*rtNode]*acc)
	for i, x := range X {
		node := tree.leaf(x)
		a, ok := leaves[node]
		if !ok {
			a = &acc{}
			leaves[node] = a
		}
		a.num += residual[i]
		a.den += prob[i] * (1 - prob[i])
	}
	for node, a := range leaves {
		if math.Abs(a.den) < 1e-150 {
			node.value = 0
			continue
		}
		node.value = a.num / a.den
	}
}

// DecisionFunction returns the raw log-odds score of each row.
func (g *GradientBoostingClassifier) DecisionFunction(X [][]float64) []float64 {
	out := make([]float64, len(X))
	parallelRows(len(X), func(i int) {
		s := g.init
		for _, tree := range g.trees {
			s += g.LearningRate * tree.leaf(X[i]).value
		}
		out[i] = s
	})
	return out
}

// PredictProba returns p(y=1) for each row. An unfitted model returns 0.5.
func (g *GradientBoostingClassifier) PredictProba(X [][]float64) []float64 {
	raw := g.DecisionFunction(X)
	for i, r := range raw {
		raw[i] = optim.Sigmoid(r)
	}
	return raw
}

// Predict returns class labels at a 0.5 threshold.
func (g *GradientBoostingClassifier) Predict(X [][]float64) []float64 {
	return BinaryPredFromProba(g.PredictProba(X), 0.5)
}

// Stages returns the number of fitted trees.
func (g *GradientBoostingClassifier) Stages() int { return len(g.trees) }
