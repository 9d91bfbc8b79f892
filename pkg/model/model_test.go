package model

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// separable returns two well separated clusters labelled 0 and 1.
func separable(n int, seed int64) ([][]float64, []float64) {
	rnd := rand.New(rand.NewSource(seed))
	X := make([][]float64, n)
	y := make([]float64, n)
	for i := range X {
		c := float64(i % 2)
		X[i] = []float64{c*4 + rnd.NormFloat64()*0.5, rnd.NormFloat64()}
		y[i] = c
	}
	return X, y
}

func linearData(n int, seed int64) ([][]float64, []float64) {
	rnd := rand.New(rand.NewSource(seed))
	X := make([][]float64, n)
	y := make([]float64, n)
	for i := range X {
		a, b := rnd.NormFloat64(), rnd.NormFloat64()
		X[i] = []float64{a, b}
		y[i] = 3 + 2*a - b
	}
	return X, y
}

func TestCheckXY(t *testing.T) {
	_, err := checkXY(nil, nil)
	assert.ErrorIs(t, err, ErrEmpty)
	_, err = checkXY([][]float64{{1}}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrMismatch)
	_, err = checkXY([][]float64{{1}, {1, 2}}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrRagged)
	assert.ErrorIs(t, checkBinary([]float64{1, 1}), ErrOneClass)
	assert.ErrorIs(t, checkBinary([]float64{0, 2}), ErrNotBinary)
}

func TestRegressionTree(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}, {10}, {11}, {12}}
	y := []float64{1, 1, 1, 5, 5, 5}
	tree := NewRegressionTree(WithTreeDepth(1))
	require.NoError(t, tree.Fit(X, y))
	assert.Equal(t, 1, tree.Depth())
	assert.Equal(t, []float64{1, 5}, tree.Predict([][]float64{{0}, {20}}))
	assert.Equal(t, 1.0, tree.Predict([][]float64{{math.NaN()}})[0])
}

func TestGradientBoostingSeparable(t *testing.T) {
	X, y := separable(200, 1)
	g := NewGradientBoostingClassifier(WithEstimators(50), WithBoostDepth(3))
	require.NoError(t, g.Fit(X, y))
	assert.Equal(t, 50, g.Stages())

	p := g.PredictProba(X)
	for _, v := range p {
		assert.True(t, v > 0 && v < 1)
	}
	assert.Greater(t, Accuracy(y, g.Predict(X)), 0.95)
	assert.Less(t, LogLoss(y, p), 0.2)
}

func TestGradientBoostingDeterministic(t *testing.T) {
	X, y := separable(120, 3)
	a := NewGradientBoostingClassifier(WithEstimators(20))
	b := NewGradientBoostingClassifier(WithEstimators(20))
	require.NoError(t, a.Fit(X, y))
	require.NoError(t, b.Fit(X, y))
	assert.Equal(t, a.PredictProba(X), b.PredictProba(X))
}

func TestGradientBoostingUnfitted(t *testing.T) {
	g := NewGradientBoostingClassifier()
	assert.Equal(t, []float64{0.5}, g.PredictProba([][]float64{{1, 2}}))
	assert.ErrorIs(t, g.Fit([][]float64{{1}, {2}}, []float64{1, 1}), ErrOneClass)
}

func TestRidgeRecoversLinear(t *testing.T) {
	X, y := linearData(200, 2)
	r := NewRidge(1e-6)
	require.NoError(t, r.Fit(X, y))
	require.Len(t, r.Coef, 2)
	assert.InDelta(t, 2.0, r.Coef[0], 1e-4)
	assert.InDelta(t, -1.0, r.Coef[1], 1e-4)
	assert.InDelta(t, 3.0, r.Intercept, 1e-4)
	assert.Greater(t, R2(y, r.Predict(X)), 0.999)
}

func TestRidgeShrinks(t *testing.T) {
	X, y := linearData(50, 4)
	loose, tight := NewRidge(0.01), NewRidge(1000)
	require.NoError(t, loose.Fit(X, y))
	require.NoError(t, tight.Fit(X, y))
	assert.Less(t, math.Abs(tight.Coef[0]), math.Abs(loose.Coef[0]))
	assert.Equal(t, []float64{0}, NewRidge(1).Predict([][]float64{{1, 1}}))
}

func TestLinearRegressionSGD(t *testing.T) {
	X, y := linearData(200, 5)
	m := NewLinearRegression(0.05, 200, 16, 7)
	require.NoError(t, m.Fit(X, y))
	assert.InDelta(t, 2.0, m.W[0], 0.05)
	assert.InDelta(t, -1.0, m.W[1], 0.05)
	assert.InDelta(t, 3.0, m.Bias(), 0.05)
}

func TestLogisticRegression(t *testing.T) {
	X, y := separable(200, 6)
	m := NewLogisticRegression(0.5, 100, 16, 7)
	require.NoError(t, m.Fit(X, y))
	assert.Greater(t, Accuracy(y, m.Predict(X)), 0.95)

	again := NewLogisticRegression(0.5, 100, 16, 7)
	require.NoError(t, again.Fit(X, y))
	assert.Equal(t, m.W, again.W)
}

func TestDecisionTreeClassifier(t *testing.T) {
	X, y := separable(100, 8)
	tree := NewDecisionTreeClassifier(WithMaxDepth(3))
	require.NoError(t, tree.Fit(X, y))
	assert.Equal(t, []int{0, 1}, tree.Classes())
	assert.Greater(t, Accuracy(y, tree.Predict(X)), 0.95)
}

func TestDecisionTreeMissingValues(t *testing.T) {
	nan := math.NaN()
	X := [][]float64{{1}, {2}, {3}, {nan}, {nan}, {nan}}
	y := []float64{0, 0, 0, 1, 1, 1}
	tree := NewDecisionTreeClassifier(WithMaxDepth(1))
	require.NoError(t, tree.Fit(X, y))
	assert.Equal(t, []float64{1, 0, 0}, tree.PredictProba([][]float64{{nan}, {2}, {100}}))

	// Missing rows sharing a side with the high values.
	X = [][]float64{{1}, {2}, {8}, {9}, {nan}, {nan}}
	y = []float64{0, 0, 1, 1, 1, 1}
	require.NoError(t, tree.Fit(X, y))
	assert.Equal(t, []float64{0, 1, 1}, tree.Predict([][]float64{{1.5}, {8.5}, {nan}}))
}

func TestDecisionTreeRepeatedRows(t *testing.T) {
	X := [][]float64{{0}, {0}}
	y := []float64{0, 1}
	tree := NewDecisionTreeClassifier()
	require.NoError(t, tree.fitIndices(X, y, []int{0, 0, 0, 1}))
	assert.Equal(t, []float64{0.25}, tree.PredictProba([][]float64{{0}}))

	require.NoError(t, tree.fitIndices(X, y, []int{1, 1}))
	assert.Equal(t, []int{1}, tree.Classes())
	assert.Equal(t, []float64{1}, tree.PredictProba([][]float64{{0}}))
}

func TestDecisionTreeOptions(t *testing.T) {
	X, y := separable(100, 8)
	entropy := NewDecisionTreeClassifier(WithCriterion("entropy"), WithMaxDepth(2))
	require.NoError(t, entropy.Fit(X, y))
	assert.Greater(t, Accuracy(y, entropy.Predict(X)), 0.95)

	stump := NewDecisionTreeClassifier(WithMinImpurityDecrease(1))
	require.NoError(t, stump.Fit(X, y))
	assert.Equal(t, []float64{0.5}, stump.PredictProba(X[:1]))

	assert.Equal(t, []float64{0.5}, NewDecisionTreeClassifier().PredictProba(X[:1]))
	assert.ErrorIs(t, NewDecisionTreeClassifier().Fit(X, make([]float64, len(X))), ErrOneClass)
}

func TestRandomForest(t *testing.T) {
	X, y := separable(150, 9)
	rf := NewRandomForest(WithNEstimators(15), WithForestDepth(4), WithForestSeed(42))
	require.NoError(t, rf.Fit(X, y))
	assert.Len(t, rf.Trees, 15)
	assert.Greater(t, Accuracy(y, rf.Predict(X)), 0.95)

	other := NewRandomForest(WithNEstimators(15), WithForestDepth(4), WithForestSeed(42))
	require.NoError(t, other.Fit(X, y))
	assert.Equal(t, rf.PredictProba(X), other.PredictProba(X))
}

func TestMetrics(t *testing.T) {
	yt := []float64{1, 0, 1, 1}
	yp := []float64{1, 0, 0, 1}
	assert.Equal(t, 0.75, Accuracy(yt, yp))
	prec, rec, f1 := PrecisionRecallF1(yt, yp)
	assert.Equal(t, 1.0, prec)
	assert.InDelta(t, 2.0/3, rec, 1e-12)
	assert.InDelta(t, 0.8, f1, 1e-12)
	assert.Equal(t, []float64{1, 0}, BinaryPredFromProba([]float64{0.5, 0.49}, 0.5))

	assert.InDelta(t, 0.25, MSE(yt, yp), 1e-12)
	assert.InDelta(t, 0.25, MAE(yt, yp), 1e-12)
	assert.InDelta(t, 0.5, RMSE(yt, yp), 1e-12)
	assert.InDelta(t, math.Log(2), LogLoss([]float64{1, 0}, []float64{0.5, 0.5}), 1e-12)
}
