package dataprep

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRow struct {
	team string
	vals map[string]float64
}

func (r fakeRow) Value(name string) float64 {
	if v, ok := r.vals[name]; ok {
		return v
	}
	return math.NaN()
}

func (r fakeRow) Label(name string) (string, bool) {
	if name == "Team" {
		return r.team, true
	}
	return "", false
}

func TestEncodeCategorical(t *testing.T) {
	X, levels := EncodeCategorical([]string{"b", "a", "", "b"})
	assert.Equal(t, []string{"a", "b"}, levels)
	assert.Equal(t, [][]float64{{0, 1}, {1, 0}, {0, 0}, {0, 1}}, X)
}

func TestEncoder(t *testing.T) {
	rows := []Row{
		fakeRow{"Jets", map[string]float64{"x": 1}},
		fakeRow{"Bills", map[string]float64{"x": 2}},
		fakeRow{"", map[string]float64{}},
	}
	enc, err := NewEncoder(rows, []string{"Team", "x"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Team_Bills", "Team_Jets", "x"}, enc.Columns)

	X := enc.Transform(rows)
	assert.Equal(t, []float64{0, 1, 1}, X[0])
	assert.Equal(t, []float64{1, 0, 2}, X[1])
	assert.Equal(t, []bool{true, true, false}, Viable(X))

	unseen := enc.Transform([]Row{fakeRow{"Dolphins", map[string]float64{"x": 3}}})
	assert.Equal(t, []float64{0, 0, 3}, unseen[0])

	_, err = NewEncoder(rows, nil)
	assert.Error(t, err)
}

func TestImputer(t *testing.T) {
	X := [][]float64{{1, math.NaN()}, {3, 10}, {math.NaN(), 20}, {8, math.NaN()}}
	mean, err := NewImputer(StrategyMean)
	require.NoError(t, err)
	require.NoError(t, mean.Fit(X, nil))
	assert.Equal(t, []float64{4, 15}, mean.Fill)
	out := mean.Transform(X)
	assert.Equal(t, []float64{4, 20}, out[2])
	assert.True(t, math.IsNaN(X[2][0]))

	med, err := NewImputer(StrategyMedian)
	require.NoError(t, err)
	require.NoError(t, med.Fit(X, nil))
	assert.Equal(t, 3.0, med.Fill[0])

	_, err = NewImputer("knn")
	assert.ErrorIs(t, err, ErrStrategy)
}

func TestSelectRows(t *testing.T) {
	X := [][]float64{{1, 2}, {3, 4}, {5, 6}}
	xs, ys, idx := SelectRows(X, []float64{7, 8, 9}, []bool{true, false, true})
	assert.Equal(t, [][]float64{{1, 2}, {5, 6}}, xs)
	assert.Equal(t, []float64{7, 9}, ys)
	assert.Equal(t, []int{0, 2}, idx)
}
