package optim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSGDStep(t *testing.T) {
	o := NewSGD(0.5)
	w := []float64{1, 2}
	o.Step(w, []float64{2, -2})
	assert.Equal(t, []float64{0, 3}, w)
	assert.Equal(t, 0.5, o.StepScalar(1, 1))
}

func TestSigmoidLogit(t *testing.T) {
	assert.InDelta(t, 0.5, Sigmoid(0), 1e-12)
	assert.InDelta(t, 0.8, Sigmoid(Logit(0.8)), 1e-9)
}

func TestLosses(t *testing.T) {
	l, g := MSE([]float64{1, 2}, []float64{2, 2})
	assert.InDelta(t, 0.5, l, 1e-12)
	assert.Equal(t, []float64{1, 0}, g)

	l, g = BCE([]float64{1, 0}, []float64{0.5, 0.5})
	assert.InDelta(t, 0.6931471805599453, l, 1e-9)
	assert.InDelta(t, -0.25, g[0], 1e-12)
	assert.InDelta(t, 0.25, g[1], 1e-12)
}
