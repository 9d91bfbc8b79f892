package model

import (
	"context"
	"math/rand"

	"github.com/tanyaschlusser/office-nfl-pool/pkg/loader"
	"github.com/tanyaschlusser/office-nfl-pool/pkg/optim"
)

// LinearRegression via mini-batch gradient descent on the squared error.
// Inputs should be standardized.
type LinearRegression struct {
	W         []float64 // weights
	b         float64   // bias
	Lr        float64
	Epochs    int
	BatchSize int
	Seed      int64
}

// NewLinearRegression returns an untrained model. Weights are initialized
// from Seed when Fit sees the number of features.
func NewLinearRegression(lr float64, epochs, batchSize int, seed int64) *LinearRegression {
	return &LinearRegression{Lr: lr, Epochs: epochs, BatchSize: batchSize, Seed: seed}
}

// Predict returns predictions for rows in X.
func (m *LinearRegression) Predict(X [][]float64) []float64 {
	pred := make([]float64, len(X))
	if m.W == nil {
		return pred
	}
	parallelRows(len(X), func(i int) { pred[i] = dot(m.W, X[i], m.b) })
	return pred
}

// Fit trains the model, visiting the rows in a fresh seeded order each
// epoch and updating once per mini-batch.
func (m *LinearRegression) Fit(X [][]float64, y []float64) error {
	p, err := checkXY(X, y)
	if err != nil {
		return err
	}
	rnd := rand.New(rand.NewSource(m.Seed))
	m.W = make([]float64, p)
	for i := range m.W {
		m.W[i] = rnd.NormFloat64() * 0.01
	}
	m.b = 0
	opt := optim.NewSGD(m.Lr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for ep := 0; ep < m.Epochs; ep++ {
		for batch := range loader.Batches(ctx, X, y, rnd.Perm(len(X)), m.BatchSize) {
			yhat := m.Predict(batch.X)
			_, dy := optim.MSE(batch.Y, yhat)
			gW := make([]float64, len(m.W))
			gb := 0.0
			for i, row := range batch.X {
				d := dy[i]
				for j, xij := range row {
					gW[j] += d * xij
				}
				gb += d
			}
			opt.Step(m.W, gW)
			m.b = opt.StepScalar(m.b, gb)
		}
	}
	return nil
}

// Bias returns the current bias value of the model.
func (m *LinearRegression) Bias() float64 {
	return m.b
}
