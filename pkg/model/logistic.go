package model

import (
	"context"
	"math/rand"

	"github.com/tanyaschlusser/office-nfl-pool/pkg/loader"
	"github.com/tanyaschlusser/office-nfl-pool/pkg/optim"
)

// LogisticRegression (binary) with sigmoid, trained by mini-batch gradient
// descent on the cross-entropy. Inputs should be standardized.
type LogisticRegression struct {
	W         []float64 // weights
	b         float64   // bias
	Lr        float64
	Epochs    int
	BatchSize int
	Seed      int64
}

func NewLogisticRegression(lr float64, epochs, batchSize int, seed int64) *LogisticRegression {
	return &LogisticRegression{Lr: lr, Epochs: epochs, BatchSize: batchSize, Seed: seed}
}

// PredictProba returns p(y=1) for each row. An unfitted model returns 0.5.
func (m *LogisticRegression) PredictProba(X [][]float64) []float64 {
	out := make([]float64, len(X))
	if m.W == nil {
		for i := range out {
			out[i] = 0.5
		}
		return out
	}
	parallelRows(len(X), func(i int) { out[i] = optim.Sigmoid(dot(m.W, X[i], m.b)) })
	return out
}

// Predict returns the class labels (0 or 1) at a 0.5 threshold.
func (m *LogisticRegression) Predict(X [][]float64) []float64 {
	return BinaryPredFromProba(m.PredictProba(X), 0.5)
}

// Fit trains on 0/1 labels.
func (m *LogisticRegression) Fit(X [][]float64, y []float64) error {
	p, err := checkXY(X, y)
	if err != nil {
		return err
	}
	if err := checkBinary(y); err != nil {
		return err
	}
	rnd := rand.New(rand.NewSource(m.Seed))
	// Small random weights break symmetry.
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
			probs := m.PredictProba(batch.X)
			// BCE gradient with respect to the logit is (p - y) / n.
			_, dy := optim.BCE(batch.Y, probs)

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
