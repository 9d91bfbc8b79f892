package dataprep

import (
	"errors"
	"fmt"
	"math"

	"github.com/tanyaschlusser/office-nfl-pool/pkg/stats"
)

// Imputation strategies.
const (
	StrategyDrop   = "drop"
	StrategyMean   = "mean"
	StrategyMedian = "median"
)

var ErrStrategy = errors.New("dataprep: unknown imputation strategy")

// Imputer replaces missing values with a per-column statistic learned
// from the training rows.
type Imputer struct {
	Strategy string
	Fill     []float64
}

func NewImputer(strategy string) (*Imputer, error) {
	switch strategy {
	case StrategyMean, StrategyMedian:
		return &Imputer{Strategy: strategy}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrStrategy, strategy)
}

// Fit learns the fill value of every column. Columns with no observed
// value fill with zero.
func (im *Imputer) Fit(X [][]float64, _ []float64) error {
	if len(X) == 0 {
		return errors.New("imputer: empty X")
	}
	p := len(X[0])
	im.Fill = make([]float64, p)
	col := make([]float64, len(X))
	for j := 0; j < p; j++ {
		for i := range X {
			col[i] = X[i][j]
		}
		obs := stats.DropNaN(col)
		if len(obs) == 0 {
			continue
		}
		switch im.Strategy {
		case StrategyMedian:
			im.Fill[j] = ImputeMedian(obs)
		default:
			im.Fill[j] = ImputeMean(obs)
		}
	}
	return nil
}

// Transform returns a copy of X with NaN replaced by the fill values.
func (im *Imputer) Transform(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, x := range X {
		row := make([]float64, len(x))
		for j, v := range x {
			if math.IsNaN(v) && j < len(im.Fill) {
				v = im.Fill[j]
			}
			row[j] = v
		}
		out[i] = row
	}
	return out
}

// ImputeMean returns the mean of the observed values.
func ImputeMean(obs []float64) float64 { return stats.Mean(obs) }

// ImputeMedian returns the median of the observed values.
func ImputeMedian(obs []float64) float64 { return stats.Median(obs) }
