package model

import (
	"fmt"

	"github.com/tanyaschlusser/office-nfl-pool/pkg/core"
)

// Ridge is L2-penalized least squares with an unpenalized intercept.
// X and y are centered, then (XᵀX + αI) w = Xᵀy is solved directly.
type Ridge struct {
	Alpha     float64
	Coef      []float64
	Intercept float64
}

func NewRidge(alpha float64) *Ridge { return &Ridge{Alpha: alpha} }

func (r *Ridge) Fit(X [][]float64, y []float64) error {
	if _, err := checkXY(X, y); err != nil {
		return err
	}
	A, err := core.Dense(X)
	if err != nil {
		return err
	}
	xMean := core.ColumnMeans(A)
	core.CenterColumns(A, xMean)

	yMean := 0.0
	for _, v := range y {
		yMean += v
	}
	yMean /= float64(len(y))
	yc := make([]float64, len(y))
	for i, v := range y {
		yc[i] = v - yMean
	}

	w, err := core.RidgeSolve(A, core.Vec(yc), r.Alpha)
	if err != nil {
		return fmt.Errorf("ridge: solving normal equations: %w", err)
	}
	r.Coef = make([]float64, w.Len())
	for j := range r.Coef {
		r.Coef[j] = w.AtVec(j)
	}
	r.Intercept = yMean - dot(r.Coef, xMean, 0)
	return nil
}

// Predict returns Intercept + Coef·x for each row. An unfitted model
// predicts zero.
func (r *Ridge) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	if r.Coef == nil {
		return out
	}
	parallelRows(len(X), func(i int) { out[i] = dot(r.Coef, X[i], r.Intercept) })
	return out
}
