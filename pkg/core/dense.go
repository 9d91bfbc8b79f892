package core

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

var ErrShape = errors.New("core: ragged or empty rows")

// Dense copies row-major data into a gonum matrix.
func Dense(rows [][]float64) (*mat.Dense, error) {
	r := len(rows)
	if r == 0 || len(rows[0]) == 0 {
		return nil, ErrShape
	}
	c := len(rows[0])
	data := make([]float64, 0, r*c)
	for _, row := range rows {
		if len(row) != c {
			return nil, ErrShape
		}
		data = append(data, row...)
	}
	return mat.NewDense(r, c, data), nil
}

// Vec copies y into a gonum column vector.
func Vec(y []float64) *mat.VecDense {
	v := make([]float64, len(y))
	copy(v, y)
	return mat.NewVecDense(len(v), v)
}

// ColumnMeans returns the mean of every column of m.
func ColumnMeans(m mat.Matrix) []float64 {
	r, c := m.Dims()
	out := make([]float64, c)
	for j := 0; j < c; j++ {
		s := 0.0
		for i := 0; i < r; i++ {
			s += m.At(i, j)
		}
		out[j] = s / float64(r)
	}
	return out
}

// CenterColumns subtracts means[j] from every entry of column j in place.
func CenterColumns(m *mat.Dense, means []float64) {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m.Set(i, j, m.At(i, j)-means[j])
		}
	}
}

// RidgeSolve solves (XᵀX + αI) w = Xᵀy.
func RidgeSolve(X *mat.Dense, y *mat.VecDense, alpha float64) (*mat.VecDense, error) {
	_, p := X.Dims()
	var gram mat.Dense
	gram.Mul(X.T(), X)
	for j := 0; j < p; j++ {
		gram.Set(j, j, gram.At(j, j)+alpha)
	}
	var rhs mat.VecDense
	rhs.MulVec(X.T(), y)

	var w mat.VecDense
	if err := w.SolveVec(&gram, &rhs); err != nil {
		return nil, err
	}
	return &w, nil
}
