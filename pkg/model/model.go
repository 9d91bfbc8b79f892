package model

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
)

var (
	ErrEmpty     = errors.New("model: empty training data")
	ErrMismatch  = errors.New("model: X and y length mismatch")
	ErrRagged    = errors.New("model: inconsistent number of features in X rows")
	ErrOneClass  = errors.New("model: training labels contain a single class")
	ErrNotBinary = errors.New("model: labels must be 0 or 1")
)

// Regressor predicts a continuous target.
type Regressor interface {
	Fit(X [][]float64, y []float64) error
	Predict(X [][]float64) []float64
}

// Classifier predicts the probability of the positive class of a binary
// target labelled 0/1.
type Classifier interface {
	Fit(X [][]float64, y []float64) error
	PredictProba(X [][]float64) []float64
}

// checkXY validates a training set and returns the number of features.
func checkXY(X [][]float64, y []float64) (int, error) {
	if len(X) == 0 {
		return 0, ErrEmpty
	}
	if len(y) != len(X) {
		return 0, fmt.Errorf("%w: %d rows, %d labels", ErrMismatch, len(X), len(y))
	}
	p := len(X[0])
	for i := range X {
		if len(X[i]) != p {
			return 0, fmt.Errorf("%w: row %d", ErrRagged, i)
		}
	}
	return p, nil
}

// checkBinary validates 0/1 labels holding both classes.
func checkBinary(y []float64) error {
	seen := [2]bool{}
	for _, v := range y {
		switch v {
		case 0:
			seen[0] = true
		case 1:
			seen[1] = true
		default:
			return fmt.Errorf("%w: got %v", ErrNotBinary, v)
		}
	}
	if !seen[0] || !seen[1] {
		return ErrOneClass
	}
	return nil
}

// parallelRows runs fn over [0, n) split into contiguous chunks, one per CPU.
func parallelRows(n int, fn func(i int)) {
	if n == 0 {
		return
	}
	workers := runtime.GOMAXPROCS(0)
	rowsPerWorker := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * rowsPerWorker
		end := min(start+rowsPerWorker, n)
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				fn(i)
			}
		}(start, end)
	}
	wg.Wait()
}

func dot(w, x []float64, b float64) float64 {
	sum := b
	for j, v := range x {
		sum += w[j] * v
	}
	return sum
}
