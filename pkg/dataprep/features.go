package dataprep

// SelectRows returns the rows of X (and y, when not nil) where mask is
// true, along with their original positions.
func SelectRows(X [][]float64, y []float64, mask []bool) ([][]float64, []float64, []int) {
	var (
		xs  [][]float64
		ys  []float64
		idx []int
	)
	for i, keep := range mask {
		if !keep {
			continue
		}
		xs = append(xs, X[i])
		if y != nil {
			ys = append(ys, y[i])
		}
		idx = append(idx, i)
	}
	return xs, ys, idx
}
