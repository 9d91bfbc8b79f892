package stats

import "math"

// RollingMean returns the mean of the trailing window ending at each
// position. Missing values are skipped; positions whose window holds fewer
// than minPeriods observations are NaN.
func RollingMean(x []float64, window, minPeriods int) []float64 {
	out := make([]float64, len(x))
	if window < 1 {
		window = 1
	}
	for i := range x {
		start := max(0, i-window+1)
		sum, n := 0.0, 0
		for _, v := range x[start : i+1] {
			if math.IsNaN(v) {
				continue
			}
			sum += v
			n++
		}
		if n == 0 || n < minPeriods {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(n)
	}
	return out
}

// EWMA returns the exponentially weighted moving average of x with the
// given center of mass (alpha = 1/(1+com)), using adjusted weights.
// Weights keep decaying across missing values, so the average at a missing
// position equals the previous average. Positions before the first
// observation are NaN.
func EWMA(x []float64, com float64) []float64 {
	out := make([]float64, len(x))
	alpha := 1.0 / (1.0 + com)
	decay := 1.0 - alpha
	num, den := 0.0, 0.0
	seen := false
	for i, v := range x {
		num *= decay
		den *= decay
		if !math.IsNaN(v) {
			num += v
			den++
			seen = true
		}
		if !seen {
			out[i] = math.NaN()
			continue
		}
		out[i] = num / den
	}
	return out
}

// Shift moves values lag positions forward, filling the head with NaN.
// A negative lag shifts backwards.
func Shift(x []float64, lag int) []float64 {
	out := make([]float64, len(x))
	for i := range out {
		j := i - lag
		if j < 0 || j >= len(x) {
			out[i] = math.NaN()
			continue
		}
		out[i] = x[j]
	}
	return out
}

// CumulativeWinPct returns the running (wins + 0.5*ties) / games ratio of a
// sequence of point spreads. Missing spreads carry the previous ratio; the
// ratio is NaN until the first game.
func CumulativeWinPct(spreads []float64) []float64 {
	out := make([]float64, len(spreads))
	score, games := 0.0, 0
	for i, s := range spreads {
		if !math.IsNaN(s) {
			games++
			switch {
			case s > 0:
				score++
			case s == 0:
				score += 0.5
			}
		}
		if games == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = score / float64(games)
	}
	return out
}
