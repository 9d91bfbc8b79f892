package nfl

import (
	"math"

	"github.com/tanyaschlusser/office-nfl-pool/pkg/stats"
)

// groups returns the [start, end) bounds of consecutive rows that share a
// key. rows must already be sorted so equal keys are adjacent.
func groups(rows []TeamWeek, sameGroup func(a, b *TeamWeek) bool) [][2]int {
	if len(rows) == 0 {
		return nil
	}
	var out [][2]int
	start := 0
	for i := 1; i <= len(rows); i++ {
		if i == len(rows) || !sameGroup(&rows[start], &rows[i]) {
			out = append(out, [2]int{start, i})
			start = i
		}
	}
	return out
}

func byTeam(a, b *TeamWeek) bool { return a.Team == b.Team }

func byTeamSeason(a, b *TeamWeek) bool { return a.Team == b.Team && a.Season == b.Season }

// column gathers a statistic over rows[lo:hi].
func column(rows []TeamWeek, lo, hi int, name string) []float64 {
	out := make([]float64, hi-lo)
	for i := lo; i < hi; i++ {
		out[i-lo] = rows[i].Stat(name)
	}
	return out
}

// applyGrouped computes dst from src per group with fn.
func applyGrouped(rows []TeamWeek, sameGroup func(a, b *TeamWeek) bool, src, dst string, fn func([]float64) []float64) {
	for _, g := range groups(rows, sameGroup) {
		vals := fn(column(rows, g[0], g[1], src))
		for i, v := range vals {
			rows[g[0]+i].set(dst, v)
		}
	}
}

// AddDerived sorts rows by (Team, Season, Week) and adds Spread, WinPct
// and LastWkBye.
//
// LastWkBye is 1 when the previous row of the same team and season had no
// opponent. The first row of a team's season and week 1 are always 0.
func AddDerived(rows []TeamWeek) {
	SortByTeam(rows)
	for i := range rows {
		rows[i].set(Spread, rows[i].Stat(Points)-rows[i].Stat(PointsAllowed))
	}
	applyGrouped(rows, byTeamSeason, Spread, WinPct, stats.CumulativeWinPct)

	for _, g := range groups(rows, byTeamSeason) {
		for i := g[0]; i < g[1]; i++ {
			bye := i > g[0] && rows[i-1].IsBye() && rows[i].Week != 1
			rows[i].set(LastWkBye, boolFloat(bye))
		}
	}
}

// AddRollingMean adds prefix+col holding the trailing mean over window
// rows, grouped by team across seasons.
func AddRollingMean(rows []TeamWeek, cols []string, prefix string, window, minPeriods int) {
	SortByTeam(rows)
	for _, c := range cols {
		applyGrouped(rows, byTeam, c, prefix+c, func(x []float64) []float64 {
			return stats.RollingMean(x, window, minPeriods)
		})
	}
}

// AddEWMA adds prefix+col holding the exponentially weighted moving
// average with center of mass com, grouped by team across seasons.
func AddEWMA(rows []TeamWeek, cols []string, prefix string, com float64) {
	SortByTeam(rows)
	for _, c := range cols {
		applyGrouped(rows, byTeam, c, prefix+c, func(x []float64) []float64 {
			return stats.EWMA(x, com)
		})
	}
}

// AddLag adds prefix+col holding the value lag rows earlier for the same
// team, crossing season boundaries.
func AddLag(rows []TeamWeek, cols []string, prefix string, lag int) {
	SortByTeam(rows)
	for _, c := range cols {
		applyGrouped(rows, byTeam, c, prefix+c, func(x []float64) []float64 {
			return stats.Shift(x, lag)
		})
	}
}

// Played reports whether the row has a result.
func (r *TeamWeek) Played() bool { return !math.IsNaN(r.Stat(Spread)) }
