package nfl

import (
	"math"
	"sort"
	"strings"
)

// Prefixes of mirrored columns.
const (
	HomePrefix     = "H_"
	AwayPrefix     = "A_"
	OpponentPrefix = "O_"
)

// DefaultDontMirror are the columns a Matchup keeps from the home team's
// perspective only.
var DefaultDontMirror = []string{Spread, VegasSpread, Points, PointsAllowed}

// Matchup is one game (or one bye) seen from the home side. Shared holds
// the unmirrored columns; HomeStats and AwayStats hold each side's other
// columns, including AtHome. A bye has an empty Away and no AwayStats.
type Matchup struct {
	Season    int
	Week      int
	Home      string
	Away      string
	Date      string
	Shared    map[string]float64
	HomeStats map[string]float64
	AwayStats map[string]float64
}

// IsBye reports whether the row is a home team's bye week.
func (m *Matchup) IsBye() bool { return m.Away == "" }

// Value resolves a column name: H_x and A_x read the home and away side,
// anything else the shared columns. Missing values are NaN.
func (m *Matchup) Value(name string) float64 {
	var src map[string]float64
	switch {
	case strings.HasPrefix(name, HomePrefix):
		src, name = m.HomeStats, strings.TrimPrefix(name, HomePrefix)
	case strings.HasPrefix(name, AwayPrefix):
		src, name = m.AwayStats, strings.TrimPrefix(name, AwayPrefix)
	default:
		src = m.Shared
	}
	if v, ok := src[name]; ok {
		return v
	}
	return math.NaN()
}

// Label returns the categorical value of Home or Away.
func (m *Matchup) Label(name string) (string, bool) {
	switch name {
	case "Home":
		return m.Home, true
	case "Away":
		return m.Away, true
	}
	return "", false
}

type gameKey struct {
	season, week int
	home, away   string
}

// ToByGame left-joins home rows (byes included) with away rows on
// (Season, Week, Home, Away). Output is ordered by (Season, Week, Home).
func ToByGame(rows []TeamWeek, dontMirror []string) []Matchup {
	keep := make(map[string]bool, len(dontMirror))
	for _, c := range dontMirror {
		keep[c] = true
	}

	away := make(map[gameKey]*TeamWeek)
	for i := range rows {
		r := &rows[i]
		if !r.AtHome {
			away[gameKey{r.Season, r.Week, r.Opponent, r.Team}] = r
		}
	}

	var out []Matchup
	for i := range rows {
		r := &rows[i]
		if !r.AtHome {
			continue
		}
		m := Matchup{
			Season:    r.Season,
			Week:      r.Week,
			Home:      r.Team,
			Away:      r.Opponent,
			Date:      r.Date,
			Shared:    map[string]float64{},
			HomeStats: map[string]float64{AtHome: 1},
		}
		for k, v := range r.Stats {
			if keep[k] {
				m.Shared[k] = v
			} else {
				m.HomeStats[k] = v
			}
		}
		if a, ok := away[gameKey{r.Season, r.Week, r.Team, r.Opponent}]; ok && !r.IsBye() {
			m.AwayStats = map[string]float64{AtHome: 0}
			for k, v := range a.Stats {
				if !keep[k] {
					m.AwayStats[k] = v
				}
			}
		}
		out = append(out, m)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Season != b.Season {
			return a.Season < b.Season
		}
		if a.Week != b.Week {
			return a.Week < b.Week
		}
		return a.Home < b.Home
	})
	return out
}

// TeamView is a matchup mirrored back to one team, carrying the opponent's
// columns under the O_ prefix.
type TeamView struct {
	Season   int
	Week     int
	Team     string
	Opponent string
	AtHome   bool
	Stats    map[string]float64
	Opp      map[string]float64
}

// Value resolves AtHome, O_x from the opponent, and anything else from the
// team's own columns.
func (v *TeamView) Value(name string) float64 {
	if name == AtHome {
		return boolFloat(v.AtHome)
	}
	src := v.Stats
	if strings.HasPrefix(name, OpponentPrefix) {
		src, name = v.Opp, strings.TrimPrefix(name, OpponentPrefix)
	}
	if x, ok := src[name]; ok {
		return x
	}
	return math.NaN()
}

// Label returns the categorical value of Team or Opponent.
func (v *TeamView) Label(name string) (string, bool) {
	switch name {
	case "Team":
		return v.Team, true
	case "Opponent":
		return v.Opponent, true
	}
	return "", false
}

// ToByTeam mirrors every matchup into a home view and an away view. The
// away view scores the home side's PointsAllowed as its Points. Away views
// of byes are dropped. Shared columns other than the points keep the home
// team's perspective in both views.
func ToByTeam(games []Matchup) []TeamView {
	out := make([]TeamView, 0, 2*len(games))
	for i := range games {
		g := &games[i]
		home := TeamView{
			Season: g.Season, Week: g.Week, Team: g.Home, Opponent: g.Away, AtHome: true,
			Stats: make(map[string]float64), Opp: make(map[string]float64),
		}
		copyStats(home.Stats, g.HomeStats)
		copyStats(home.Opp, g.AwayStats)
		for k, v := range g.Shared {
			if k != PointsAllowed {
				home.Stats[k] = v
			}
		}
		out = append(out, home)

		if g.IsBye() {
			continue
		}
		away := TeamView{
			Season: g.Season, Week: g.Week, Team: g.Away, Opponent: g.Home, AtHome: false,
			Stats: make(map[string]float64), Opp: make(map[string]float64),
		}
		copyStats(away.Stats, g.AwayStats)
		copyStats(away.Opp, g.HomeStats)
		for k, v := range g.Shared {
			switch k {
			case Points:
			case PointsAllowed:
				away.Stats[Points] = v
			default:
				away.Stats[k] = v
			}
		}
		out = append(out, away)
	}
	return out
}

func copyStats(dst, src map[string]float64) {
	for k, v := range src {
		if k != AtHome {
			dst[k] = v
		}
	}
}
