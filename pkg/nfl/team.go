// Package nfl reshapes NFL game data between the by-team view (one row per
// team per week) and the by-game view (one row per game), and derives the
// smoothed and lagged columns the models use.
package nfl

import (
	"math"
	"sort"
)

// Statistic column names shared by the historical file and the datasheet.
const (
	Points        = "Points"
	PointsAllowed = "PointsAllowed"
	VegasSpread   = "VegasSpread"
	Interceptions = "Interceptions"
	Sacks         = "Sacks"
	Fumbles       = "Fumbles"
	PenaltyYards  = "PenaltyYards"

	Spread    = "Spread"
	WinPct    = "WinPct"
	LastWkBye = "LastWkBye"
	AtHome    = "AtHome"
)

// TeamWeek is one team's row for one week. An empty Opponent is a bye.
type TeamWeek struct {
	Season   int
	Week     int
	Team     string
	Opponent string
	AtHome   bool
	Category string
	Date     string
	Stats    map[string]float64
}

// Game is one row of the season datasheet. Unplayed games carry NaN
// results.
type Game struct {
	Week             int
	Date             string
	DayOfWeek        string
	Home             string
	Away             string
	HomePoints       float64
	AwayPoints       float64
	VegasSpread      float64
	HomeFumbles      float64
	HomePenaltyYards float64
	AwayFumbles      float64
	AwayPenaltyYards float64
}

// IsBye reports whether the team had no game this week.
func (r *TeamWeek) IsBye() bool { return r.Opponent == "" }

// Stat returns the named statistic, or NaN when it is absent.
func (r *TeamWeek) Stat(name string) float64 {
	if name == AtHome {
		return boolFloat(r.AtHome)
	}
	if v, ok := r.Stats[name]; ok {
		return v
	}
	return math.NaN()
}

func (r *TeamWeek) set(name string, v float64) {
	if r.Stats == nil {
		r.Stats = make(map[string]float64)
	}
	r.Stats[name] = v
}

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// SortByTeam orders rows by (Team, Season, Week).
func SortByTeam(rows []TeamWeek) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Team != b.Team {
			return a.Team < b.Team
		}
		if a.Season != b.Season {
			return a.Season < b.Season
		}
		return a.Week < b.Week
	})
}

// ExpandDatasheet turns each game into a home and an away row and adds a
// bye row for every (team, week) the schedule leaves out. Teams are the
// distinct home teams and weeks the distinct weeks of the datasheet. Bye
// rows count as home rows. The away row's Vegas spread is negated.
func ExpandDatasheet(games []Game, season int) []TeamWeek {
	rows := make([]TeamWeek, 0, 2*len(games))
	type key struct {
		team string
		week int
	}
	scheduled := make(map[key]bool)
	var teams []string
	var weeks []int
	seenTeam := map[string]bool{}
	seenWeek := map[int]bool{}

	for _, g := range games {
		rows = append(rows,
			TeamWeek{
				Season: season, Week: g.Week, Team: g.Home, Opponent: g.Away,
				AtHome: true, Date: g.Date,
				Stats: map[string]float64{
					Points:        g.HomePoints,
					PointsAllowed: g.AwayPoints,
					VegasSpread:   g.VegasSpread,
					Fumbles:       g.HomeFumbles,
					PenaltyYards:  g.HomePenaltyYards,
				},
			},
			TeamWeek{
				Season: season, Week: g.Week, Team: g.Away, Opponent: g.Home,
				AtHome: false, Date: g.Date,
				Stats: map[string]float64{
					Points:        g.AwayPoints,
					PointsAllowed: g.HomePoints,
					VegasSpread:   -g.VegasSpread,
					Fumbles:       g.AwayFumbles,
					PenaltyYards:  g.AwayPenaltyYards,
				},
			},
		)
		scheduled[key{g.Home, g.Week}] = true
		scheduled[key{g.Away, g.Week}] = true
		if !seenTeam[g.Home] {
			seenTeam[g.Home] = true
			teams = append(teams, g.Home)
		}
		if !seenWeek[g.Week] {
			seenWeek[g.Week] = true
			weeks = append(weeks, g.Week)
		}
	}

	for _, team := range teams {
		for _, week := range weeks {
			if scheduled[key{team, week}] {
				continue
			}
			rows = append(rows, TeamWeek{
				Season: season, Week: week, Team: team, AtHome: true,
				Stats: map[string]float64{},
			})
		}
	}
	return rows
}
