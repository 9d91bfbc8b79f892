package nfl

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nan = math.NaN()

func schedule() []Game {
	return []Game{
		{Week: 1, Date: "2015-09-13", Home: "Bears", Away: "Packers", HomePoints: 23, AwayPoints: 31, VegasSpread: 6, HomeFumbles: 1, AwayFumbles: 0, HomePenaltyYards: 40, AwayPenaltyYards: 55},
		{Week: 1, Date: "2015-09-13", Home: "Lions", Away: "Vikings", HomePoints: 20, AwayPoints: 20, VegasSpread: -2, HomeFumbles: 2, AwayFumbles: 1, HomePenaltyYards: 30, AwayPenaltyYards: 25},
		{Week: 2, Date: "2015-09-20", Home: "Bears", Away: "Lions", HomePoints: nan, AwayPoints: nan, VegasSpread: 1, HomeFumbles: nan, AwayFumbles: nan, HomePenaltyYards: nan, AwayPenaltyYards: nan},
	}
}

func find(rows []TeamWeek, team string, week int) *TeamWeek {
	for i := range rows {
		if rows[i].Team == team && rows[i].Week == week {
			return &rows[i]
		}
	}
	return nil
}

func TestExpandDatasheet(t *testing.T) {
	rows := ExpandDatasheet(schedule(), 2015)
	// 6 game rows plus byes for the home teams Bears and Lions: none in
	// week 1, none in week 2 because both play.
	require.Len(t, rows, 6)

	away := find(rows, "Packers", 1)
	require.NotNil(t, away)
	assert.False(t, away.AtHome)
	assert.Equal(t, "Bears", away.Opponent)
	assert.Equal(t, -6.0, away.Stat(VegasSpread))
	assert.Equal(t, 31.0, away.Stat(Points))
	assert.Equal(t, 23.0, away.Stat(PointsAllowed))
	assert.Equal(t, 2015, away.Season)
}

func TestExpandDatasheetAddsByes(t *testing.T) {
	games := []Game{
		{Week: 1, Home: "Bears", Away: "Packers"},
		{Week: 2, Home: "Lions", Away: "Packers"},
	}
	rows := ExpandDatasheet(games, 2015)
	bye := find(rows, "Lions", 1)
	require.NotNil(t, bye)
	assert.True(t, bye.IsBye())
	assert.True(t, bye.AtHome)
	assert.NotNil(t, find(rows, "Bears", 2))
	// Packers never host, so they get no bye rows.
	assert.Len(t, rows, 6)
}

func TestAddDerived(t *testing.T) {
	rows := []TeamWeek{
		{Season: 2015, Week: 3, Team: "A", Opponent: "B", Stats: map[string]float64{Points: 10, PointsAllowed: 10}},
		{Season: 2015, Week: 1, Team: "A", Opponent: "B", Stats: map[string]float64{Points: 21, PointsAllowed: 14}},
		{Season: 2015, Week: 2, Team: "A", Stats: map[string]float64{}},
		{Season: 2015, Week: 4, Team: "A", Opponent: "C", Stats: map[string]float64{Points: nan, PointsAllowed: nan}},
	}
	AddDerived(rows)
	require.Equal(t, []int{1, 2, 3, 4}, []int{rows[0].Week, rows[1].Week, rows[2].Week, rows[3].Week})

	assert.Equal(t, 7.0, rows[0].Stat(Spread))
	assert.True(t, math.IsNaN(rows[1].Stat(Spread)))
	assert.Equal(t, 1.0, rows[0].Stat(WinPct))
	assert.Equal(t, 1.0, rows[1].Stat(WinPct))
	assert.Equal(t, 0.75, rows[2].Stat(WinPct))
	assert.Equal(t, 0.75, rows[3].Stat(WinPct))

	assert.Equal(t, []float64{0, 0, 1, 0}, []float64{
		rows[0].Stat(LastWkBye), rows[1].Stat(LastWkBye),
		rows[2].Stat(LastWkBye), rows[3].Stat(LastWkBye),
	})
	assert.False(t, rows[3].Played())
}

func TestSmoothingCrossesSeasons(t *testing.T) {
	rows := []TeamWeek{
		{Season: 2014, Week: 17, Team: "A", Opponent: "B", Stats: map[string]float64{Fumbles: 2, Points: 10}},
		{Season: 2015, Week: 1, Team: "A", Opponent: "B", Stats: map[string]float64{Fumbles: 4, Points: 20}},
		{Season: 2015, Week: 2, Team: "B", Opponent: "A", Stats: map[string]float64{Fumbles: 1, Points: 3}},
	}
	AddRollingMean(rows, []string{Fumbles}, "m_", 5, 2)
	AddEWMA(rows, []string{Points}, "ewma_", 2)
	AddLag(rows, []string{"m_" + Fumbles, "ewma_" + Points}, "lag_", 1)

	a1, a2, b := find(rows, "A", 17), find(rows, "A", 1), find(rows, "B", 2)
	assert.True(t, math.IsNaN(a1.Stat("m_Fumbles")))
	assert.Equal(t, 3.0, a2.Stat("m_Fumbles"))
	assert.Equal(t, 10.0, a1.Stat("ewma_Points"))
	// weights 2/3 and 1: (10*2/3 + 20) / (5/3)
	assert.InDelta(t, 16.0, a2.Stat("ewma_Points"), 1e-12)
	assert.Equal(t, 10.0, a2.Stat("lag_ewma_Points"))
	assert.True(t, math.IsNaN(a1.Stat("lag_ewma_Points")))
	assert.True(t, math.IsNaN(b.Stat("lag_m_Fumbles")))
}

func TestToByGameAndBack(t *testing.T) {
	games := append(schedule(), Game{Week: 2, Home: "Lions", Away: "Vikings", HomePoints: nan, AwayPoints: nan, VegasSpread: nan})
	games[2] = Game{Week: 2, Home: "Bears", Away: "Packers", HomePoints: nan, AwayPoints: nan, VegasSpread: 3}
	games = games[:3]
	rows := ExpandDatasheet(games, 2015)
	AddDerived(rows)

	byGame := ToByGame(rows, DefaultDontMirror)
	// Two week 1 games, one week 2 game, one Lions bye.
	require.Len(t, byGame, 4)

	first := byGame[0]
	assert.Equal(t, "Bears", first.Home)
	assert.Equal(t, "Packers", first.Away)
	assert.Equal(t, -8.0, first.Value(Spread))
	assert.Equal(t, 6.0, first.Value(VegasSpread))
	assert.Equal(t, 1.0, first.Value("H_Fumbles"))
	assert.Equal(t, 0.0, first.Value("A_Fumbles"))
	assert.Equal(t, 1.0, first.Value("H_AtHome"))
	assert.True(t, math.IsNaN(first.Value("H_Spread")))

	bye := byGame[3]
	assert.Equal(t, "Lions", bye.Home)
	assert.True(t, bye.IsBye())
	assert.True(t, math.IsNaN(bye.Value("A_Fumbles")))

	views := ToByTeam(byGame)
	// 3 games mirrored twice plus the bye's home view.
	require.Len(t, views, 7)
	home, away := views[0], views[1]
	assert.Equal(t, "Bears", home.Team)
	assert.Equal(t, 23.0, home.Value(Points))
	assert.True(t, math.IsNaN(home.Value(PointsAllowed)))
	assert.Equal(t, 0.0, home.Value("O_Fumbles"))
	assert.Equal(t, "Packers", away.Team)
	assert.Equal(t, 31.0, away.Value(Points))
	assert.Equal(t, 1.0, away.Value("O_Fumbles"))
	assert.Equal(t, 0.0, away.Value(AtHome))
	lbl, ok := away.Label("Opponent")
	assert.True(t, ok)
	assert.Equal(t, "Bears", lbl)
}
