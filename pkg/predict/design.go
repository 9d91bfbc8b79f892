package predict

import (
	"math"

	"github.com/tanyaschlusser/office-nfl-pool/pkg/config"
	"github.com/tanyaschlusser/office-nfl-pool/pkg/dataprep"
	"github.com/tanyaschlusser/office-nfl-pool/pkg/nfl"
)

// Prepare merges the history with the expanded datasheet, derives the
// smoothed and lagged columns, and returns the by-game and by-team views.
func Prepare(history []nfl.TeamWeek, games []nfl.Game, cfg *config.Config) ([]nfl.Matchup, []nfl.TeamView) {
	rows := make([]nfl.TeamWeek, 0, len(history)+2*len(games))
	rows = append(rows, history...)
	rows = append(rows, nfl.ExpandDatasheet(games, cfg.Season)...)

	f := cfg.Features
	nfl.AddDerived(rows)
	nfl.AddRollingMean(rows, f.Rolling.Columns, f.Rolling.Prefix, f.Rolling.Window, f.Rolling.MinPeriods)
	nfl.AddEWMA(rows, f.EWMA.Columns, f.EWMA.Prefix, f.EWMA.Center)
	nfl.AddLag(rows, f.Lag.Columns, f.Lag.Prefix, f.Lag.Lag)

	byGame := nfl.ToByGame(rows, f.DontMirror)
	return byGame, nfl.ToByTeam(byGame)
}

// design is a feature matrix with its target and row masks.
type design struct {
	Columns []string
	X       [][]float64
	Y       []float64
	Train   []bool
	Future  []bool
}

func encode(rows []dataprep.Row, features []string, impute bool) (*dataprep.Encoder, [][]float64, []bool, error) {
	enc, err := dataprep.NewEncoder(rows, features)
	if err != nil {
		return nil, nil, nil, err
	}
	X := enc.Transform(rows)
	viable := dataprep.Viable(X)
	if impute {
		for i := range viable {
			viable[i] = true
		}
	}
	return enc, X, viable, nil
}

func imputing(cfg *config.Config) bool {
	return cfg.Features.Impute != "" && cfg.Features.Impute != dataprep.StrategyDrop
}

// winDesign trains on viable played games (win = Spread > 0) and predicts
// viable games with no result and an opponent.
func winDesign(games []nfl.Matchup, cfg *config.Config) (*design, error) {
	rows := make([]dataprep.Row, len(games))
	for i := range games {
		rows[i] = &games[i]
	}
	enc, X, viable, err := encode(rows, cfg.Win.Features, imputing(cfg))
	if err != nil {
		return nil, err
	}
	d := &design{Columns: enc.Columns, X: X, Y: make([]float64, len(games)),
		Train: make([]bool, len(games)), Future: make([]bool, len(games))}
	for i := range games {
		spread := games[i].Value(nfl.Spread)
		if spread > 0 {
			d.Y[i] = 1
		}
		played := !math.IsNaN(spread)
		d.Train[i] = viable[i] && played
		d.Future[i] = viable[i] && !played && !games[i].IsBye()
	}
	return d, nil
}

// pointsDesign trains on viable team views with points and predicts
// viable views with no points and an opponent.
func pointsDesign(views []nfl.TeamView, cfg *config.Config) (*design, error) {
	rows := make([]dataprep.Row, len(views))
	for i := range views {
		rows[i] = &views[i]
	}
	enc, X, viable, err := encode(rows, cfg.Points.Features, imputing(cfg))
	if err != nil {
		return nil, err
	}
	d := &design{Columns: enc.Columns, X: X, Y: make([]float64, len(views)),
		Train: make([]bool, len(views)), Future: make([]bool, len(views))}
	for i := range views {
		pts := views[i].Value(nfl.Points)
		d.Y[i] = pts
		scored := !math.IsNaN(pts)
		d.Train[i] = viable[i] && scored
		d.Future[i] = viable[i] && !scored && views[i].Opponent != ""
	}
	return d, nil
}
