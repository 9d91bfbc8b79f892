// Package predict runs the prediction: load, transform, fit the win and
// points models, and assemble the report rows.
package predict

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/tanyaschlusser/office-nfl-pool/pkg/config"
	"github.com/tanyaschlusser/office-nfl-pool/pkg/data"
	"github.com/tanyaschlusser/office-nfl-pool/pkg/dataprep"
	"github.com/tanyaschlusser/office-nfl-pool/pkg/nfl"
	"github.com/tanyaschlusser/office-nfl-pool/pkg/stats"
)

// NoViableData is logged when no future row has every feature.
const NoViableData = "No viable data available for prediction."

// Result is the outcome of a run.
type Result struct {
	Predictions []nfl.Prediction
	TrainGames  int
	TrainTeams  int
	WinColumns  []string
	PtsColumns  []string
}

// Load reads the historical file and the season datasheet.
func Load(cfg *config.Config) ([]nfl.TeamWeek, []nfl.Game, error) {
	slog.Info("reading historical data", "path", cfg.History)
	history, err := data.ReadHistory(cfg.History)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("reading this season's data", "path", cfg.Datasheet)
	games, err := data.ReadDatasheet(cfg.Datasheet)
	if err != nil {
		return nil, nil, err
	}
	return history, games, nil
}

// Run loads the inputs named by cfg and predicts every unplayed game.
func Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	history, games, err := Load(cfg)
	if err != nil {
		return nil, err
	}
	return Predict(ctx, cfg, history, games)
}

type gameKey struct {
	season, week int
	home, away   string
}

type winRow struct {
	key  gameKey
	prob float64
}

// Predict fits both models on already loaded data. The two fits run
// concurrently and share nothing.
func Predict(ctx context.Context, cfg *config.Config, history []nfl.TeamWeek, games []nfl.Game) (*Result, error) {
	byGame, byTeam := Prepare(history, games, cfg)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	slog.Debug("transformed", "games", len(byGame), "team_views", len(byTeam))

	winD, err := winDesign(byGame, cfg)
	if err != nil {
		return nil, fmt.Errorf("win features: %w", err)
	}
	ptsD, err := pointsDesign(byTeam, cfg)
	if err != nil {
		return nil, fmt.Errorf("points features: %w", err)
	}

	res := &Result{WinColumns: winD.Columns, PtsColumns: ptsD.Columns}
	var (
		winRows []winRow
		points  map[gameKey][2]float64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, n, err := fitWin(gctx, cfg, byGame, winD)
		winRows, res.TrainGames = rows, n
		return err
	})
	g.Go(func() error {
		pts, n, err := fitPoints(gctx, cfg, byTeam, ptsD)
		points, res.TrainTeams = pts, n
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res.Predictions = merge(winRows, points, games, cfg.Season)
	return res, nil
}

func fitWin(ctx context.Context, cfg *config.Config, games []nfl.Matchup, d *design) ([]winRow, int, error) {
	X, y, _ := dataprep.SelectRows(d.X, d.Y, d.Train)
	m, err := NewWinModel(cfg)
	if err != nil {
		return nil, 0, err
	}
	slog.Debug("fitting win model", "kind", cfg.Win.Kind, "rows", len(X), "columns", len(d.Columns))
	if err := m.Fit(X, y); err != nil {
		return nil, 0, fmt.Errorf("fitting win model on %d games: %w", len(X), err)
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	Xf, _, idx := dataprep.SelectRows(d.X, nil, d.Future)
	if len(Xf) == 0 {
		slog.Warn(NoViableData, "columns", cfg.Win.Features)
		return nil, len(X), nil
	}
	proba, err := m.PredictProba(Xf)
	if err != nil {
		return nil, 0, err
	}
	out := make([]winRow, len(idx))
	for j, i := range idx {
		gm := &games[i]
		out[j] = winRow{
			key:  gameKey{gm.Season, gm.Week, gm.Home, gm.Away},
			prob: proba[j],
		}
	}
	return out, len(X), nil
}

// fitPoints returns the predicted (home points, away points) per game.
func fitPoints(ctx context.Context, cfg *config.Config, views []nfl.TeamView, d *design) (map[gameKey][2]float64, int, error) {
	X, y, _ := dataprep.SelectRows(d.X, d.Y, d.Train)
	m, err := NewPointsModel(cfg)
	if err != nil {
		return nil, 0, err
	}
	slog.Debug("fitting points model", "kind", cfg.Points.Kind, "rows", len(X), "columns", len(d.Columns))
	if err := m.Fit(X, y); err != nil {
		return nil, 0, fmt.Errorf("fitting points model on %d team games: %w", len(X), err)
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	Xf, _, idx := dataprep.SelectRows(d.X, nil, d.Future)
	if len(Xf) == 0 {
		slog.Warn(NoViableData, "columns", cfg.Points.Features)
		return map[gameKey][2]float64{}, len(X), nil
	}
	pred, err := m.Predict(Xf)
	if err != nil {
		return nil, 0, err
	}

	type half struct {
		v  float64
		ok bool
	}
	homes := map[gameKey]half{}
	aways := map[gameKey]half{}
	for j, i := range idx {
		v := &views[i]
		if v.AtHome {
			homes[gameKey{v.Season, v.Week, v.Team, v.Opponent}] = half{pred[j], true}
		} else {
			aways[gameKey{v.Season, v.Week, v.Opponent, v.Team}] = half{pred[j], true}
		}
	}
	out := make(map[gameKey][2]float64, len(homes))
	for k, h := range homes {
		if a, ok := aways[k]; ok && a.ok {
			out[k] = [2]float64{h.v, a.v}
		}
	}
	return out, len(X), nil
}

// merge keeps the win rows of season's datasheet games, ranks their
// probabilities within each week, attaches the points predictions and the
// datasheet's date and weekday, and orders the rows by date. Games without
// a points prediction keep NaN points.
func merge(win []winRow, points map[gameKey][2]float64, games []nfl.Game, season int) []nfl.Prediction {
	type sheetKey struct {
		week       int
		home, away string
	}
	sheet := make(map[sheetKey]nfl.Game, len(games))
	for _, g := range games {
		sheet[sheetKey{g.Week, g.Home, g.Away}] = g
	}
	kept := win[:0:0]
	for _, w := range win {
		if _, ok := sheet[sheetKey{w.key.week, w.key.home, w.key.away}]; ok && w.key.season == season {
			kept = append(kept, w)
		}
	}
	if dropped := len(win) - len(kept); dropped > 0 {
		slog.Debug("skipping unplayed games outside the datasheet", "games", dropped)
	}
	win = kept

	sort.SliceStable(win, func(i, j int) bool {
		a, b := win[i], win[j]
		if a.key.season != b.key.season {
			return a.key.season < b.key.season
		}
		if a.key.week != b.key.week {
			return a.key.week < b.key.week
		}
		return a.prob < b.prob
	})

	out := make([]nfl.Prediction, len(win))
	for start := 0; start < len(win); {
		end := start
		for end < len(win) && win[end].key.season == win[start].key.season && win[end].key.week == win[start].key.week {
			end++
		}
		probs := make([]float64, end-start)
		for i := range probs {
			probs[i] = win[start+i].prob
		}
		ranks := stats.Rank(probs)
		for i := start; i < end; i++ {
			w := win[i]
			p := nfl.Prediction{
				Season:                 w.key.season,
				Week:                   w.key.week,
				Home:                   w.key.home,
				Away:                   w.key.away,
				WinProbability:         w.prob,
				Confidence:             ranks[i-start],
				PredictedPoints:        nan,
				PredictedPointsAllowed: nan,
			}
			g := sheet[sheetKey{w.key.week, w.key.home, w.key.away}]
			p.Date, p.DayOfWeek = g.Date, g.DayOfWeek
			if pts, ok := points[w.key]; ok {
				p.PredictedPoints, p.PredictedPointsAllowed = pts[0], pts[1]
			}
			out[i] = p
		}
		start = end
	}

	SortByDate(out)
	return out
}
