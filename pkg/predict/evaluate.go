package predict

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"golang.org/x/sync/errgroup"

	"github.com/tanyaschlusser/office-nfl-pool/pkg/config"
	"github.com/tanyaschlusser/office-nfl-pool/pkg/dataprep"
	"github.com/tanyaschlusser/office-nfl-pool/pkg/loader"
	"github.com/tanyaschlusser/office-nfl-pool/pkg/model"
	"github.com/tanyaschlusser/office-nfl-pool/pkg/nfl"
)

// Evaluation holds out-of-fold scores of both models.
type Evaluation struct {
	Folds int

	WinRows   int
	Accuracy  float64
	LogLoss   float64
	Precision float64
	Recall    float64
	F1        float64

	PointsRows int
	RMSE       float64
	MAE        float64
	R2         float64
}

// Evaluate cross-validates both models on played games with k seeded
// folds. Every row is scored once, by the model that did not see it.
func Evaluate(ctx context.Context, cfg *config.Config, history []nfl.TeamWeek, games []nfl.Game) (*Evaluation, error) {
	byGame, byTeam := Prepare(history, games, cfg)
	winD, err := winDesign(byGame, cfg)
	if err != nil {
		return nil, fmt.Errorf("win features: %w", err)
	}
	ptsD, err := pointsDesign(byTeam, cfg)
	if err != nil {
		return nil, fmt.Errorf("points features: %w", err)
	}

	k := cfg.Evaluate.Folds
	ev := &Evaluation{Folds: k}

	Xw, yw, _ := dataprep.SelectRows(winD.X, winD.Y, winD.Train)
	proba, err := crossValidate(ctx, Xw, yw, k, cfg.Seed, func(X [][]float64, y []float64, Xt [][]float64) ([]float64, error) {
		m, err := NewWinModel(cfg)
		if err != nil {
			return nil, err
		}
		if err := m.Fit(X, y); err != nil {
			return nil, err
		}
		return m.PredictProba(Xt)
	})
	if err != nil {
		return nil, fmt.Errorf("win model: %w", err)
	}
	ev.WinRows = len(yw)
	pred := model.BinaryPredFromProba(proba, 0.5)
	ev.Accuracy = model.Accuracy(yw, pred)
	ev.LogLoss = model.LogLoss(yw, proba)
	ev.Precision, ev.Recall, ev.F1 = model.PrecisionRecallF1(yw, pred)

	Xp, yp, _ := dataprep.SelectRows(ptsD.X, ptsD.Y, ptsD.Train)
	pts, err := crossValidate(ctx, Xp, yp, k, cfg.Seed, func(X [][]float64, y []float64, Xt [][]float64) ([]float64, error) {
		m, err := NewPointsModel(cfg)
		if err != nil {
			return nil, err
		}
		if err := m.Fit(X, y); err != nil {
			return nil, err
		}
		return m.Predict(Xt)
	})
	if err != nil {
		return nil, fmt.Errorf("points model: %w", err)
	}
	ev.PointsRows = len(yp)
	ev.RMSE = model.RMSE(yp, pts)
	ev.MAE = model.MAE(yp, pts)
	ev.R2 = model.R2(yp, pts)

	slog.Debug("evaluated", "folds", k, "games", ev.WinRows, "team_games", ev.PointsRows)
	return ev, nil
}

type foldFunc func(X [][]float64, y []float64, Xtest [][]float64) ([]float64, error)

// crossValidate fits fn once per fold, concurrently, and returns the
// out-of-fold prediction for every row.
func crossValidate(ctx context.Context, X [][]float64, y []float64, k int, seed int64, fn foldFunc) ([]float64, error) {
	if len(X) < k {
		return nil, fmt.Errorf("%d rows is fewer than %d folds", len(X), k)
	}
	folds := loader.KFoldSplit(len(X), k, rand.New(rand.NewSource(seed)))
	out := make([]float64, len(X))

	g, gctx := errgroup.WithContext(ctx)
	for _, fold := range folds {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			Xtr, ytr := loader.Subset(X, y, loader.Complement(len(X), fold))
			Xte, _ := loader.Subset(X, y, fold)
			pred, err := fn(Xtr, ytr, Xte)
			if err != nil {
				return err
			}
			for j, i := range fold {
				out[i] = pred[j]
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
