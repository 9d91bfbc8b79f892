package cli

import (
	"context"
	"fmt"

	urfave "github.com/urfave/cli/v3"

	"github.com/tanyaschlusser/office-nfl-pool/pkg/predict"
)

const foldsFlag = "folds"

func newEvaluateCmd() *urfave.Command {
	return &urfave.Command{
		Name:            "evaluate",
		Usage:           "Cross-validate the win and points models on played games",
		HideHelpCommand: true,
		Action:          cmdEvaluate,
		Flags: append(historyFlags(),
			&urfave.IntFlag{Name: foldsFlag, Usage: "Number of cross-validation folds"},
		),
	}
}

func cmdEvaluate(ctx context.Context, cmd *urfave.Command) error {
	cfg := getConfig(cmd)
	applyFlags(cmd, cfg)
	if cmd.IsSet(foldsFlag) {
		cfg.Evaluate.Folds = int(cmd.Int(foldsFlag))
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	history, games, err := predict.Load(cfg)
	if err != nil {
		return err
	}
	ev, err := predict.Evaluate(ctx, cfg, history, games)
	if err != nil {
		return err
	}

	w := writer(cmd)
	fmt.Fprintf(w, "win model (%s), %d games, %d folds\n", cfg.Win.Kind, ev.WinRows, ev.Folds)
	fmt.Fprintf(w, "  accuracy  %.3f\n  log loss  %.3f\n  precision %.3f\n  recall    %.3f\n  f1        %.3f\n",
		ev.Accuracy, ev.LogLoss, ev.Precision, ev.Recall, ev.F1)
	fmt.Fprintf(w, "points model (%s), %d team games\n", cfg.Points.Kind, ev.PointsRows)
	fmt.Fprintf(w, "  rmse      %.3f\n  mae       %.3f\n  r2        %.3f\n", ev.RMSE, ev.MAE, ev.R2)
	return nil
}
