package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	urfave "github.com/urfave/cli/v3"

	"github.com/tanyaschlusser/office-nfl-pool/pkg/config"
	"github.com/tanyaschlusser/office-nfl-pool/pkg/predict"
	"github.com/tanyaschlusser/office-nfl-pool/pkg/report"
	"github.com/tanyaschlusser/office-nfl-pool/pkg/store"
)

const (
	csvFlag   = "csv"
	chartFlag = "chart"
	noDBFlag  = "no-db"
)

func newPredictCmd() *urfave.Command {
	return &urfave.Command{
		Name:            "predict",
		Usage:           "Predict the unplayed games of the season",
		HideHelpCommand: true,
		Action:          cmdPredict,
		Flags: append(historyFlags(),
			&urfave.StringFlag{
				Name:    outputFlag,
				Aliases: []string{"o"},
				Usage:   "Workbook the prediction sheet is added to",
			},
			stringFlag(csvFlag, "Also write the predictions to this CSV file (optional)"),
			stringFlag(chartFlag, "Also plot win probability against predicted margin to this PNG (optional)"),
			stringFlag(dbFlag, "Path to the SQLite run history"),
			&urfave.BoolFlag{Name: noDBFlag, Usage: "Do not record the run (optional, default: false)"},
		),
	}
}

// applyFlags overrides cfg with the flags that were set.
func applyFlags(cmd *urfave.Command, cfg *config.Config) {
	setString := func(name string, dst *string) {
		if cmd.IsSet(name) {
			*dst = cmd.String(name)
		}
	}
	setString(historyFlag, &cfg.History)
	setString(datasheetFlag, &cfg.Datasheet)
	setString(outputFlag, &cfg.Output)
	setString(csvFlag, &cfg.CSV)
	setString(chartFlag, &cfg.Chart)
	setString(dbFlag, &cfg.DB)
	if cmd.IsSet(seasonFlag) {
		cfg.Season = int(cmd.Int(seasonFlag))
	}
	if cmd.IsSet(seedFlag) {
		cfg.Seed = int64(cmd.Int(seedFlag))
	}
}

func cmdPredict(ctx context.Context, cmd *urfave.Command) error {
	cfg := getConfig(cmd)
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	res, err := predict.Run(ctx, cfg)
	if err != nil {
		return err
	}
	if len(res.Predictions) == 0 {
		fmt.Fprintln(writer(cmd), predict.NoViableData)
		return nil
	}
	report.Print(writer(cmd), res.Predictions)

	sheet := report.SheetName(time.Now())
	if err := report.WriteWorkbook(cfg.Output, sheet, res.Predictions); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	slog.Info("predictions written", "path", cfg.Output, "sheet", sheet, "games", len(res.Predictions))

	if cfg.CSV != "" {
		if err := report.WriteCSV(cfg.CSV, res.Predictions); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
		slog.Info("csv written", "path", cfg.CSV)
	}
	if cfg.Chart != "" {
		if err := report.WriteChart(cfg.Chart, res.Predictions); err != nil {
			return fmt.Errorf("writing chart: %w", err)
		}
		slog.Info("chart written", "path", cfg.Chart)
	}

	if cmd.Bool(noDBFlag) || cfg.DB == "" {
		return nil
	}
	return recordRun(ctx, cfg, sheet, res)
}

func recordRun(ctx context.Context, cfg *config.Config, sheet string, res *predict.Result) error {
	s, err := store.Open(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("opening run history: %w", err)
	}
	defer s.Close()

	id, err := s.SaveRun(ctx, &store.Run{
		Season:      cfg.Season,
		History:     cfg.History,
		Datasheet:   cfg.Datasheet,
		Output:      cfg.Output,
		SheetName:   sheet,
		WinModel:    cfg.Win.Kind,
		PointsModel: cfg.Points.Kind,
		TrainGames:  res.TrainGames,
		TrainTeams:  res.TrainTeams,
		Predictions: res.Predictions,
	})
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	slog.Info("run recorded", "id", id, "db", cfg.DB)
	return nil
}
