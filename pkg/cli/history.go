package cli

import (
	"context"
	"fmt"

	urfave "github.com/urfave/cli/v3"

	"github.com/tanyaschlusser/office-nfl-pool/pkg/report"
	"github.com/tanyaschlusser/office-nfl-pool/pkg/store"
)

const runListLimitDefault = 20

const (
	limitFlag = "limit"
	runIDFlag = "id"
)

func newHistoryCmd() *urfave.Command {
	return &urfave.Command{
		Name:            "history",
		Usage:           "Inspect recorded prediction runs",
		HideHelpCommand: true,
		Flags: []urfave.Flag{
			stringFlag(dbFlag, "Path to the SQLite run history"),
		},
		Commands: []*urfave.Command{
			{
				Name:   "list",
				Usage:  "List the most recent runs",
				Action: cmdHistoryList,
				Flags: []urfave.Flag{
					&urfave.IntFlag{Name: limitFlag, Usage: "Number of runs to list", Value: runListLimitDefault},
				},
			},
			{
				Name:   "show",
				Usage:  "Print the predictions of a run",
				Action: cmdHistoryShow,
				Flags: []urfave.Flag{
					&urfave.StringFlag{Name: runIDFlag, Usage: "Run ID", Required: true},
				},
			},
		},
	}
}

func openStore(ctx context.Context, cmd *urfave.Command) (*store.Store, error) {
	cfg := getConfig(cmd)
	if cmd.IsSet(dbFlag) {
		cfg.DB = cmd.String(dbFlag)
	}
	s, err := store.Open(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("opening run history: %w", err)
	}
	return s, nil
}

func cmdHistoryList(ctx context.Context, cmd *urfave.Command) error {
	s, err := openStore(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	runs, err := s.ListRuns(ctx, int(cmd.Int(limitFlag)))
	if err != nil {
		return err
	}
	w := writer(cmd)
	fmt.Fprintf(w, "%-38s%-22s%-8s%-20s%-8s%s\n", "ID", "Created", "Season", "Win model", "Games", "Sheet")
	for _, r := range runs {
		fmt.Fprintf(w, "%-38s%-22s%-8d%-20s%-8d%s\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04:05"), r.Season, r.WinModel, len(r.Predictions), r.SheetName)
	}
	return nil
}

func cmdHistoryShow(ctx context.Context, cmd *urfave.Command) error {
	s, err := openStore(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	r, err := s.GetRun(ctx, cmd.String(runIDFlag))
	if err != nil {
		return err
	}
	w := writer(cmd)
	fmt.Fprintf(w, "run %s, season %d, %s / %s, trained on %d games and %d team games\n",
		r.ID, r.Season, r.WinModel, r.PointsModel, r.TrainGames, r.TrainTeams)
	report.Print(w, r.Predictions)
	return nil
}
