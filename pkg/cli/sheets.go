package cli

import (
	"context"
	"fmt"
	"log/slog"

	urfave "github.com/urfave/cli/v3"

	"github.com/tanyaschlusser/office-nfl-pool/pkg/data"
	"github.com/tanyaschlusser/office-nfl-pool/pkg/report"
)

const scheduleFlag = "schedule"

func sheetFlags(output string) []urfave.Flag {
	return []urfave.Flag{
		stringFlag(scheduleFlag, "Path to the season schedule CSV (week,date,dayofweek,homeTeam,awayTeam)"),
		&urfave.StringFlag{Name: outputFlag, Aliases: []string{"o"}, Usage: output},
	}
}

func newDatasheetCmd() *urfave.Command {
	return &urfave.Command{
		Name:            "datasheet",
		Usage:           "Write a blank season datasheet from the schedule",
		HideHelpCommand: true,
		Action:          cmdDatasheet,
		Flags: append(sheetFlags("Datasheet workbook to write"),
			&urfave.IntFlag{Name: seasonFlag, Usage: "Season of the schedule"},
		),
	}
}

func newGamesheetsCmd() *urfave.Command {
	return &urfave.Command{
		Name:            "gamesheets",
		Usage:           "Write one pick sheet per week from the schedule",
		HideHelpCommand: true,
		Action:          cmdGamesheets,
		Flags:           sheetFlags("Gamesheet workbook to write"),
	}
}

func schedule(cmd *urfave.Command) ([]data.Fixture, error) {
	cfg := getConfig(cmd)
	if cmd.IsSet(scheduleFlag) {
		cfg.Schedule = cmd.String(scheduleFlag)
	}
	fixtures, err := data.ReadSchedule(cfg.Schedule)
	if err != nil {
		return nil, fmt.Errorf("reading schedule: %w", err)
	}
	return fixtures, nil
}

func cmdDatasheet(_ context.Context, cmd *urfave.Command) error {
	fixtures, err := schedule(cmd)
	if err != nil {
		return err
	}
	cfg := getConfig(cmd)
	if cmd.IsSet(seasonFlag) {
		cfg.Season = int(cmd.Int(seasonFlag))
	}
	out := cfg.Datasheet
	if cmd.IsSet(outputFlag) {
		out = cmd.String(outputFlag)
	}
	if err := report.WriteDatasheet(out, cfg.Season, fixtures); err != nil {
		return fmt.Errorf("writing datasheet: %w", err)
	}
	slog.Info("datasheet written", "path", out, "season", cfg.Season, "games", len(fixtures))
	return nil
}

func cmdGamesheets(_ context.Context, cmd *urfave.Command) error {
	fixtures, err := schedule(cmd)
	if err != nil {
		return err
	}
	out := getConfig(cmd).Gamesheets
	if cmd.IsSet(outputFlag) {
		out = cmd.String(outputFlag)
	}
	if err := report.WriteGamesheets(out, fixtures); err != nil {
		return fmt.Errorf("writing gamesheets: %w", err)
	}
	slog.Info("gamesheets written", "path", out, "games", len(fixtures))
	return nil
}
