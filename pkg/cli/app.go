// Package cli wires the nflpool commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	urfave "github.com/urfave/cli/v3"

	"github.com/tanyaschlusser/office-nfl-pool/pkg/config"
	"github.com/tanyaschlusser/office-nfl-pool/pkg/logging"
)

const (
	appName      = "nflpool"
	appConfigKey = "app-config"
)

var (
	version = "v0.0.1-default"
	commit  = ""
)

// Flag names shared by several commands.
const (
	configFlag    = "config"
	debugFlag     = "debug"
	logLevelFlag  = "log-level"
	historyFlag   = "history"
	datasheetFlag = "datasheet"
	seasonFlag    = "season"
	seedFlag      = "seed"
	outputFlag    = "output"
	dbFlag        = "db"
)

// NewApp returns the root command. Output goes to w. Flags carry parse
// state, so every call builds a fresh tree.
func NewApp(w io.Writer) *urfave.Command {
	return &urfave.Command{
		Name:            appName,
		Version:         fmt.Sprintf("%s (%s)", version, commit),
		Usage:           "Predict the winners of this week's NFL games for the office pool",
		HideHelpCommand: true,
		Writer:          w,
		ErrWriter:       w,
		Metadata:        map[string]interface{}{},
		Flags: []urfave.Flag{
			&urfave.StringFlag{
				Name:    configFlag,
				Aliases: []string{"c"},
				Usage:   fmt.Sprintf("Path to the YAML config file (optional, default: ./%s when present)", config.DefaultFileName),
			},
			&urfave.BoolFlag{
				Name:  debugFlag,
				Usage: "Prints verbose logs (optional, default: false)",
			},
			&urfave.StringFlag{
				Name:  logLevelFlag,
				Usage: "Log level [debug, info, warn, error]",
				Value: "info",
			},
		},
		Commands: []*urfave.Command{
			newPredictCmd(),
			newEvaluateCmd(),
			newDatasheetCmd(),
			newGamesheetsCmd(),
			newHistoryCmd(),
			newConfigCmd(),
		},
		Before: func(ctx context.Context, cmd *urfave.Command) (context.Context, error) {
			level := cmd.String(logLevelFlag)
			if cmd.Bool(debugFlag) {
				level = "debug"
			}
			logging.SetDefaultCLILogger(level)

			cfg, err := loadConfig(cmd.String(configFlag))
			if err != nil {
				return ctx, err
			}
			cmd.Metadata[appConfigKey] = cfg
			return ctx, nil
		},
		Action: cmdPredict,
	}
}

func stringFlag(name, usage string) *urfave.StringFlag {
	return &urfave.StringFlag{Name: name, Usage: usage}
}

func historyFlags() []urfave.Flag {
	return []urfave.Flag{
		stringFlag(historyFlag, "Path to the historical by-team CSV"),
		stringFlag(datasheetFlag, "Path to this season's datasheet (xlsx or csv)"),
		&urfave.IntFlag{Name: seasonFlag, Usage: "Season the datasheet belongs to"},
		&urfave.IntFlag{Name: seedFlag, Usage: "Random seed of the models"},
	}
}

// loadConfig reads path, or the default file in the working directory
// when path is empty and the file exists.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if _, err := os.Stat(config.DefaultFileName); err == nil {
			path = config.DefaultFileName
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("checking %s: %w", config.DefaultFileName, err)
		}
	}
	if path != "" {
		slog.Debug("loading config", "path", path)
	}
	return config.Load(path)
}

func getConfig(cmd *urfave.Command) *config.Config {
	return cmd.Root().Metadata[appConfigKey].(*config.Config)
}

func writer(cmd *urfave.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}
