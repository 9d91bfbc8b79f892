package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	urfave "github.com/urfave/cli/v3"

	"github.com/tanyaschlusser/office-nfl-pool/pkg/config"
)

const (
	configPathFlag = "path"
	forceFlag      = "force"
)

func newConfigCmd() *urfave.Command {
	return &urfave.Command{
		Name:            "config",
		Usage:           "Manage the config file",
		HideHelpCommand: true,
		Commands: []*urfave.Command{
			{
				Name:   "init",
				Usage:  "Write the effective config to a YAML file",
				Action: cmdConfigInit,
				Flags: []urfave.Flag{
					&urfave.StringFlag{Name: configPathFlag, Usage: "Where to write the config", Value: config.DefaultFileName},
					&urfave.BoolFlag{Name: forceFlag, Usage: "Overwrite an existing file (optional, default: false)"},
				},
			},
		},
	}
}

func cmdConfigInit(_ context.Context, cmd *urfave.Command) error {
	path := cmd.String(configPathFlag)
	if !cmd.Bool(forceFlag) {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s exists, use --force to overwrite", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	if err := config.Save(path, getConfig(cmd)); err != nil {
		return err
	}
	slog.Info("config written", "path", path)
	return nil
}
