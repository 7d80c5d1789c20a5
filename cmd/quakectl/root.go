package main

import (
	"fmt"
	"time"

	"github.com/samvad-hq/quake-harvester/internal/config"
	"github.com/spf13/cobra"
)

// cliEnv carries what every subcommand resolves from config and global flags.
type cliEnv struct {
	cfg *config.Config
	loc *time.Location
}

func newRootCmd() *cobra.Command {
	env := &cliEnv{}
	var tz string

	root := &cobra.Command{
		Use:          "quakectl",
		Short:        "Inspect USGS earthquake feeds and harvester snapshots",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			env.cfg = cfg
			env.loc = cfg.DisplayLocation
			if tz != "" {
				loc, err := time.LoadLocation(tz)
				if err != nil {
					return fmt.Errorf("invalid --tz: %w", err)
				}
				env.loc = loc
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&tz, "tz", "", "IANA time zone for dates and times (default display_timezone)")

	root.AddCommand(newListCmd(env), newSnapshotCmd(env))
	return root
}
