package main

import (
	"fmt"

	"github.com/samvad-hq/quake-harvester/internal/storage"
	"github.com/samvad-hq/quake-harvester/pkg/feeds"
	"github.com/spf13/cobra"
)

func newSnapshotCmd(env *cliEnv) *cobra.Command {
	var (
		dbPath string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "snapshot <feed-id>",
		Short: "Print the last list the harvester stored for a feed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			label, err := feedLabel(env.cfg.FeedsFile, args[0])
			if err != nil {
				return err
			}

			path := dbPath
			if path == "" {
				path = env.cfg.BBoltPath
			}

			store, err := storage.NewStore("bbolt", path, storage.Options{ReadOnly: true})
			if err != nil {
				return err
			}
			defer store.Close()

			snap, found, err := store.LoadSnapshot(args[0])
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("no snapshot stored for feed %q", args[0])
			}

			out := cmd.OutOrStdout()
			if !asJSON {
				fmt.Fprintf(out, "Feed %s, saved %s\n", label, snap.SavedAt.In(env.loc).Format("Jan 02, 2006 3:04 PM MST"))
			}
			return renderQuakes(out, snap.Earthquakes, env.loc, asJSON)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "bbolt file (default bbolt_path)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

// feedLabel names a feed by id and configured name. A feeds file that cannot
// be read leaves the bare id; a readable one must list the feed.
func feedLabel(feedsFile, id string) (string, error) {
	reg, err := feeds.LoadRegistry(feedsFile)
	if err != nil {
		return id, nil
	}
	f, ok := reg.ByID(id)
	if !ok {
		return "", fmt.Errorf("feed %q is not listed in %s", id, feedsFile)
	}
	return fmt.Sprintf("%s (%s)", f.ID, f.Name), nil
}
