package main

import (
	"fmt"

	"github.com/samvad-hq/quake-harvester/internal/domain"
	"github.com/samvad-hq/quake-harvester/pkg/feeds"
	"github.com/samvad-hq/quake-harvester/pkg/httpclient"
	"github.com/samvad-hq/quake-harvester/pkg/quakes"
	"github.com/spf13/cobra"
)

type listOptions struct {
	url     string
	baseURL string
	minMag  float64
	limit   int
	asJSON  bool
	strict  bool
}

func newListCmd(env *cliEnv) *cobra.Command {
	opts := listOptions{}
	defaults := quakes.DefaultParams()

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Fetch the feed once and print the earthquakes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			target := opts.url
			if target == "" {
				built, err := quakes.BuildURL(opts.baseURL, quakes.Params{
					MinMagnitude: opts.minMag,
					Limit:        opts.limit,
					OrderBy:      defaults.OrderBy,
				})
				if err != nil {
					return err
				}
				target = built
			}

			client := httpclient.NewTimeoutClient(httpclient.Timeouts{
				Connect: env.cfg.FetchConnectTimeout,
				Read:    env.cfg.FetchReadTimeout,
			})

			var list []domain.Earthquake
			if opts.strict {
				var err error
				list, err = quakes.Query(cmd.Context(), client, target, feeds.Headers(feeds.Feed{}))
				if err != nil {
					return fmt.Errorf("%s: %w", quakes.Outcome(err), err)
				}
			} else {
				list = quakes.Load(cmd.Context(), client, target)
			}

			return renderQuakes(cmd.OutOrStdout(), list, env.loc, opts.asJSON)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.url, "url", "", "full feed URL (overrides the query flags)")
	f.StringVar(&opts.baseURL, "base-url", quakes.DefaultBaseURL, "FDSN event query endpoint")
	f.Float64Var(&opts.minMag, "min-mag", defaults.MinMagnitude, "minimum magnitude")
	f.IntVar(&opts.limit, "limit", defaults.Limit, "maximum number of events")
	f.BoolVar(&opts.asJSON, "json", false, "print JSON instead of a table")
	f.BoolVar(&opts.strict, "strict", false, "fail on network, status and parse errors instead of printing an empty list")
	return cmd
}
