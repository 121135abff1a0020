package main

import (
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/atusdev/timeuse-cli/internal/bls"
	"github.com/atusdev/timeuse-cli/internal/fetcher"
	"github.com/atusdev/timeuse-cli/internal/model"
	"github.com/atusdev/timeuse-cli/internal/report"
)

var seriesCmd = &cobra.Command{
	Use:   "series <id>...",
	Short: "Fetch BLS series by ID",
	Long: `Fetches one or more series from the BLS time-series API and prints
their observations. Without year flags only the latest annual value of
each series is fetched.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		startYear, _ := cmd.Flags().GetInt("start-year")
		endYear, _ := cmd.Flags().GetInt("end-year")
		unit, err := parseUnitFlag(cmd)
		if err != nil {
			return err
		}

		client := bls.NewClient(fetcher.NewHTTPFetcher(fetcher.HTTPOptions{MaxRetries: 3}), cfg.BLS)

		var obs []model.Observation
		now := time.Now().UTC()
		if startYear == 0 && endYear == 0 {
			if len(args) == 1 {
				s, err := client.FetchLatest(ctx, args[0])
				if err != nil {
					return eris.Wrapf(err, "series %s", args[0])
				}
				obs = bls.Flatten([]bls.Series{*s}, now)
			} else {
				series, err := client.FetchLatestMany(ctx, args)
				if err != nil {
					return err
				}
				obs = bls.Flatten(series, now)
			}
		} else {
			if endYear == 0 {
				endYear = now.Year()
			}
			if startYear == 0 {
				startYear = endYear - cfg.BLS.YearsBack
			}
			series, err := client.FetchSeries(ctx, args, startYear, endYear)
			if err != nil {
				return err
			}
			obs = bls.Flatten(series, now)
		}

		if len(obs) == 0 {
			return eris.New("series: no observations returned")
		}
		report.Render(os.Stdout, report.Observations(obs, unit))
		return nil
	},
}

func init() {
	seriesCmd.Flags().Int("start-year", 0, "first year to fetch")
	seriesCmd.Flags().Int("end-year", 0, "last year to fetch")
	addUnitFlag(seriesCmd)
	rootCmd.AddCommand(seriesCmd)
}
