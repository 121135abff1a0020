package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atusdev/timeuse-cli/internal/bls"
	"github.com/atusdev/timeuse-cli/internal/dataset"
	"github.com/atusdev/timeuse-cli/internal/fetcher"
	"github.com/atusdev/timeuse-cli/internal/report"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync ATUS datasets from the BLS API",
	Long: `Sync registered datasets into the store.

By default, syncs all datasets due per their annual release schedule.
Use --group to restrict to a group, or --datasets for specific datasets.
Use --force to ignore the schedule.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := zap.L().With(zap.String("command", "sync"))

		opts, err := parseSyncOpts(cmd)
		if err != nil {
			return err
		}
		if yearsBack, _ := cmd.Flags().GetInt("years-back"); yearsBack > 0 {
			cfg.BLS.YearsBack = yearsBack
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		catalog, err := loadCatalog()
		if err != nil {
			return err
		}

		tempDir, err := os.MkdirTemp("", "timeuse-sync-*")
		if err != nil {
			return eris.Wrap(err, "sync: create temp dir")
		}
		defer os.RemoveAll(tempDir)

		f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{MaxRetries: 3})
		deps := dataset.Deps{
			Store:   st,
			BLS:     bls.NewClient(f, cfg.BLS),
			Fetcher: f,
			TempDir: tempDir,
		}
		engine := dataset.NewEngine(deps, dataset.NewRegistry(cfg, catalog))

		log.Info("starting sync",
			zap.Any("group", opts.Group),
			zap.Strings("datasets", opts.Datasets),
			zap.Bool("force", opts.Force),
		)

		stats, err := engine.Run(ctx, opts)
		if err != nil {
			return eris.Wrap(err, "sync")
		}

		fmt.Printf("Sync complete: %d synced, %d skipped, %d failed\n",
			stats.Synced, stats.Skipped, stats.Failed)
		if stats.Failed > 0 {
			return eris.Errorf("sync: %d dataset(s) failed", stats.Failed)
		}
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the sync log",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := st.ListSyncRuns(ctx, limit)
		if err != nil {
			return eris.Wrap(err, "sync status")
		}

		if len(runs) == 0 {
			zap.L().Info("no sync runs found, run 'timeuse-cli sync' first")
			return nil
		}

		report.Render(os.Stdout, report.SyncRuns(runs))
		return nil
	},
}

func init() {
	syncCmd.Flags().String("group", "", "restrict to group: series, reference")
	syncCmd.Flags().String("datasets", "", "comma-separated dataset names (e.g., leisure_summary,lexicon)")
	syncCmd.Flags().Bool("force", false, "ignore the release schedule")
	syncCmd.Flags().Int("years-back", 0, "years of history to request (default from config)")
	syncStatusCmd.Flags().Int("limit", 50, "maximum runs to show")
	syncCmd.AddCommand(syncStatusCmd)
	rootCmd.AddCommand(syncCmd)
}

// parseSyncOpts extracts dataset.RunOpts from the cobra command flags.
func parseSyncOpts(cmd *cobra.Command) (dataset.RunOpts, error) {
	groupStr, _ := cmd.Flags().GetString("group")
	datasetsStr, _ := cmd.Flags().GetString("datasets")
	force, _ := cmd.Flags().GetBool("force")

	opts := dataset.RunOpts{Force: force}

	if groupStr != "" {
		g, err := dataset.ParseGroup(groupStr)
		if err != nil {
			return dataset.RunOpts{}, err
		}
		opts.Group = &g
	}

	if datasetsStr != "" {
		opts.Datasets = strings.Split(datasetsStr, ",")
		for i := range opts.Datasets {
			opts.Datasets[i] = strings.TrimSpace(opts.Datasets[i])
		}
	}

	return opts, nil
}
