package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atusdev/timeuse-cli/internal/model"
	"github.com/atusdev/timeuse-cli/internal/ocr"
	"github.com/atusdev/timeuse-cli/internal/pdfreport"
	"github.com/atusdev/timeuse-cli/internal/report"
)

var extractCmd = &cobra.Command{
	Use:   "extract <report.pdf>",
	Short: "Extract statistics from an ATUS news-release PDF",
	Long: `Runs the PDF extraction pipeline: key summary statistics from the
release text, per-demographic leisure rows from Table 11A, and
weekday/weekend rows from Table 11B. Results are stored and printed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pdfPath := args[0]
		log := zap.L().With(zap.String("command", "extract"))

		year, _ := cmd.Flags().GetInt("year")
		if year == 0 {
			year = time.Now().Year() - 1 // releases cover the prior survey year
		}
		if cmd.Flags().Changed("strict") {
			cfg.Extract.Strict, _ = cmd.Flags().GetBool("strict")
		}
		if p, _ := cmd.Flags().GetInt("table-a-page"); p > 0 {
			cfg.Extract.Table11APage = p
		}
		if p, _ := cmd.Flags().GetInt("table-b-page"); p > 0 {
			cfg.Extract.Table11BPage = p
		}

		ex, err := ocr.NewExtractor(cfg.OCR)
		if err != nil {
			return err
		}
		pipeline := pdfreport.NewPipeline(ex, cfg.Extract)

		if page, _ := cmd.Flags().GetInt("activity-page"); page > 0 {
			durations, err := pipeline.ActivityTable(ctx, pdfPath, page)
			if err != nil {
				return eris.Wrapf(err, "extract %s page %d", pdfPath, page)
			}
			report.Render(os.Stdout, activityTab(durations))
			return nil
		}

		log.Info("extracting", zap.String("pdf", pdfPath), zap.Int("year", year))
		result, err := pipeline.Run(ctx, pdfPath, year)
		if err != nil {
			return eris.Wrapf(err, "extract %s", pdfPath)
		}

		for _, name := range result.Coverage.Missing() {
			log.Warn("summary statistic not found", zap.String("statistic", name))
		}

		dryRun, _ := cmd.Flags().GetBool("dry-run")
		if !dryRun {
			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			nStats, err := st.UpsertStatistics(ctx, result.Statistics)
			if err != nil {
				return eris.Wrap(err, "extract: store statistics")
			}
			nRows, err := st.UpsertDemographics(ctx, result.Demographics)
			if err != nil {
				return eris.Wrap(err, "extract: store demographics")
			}
			log.Info("stored extraction",
				zap.Int64("statistics", nStats),
				zap.Int64("demographics", nRows),
			)
		}

		report.Render(os.Stdout, report.Statistics(result.Statistics, model.Minutes))
		report.Render(os.Stdout, report.Demographics(result.Demographics, model.Minutes))
		fmt.Printf("Extracted %d statistics and %d demographic rows from %s\n",
			len(result.Statistics), len(result.Demographics), pdfPath)
		return nil
	},
}

// activityTab renders h:mm activity rows parsed from an arbitrary page.
func activityTab(durations []pdfreport.ActivityDuration) *report.Tab {
	t := &report.Tab{
		Title:  "Activity durations",
		Header: []string{"Activity", "Minutes per day"},
	}
	for _, d := range durations {
		t.Rows = append(t.Rows, []string{d.Activity, strconv.FormatFloat(d.Minutes, 'f', 0, 64)})
	}
	return t
}

func init() {
	extractCmd.Flags().Int("year", 0, "survey year the release covers (default: last year)")
	extractCmd.Flags().Int("activity-page", 0, "parse an h:mm activity table from this page and exit")
	extractCmd.Flags().Bool("strict", false, "fail when an expected summary statistic is missing")
	extractCmd.Flags().Int("table-a-page", 0, "page of Table 11A (default from config)")
	extractCmd.Flags().Int("table-b-page", 0, "page of Table 11B (default from config)")
	extractCmd.Flags().Bool("dry-run", false, "print without storing")
	rootCmd.AddCommand(extractCmd)
}
