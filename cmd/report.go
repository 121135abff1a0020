package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atusdev/timeuse-cli/internal/analysis"
	"github.com/atusdev/timeuse-cli/internal/model"
	"github.com/atusdev/timeuse-cli/internal/report"
	"github.com/atusdev/timeuse-cli/internal/store"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render reports over stored data",
}

var reportSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summary statistics, leisure funnel, and gender gap",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		format, out, unit, err := parseOutputFlags(cmd)
		if err != nil {
			return err
		}
		year, _ := cmd.Flags().GetInt("year")
		source, _ := cmd.Flags().GetString("source")

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		stats, err := st.ListStatistics(ctx, store.StatisticFilter{
			Year:   year,
			Source: model.Source(source),
		})
		if err != nil {
			return eris.Wrap(err, "report summary")
		}
		if len(stats) == 0 {
			return eris.New("report: no statistics stored, run 'sync' or 'extract' first")
		}

		tabs := []*report.Tab{report.Statistics(stats, unit)}
		if funnel, err := analysis.BuildFunnel(stats); err == nil {
			tabs = append(tabs, report.FunnelStages(funnel, unit))
		} else {
			zap.L().Debug("funnel unavailable", zap.Error(err))
		}
		if gap, err := analysis.GenderGapFromStats(stats); err == nil {
			tabs = append(tabs, report.GenderGaps([]analysis.GenderGap{*gap}, unit))
		}

		return report.Write(os.Stdout, tabs, format, out)
	},
}

var reportDemographicsCmd = &cobra.Command{
	Use:   "demographics",
	Short: "Leisure time by demographic group",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		format, out, unit, err := parseOutputFlags(cmd)
		if err != nil {
			return err
		}
		year, _ := cmd.Flags().GetInt("year")
		dayType, _ := cmd.Flags().GetString("day-type")
		demographic, _ := cmd.Flags().GetString("demographic")
		shares, _ := cmd.Flags().GetBool("shares")

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		rows, err := st.ListDemographics(ctx, store.DemographicFilter{
			Demographic: demographic,
			DayType:     model.DayType(dayType),
			Year:        year,
		})
		if err != nil {
			return eris.Wrap(err, "report demographics")
		}
		if len(rows) == 0 {
			return eris.New("report: no demographic rows stored, run 'extract' first")
		}

		tabs := []*report.Tab{report.Demographics(rows, unit)}
		if shares {
			tabs = append(tabs, report.Breakdowns(analysis.BreakdownRows(rows), unit))
		}
		if gaps, err := analysis.GenderGapsByActivity(rows, model.AllDays); err == nil {
			tabs = append(tabs, report.GenderGaps(gaps, unit))
		}

		return report.Write(os.Stdout, tabs, format, out)
	},
}

var reportScreenTimeCmd = &cobra.Command{
	Use:   "screen-time",
	Short: "Combined TV and games-and-computer time",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		format, out, unit, err := parseOutputFlags(cmd)
		if err != nil {
			return err
		}
		year, _ := cmd.Flags().GetInt("year")

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		rows, err := st.ListDemographics(ctx, store.DemographicFilter{
			DayType: model.AllDays,
			Year:    year,
		})
		if err != nil {
			return eris.Wrap(err, "report screen-time")
		}

		var sts []analysis.ScreenTime
		for _, row := range rows {
			sts = append(sts, analysis.ScreenTimeFromRow(row))
		}

		// Fall back to the summary statistics when no table rows exist.
		if len(sts) == 0 {
			stats, err := st.ListStatistics(ctx, store.StatisticFilter{Year: year})
			if err != nil {
				return eris.Wrap(err, "report screen-time")
			}
			combined, err := analysis.ScreenTimeFromStats(stats)
			if err != nil {
				return eris.Wrap(err, "report: no screen time data stored")
			}
			sts = append(sts, *combined)
		}

		return report.Write(os.Stdout, []*report.Tab{report.ScreenTimes(sts, unit)}, format, out)
	},
}

func init() {
	for _, c := range []*cobra.Command{reportSummaryCmd, reportDemographicsCmd, reportScreenTimeCmd} {
		c.Flags().String("format", "table", "output format: table, csv, xlsx")
		c.Flags().String("out", "", "output file (required for xlsx)")
		c.Flags().Int("year", 0, "restrict to a survey year")
		addUnitFlag(c)
		reportCmd.AddCommand(c)
	}
	reportSummaryCmd.Flags().String("source", "", "restrict to a source: api, pdf")
	reportDemographicsCmd.Flags().String("day-type", "", "restrict to a day type: all, weekday, weekend")
	reportDemographicsCmd.Flags().String("demographic", "", "restrict to one demographic label")
	reportDemographicsCmd.Flags().Bool("shares", false, "include per-activity shares of leisure")
	rootCmd.AddCommand(reportCmd)
}

// addUnitFlag registers the shared --unit flag.
func addUnitFlag(c *cobra.Command) {
	c.Flags().String("unit", "", "display unit: minutes, hours (default from config)")
}

// parseUnitFlag resolves --unit against the configured default.
func parseUnitFlag(cmd *cobra.Command) (model.Unit, error) {
	s, _ := cmd.Flags().GetString("unit")
	if s == "" {
		s = cfg.Report.Unit
	}
	if s == "" {
		return model.Minutes, nil
	}
	unit, err := model.ParseUnit(s)
	if err != nil {
		return "", eris.Wrap(err, "report: unit flag")
	}
	return unit, nil
}

// parseOutputFlags resolves the shared format, out, and unit flags.
func parseOutputFlags(cmd *cobra.Command) (report.Format, string, model.Unit, error) {
	formatStr, _ := cmd.Flags().GetString("format")
	format, err := report.ParseFormat(formatStr)
	if err != nil {
		return "", "", "", err
	}
	out, _ := cmd.Flags().GetString("out")
	unit, err := parseUnitFlag(cmd)
	if err != nil {
		return "", "", "", err
	}
	return format, out, unit, nil
}
