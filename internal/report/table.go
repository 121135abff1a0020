// Package report renders stored time-use data as terminal tables, CSV,
// and XLSX workbooks. Builders produce a format-neutral Tab which the
// render layer serializes.
package report

import (
	"fmt"
	"strconv"

	"github.com/atusdev/timeuse-cli/internal/analysis"
	"github.com/atusdev/timeuse-cli/internal/atus"
	"github.com/atusdev/timeuse-cli/internal/model"
)

// Tab is one rendered table: a title, a header row, and data rows. All
// cells are already formatted strings so every output format agrees on
// precision.
type Tab struct {
	Title  string
	Header []string
	Rows   [][]string
}

// fmtValue formats a stored minutes value in the requested unit.
// Minutes keep one decimal place (the tables publish tenths of an
// hour), hours keep two.
func fmtValue(minutes float64, unit model.Unit) string {
	v := model.Convert(minutes, unit)
	if unit == model.Hours {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func fmtPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', 1, 64) + "%"
}

// Statistics builds the summary statistics table.
func Statistics(stats []model.Statistic, unit model.Unit) *Tab {
	t := &Tab{
		Title:  "Summary statistics",
		Header: []string{"Statistic", "Demographic", "Value (" + string(unit) + ")", "Year", "Source", "Series ID"},
	}
	for _, s := range stats {
		t.Rows = append(t.Rows, []string{
			s.Name,
			s.Demographic,
			fmtValue(s.Value, unit),
			strconv.Itoa(s.Year),
			string(s.Source),
			s.SeriesID,
		})
	}
	return t
}

// Demographics builds the per-demographic leisure activity table.
func Demographics(rows []model.DemographicRow, unit model.Unit) *Tab {
	t := &Tab{
		Title: "Leisure time by demographic (" + string(unit) + " per day)",
		Header: []string{
			"Demographic", "Day type", "Total leisure",
			analysis.ActivityTV, analysis.ActivityGaming,
			analysis.ActivitySocializing, analysis.ActivitySports,
			analysis.ActivityReading, analysis.ActivityRelaxing,
			analysis.ActivityOther, "Year",
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.Demographic,
			string(r.DayType),
			fmtValue(r.TotalLeisure, unit),
			fmtValue(r.TV, unit),
			fmtValue(r.Gaming, unit),
			fmtValue(r.Socializing, unit),
			fmtValue(r.Sports, unit),
			fmtValue(r.Reading, unit),
			fmtValue(r.Relaxing, unit),
			fmtValue(r.Other, unit),
			strconv.Itoa(r.Year),
		})
	}
	return t
}

// Observations builds the raw series observation table.
func Observations(obs []model.Observation, unit model.Unit) *Tab {
	t := &Tab{
		Title:  "Series observations",
		Header: []string{"Series ID", "Title", "Year", "Period", "Value (" + string(unit) + ")", "Latest"},
	}
	for _, o := range obs {
		latest := ""
		if o.Latest {
			latest = "yes"
		}
		t.Rows = append(t.Rows, []string{
			o.SeriesID,
			o.Title,
			strconv.Itoa(o.Year),
			o.Period,
			fmtValue(o.Value, unit),
			latest,
		})
	}
	return t
}

// ScreenTimes builds the combined screen-time table.
func ScreenTimes(sts []analysis.ScreenTime, unit model.Unit) *Tab {
	t := &Tab{
		Title:  "Screen time (" + string(unit) + " per day)",
		Header: []string{"Demographic", "TV", "Games & computer", "Total", "TV share", "Games share", "Year"},
	}
	for _, st := range sts {
		t.Rows = append(t.Rows, []string{
			st.Demographic,
			fmtValue(st.TV, unit),
			fmtValue(st.Gaming, unit),
			fmtValue(st.Total, unit),
			fmtPercent(st.TVPercent),
			fmtPercent(st.GamingPercent),
			strconv.Itoa(st.Year),
		})
	}
	return t
}

// GenderGaps builds the men-versus-women activity table.
func GenderGaps(gaps []analysis.GenderGap, unit model.Unit) *Tab {
	t := &Tab{
		Title:  "Leisure gender gap (" + string(unit) + " per day)",
		Header: []string{"Activity", "Men", "Women", "Gap", "Ratio", "Year"},
	}
	for _, g := range gaps {
		t.Rows = append(t.Rows, []string{
			g.Activity,
			fmtValue(g.Men, unit),
			fmtValue(g.Women, unit),
			fmtValue(g.Gap, unit),
			strconv.FormatFloat(g.Ratio, 'f', 2, 64),
			strconv.Itoa(g.Year),
		})
	}
	return t
}

// FunnelStages builds the day-to-activity funnel table.
func FunnelStages(f *analysis.Funnel, unit model.Unit) *Tab {
	t := &Tab{
		Title:  fmt.Sprintf("Leisure funnel, %d (%s per day)", f.Year, unit),
		Header: []string{"Stage", "Value", "% of day", "% of previous stage"},
	}
	for _, s := range f.Stages {
		t.Rows = append(t.Rows, []string{
			s.Name,
			fmtValue(s.Minutes, unit),
			fmtPercent(s.PercentOfDay),
			fmtPercent(s.PercentOfParent),
		})
	}
	return t
}

// Breakdowns builds per-demographic activity share tables, one row per
// demographic-activity pair.
func Breakdowns(bds []analysis.Breakdown, unit model.Unit) *Tab {
	t := &Tab{
		Title:  "Leisure activity shares",
		Header: []string{"Demographic", "Day type", "Activity", "Value (" + string(unit) + ")", "Share of leisure"},
	}
	for _, b := range bds {
		for _, sh := range b.Shares {
			t.Rows = append(t.Rows, []string{
				b.Demographic,
				string(b.DayType),
				sh.Activity,
				fmtValue(sh.Minutes, unit),
				fmtPercent(sh.Percent),
			})
		}
	}
	return t
}

// SyncRuns builds the sync log table.
func SyncRuns(runs []model.SyncRun) *Tab {
	t := &Tab{
		Title:  "Sync history",
		Header: []string{"Dataset", "Status", "Rows", "Started", "Completed", "Error"},
	}
	for _, r := range runs {
		completed := ""
		if r.CompletedAt != nil {
			completed = r.CompletedAt.Format("2006-01-02 15:04:05")
		}
		t.Rows = append(t.Rows, []string{
			r.Dataset,
			string(r.Status),
			strconv.FormatInt(r.RowsSynced, 10),
			r.StartedAt.Format("2006-01-02 15:04:05"),
			completed,
			r.Error,
		})
	}
	return t
}

// LexiconCodes builds the activity coding lexicon table.
func LexiconCodes(codes []atus.ActivityCode) *Tab {
	t := &Tab{
		Title:  "Activity coding lexicon",
		Header: []string{"Code", "Description"},
	}
	for _, c := range codes {
		t.Rows = append(t.Rows, []string{c.Code, c.Description})
	}
	return t
}
