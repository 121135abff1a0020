package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/atusdev/timeuse-cli/internal/analysis"
	"github.com/atusdev/timeuse-cli/internal/atus"
	"github.com/atusdev/timeuse-cli/internal/model"
)

func sampleStats() []model.Statistic {
	return []model.Statistic{
		{Name: model.StatTotalLeisure, Demographic: "All ages", Value: 306, Year: 2024, Source: model.SourcePDF},
		{Name: model.StatTV, Demographic: "All ages", Value: 150, Year: 2024, Source: model.SourceAPI, SeriesID: "TUU10101AA01014236"},
	}
}

func TestParseFormat(t *testing.T) {
	for _, tc := range []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"table", FormatTable, false},
		{"csv", FormatCSV, false},
		{"xlsx", FormatXLSX, false},
		{"", FormatTable, false},
		{"json", "", true},
	} {
		t.Run("format "+tc.in, func(t *testing.T) {
			got, err := ParseFormat(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestStatisticsTab(t *testing.T) {
	tab := Statistics(sampleStats(), model.Minutes)
	require.Len(t, tab.Rows, 2)
	assert.Equal(t, "306.0", tab.Rows[0][2])
	assert.Equal(t, "api", tab.Rows[1][4])
	assert.Equal(t, "TUU10101AA01014236", tab.Rows[1][5])

	hours := Statistics(sampleStats(), model.Hours)
	assert.Equal(t, "5.10", hours.Rows[0][2])
	assert.Contains(t, hours.Header[2], "hours")
}

func TestDemographicsTab(t *testing.T) {
	rows := []model.DemographicRow{{
		Demographic:  "Men",
		DayType:      model.AllDays,
		TotalLeisure: 330,
		TV:           162,
		Gaming:       42,
		Year:         2024,
	}}
	tab := Demographics(rows, model.Minutes)
	require.Len(t, tab.Rows, 1)
	assert.Equal(t, "Men", tab.Rows[0][0])
	assert.Equal(t, "all", tab.Rows[0][1])
	assert.Equal(t, "330.0", tab.Rows[0][2])
	assert.Equal(t, "162.0", tab.Rows[0][3])
}

func TestScreenTimesTab(t *testing.T) {
	tab := ScreenTimes([]analysis.ScreenTime{{
		Demographic: "All ages", Year: 2024,
		TV: 150, Gaming: 30, Total: 180,
		TVPercent: 83.3, GamingPercent: 16.7,
	}}, model.Hours)
	require.Len(t, tab.Rows, 1)
	assert.Equal(t, "2.50", tab.Rows[0][1])
	assert.Equal(t, "3.00", tab.Rows[0][3])
	assert.Equal(t, "83.3%", tab.Rows[0][4])
}

func TestFunnelTab(t *testing.T) {
	f, err := analysis.BuildFunnel([]model.Statistic{
		{Name: model.StatTotalLeisure, Value: 306, Year: 2024},
		{Name: model.StatTV, Value: 150, Year: 2024},
		{Name: model.StatGamingAndComp, Value: 26, Year: 2024},
	})
	require.NoError(t, err)

	tab := FunnelStages(f, model.Minutes)
	require.Len(t, tab.Rows, 4)
	assert.Equal(t, "Full day", tab.Rows[0][0])
	assert.Equal(t, "1440.0", tab.Rows[0][1])
	assert.Equal(t, "100.0%", tab.Rows[0][2])
	assert.Contains(t, tab.Title, "2024")
}

func TestSyncRunsTab(t *testing.T) {
	started := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	done := started.Add(12 * time.Second)
	tab := SyncRuns([]model.SyncRun{
		{Dataset: "leisure_summary", Status: model.SyncComplete, RowsSynced: 12, StartedAt: started, CompletedAt: &done},
		{Dataset: "lexicon", Status: model.SyncFailed, StartedAt: started, Error: "timeout"},
	})
	require.Len(t, tab.Rows, 2)
	assert.Equal(t, "complete", tab.Rows[0][1])
	assert.Equal(t, "12", tab.Rows[0][2])
	assert.NotEmpty(t, tab.Rows[0][4])
	assert.Empty(t, tab.Rows[1][4])
	assert.Equal(t, "timeout", tab.Rows[1][5])
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, Statistics(sampleStats(), model.Minutes))

	out := buf.String()
	assert.Contains(t, out, "total_leisure")
	assert.Contains(t, out, "306.0")
	assert.Contains(t, out, "Summary statistics")
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, Statistics(sampleStats(), model.Minutes)))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3) // header + 2 rows
	assert.Equal(t, "Statistic", records[0][0])
	assert.Equal(t, "watching_tv", records[2][0])
}

func TestWriteCSV_MultipleTabs(t *testing.T) {
	var buf bytes.Buffer
	tabs := []*Tab{
		Statistics(sampleStats(), model.Minutes),
		LexiconCodes([]atus.ActivityCode{{Code: "120303", Description: "Television and movies"}}),
	}
	require.NoError(t, WriteCSV(&buf, tabs...))

	out := buf.String()
	assert.Contains(t, out, "Summary statistics")
	assert.Contains(t, out, "Activity coding lexicon")
	assert.Contains(t, out, "120303")
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteXLSX(path, Statistics(sampleStats(), model.Minutes)))

	wb, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, wb.Sheets, 1)
	assert.Equal(t, "Summary statistics", wb.Sheets[0].Name)
	assert.Equal(t, "total_leisure", wb.Sheets[0].Rows[1].Cells[0].String())
}

func TestWrite_XLSXRequiresOut(t *testing.T) {
	err := Write(&bytes.Buffer{}, []*Tab{Statistics(sampleStats(), model.Minutes)}, FormatXLSX, "")
	assert.Error(t, err)
}

func TestWrite_ToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.csv")
	require.NoError(t, Write(nil, []*Tab{Statistics(sampleStats(), model.Minutes)}, FormatCSV, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Statistic,"))
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Sheet1", sheetName(""))
	assert.Equal(t, strings.Repeat("x", 31), sheetName(strings.Repeat("x", 40)))
}
