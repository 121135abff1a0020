package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atusdev/timeuse-cli/internal/model"
)

func sampleRow(demographic string, dayType model.DayType) model.DemographicRow {
	return model.DemographicRow{
		Demographic:  demographic,
		DayType:      dayType,
		TotalLeisure: 300,
		Sports:       20,
		Socializing:  40,
		TV:           150,
		Reading:      15,
		Relaxing:     20,
		Gaming:       30,
		Other:        25,
		Year:         2024,
		Source:       model.SourcePDF,
	}
}

func TestBreakdownRow(t *testing.T) {
	b := BreakdownRow(sampleRow("Total, 15 years and over", model.AllDays))

	assert.Equal(t, "Total, 15 years and over", b.Demographic)
	assert.InDelta(t, 300.0, b.TotalLeisure, 0.001)
	require.Len(t, b.Shares, 7)

	assert.Equal(t, ActivityTV, b.Shares[0].Activity)
	assert.InDelta(t, 50.0, b.Shares[0].Percent, 0.001)

	assert.Equal(t, ActivityGaming, b.Shares[1].Activity)
	assert.InDelta(t, 10.0, b.Shares[1].Percent, 0.001)

	var sum float64
	for _, s := range b.Shares {
		sum += s.Percent
	}
	assert.InDelta(t, 100.0, sum, 0.001)
}

func TestBreakdownRow_ZeroTotal(t *testing.T) {
	b := BreakdownRow(model.DemographicRow{Demographic: "Men", TV: 100})
	for _, s := range b.Shares {
		assert.Zero(t, s.Percent)
	}
}

func TestScreenTimeFromStats(t *testing.T) {
	stats := []model.Statistic{
		{Name: model.StatTV, Demographic: "All ages", Year: 2024, Value: 150},
		{Name: model.StatGamingAndComp, Demographic: "All ages", Year: 2024, Value: 26},
	}

	st, err := ScreenTimeFromStats(stats)
	require.NoError(t, err)
	assert.InDelta(t, 176.0, st.Total, 0.001)
	assert.InDelta(t, 150.0/176.0*100, st.TVPercent, 0.001)
	assert.InDelta(t, 26.0/176.0*100, st.GamingPercent, 0.001)
	assert.Equal(t, 2024, st.Year)
}

func TestScreenTimeFromStats_ComponentFallback(t *testing.T) {
	stats := []model.Statistic{
		{Name: model.StatTV, Year: 2024, Value: 150},
		{Name: model.StatGaming, Year: 2024, Value: 20},
		{Name: model.StatComputer, Year: 2024, Value: 10},
	}

	st, err := ScreenTimeFromStats(stats)
	require.NoError(t, err)
	assert.InDelta(t, 30.0, st.Gaming, 0.001)
	assert.InDelta(t, 180.0, st.Total, 0.001)
}

func TestScreenTimeFromStats_MissingTV(t *testing.T) {
	_, err := ScreenTimeFromStats([]model.Statistic{
		{Name: model.StatGamingAndComp, Value: 26},
	})
	assert.Error(t, err)
}

func TestScreenTimeFromRow(t *testing.T) {
	st := ScreenTimeFromRow(sampleRow("Men", model.AllDays))
	assert.InDelta(t, 180.0, st.Total, 0.001)
	assert.Equal(t, "Men", st.Demographic)
}

func TestGenderGapFromStats(t *testing.T) {
	stats := []model.Statistic{
		{Name: model.StatMenLeisure, Year: 2024, Value: 330},
		{Name: model.StatWomenLeisure, Year: 2024, Value: 288},
	}

	g, err := GenderGapFromStats(stats)
	require.NoError(t, err)
	assert.InDelta(t, 42.0, g.Gap, 0.001)
	assert.InDelta(t, 330.0/288.0, g.Ratio, 0.001)
}

func TestGenderGapFromStats_LatestYearWins(t *testing.T) {
	stats := []model.Statistic{
		{Name: model.StatMenLeisure, Demographic: "Men", Year: 2024, Value: 330},
		{Name: model.StatWomenLeisure, Demographic: "Women", Year: 2024, Value: 288},
		{Name: model.StatMenLeisure, Demographic: "Men", Year: 2023, Value: 324},
		{Name: model.StatWomenLeisure, Demographic: "Women", Year: 2023, Value: 282},
	}

	g, err := GenderGapFromStats(stats)
	require.NoError(t, err)
	assert.Equal(t, 2024, g.Year)
	assert.InDelta(t, 42.0, g.Gap, 0.001)
}

func TestGenderGapFromStats_Missing(t *testing.T) {
	_, err := GenderGapFromStats([]model.Statistic{
		{Name: model.StatMenLeisure, Value: 330},
	})
	assert.Error(t, err)
}

func TestGenderGapsByActivity(t *testing.T) {
	men := sampleRow("Men", model.AllDays)
	women := sampleRow("Women", model.AllDays)
	women.TotalLeisure = 280
	women.Gaming = 18

	gaps, err := GenderGapsByActivity([]model.DemographicRow{men, women}, model.AllDays)
	require.NoError(t, err)
	require.Len(t, gaps, 8)

	assert.Equal(t, "Total leisure", gaps[0].Activity)
	assert.InDelta(t, 20.0, gaps[0].Gap, 0.001)

	var gaming *GenderGap
	for i := range gaps {
		if gaps[i].Activity == ActivityGaming {
			gaming = &gaps[i]
		}
	}
	require.NotNil(t, gaming)
	assert.InDelta(t, 12.0, gaming.Gap, 0.001)
}

func TestGenderGapsByActivity_WrongDayType(t *testing.T) {
	rows := []model.DemographicRow{
		sampleRow("Men", model.Weekday),
		sampleRow("Women", model.Weekday),
	}
	_, err := GenderGapsByActivity(rows, model.Weekend)
	assert.Error(t, err)
}

func TestBuildFunnel(t *testing.T) {
	stats := []model.Statistic{
		{Name: model.StatTotalLeisure, Year: 2024, Value: 306},
		{Name: model.StatTV, Year: 2024, Value: 150},
		{Name: model.StatGamingAndComp, Year: 2024, Value: 26},
	}

	f, err := BuildFunnel(stats)
	require.NoError(t, err)
	require.Len(t, f.Stages, 4)

	assert.Equal(t, "Full day", f.Stages[0].Name)
	assert.InDelta(t, 1440.0, f.Stages[0].Minutes, 0.001)

	assert.Equal(t, "Leisure time", f.Stages[1].Name)
	assert.InDelta(t, 306.0/1440.0*100, f.Stages[1].PercentOfDay, 0.001)
	assert.InDelta(t, 306.0/1440.0*100, f.Stages[1].PercentOfParent, 0.001)

	assert.Equal(t, "Screen time", f.Stages[2].Name)
	assert.InDelta(t, 176.0, f.Stages[2].Minutes, 0.001)
	assert.InDelta(t, 176.0/306.0*100, f.Stages[2].PercentOfParent, 0.001)

	assert.Equal(t, ActivityGaming, f.Stages[3].Name)
	assert.InDelta(t, 26.0/176.0*100, f.Stages[3].PercentOfParent, 0.001)
}

func TestBuildFunnel_LatestYearWins(t *testing.T) {
	// Store listings carry every stored year plus per-group rows such
	// as the by-age leisure statistics. The funnel must come from the
	// most recent year's population-wide figures only.
	stats := []model.Statistic{
		{Name: model.StatTotalLeisure, Demographic: model.AllAges, Year: 2024, Value: 306},
		{Name: model.StatTV, Demographic: model.AllAges, Year: 2024, Value: 150},
		{Name: model.StatGamingAndComp, Demographic: model.AllAges, Year: 2024, Value: 26},
		{Name: model.StatTotalLeisure, Demographic: "15 to 24 years", Year: 2024, Value: 312},
		{Name: model.StatTotalLeisure, Demographic: model.AllAges, Year: 2023, Value: 298},
		{Name: model.StatTV, Demographic: model.AllAges, Year: 2023, Value: 147},
		{Name: model.StatGamingAndComp, Demographic: model.AllAges, Year: 2023, Value: 24},
	}

	f, err := BuildFunnel(stats)
	require.NoError(t, err)
	assert.Equal(t, 2024, f.Year)
	assert.InDelta(t, 306.0, f.Stages[1].Minutes, 0.001)
	assert.InDelta(t, 176.0, f.Stages[2].Minutes, 0.001)
}

func TestScreenTimeFromStats_LatestYearWins(t *testing.T) {
	stats := []model.Statistic{
		{Name: model.StatTV, Demographic: model.AllAges, Year: 2024, Value: 150},
		{Name: model.StatGamingAndComp, Demographic: model.AllAges, Year: 2024, Value: 26},
		{Name: model.StatTV, Demographic: model.AllAges, Year: 2023, Value: 147},
		{Name: model.StatGamingAndComp, Demographic: model.AllAges, Year: 2023, Value: 24},
	}

	st, err := ScreenTimeFromStats(stats)
	require.NoError(t, err)
	assert.Equal(t, 2024, st.Year)
	assert.InDelta(t, 176.0, st.Total, 0.001)
}

func TestBuildFunnel_MissingStat(t *testing.T) {
	_, err := BuildFunnel([]model.Statistic{
		{Name: model.StatTV, Value: 150},
	})
	assert.Error(t, err)
}
