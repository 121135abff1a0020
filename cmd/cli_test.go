package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atusdev/timeuse-cli/internal/config"
	"github.com/atusdev/timeuse-cli/internal/dataset"
	"github.com/atusdev/timeuse-cli/internal/model"
	"github.com/atusdev/timeuse-cli/internal/report"
)

func newFlagCmd(t *testing.T, register func(*cobra.Command), args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "test"}
	register(c)
	require.NoError(t, c.ParseFlags(args))
	return c
}

func registerSyncFlags(c *cobra.Command) {
	c.Flags().String("group", "", "")
	c.Flags().String("datasets", "", "")
	c.Flags().Bool("force", false, "")
}

func TestParseSyncOpts(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		opts, err := parseSyncOpts(newFlagCmd(t, registerSyncFlags))
		require.NoError(t, err)
		assert.Nil(t, opts.Group)
		assert.Empty(t, opts.Datasets)
		assert.False(t, opts.Force)
	})

	t.Run("group and datasets", func(t *testing.T) {
		cmd := newFlagCmd(t, registerSyncFlags,
			"--group", "series", "--datasets", "leisure_summary, lexicon", "--force")
		opts, err := parseSyncOpts(cmd)
		require.NoError(t, err)
		require.NotNil(t, opts.Group)
		assert.Equal(t, dataset.GroupSeries, *opts.Group)
		assert.Equal(t, []string{"leisure_summary", "lexicon"}, opts.Datasets)
		assert.True(t, opts.Force)
	})

	t.Run("bad group", func(t *testing.T) {
		_, err := parseSyncOpts(newFlagCmd(t, registerSyncFlags, "--group", "nonsense"))
		assert.Error(t, err)
	})
}

func registerOutputFlags(c *cobra.Command) {
	c.Flags().String("format", "table", "")
	c.Flags().String("out", "", "")
	addUnitFlag(c)
}

func TestParseOutputFlags(t *testing.T) {
	cfg = &config.Config{Report: config.ReportConfig{Unit: "minutes"}}

	t.Run("defaults", func(t *testing.T) {
		format, out, unit, err := parseOutputFlags(newFlagCmd(t, registerOutputFlags))
		require.NoError(t, err)
		assert.Equal(t, report.FormatTable, format)
		assert.Empty(t, out)
		assert.Equal(t, model.Minutes, unit)
	})

	t.Run("explicit", func(t *testing.T) {
		cmd := newFlagCmd(t, registerOutputFlags,
			"--format", "xlsx", "--out", "report.xlsx", "--unit", "hours")
		format, out, unit, err := parseOutputFlags(cmd)
		require.NoError(t, err)
		assert.Equal(t, report.FormatXLSX, format)
		assert.Equal(t, "report.xlsx", out)
		assert.Equal(t, model.Hours, unit)
	})

	t.Run("config default unit", func(t *testing.T) {
		cfg = &config.Config{Report: config.ReportConfig{Unit: "hours"}}
		_, _, unit, err := parseOutputFlags(newFlagCmd(t, registerOutputFlags))
		require.NoError(t, err)
		assert.Equal(t, model.Hours, unit)
	})

	t.Run("bad format", func(t *testing.T) {
		_, _, _, err := parseOutputFlags(newFlagCmd(t, registerOutputFlags, "--format", "pdf"))
		assert.Error(t, err)
	})

	t.Run("bad unit", func(t *testing.T) {
		_, _, _, err := parseOutputFlags(newFlagCmd(t, registerOutputFlags, "--unit", "days"))
		assert.Error(t, err)
	})
}

func TestCommandTree(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"sync", "extract", "series", "report", "lexicon", "serve"} {
		assert.True(t, names[want], "missing command %s", want)
	}

	sub := map[string]bool{}
	for _, c := range reportCmd.Commands() {
		sub[c.Name()] = true
	}
	for _, want := range []string{"summary", "demographics", "screen-time"} {
		assert.True(t, sub[want], "missing report subcommand %s", want)
	}
}
