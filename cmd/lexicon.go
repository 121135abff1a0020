package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atusdev/timeuse-cli/internal/atus"
	"github.com/atusdev/timeuse-cli/internal/dataset"
	"github.com/atusdev/timeuse-cli/internal/fetcher"
	"github.com/atusdev/timeuse-cli/internal/report"
)

var lexiconCmd = &cobra.Command{
	Use:   "lexicon [file.xlsx|file.csv]",
	Short: "Load the ATUS Activity Coding Lexicon",
	Long: `Loads activity codes from a local lexicon workbook, or downloads the
official one with --download, and stores them for lookups.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		download, _ := cmd.Flags().GetBool("download")

		var (
			codes []atus.ActivityCode
			err   error
		)
		switch {
		case download:
			tempDir, mkErr := os.MkdirTemp("", "timeuse-lexicon-*")
			if mkErr != nil {
				return eris.Wrap(mkErr, "lexicon: create temp dir")
			}
			defer os.RemoveAll(tempDir)

			f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{MaxRetries: 3})
			codes, err = dataset.FetchLexiconCodes(ctx, f, cfg.Lexicon.URL, tempDir)
		case len(args) == 1:
			codes, err = dataset.LoadLexiconFile(ctx, args[0])
		default:
			return eris.New("lexicon: pass a file or use --download")
		}
		if err != nil {
			return err
		}
		if len(codes) == 0 {
			return eris.New("lexicon: no activity codes found")
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		n, err := st.UpsertLexicon(ctx, codes)
		if err != nil {
			return eris.Wrap(err, "lexicon: store codes")
		}

		zap.L().Info("lexicon loaded", zap.Int64("codes", n))
		fmt.Printf("Loaded %d activity codes\n", n)
		return nil
	},
}

var lexiconSearchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search stored activity codes by description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		codes, err := st.ListLexicon(ctx)
		if err != nil {
			return eris.Wrap(err, "lexicon search")
		}
		if len(codes) == 0 {
			return eris.New("lexicon: nothing stored, load the lexicon first")
		}

		matches := atus.NewLexicon(codes).Search(args[0])
		if len(matches) == 0 {
			fmt.Printf("No activity codes match %q\n", args[0])
			return nil
		}

		report.Render(os.Stdout, report.LexiconCodes(matches))
		return nil
	},
}

func init() {
	lexiconCmd.Flags().Bool("download", false, "download the official lexicon workbook")
	lexiconCmd.AddCommand(lexiconSearchCmd)
	rootCmd.AddCommand(lexiconCmd)
}
