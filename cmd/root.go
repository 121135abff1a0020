package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atusdev/timeuse-cli/internal/atus"
	"github.com/atusdev/timeuse-cli/internal/config"
	"github.com/atusdev/timeuse-cli/internal/store"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "timeuse-cli",
	Short: "American Time Use Survey data tool",
	Long:  "Fetches ATUS leisure statistics from the BLS time-series API, extracts figures from the annual news-release PDF, and renders reports over the combined store.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// openStore opens the configured store and brings its schema current.
func openStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

// loadCatalog loads the series catalog, honoring a configured override.
func loadCatalog() (*atus.Catalog, error) {
	if cfg.BLS.CatalogPath != "" {
		return atus.LoadCatalog(cfg.BLS.CatalogPath)
	}
	return atus.DefaultCatalog()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
