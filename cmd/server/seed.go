package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/bookmarks/internal/seed"
	"github.com/mmynk/bookmarks/pkg/logging"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the sample accounts and bookmarks",
	Long: `Creates the sample accounts (steve, peter, bruce, clark, rwinch, mfisher,
mpollack, jlong and miguel) with their bookmarks. Existing accounts are skipped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := logging.Setup(cfg.LogLevel)

		store, err := openStore(cfg, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		res, err := seed.Seed(cmd.Context(), store, seed.Samples(), logger)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "created %d accounts and %d bookmarks (%d accounts already present)\n",
			res.AccountsCreated, res.BookmarksCreated, res.AccountsSkipped)
		return nil
	},
}
