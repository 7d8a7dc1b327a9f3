package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mmynk/bookmarks/internal/config"
)

// v collects flag bindings; config.LoadWith layers file and env under them.
var v = viper.New()

var configDir string

var rootCmd = &cobra.Command{
	Use:   "bookmarks",
	Short: "Bookmark management REST service",
	Long: `Serves per-user bookmarks over HTTP/JSON.

Configuration is read from <config-dir>/config.yaml and BOOKMARKS_* environment
variables. Running without a subcommand is the same as "bookmarks serve".`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "./configs", "directory containing config.yaml")
	rootCmd.PersistentFlags().String("storage", "", "storage backend: sqlite or badger")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	v.BindPFlag("storage", rootCmd.PersistentFlags().Lookup("storage"))
	v.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(serveCmd, seedCmd)
}

func loadConfig() (config.Config, error) {
	return config.LoadWith(v, configDir)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
