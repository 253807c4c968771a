// Package cli implements the space-dashboard CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/space-dashboard/internal/config"
	"github.com/rcliao/space-dashboard/internal/logger"
	"github.com/rcliao/space-dashboard/internal/store"
)

var (
	configPath string
	dbPath     string
	formatFlag string
	debugFlag  bool

	cfg *config.Config
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "space-dashboard",
	Short: "Astronomy dashboard: picture of the day, calendar, moon, and sky",
	Long: "A small astronomy dashboard. Serves a JSON API for the web frontend and offers the same " +
		"views on the terminal. Fetched content is cached on this device.",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		loaded, err := config.Load(configPath)
		if err != nil {
			exitErr("load config", err)
		}
		if dbPath != "" {
			loaded.Cache.Backend = "sqlite"
			loaded.Cache.Path = dbPath
		} else if env := os.Getenv("SPACE_DASHBOARD_DB"); env != "" {
			loaded.Cache.Backend = "sqlite"
			loaded.Cache.Path = env
		}
		if debugFlag {
			loaded.Logger.Level = "debug"
		}
		if formatFlag != "json" && formatFlag != "text" {
			exitErr("format", fmt.Errorf("unknown format %q (use json or text)", formatFlag))
		}
		if err := logger.Init(loaded.Logger, debugFlag); err != nil {
			exitErr("init logger", err)
		}
		cfg = loaded
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: ./config.yaml or ~/.space-dashboard/config.yaml)")
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "SQLite cache path (default: $SPACE_DASHBOARD_DB or ~/.space-dashboard/cache.db)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "text", "Output format: json or text")
	RootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Debug logging")
}

func openStore(cmd *cobra.Command) (store.Store, error) {
	return store.Open(cmd.Context(), cfg.Cache)
}

func jsonOutput() bool {
	return formatFlag == "json"
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
