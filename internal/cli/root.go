package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"github.com/kevharv/stockscope/config"
)

// RootConfig holds the persistent flag values shared by every subcommand.
type RootConfig struct {
	ConfigPath string
	CacheDir   string
	DBPath     string
	EventsDB   string
	LogLevel   string

	cfg *config.Config
}

// Config returns the effective configuration: the file named by --config
// when given, the defaults otherwise. Loaded once per invocation.
func (rc *RootConfig) Config() (*config.Config, error) {
	if rc.cfg != nil {
		return rc.cfg, nil
	}
	if rc.ConfigPath == "" {
		rc.cfg = config.Default()
		return rc.cfg, nil
	}
	cfg, err := config.LoadFromFile(rc.ConfigPath)
	if err != nil {
		return nil, err
	}
	rc.cfg = cfg
	return rc.cfg, nil
}

func NewRootCmd() *cobra.Command {
	rc := &RootConfig{}

	cmd := &cobra.Command{
		Use:           "stockscope",
		Short:         "Stockscope — price analysis, event scoring, and backtesting",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global / persistent flags
	cmd.PersistentFlags().StringVar(&rc.ConfigPath, "config", "", "Path to config file (optional)")
	cmd.PersistentFlags().StringVar(&rc.CacheDir, "cache-dir", "./cache", "Price cache directory")
	cmd.PersistentFlags().StringVar(&rc.DBPath, "db", "./journal.db", "SQLite journal database")
	cmd.PersistentFlags().StringVar(&rc.EventsDB, "events-db", "./events.db", "Event database file")
	cmd.PersistentFlags().StringVar(&rc.LogLevel, "log-level", "info", "Log level: debug|info|warn|error")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// .env is optional.
		_ = godotenv.Load()
		log.DefaultLogger.Level = log.ParseLevel(rc.LogLevel)
		return nil
	}

	// Subcommands
	cmd.AddCommand(
		newFetchCmd(rc),
		newAnalyzeCmd(rc),
		newBacktestCmd(rc),
		newEventsCmd(rc),
		newWatchCmd(rc),
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("stockscope (dev)")
		},
	})

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
