package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradejournal/config"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/logging"
)

var (
	cfgFile string
	envFile string
	dbPath  string

	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "tradejournal",
	Short: "Trade journal with P&L statistics and risk alerts",
	Long: `Tradejournal records stock and crypto trades and turns them into
statistics: P&L by day, top symbols, win rate, average P&L and drawdown.
It also evaluates per-student risk metrics against alert thresholds.

Settings come from defaults, then the --config file, then TJ_* environment
variables (a .env file is loaded first when present).

Examples:
  tradejournal serve --config tradejournal.yaml
  tradejournal trades import trades.csv --user alice
  tradejournal stats --user alice --days 30
  tradejournal alerts metrics.yaml --severity red`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading TJ_* variables")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "SQLite journal path (overrides store settings)")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	c, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if dbPath != "" {
		c.Store = config.StoreConfig{Type: "sqlite", Path: dbPath}
	}

	l, err := logging.New(c.Log)
	if err != nil {
		return err
	}
	cfg, logger = c, l
	return nil
}

// openStore opens the repository selected by the configuration.
func openStore() (journal.Repository, error) {
	switch cfg.Store.Type {
	case "memory":
		logger.Warn("using in-memory store; trades are lost on exit")
		return journal.NewMemoryStore(), nil
	case "sqlite":
		j, err := journal.NewSQLite(cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		return j, nil
	default:
		return nil, fmt.Errorf("unknown store type %q", cfg.Store.Type)
	}
}
