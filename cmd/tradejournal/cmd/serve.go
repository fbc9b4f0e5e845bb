package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradejournal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve the trade, statistics, calendar and risk alert endpoints.
Prometheus metrics are exposed on /metrics.

Example:
  tradejournal serve --addr :9090 --db journal.sqlite`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	repo, err := openStore()
	if err != nil {
		return err
	}
	defer repo.Close()

	srv, err := server.New(cfg, repo, logger)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting tradejournal",
		zap.String("version", version),
		zap.String("store", cfg.Store.Type),
	)
	return srv.ListenAndServe(ctx)
}
