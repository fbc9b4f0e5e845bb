package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/metrics"
	"github.com/rustyeddy/tradejournal/report"
)

var (
	reportFlags  queryFlags
	reportOutput string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write an Excel statistics report",
	Long: `Write the statistics of a date window and the trades behind them
to an xlsx workbook with Summary, Daily P&L, Top Symbols and Trades sheets.

With --output - the workbook is written to stdout.

Examples:
  tradejournal report --user alice --days 90 --output alice.xlsx
  tradejournal report --user alice --smooth 5 --smooth-kind ema -o - > alice.xlsx`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportFlags.register(reportCmd)
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "report.xlsx", "output workbook path, or - for stdout")
}

func runReport(cmd *cobra.Command, args []string) error {
	trades, q, err := reportFlags.load(cmd)
	if err != nil {
		return err
	}

	rep, err := metrics.BuildReport(trades, q)
	if err != nil {
		return err
	}
	if !q.IncludePending {
		trades = journal.FilterCompletedTrades(trades)
	}
	trades = metrics.FilterByRangeAndCategory(trades, q.Range, q.Category)

	if reportOutput == "-" {
		if err := report.WriteWorkbook(cmd.OutOrStdout(), trades, rep); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		logger.Info("report written", zap.String("path", "stdout"), zap.Int("trades", len(trades)))
		return nil
	}

	if err := report.SaveWorkbook(reportOutput, trades, rep); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	logger.Info("report written", zap.String("path", reportOutput), zap.Int("trades", len(trades)))
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s (%d trades, P&L %.2f)\n", reportOutput, len(trades), rep.Summary.TotalPL)
	return nil
}
