package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/pkg/id"
)

var tradesCmd = &cobra.Command{
	Use:   "trades",
	Short: "Import, export and list journal trades",
	Long: `Move trades in and out of the journal.

Subcommands:
  import - Load trades from a CSV file
  export - Write a user's trades as CSV, JSON or Org
  list   - Show a user's trades as a table

Examples:
  tradejournal trades import trades.csv --user alice
  tradejournal trades export --user alice --format org
  tradejournal trades list --user alice --status open`,
}

var tradesImportCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import trades from CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradesImport,
}

var tradesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a user's trades",
	Args:  cobra.NoArgs,
	RunE:  runTradesExport,
}

var tradesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a user's trades",
	Args:  cobra.NoArgs,
	RunE:  runTradesList,
}

var (
	tradesUser   string
	exportFormat string
	exportOutput string
	listStatus   string
)

func init() {
	rootCmd.AddCommand(tradesCmd)
	tradesCmd.AddCommand(tradesImportCmd)
	tradesCmd.AddCommand(tradesExportCmd)
	tradesCmd.AddCommand(tradesListCmd)

	tradesCmd.PersistentFlags().StringVarP(&tradesUser, "user", "u", "", "user id (import: overrides the user_id column)")
	tradesExportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "output format: csv, json or org")
	tradesExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
	tradesListCmd.Flags().StringVar(&listStatus, "status", "all", "open, closed or all")
}

func runTradesImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	trades, err := journal.ReadCSV(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	// Validate everything before writing anything.
	seen := make(map[string]int, len(trades))
	for i := range trades {
		if tradesUser != "" {
			trades[i].UserID = tradesUser
		}
		if trades[i].ID == "" {
			trades[i].ID = id.New()
		}
		if err := journal.Validate(trades[i]); err != nil {
			return fmt.Errorf("record %d: %w", i+1, err)
		}
		if prev, ok := seen[trades[i].ID]; ok {
			return fmt.Errorf("record %d: id %q repeats record %d: %w", i+1, trades[i].ID, prev, journal.ErrTradeExists)
		}
		seen[trades[i].ID] = i + 1
	}

	repo, err := openStore()
	if err != nil {
		return err
	}
	defer repo.Close()

	ctx := cmd.Context()
	for i, t := range trades {
		_, err := repo.Get(ctx, t.ID)
		switch {
		case err == nil:
			return fmt.Errorf("record %d: trade %q: %w", i+1, t.ID, journal.ErrTradeExists)
		case !errors.Is(err, journal.ErrTradeNotFound):
			return fmt.Errorf("look up trade %s: %w", t.ID, err)
		}
	}
	for _, t := range trades {
		if err := repo.Create(ctx, t); err != nil {
			return fmt.Errorf("create trade %s: %w", t.ID, err)
		}
	}

	logger.Info("trades imported", zap.String("file", args[0]), zap.Int("count", len(trades)))
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d trades\n", len(trades))
	return nil
}

// userTrades loads the trades of tradesUser ordered by date.
func userTrades(cmd *cobra.Command) ([]journal.Trade, error) {
	if tradesUser == "" {
		return nil, fmt.Errorf("--user is required")
	}
	repo, err := openStore()
	if err != nil {
		return nil, err
	}
	defer repo.Close()

	ctx := cmd.Context()
	trades, err := repo.ListByUser(ctx, tradesUser)
	if err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	return trades, nil
}

func runTradesExport(cmd *cobra.Command, args []string) error {
	trades, err := userTrades(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return writeTrades(out, exportFormat, trades)
}

func writeTrades(w io.Writer, format string, trades []journal.Trade) error {
	switch format {
	case "csv":
		return journal.WriteCSV(w, trades)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(trades)
	case "org":
		_, err := fmt.Fprintln(w, journal.FormatTradesOrg(trades))
		return err
	default:
		return fmt.Errorf("unknown format %q (want csv, json or org)", format)
	}
}

func runTradesList(cmd *cobra.Command, args []string) error {
	trades, err := userTrades(cmd)
	if err != nil {
		return err
	}

	switch listStatus {
	case "all":
	case "open":
		trades = journal.FilterPendingTrades(trades)
	case "closed":
		trades = journal.FilterCompletedTrades(trades)
	default:
		return fmt.Errorf("unknown status %q (want open, closed or all)", listStatus)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tSYMBOL\tCLASS\tQTY\tPNL\tSTATUS\tID")
	for _, t := range trades {
		status := "closed"
		if t.IsPending() {
			status = "open"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%g\t%.2f\t%s\t%s\n",
			t.Date, t.Symbol, t.AssetClass, t.Qty, t.PnL, status, t.ID)
	}
	return tw.Flush()
}
