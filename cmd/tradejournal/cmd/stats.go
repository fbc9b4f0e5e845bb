package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/dates"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/metrics"
)

// queryFlags are the statistics options shared by stats and report.
type queryFlags struct {
	user     string
	start    string
	end      string
	days     int
	category string
	top      int
	pending  bool
	smooth   int
	kind     string
}

func (q *queryFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&q.user, "user", "u", "", "user id (required)")
	fs.StringVar(&q.start, "start", "", "first day yyyy-mm-dd (default: end minus --days)")
	fs.StringVar(&q.end, "end", "", "last day yyyy-mm-dd (default: today)")
	fs.IntVar(&q.days, "days", 30, "window length when --start is not given")
	fs.StringVar(&q.category, "category", "total", "total, stock or crypto")
	fs.IntVar(&q.top, "top", 0, "number of top symbols (default: stats.top_symbols)")
	fs.BoolVar(&q.pending, "pending", false, "include open trades")
	fs.IntVar(&q.smooth, "smooth", 0, "moving-average window over the daily P&L (0 disables)")
	fs.StringVar(&q.kind, "smooth-kind", "sma", "moving average for --smooth: sma or ema")
}

func (q *queryFlags) query(now time.Time) (metrics.Query, error) {
	if q.user == "" {
		return metrics.Query{}, fmt.Errorf("--user is required")
	}
	cat := metrics.Category(q.category)
	if !cat.Valid() {
		return metrics.Query{}, fmt.Errorf("unknown category %q", q.category)
	}

	end := now.UTC()
	if q.end != "" {
		t, err := dates.Parse(q.end)
		if err != nil {
			return metrics.Query{}, fmt.Errorf("--end: %w", err)
		}
		end = t
	}
	if q.days <= 0 {
		return metrics.Query{}, fmt.Errorf("--days must be positive")
	}
	start := dates.AddDays(end, -(q.days - 1))
	if q.start != "" {
		t, err := dates.Parse(q.start)
		if err != nil {
			return metrics.Query{}, fmt.Errorf("--start: %w", err)
		}
		start = t
	}
	if start.After(end) {
		return metrics.Query{}, fmt.Errorf("start %s is after end %s", dates.ToISODate(start), dates.ToISODate(end))
	}

	if q.smooth < 0 {
		return metrics.Query{}, fmt.Errorf("--smooth must not be negative")
	}
	kind := metrics.SmoothKind(q.kind)
	if !kind.Valid() {
		return metrics.Query{}, fmt.Errorf("unknown --smooth-kind %q (want sma or ema)", q.kind)
	}
	top := q.top
	if top == 0 {
		top = cfg.Stats.TopSymbols
	}
	return metrics.Query{
		Range:          metrics.Range{Start: start, End: end},
		Category:       cat,
		Top:            top,
		IncludePending: q.pending,
		Smooth:         q.smooth,
		SmoothKind:     kind,
	}, nil
}

// load returns the user's trades together with the query to run on them.
func (q *queryFlags) load(cmd *cobra.Command) ([]journal.Trade, metrics.Query, error) {
	mq, err := q.query(time.Now())
	if err != nil {
		return nil, mq, err
	}

	repo, err := openStore()
	if err != nil {
		return nil, mq, err
	}
	defer repo.Close()

	ctx := cmd.Context()
	trades, err := repo.ListByUser(ctx, q.user)
	if err != nil {
		return nil, mq, fmt.Errorf("list trades: %w", err)
	}
	return trades, mq, nil
}

var (
	statsFlags queryFlags
	statsJSON  bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show P&L statistics for a user",
	Long: `Summarize a user's closed trades over a date window: total and
average P&L, win rate, profit factor, drawdown, P&L by day and the most
traded symbols.

Examples:
  tradejournal stats --user alice
  tradejournal stats --user alice --start 2024-01-01 --end 2024-03-31 --category crypto --json`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsFlags.register(statsCmd)
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "print the full report as JSON")
}

func runStats(cmd *cobra.Command, args []string) error {
	trades, q, err := statsFlags.load(cmd)
	if err != nil {
		return err
	}
	rep, err := metrics.BuildReport(trades, q)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if statsJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}

	s := rep.Summary
	fmt.Fprintf(out, "%s to %s (%s)\n", dates.ToISODate(q.Range.Start), dates.ToISODate(q.Range.End), q.Category)
	fmt.Fprintf(out, "  Trades:        %d (%d wins, %d losses)\n", s.Trades, s.Wins, s.Losses)
	fmt.Fprintf(out, "  Total P&L:     %.2f\n", s.TotalPL)
	fmt.Fprintf(out, "  Win rate:      %.1f%%\n", s.WinRate)
	fmt.Fprintf(out, "  Average P&L:   %.2f\n", s.AvgPnL)
	fmt.Fprintf(out, "  Profit factor: %.2f\n", s.ProfitFactor)
	fmt.Fprintf(out, "  Max drawdown:  %.2f\n", s.MaxDrawdown)

	if len(rep.Series) > 0 {
		fmt.Fprintln(out, "\nP&L by day:")
		for i, d := range rep.Series {
			fmt.Fprintf(out, "  %s  %10.2f  %10.2f\n", d.Date, d.PnL, rep.Cumulative[i].PnL)
		}
	}
	if len(rep.Smoothed) > 0 {
		fmt.Fprintf(out, "\n%d-day %s:\n", q.Smooth, q.SmoothKind)
		for _, d := range rep.Smoothed {
			fmt.Fprintf(out, "  %s  %10.2f\n", d.Date, d.PnL)
		}
	}
	if len(rep.TopSymbols) > 0 {
		fmt.Fprintln(out, "\nTop symbols:")
		for _, sc := range rep.TopSymbols {
			fmt.Fprintf(out, "  %-10s %-6s %d\n", sc.Label, sc.AssetClass, sc.Value)
		}
	}
	return nil
}
