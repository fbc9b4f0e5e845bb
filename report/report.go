// Package report renders a statistics report and its trades as an Excel
// workbook.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/metrics"
)

// Sheet names, in workbook order.
const (
	SheetSummary = "Summary"
	SheetDaily   = "Daily P&L"
	SheetTop     = "Top Symbols"
	SheetTrades  = "Trades"
)

// Build lays out rep and trades in a new workbook. The caller closes it.
func Build(trades []journal.Trade, rep metrics.Report) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range []string{SheetDaily, SheetTop, SheetTrades} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, err
		}
	}

	steps := []func(*excelize.File) error{
		func(f *excelize.File) error { return writeSummary(f, rep) },
		func(f *excelize.File) error { return writeDaily(f, rep) },
		func(f *excelize.File) error { return writeTop(f, rep.TopSymbols) },
		func(f *excelize.File) error { return writeTrades(f, trades) },
	}
	for _, step := range steps {
		if err := step(f); err != nil {
			f.Close()
			return nil, err
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

// WriteWorkbook writes the xlsx form of rep and trades to w.
func WriteWorkbook(w io.Writer, trades []journal.Trade, rep metrics.Report) error {
	f, err := Build(trades, rep)
	if err != nil {
		return fmt.Errorf("build workbook: %w", err)
	}
	defer f.Close()
	return f.Write(w)
}

// SaveWorkbook writes the xlsx form of rep and trades to path.
func SaveWorkbook(path string, trades []journal.Trade, rep metrics.Report) error {
	f, err := Build(trades, rep)
	if err != nil {
		return fmt.Errorf("build workbook: %w", err)
	}
	defer f.Close()
	return f.SaveAs(path)
}

// setRows writes rows starting at A1.
func setRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func writeSummary(f *excelize.File, rep metrics.Report) error {
	s := rep.Summary
	q := rep.Query
	return setRows(f, SheetSummary, [][]any{
		{"Metric", "Value"},
		{"From", q.Range.Start.Format("2006-01-02")},
		{"To", q.Range.End.Format("2006-01-02")},
		{"Category", string(q.Category)},
		{"Trades", s.Trades},
		{"Wins", s.Wins},
		{"Losses", s.Losses},
		{"Total P&L", s.TotalPL},
		{"Win rate %", s.WinRate},
		{"Average P&L", s.AvgPnL},
		{"Gross profit", s.GrossProfit},
		{"Gross loss", s.GrossLoss},
		{"Profit factor", s.ProfitFactor},
		{"Best trade", s.BestTrade},
		{"Worst trade", s.WorstTrade},
		{"Max drawdown", s.MaxDrawdown},
	})
}

func writeDaily(f *excelize.File, rep metrics.Report) error {
	header := []any{"Date", "P&L", "Cumulative"}
	avg := make(map[string]float64, len(rep.Smoothed))
	if len(rep.Smoothed) > 0 {
		header = append(header, "Average")
		for _, d := range rep.Smoothed {
			avg[d.Date] = d.PnL
		}
	}

	rows := [][]any{header}
	for i, d := range rep.Series {
		var cum float64
		if i < len(rep.Cumulative) {
			cum = rep.Cumulative[i].PnL
		}
		row := []any{d.Date, d.PnL, cum}
		if v, ok := avg[d.Date]; ok {
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	return setRows(f, SheetDaily, rows)
}

func writeTop(f *excelize.File, top []metrics.SymbolCount) error {
	rows := [][]any{{"Symbol", "Trades", "Asset class"}}
	for _, s := range top {
		rows = append(rows, []any{s.Label, s.Value, string(s.AssetClass)})
	}
	return setRows(f, SheetTop, rows)
}

func writeTrades(f *excelize.File, trades []journal.Trade) error {
	rows := [][]any{{"ID", "Date", "Symbol", "Asset class", "Qty", "P&L", "Entry", "Exit", "Status", "Notes"}}
	for _, t := range trades {
		status := "closed"
		if t.IsPending() {
			status = "open"
		}
		rows = append(rows, []any{
			t.ID, t.Date, t.Symbol, string(t.AssetClass), t.Qty, t.PnL,
			optFloat(t.EntryPrice), optFloat(t.ExitPrice), status, t.Notes,
		})
	}
	return setRows(f, SheetTrades, rows)
}

// optFloat leaves missing prices as empty cells.
func optFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
