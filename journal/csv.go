package journal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// CSVHeader is the column order used by ReadCSV and WriteCSV.
var CSVHeader = []string{
	"id", "user_id", "date", "entry_date", "exit_date", "symbol",
	"asset_class", "qty", "pnl", "entry_price", "exit_price", "notes",
}

// WriteCSV writes a header row followed by one row per trade. Absent
// optional fields are written as empty cells.
func WriteCSV(w io.Writer, trades []Trade) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}

	for _, t := range trades {
		err := cw.Write([]string{
			t.ID,
			t.UserID,
			t.Date,
			t.EntryDate,
			optString(t.ExitDate),
			t.Symbol,
			string(t.AssetClass),
			f(t.Qty),
			f(t.PnL),
			optFloat(t.EntryPrice),
			optFloat(t.ExitPrice),
			t.Notes,
		})
		if err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses trades written by WriteCSV. Columns are matched by
// header name so files with reordered columns load too; id, user_id,
// date, symbol, asset_class, qty and pnl must be present.
func ReadCSV(r io.Reader) ([]Trade, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []Trade{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, name := range []string{"id", "user_id", "date", "symbol", "asset_class", "qty", "pnl"} {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	get := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	out := make([]Trade, 0)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		t := Trade{
			ID:         get(rec, "id"),
			UserID:     get(rec, "user_id"),
			Date:       get(rec, "date"),
			EntryDate:  get(rec, "entry_date"),
			Symbol:     get(rec, "symbol"),
			AssetClass: AssetClass(get(rec, "asset_class")),
			Notes:      get(rec, "notes"),
		}
		if t.Qty, err = strconv.ParseFloat(get(rec, "qty"), 64); err != nil {
			return nil, fmt.Errorf("line %d: qty: %w", line, err)
		}
		if t.PnL, err = strconv.ParseFloat(get(rec, "pnl"), 64); err != nil {
			return nil, fmt.Errorf("line %d: pnl: %w", line, err)
		}
		if s := get(rec, "exit_date"); s != "" {
			t.ExitDate = String(s)
		}
		if t.EntryPrice, err = parseOptFloat(get(rec, "entry_price")); err != nil {
			return nil, fmt.Errorf("line %d: entry_price: %w", line, err)
		}
		if t.ExitPrice, err = parseOptFloat(get(rec, "exit_price")); err != nil {
			return nil, fmt.Errorf("line %d: exit_price: %w", line, err)
		}
		out = append(out, t)
	}
	return out, nil
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

func optString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optFloat(x *float64) string {
	if x == nil {
		return ""
	}
	return f(*x)
}

func parseOptFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
