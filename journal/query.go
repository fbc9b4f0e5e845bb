package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const selectTrade = `
	SELECT trade_id, user_id, date, entry_date, exit_date, symbol, asset_class, qty, pnl, entry_price, exit_price, notes
	FROM trades`

type scanner interface {
	Scan(dest ...any) error
}

func scanTrade(s scanner) (Trade, error) {
	var (
		rec        Trade
		assetClass string
		exitDate   sql.NullString
		entryPrice sql.NullFloat64
		exitPrice  sql.NullFloat64
	)

	err := s.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.Date,
		&rec.EntryDate,
		&exitDate,
		&rec.Symbol,
		&assetClass,
		&rec.Qty,
		&rec.PnL,
		&entryPrice,
		&exitPrice,
		&rec.Notes,
	)
	if err != nil {
		return Trade{}, err
	}

	rec.AssetClass = AssetClass(assetClass)
	if exitDate.Valid {
		rec.ExitDate = String(exitDate.String)
	}
	if entryPrice.Valid {
		rec.EntryPrice = Float(entryPrice.Float64)
	}
	if exitPrice.Valid {
		rec.ExitPrice = Float(exitPrice.Float64)
	}
	return rec, nil
}

// Get returns a single trade by ID.
func (j *SQLite) Get(ctx context.Context, id string) (Trade, error) {
	row := j.db.QueryRowContext(ctx, selectTrade+` WHERE trade_id = ?`, id)

	rec, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Trade{}, fmt.Errorf("trade %q: %w", id, ErrTradeNotFound)
		}
		return Trade{}, err
	}
	return rec, nil
}

// ListByUser returns every trade owned by userID ordered by date, then id.
func (j *SQLite) ListByUser(ctx context.Context, userID string) ([]Trade, error) {
	rows, err := j.db.QueryContext(ctx, selectTrade+`
		WHERE user_id = ?
		ORDER BY date ASC, trade_id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Trade, 0)
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
