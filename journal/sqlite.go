package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// SQLite is a Repository backed by a SQLite database file.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) Create(ctx context.Context, t Trade) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO trades
		(trade_id, user_id, date, entry_date, exit_date, symbol, asset_class, qty, pnl, entry_price, exit_price, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.Date, t.EntryDate, nullString(t.ExitDate),
		t.Symbol, string(t.AssetClass), t.Qty, t.PnL,
		nullFloat(t.EntryPrice), nullFloat(t.ExitPrice), t.Notes,
	)
	var se sqlite3.Error
	if errors.As(err, &se) && se.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("trade %q: %w", t.ID, ErrTradeExists)
	}
	return err
}

func (j *SQLite) Update(ctx context.Context, t Trade) error {
	res, err := j.db.ExecContext(ctx, `
		UPDATE trades SET
		user_id = ?, date = ?, entry_date = ?, exit_date = ?, symbol = ?, asset_class = ?,
		qty = ?, pnl = ?, entry_price = ?, exit_price = ?, notes = ?
		WHERE trade_id = ?`,
		t.UserID, t.Date, t.EntryDate, nullString(t.ExitDate), t.Symbol, string(t.AssetClass),
		t.Qty, t.PnL, nullFloat(t.EntryPrice), nullFloat(t.ExitPrice), t.Notes,
		t.ID,
	)
	if err != nil {
		return err
	}
	return expectOneRow(res, t.ID)
}

func (j *SQLite) Delete(ctx context.Context, id string) error {
	res, err := j.db.ExecContext(ctx, `DELETE FROM trades WHERE trade_id = ?`, id)
	if err != nil {
		return err
	}
	return expectOneRow(res, id)
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

func expectOneRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("trade %q: %w", id, ErrTradeNotFound)
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
