// Package journal holds the trade record shared by every part of the
// journal, and the storage that keeps those records.
package journal

import (
	"context"
	"errors"
)

var (
	ErrTradeNotFound = errors.New("trade not found")
	ErrInvalidTrade  = errors.New("invalid trade")
	ErrTradeExists   = errors.New("trade already exists")
)

// AssetClass is the category of instrument traded.
type AssetClass string

const (
	Stock  AssetClass = "stock"
	Crypto AssetClass = "crypto"
)

// Valid reports whether a is one of the known asset classes.
func (a AssetClass) Valid() bool {
	return a == Stock || a == Crypto
}

// Trade is one executed buy/sell record. Date is the bucketing key used
// by the statistics views; it is a yyyy-mm-dd date or an ISO-8601
// date-time. PnL is supplied independently of Qty and the prices.
//
// ExitDate, EntryPrice and ExitPrice are optional: a trade without a
// resolved exit is still open, see IsPending.
type Trade struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId" yaml:"user_id" validate:"required"`
	Date       string     `json:"date" validate:"required,tradedate"`
	EntryDate  string     `json:"entryDate,omitempty" yaml:"entry_date,omitempty" validate:"omitempty,tradedate"`
	ExitDate   *string    `json:"exitDate,omitempty" yaml:"exit_date,omitempty" validate:"omitempty,tradedate"`
	Symbol     string     `json:"symbol" validate:"required"`
	AssetClass AssetClass `json:"assetClass" yaml:"asset_class" validate:"required,oneof=stock crypto"`
	Qty        float64    `json:"qty" validate:"gt=0"`
	PnL        float64    `json:"pnl"`
	EntryPrice *float64   `json:"entryPrice,omitempty" yaml:"entry_price,omitempty" validate:"omitempty,gt=0"`
	ExitPrice  *float64   `json:"exitPrice,omitempty" yaml:"exit_price,omitempty" validate:"omitempty,gte=0"`
	Notes      string     `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Clone returns a copy of t that shares no pointers with it.
func (t Trade) Clone() Trade {
	out := t
	if t.ExitDate != nil {
		d := *t.ExitDate
		out.ExitDate = &d
	}
	if t.EntryPrice != nil {
		p := *t.EntryPrice
		out.EntryPrice = &p
	}
	if t.ExitPrice != nil {
		p := *t.ExitPrice
		out.ExitPrice = &p
	}
	return out
}

// Repository stores trades. Implementations must be safe for concurrent
// use.
type Repository interface {
	Create(ctx context.Context, t Trade) error
	Get(ctx context.Context, id string) (Trade, error)
	Update(ctx context.Context, t Trade) error
	Delete(ctx context.Context, id string) error
	// ListByUser returns a user's trades ordered by date, then id.
	ListByUser(ctx context.Context, userID string) ([]Trade, error)
	Close() error
}

// String and Float return pointers for the optional Trade fields.
func String(s string) *string { return &s }

func Float(f float64) *float64 { return &f }
