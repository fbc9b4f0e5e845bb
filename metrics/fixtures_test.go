package metrics

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rustyeddy/tradejournal/journal"
)

func trade(id, date, symbol string, ac journal.AssetClass, pnl float64) journal.Trade {
	return journal.Trade{
		ID:         id,
		UserID:     "u1",
		Date:       date,
		EntryDate:  date,
		ExitDate:   journal.String(date),
		Symbol:     symbol,
		AssetClass: ac,
		Qty:        1,
		PnL:        pnl,
		EntryPrice: journal.Float(100),
		ExitPrice:  journal.Float(100 + pnl),
	}
}

// mockTrades is eight closed trades over four days summing to
// 50, 350, 225 and 980, five of them winners.
func mockTrades() []journal.Trade {
	return []journal.Trade{
		trade("1", "2023-01-01", "AAPL", journal.Stock, 100),
		trade("2", "2023-01-01", "BTC", journal.Crypto, -50),
		trade("3", "2023-01-02", "AAPL", journal.Stock, 200),
		trade("4", "2023-01-02", "ETH", journal.Crypto, 150),
		trade("5", "2023-01-03", "TSLA", journal.Stock, -75),
		trade("6", "2023-01-03", "BTC", journal.Crypto, 300),
		trade("7", "2023-01-04", "AAPL", journal.Stock, 1000),
		trade("8", "2023-01-04", "ETH", journal.Crypto, -20),
	}
}

var symbols = []string{"AAPL", "MSFT", "TSLA", "NVDA", "BTC", "ETH", "SOL", "DOGE", "AMD", "META"}

// randomTrades builds n trades spread over the 60 days from 2024-01-01.
// PnL values are whole cents so sums are exact regardless of order.
func randomTrades(r *rand.Rand, n int) []journal.Trade {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]journal.Trade, 0, n)
	for i := 0; i < n; i++ {
		day := base.AddDate(0, 0, r.Intn(60))
		date := day.Format("2006-01-02")
		if r.Intn(4) == 0 {
			date = day.Add(time.Duration(r.Intn(24)) * time.Hour).Format(time.RFC3339)
		}
		ac := journal.Stock
		if r.Intn(2) == 0 {
			ac = journal.Crypto
		}
		pnl := float64(r.Intn(200001)-100000) / 100
		if r.Intn(10) == 0 {
			pnl = 0
		}
		out = append(out, trade(fmt.Sprintf("r%d", i), date, symbols[r.Intn(len(symbols))], ac, pnl))
	}
	return out
}
