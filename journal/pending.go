package journal

// IsPending reports whether the trade is an open position: it has no
// exit date, or no exit price, or an exit price of zero. A trade that
// exits on its entry day without a price is covered by the price rule.
func (t Trade) IsPending() bool {
	if t.ExitDate == nil {
		return true
	}
	if t.ExitPrice == nil || *t.ExitPrice == 0 {
		return true
	}
	return false
}

// IsPendingTrade is the function form of Trade.IsPending.
func IsPendingTrade(t Trade) bool {
	return t.IsPending()
}

// FilterCompletedTrades returns the closed trades, in input order.
func FilterCompletedTrades(trades []Trade) []Trade {
	out := make([]Trade, 0, len(trades))
	for _, t := range trades {
		if !t.IsPending() {
			out = append(out, t)
		}
	}
	return out
}

// FilterPendingTrades returns the open trades, in input order.
func FilterPendingTrades(trades []Trade) []Trade {
	out := make([]Trade, 0, len(trades))
	for _, t := range trades {
		if t.IsPending() {
			out = append(out, t)
		}
	}
	return out
}
