package journal

import (
	"fmt"
	"strings"
)

// FormatTradeOrg renders a Trade as an Org-mode block suitable for pasting into a journal.
// Structured facts go in a PROPERTIES drawer; Thesis/Execution/Review are left for notes.
func FormatTradeOrg(t Trade) string {
	status := "CLOSED"
	if t.IsPending() {
		status = "OPEN"
	}
	heading := fmt.Sprintf("** %s %s (%s)", status, t.Symbol, shortID(t.ID))

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":ID: %s\n", t.ID))
	b.WriteString(fmt.Sprintf(":USER_ID: %s\n", t.UserID))
	b.WriteString(fmt.Sprintf(":SYMBOL: %s\n", t.Symbol))
	b.WriteString(fmt.Sprintf(":ASSET_CLASS: %s\n", t.AssetClass))
	b.WriteString(fmt.Sprintf(":DATE: %s\n", t.Date))
	if t.EntryDate != "" {
		b.WriteString(fmt.Sprintf(":ENTRY_DATE: %s\n", t.EntryDate))
	}
	if t.ExitDate != nil {
		b.WriteString(fmt.Sprintf(":EXIT_DATE: %s\n", *t.ExitDate))
	}
	b.WriteString(fmt.Sprintf(":QTY: %s\n", f(t.Qty)))
	if t.EntryPrice != nil {
		b.WriteString(fmt.Sprintf(":ENTRY_PRICE: %.5f\n", *t.EntryPrice))
	}
	if t.ExitPrice != nil {
		b.WriteString(fmt.Sprintf(":EXIT_PRICE: %.5f\n", *t.ExitPrice))
	}
	b.WriteString(fmt.Sprintf(":PNL: %.2f\n", t.PnL))
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("*** Thesis\n- ")
	b.WriteString(t.Notes)
	b.WriteString("\n\n")
	b.WriteString("*** Execution\n- \n\n")
	b.WriteString("*** Review\n- \n")

	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []Trade) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
