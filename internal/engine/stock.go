package engine

import (
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"bilancio/internal/core"
)

// ReconstructStockMonths rebuilds month-end balances for a stock account from
// its BALANCE adjustments. months must be sorted ascending; the month-end
// scan is a single forward pass per currency over the pre-sorted adjustments.
//
// A month before the first adjustment of a currency stays absent (zero for
// the caller); later months inherit the latest adjustment at or before their
// month end, which is the carry-forward into months without activity.
//
// The value recorded by an adjustment is the signed delta parsed from its
// notes when present, otherwise its raw amount. Either way it replaces the
// running balance for that currency rather than accumulating onto it.
func ReconstructStockMonths(acc core.Account, months []string) MonthlyBalances {
	out := make(MonthlyBalances)

	byCurrency := make(map[string][]core.Transaction)
	for _, tx := range acc.Transactions {
		if tx.Type != core.TransactionBalance {
			continue
		}
		byCurrency[tx.CurrencyCode] = append(byCurrency[tx.CurrencyCode], tx)
	}
	if len(byCurrency) == 0 {
		return out
	}

	for code, txs := range byCurrency {
		sort.SliceStable(txs, func(i, j int) bool {
			return txs[i].Date.Before(txs[j].Date)
		})

		idx := 0
		var last decimal.Decimal
		seen := false
		for _, month := range months {
			end, err := core.MonthEnd(month)
			if err != nil {
				slog.Warn("Skipping malformed month in stock reconstruction",
					"account_id", acc.ID, "month", month, "error", err)
				continue
			}
			for idx < len(txs) && !txs[idx].Date.After(end) {
				last = recordedBalance(txs[idx])
				seen = true
				idx++
			}
			if seen {
				out.Set(month, code, last)
			}
		}
	}

	return out
}

// recordedBalance is the absolute balance carried by a BALANCE transaction.
func recordedBalance(tx core.Transaction) decimal.Decimal {
	if value, ok := ParseNotesDelta(tx.Notes); ok {
		return value
	}
	return tx.Amount
}
