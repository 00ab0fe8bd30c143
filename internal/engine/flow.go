package engine

import (
	"log/slog"

	"bilancio/internal/core"
)

// ReconstructFlowMonths sums an income or expense account's transactions
// strictly inside each calendar month, per currency. There is no
// carry-forward: a month with no activity is legitimately zero.
//
// Only transactions matching the account's flow direction count. A BALANCE
// adjustment on a flow account is a data anomaly: it is logged and excluded,
// never fatal.
func ReconstructFlowMonths(acc core.Account, months []string) MonthlyBalances {
	out := make(MonthlyBalances)

	want, ok := flowType(acc.Role)
	if !ok {
		slog.Warn("Flow reconstruction requested for non-flow account",
			"account_id", acc.ID, "role", acc.Role)
		return out
	}

	wanted := make(map[string]struct{}, len(months))
	for _, month := range months {
		wanted[month] = struct{}{}
	}

	for _, tx := range acc.Transactions {
		if tx.Type == core.TransactionBalance {
			slog.Warn("Ignoring balance adjustment on flow account",
				"account_id", acc.ID, "transaction_id", tx.ID, "role", acc.Role)
			continue
		}
		if tx.Type != want {
			continue
		}
		month := core.MonthOf(tx.Date)
		if _, ok := wanted[month]; !ok {
			continue
		}
		out.Add(month, tx.CurrencyCode, tx.Amount)
	}

	return out
}

// flowType maps a flow role to the transaction type it sums.
func flowType(role core.AccountRole) (core.TransactionType, bool) {
	switch role {
	case core.RoleIncome:
		return core.TransactionIncome, true
	case core.RoleExpense:
		return core.TransactionExpense, true
	}
	return "", false
}
