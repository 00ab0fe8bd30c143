package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"bilancio/internal/core"
)

// AccountBalance is the running balance of one account in one currency.
type AccountBalance struct {
	CurrencyCode string          `json:"currencyCode"`
	Amount       decimal.Decimal `json:"amount"`
}

// CalculateBalance computes the current snapshot balance of an account per
// currency under its role's accumulation convention:
//
//   - ASSET and LIABILITY: income adds, expense subtracts (borrowing raises a
//     liability, repayment lowers it)
//   - INCOME: only income-typed transactions count, cumulatively
//   - EXPENSE: only expense-typed transactions count, cumulatively
//
// An unknown role follows the asset convention. When asOf is given only
// transactions at or before the cutoff are counted. BALANCE adjustments are
// the monthly reconstructor's business and are skipped here. An account with
// no qualifying transactions yields an empty map.
func CalculateBalance(acc core.Account, asOf *time.Time) map[string]AccountBalance {
	out := make(map[string]AccountBalance)
	for _, tx := range acc.Transactions {
		if asOf != nil && tx.Date.After(*asOf) {
			continue
		}
		if tx.Type == core.TransactionBalance {
			continue
		}
		delta, counts := roleDelta(acc.Role, tx)
		if !counts {
			continue
		}
		bal, ok := out[tx.CurrencyCode]
		if !ok {
			bal = AccountBalance{CurrencyCode: tx.CurrencyCode, Amount: decimal.Zero}
		}
		bal.Amount = bal.Amount.Add(delta)
		out[tx.CurrencyCode] = bal
	}
	return out
}

// roleDelta maps a transaction to its signed contribution under the role's
// convention, or counts=false when it does not participate.
func roleDelta(role core.AccountRole, tx core.Transaction) (delta decimal.Decimal, counts bool) {
	switch role {
	case core.RoleIncome:
		if tx.Type == core.TransactionIncome {
			return tx.Amount, true
		}
		return decimal.Zero, false
	case core.RoleExpense:
		if tx.Type == core.TransactionExpense {
			return tx.Amount, true
		}
		return decimal.Zero, false
	}
	// Asset, liability and unknown roles share the asset convention.
	switch tx.Type {
	case core.TransactionIncome:
		return tx.Amount, true
	case core.TransactionExpense:
		return tx.Amount.Neg(), true
	}
	return decimal.Zero, false
}
