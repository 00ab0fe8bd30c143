package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"bilancio/internal/core"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func tx(id int64, typ core.TransactionType, amount int64, code string, date time.Time) core.Transaction {
	return core.Transaction{
		ID:           id,
		Type:         typ,
		Amount:       decimal.NewFromInt(amount),
		CurrencyCode: code,
		Date:         date,
	}
}

func TestCalculateBalanceByRole(t *testing.T) {
	txs := []core.Transaction{
		tx(1, core.TransactionIncome, 100, "EUR", day(2025, 1, 10)),
		tx(2, core.TransactionExpense, 40, "EUR", day(2025, 1, 20)),
	}

	cases := []struct {
		role core.AccountRole
		want int64
	}{
		{core.RoleAsset, 60},
		{core.RoleLiability, 60},
		{core.RoleIncome, 100},
		{core.RoleExpense, 40},
		{core.AccountRole("BOGUS"), 60}, // unknown role follows the asset convention
	}
	for i, tc := range cases {
		acc := core.Account{ID: 1, Role: tc.role, CurrencyCode: "EUR", Transactions: txs}
		got := CalculateBalance(acc, nil)
		bal, ok := got["EUR"]
		if !ok {
			t.Fatalf("case %d (%s): no EUR balance", i, tc.role)
		}
		if !bal.Amount.Equal(decimal.NewFromInt(tc.want)) {
			t.Fatalf("case %d (%s): got %s, want %d", i, tc.role, bal.Amount, tc.want)
		}
	}
}

func TestCalculateBalanceSkipsBalanceAdjustments(t *testing.T) {
	acc := core.Account{
		ID:           1,
		Role:         core.RoleAsset,
		CurrencyCode: "EUR",
		Transactions: []core.Transaction{
			tx(1, core.TransactionIncome, 100, "EUR", day(2025, 1, 10)),
			tx(2, core.TransactionBalance, 9999, "EUR", day(2025, 1, 15)),
		},
	}
	got := CalculateBalance(acc, nil)
	if !got["EUR"].Amount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("got %s, want 100", got["EUR"].Amount)
	}
}

func TestCalculateBalanceAsOf(t *testing.T) {
	acc := core.Account{
		ID:           1,
		Role:         core.RoleAsset,
		CurrencyCode: "EUR",
		Transactions: []core.Transaction{
			tx(1, core.TransactionIncome, 100, "EUR", day(2025, 1, 10)),
			tx(2, core.TransactionExpense, 40, "EUR", day(2025, 2, 5)),
		},
	}

	cutoff := day(2025, 1, 31)
	got := CalculateBalance(acc, &cutoff)
	if !got["EUR"].Amount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("got %s, want 100 before the february expense", got["EUR"].Amount)
	}

	// A cutoff exactly on a transaction's date includes it.
	onTx := day(2025, 2, 5)
	got = CalculateBalance(acc, &onTx)
	if !got["EUR"].Amount.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("got %s, want 60 at the expense date", got["EUR"].Amount)
	}
}

func TestCalculateBalancePerCurrency(t *testing.T) {
	acc := core.Account{
		ID:           1,
		Role:         core.RoleAsset,
		CurrencyCode: "EUR",
		Transactions: []core.Transaction{
			tx(1, core.TransactionIncome, 100, "EUR", day(2025, 1, 10)),
			tx(2, core.TransactionIncome, 50, "USD", day(2025, 1, 11)),
			tx(3, core.TransactionExpense, 20, "USD", day(2025, 1, 12)),
		},
	}
	got := CalculateBalance(acc, nil)
	if len(got) != 2 {
		t.Fatalf("got %d currencies, want 2", len(got))
	}
	if !got["EUR"].Amount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("EUR: got %s, want 100", got["EUR"].Amount)
	}
	if !got["USD"].Amount.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("USD: got %s, want 30", got["USD"].Amount)
	}
}

func TestCalculateBalanceEmptyAccount(t *testing.T) {
	acc := core.Account{ID: 1, Role: core.RoleAsset, CurrencyCode: "EUR"}
	if got := CalculateBalance(acc, nil); len(got) != 0 {
		t.Fatalf("expected empty map, got %v", got)
	}
}
