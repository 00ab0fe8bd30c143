package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"bilancio/internal/core"
)

func TestMonthlyBalancesSetAddGet(t *testing.T) {
	mb := make(MonthlyBalances)
	mb.Add("2025-01", "EUR", decimal.NewFromInt(10))
	mb.Add("2025-01", "EUR", decimal.NewFromInt(5))
	if !mb.Get("2025-01", "EUR").Equal(decimal.NewFromInt(15)) {
		t.Fatalf("got %s, want 15", mb.Get("2025-01", "EUR"))
	}

	mb.Set("2025-01", "EUR", decimal.NewFromInt(7))
	if !mb.Get("2025-01", "EUR").Equal(decimal.NewFromInt(7)) {
		t.Fatalf("Set must replace, got %s", mb.Get("2025-01", "EUR"))
	}

	if !mb.Get("2099-01", "EUR").IsZero() {
		t.Fatalf("missing month must read as zero")
	}
}

func TestMonthlyBalancesFillMissing(t *testing.T) {
	mb := make(MonthlyBalances)
	mb.Set("2025-02", "USD", decimal.NewFromInt(3))

	mb.FillMissing([]string{"2025-01", "2025-02"}, "EUR")

	if _, ok := mb["2025-01"]["EUR"]; !ok {
		t.Fatalf("2025-01 EUR missing after fill")
	}
	if !mb.Get("2025-01", "EUR").IsZero() {
		t.Fatalf("filled entry must be zero")
	}
	// Existing figures in other currencies are untouched.
	if !mb.Get("2025-02", "USD").Equal(decimal.NewFromInt(3)) {
		t.Fatalf("fill clobbered an existing figure")
	}
	if !mb.Get("2025-02", "EUR").IsZero() {
		t.Fatalf("2025-02 EUR must be zero-filled alongside USD")
	}
}

func TestMonthRange(t *testing.T) {
	now := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	accounts := []core.Account{
		{ID: 1, Transactions: []core.Transaction{
			tx(1, core.TransactionExpense, 10, "EUR", day(2025, 1, 20)),
		}},
		{ID: 2, Transactions: []core.Transaction{
			tx(2, core.TransactionIncome, 10, "EUR", day(2024, 11, 2)),
		}},
	}

	got := MonthRange(accounts, nil, now)
	want := []string{"2024-11", "2024-12", "2025-01", "2025-02", "2025-03"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("month %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMonthRangeFloor(t *testing.T) {
	now := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	accounts := []core.Account{
		{ID: 1, Transactions: []core.Transaction{
			tx(1, core.TransactionIncome, 10, "EUR", day(2020, 1, 1)),
		}},
	}
	floor := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	got := MonthRange(accounts, &floor, now)
	if len(got) != 2 || got[0] != "2025-01" || got[1] != "2025-02" {
		t.Fatalf("got %v, want floor to override the transaction scan", got)
	}
}

func TestMonthRangeNoTransactions(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	got := MonthRange(nil, nil, now)
	if len(got) != 1 || got[0] != "2025-06" {
		t.Fatalf("got %v, want just the current month", got)
	}
}
