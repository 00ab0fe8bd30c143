package engine

import (
	"testing"

	"github.com/shopspring/decimal"

	"bilancio/internal/core"
)

func account(id, categoryID int64, name string, role core.AccountRole) core.Account {
	return core.Account{ID: id, UserID: 1, CategoryID: categoryID, Name: name, Role: role, CurrencyCode: "EUR"}
}

func seriesOf(pairs map[string]int64) AccountSeries {
	original := make(MonthlyBalances)
	converted := make(MonthlyBalances)
	for month, amount := range pairs {
		original.Set(month, "EUR", decimal.NewFromInt(amount))
		converted.Set(month, "EUR", decimal.NewFromInt(amount))
	}
	return AccountSeries{Original: original, Converted: converted}
}

func TestComposeMonthlyReportsRecursiveSum(t *testing.T) {
	// 1 (Assets)
	// └── 2 (Banks)
	//     ├── account A (direct under 2)
	//     └── 3 (Savings)
	//         └── account B
	h := NewHierarchy([]core.Category{
		cat(1, "Assets", core.RoleAsset, nil, 0),
		cat(2, "Banks", core.RoleAsset, ptr(1), 0),
		cat(3, "Savings", core.RoleAsset, ptr(2), 0),
	})
	root, _ := h.Category(1)

	accounts := []core.Account{
		account(10, 2, "A", core.RoleAsset),
		account(11, 3, "B", core.RoleAsset),
	}
	series := map[int64]AccountSeries{
		10: seriesOf(map[string]int64{"2025-01": 500}),
		11: seriesOf(map[string]int64{"2025-01": 300}),
	}

	reports := ComposeMonthlyReports(root, h, accounts, series, []string{"2025-01"})
	if len(reports) != 1 {
		t.Fatalf("got %d reports, want 1", len(reports))
	}
	report := reports[0]
	if len(report.ChildCategories) != 1 {
		t.Fatalf("got %d child categories, want 1", len(report.ChildCategories))
	}

	banks := report.ChildCategories[0]
	if banks.ID != 2 {
		t.Fatalf("got child id %d, want 2", banks.ID)
	}
	if banks.AccountCount != 2 {
		t.Fatalf("got account count %d, want 2", banks.AccountCount)
	}
	if !banks.Balances.Original["EUR"].Equal(decimal.NewFromInt(800)) {
		t.Fatalf("got %s, want the whole subtree sum 800", banks.Balances.Original["EUR"])
	}
	if len(report.DirectAccounts) != 0 {
		t.Fatalf("the root has no direct accounts, got %d", len(report.DirectAccounts))
	}
}

func TestComposeMonthlyReportsNewestFirst(t *testing.T) {
	h := NewHierarchy([]core.Category{cat(1, "Assets", core.RoleAsset, nil, 0)})
	root, _ := h.Category(1)
	accounts := []core.Account{account(10, 1, "A", core.RoleAsset)}
	series := map[int64]AccountSeries{
		10: seriesOf(map[string]int64{"2025-01": 1, "2025-02": 2, "2025-03": 3}),
	}

	reports := ComposeMonthlyReports(root, h, accounts, series, []string{"2025-01", "2025-02", "2025-03"})
	want := []string{"2025-03", "2025-02", "2025-01"}
	for i, month := range want {
		if reports[i].Month != month {
			t.Fatalf("report %d: got %q, want %q", i, reports[i].Month, month)
		}
	}
}

func TestComposeMonthlyReportsDirectAccounts(t *testing.T) {
	h := NewHierarchy([]core.Category{cat(1, "Assets", core.RoleAsset, nil, 0)})
	root, _ := h.Category(1)
	accounts := []core.Account{
		account(11, 1, "Wallet", core.RoleAsset),
		account(10, 1, "Checking", core.RoleAsset),
	}
	series := map[int64]AccountSeries{
		10: seriesOf(map[string]int64{"2025-01": 100}),
		11: seriesOf(map[string]int64{"2025-01": 50}),
	}

	reports := ComposeMonthlyReports(root, h, accounts, series, []string{"2025-01"})
	direct := reports[0].DirectAccounts
	if len(direct) != 2 {
		t.Fatalf("got %d direct accounts, want 2", len(direct))
	}
	// Sorted by name.
	if direct[0].Name != "Checking" || direct[1].Name != "Wallet" {
		t.Fatalf("got order %q, %q", direct[0].Name, direct[1].Name)
	}
	if !direct[0].Balances.Original["EUR"].Equal(decimal.NewFromInt(100)) {
		t.Fatalf("Checking: got %s, want 100", direct[0].Balances.Original["EUR"])
	}
}

func TestComposeMonthlyReportsRoleFamilyFilter(t *testing.T) {
	// A flow child under a stock root is excluded entirely.
	h := NewHierarchy([]core.Category{
		cat(1, "Assets", core.RoleAsset, nil, 0),
		cat(2, "Banks", core.RoleAsset, ptr(1), 0),
		cat(3, "Salary", core.RoleIncome, ptr(1), 1),
	})
	root, _ := h.Category(1)
	accounts := []core.Account{
		account(10, 2, "A", core.RoleAsset),
		account(11, 3, "Paycheck", core.RoleIncome),
	}
	series := map[int64]AccountSeries{
		10: seriesOf(map[string]int64{"2025-01": 100}),
		11: seriesOf(map[string]int64{"2025-01": 9000}),
	}

	reports := ComposeMonthlyReports(root, h, accounts, series, []string{"2025-01"})
	if len(reports[0].ChildCategories) != 1 {
		t.Fatalf("got %d children, want only the stock one", len(reports[0].ChildCategories))
	}
	if reports[0].ChildCategories[0].ID != 2 {
		t.Fatalf("got child %d, want 2", reports[0].ChildCategories[0].ID)
	}
}

func TestComposeMonthlyReportsEmptyChildStableShape(t *testing.T) {
	h := NewHierarchy([]core.Category{
		cat(1, "Assets", core.RoleAsset, nil, 0),
		cat(2, "Empty", core.RoleAsset, ptr(1), 0),
	})
	root, _ := h.Category(1)

	reports := ComposeMonthlyReports(root, h, nil, nil, []string{"2025-01"})
	if len(reports[0].ChildCategories) != 1 {
		t.Fatalf("an accountless child must still appear")
	}
	child := reports[0].ChildCategories[0]
	if child.AccountCount != 0 {
		t.Fatalf("got account count %d, want 0", child.AccountCount)
	}
	if len(child.Balances.Original) != 0 {
		t.Fatalf("got balances %v, want none", child.Balances.Original)
	}
}

func TestComposeMonthlyReportsConvertedFallback(t *testing.T) {
	h := NewHierarchy([]core.Category{cat(1, "Assets", core.RoleAsset, nil, 0)})
	root, _ := h.Category(1)
	accounts := []core.Account{account(10, 1, "A", core.RoleAsset)}

	original := make(MonthlyBalances)
	original.Set("2025-01", "USD", decimal.NewFromInt(70))
	series := map[int64]AccountSeries{
		10: {Original: original, Converted: make(MonthlyBalances)},
	}

	reports := ComposeMonthlyReports(root, h, accounts, series, []string{"2025-01"})
	balances := reports[0].DirectAccounts[0].Balances
	if !balances.Converted["USD"].Equal(decimal.NewFromInt(70)) {
		t.Fatalf("missing converted figure must fall back to original, got %s", balances.Converted["USD"])
	}
}

func TestComposeMonthlyReportsIdempotent(t *testing.T) {
	h := NewHierarchy([]core.Category{
		cat(1, "Assets", core.RoleAsset, nil, 0),
		cat(2, "Banks", core.RoleAsset, ptr(1), 0),
	})
	root, _ := h.Category(1)
	accounts := []core.Account{account(10, 2, "A", core.RoleAsset)}
	series := map[int64]AccountSeries{10: seriesOf(map[string]int64{"2025-01": 123})}
	months := []string{"2025-01"}

	first := ComposeMonthlyReports(root, h, accounts, series, months)
	second := ComposeMonthlyReports(root, h, accounts, series, months)

	a := first[0].ChildCategories[0].Balances.Original["EUR"]
	b := second[0].ChildCategories[0].Balances.Original["EUR"]
	if !a.Equal(b) {
		t.Fatalf("composition mutated its inputs: %s vs %s", a, b)
	}
	if !a.Equal(decimal.NewFromInt(123)) {
		t.Fatalf("got %s, want 123", a)
	}
}
