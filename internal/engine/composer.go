package engine

import (
	"sort"

	"bilancio/internal/core"
)

// ComposeMonthlyReports builds one report per month for the root category,
// newest month first. For every month it sums each direct child category's
// whole subtree (role-filtered to the root's stock/flow family) and attaches
// the root's direct accounts individually.
//
// series must hold one AccountSeries per account, already converted; months
// must be sorted ascending. Accounts with no activity still contribute their
// zero entries, and a child category with no accounts anywhere in its subtree
// yields an all-zero summary rather than being omitted, so consumers can rely
// on a stable shape.
func ComposeMonthlyReports(
	root core.Category,
	h *Hierarchy,
	accounts []core.Account,
	series map[int64]AccountSeries,
	months []string,
) []core.MonthlyReport {
	children := make([]core.Category, 0)
	for _, child := range h.Children(root.ID) {
		if child.Role.SameFamily(root.Role) {
			children = append(children, child)
		}
	}

	// Membership of each account in each child subtree, resolved once.
	childAccounts := make(map[int64][]core.Account, len(children))
	for _, child := range children {
		subtree := h.SubtreeIDs(child.ID)
		inSubtree := make(map[int64]struct{}, len(subtree))
		for _, id := range subtree {
			inSubtree[id] = struct{}{}
		}
		for _, acc := range accounts {
			if _, ok := inSubtree[acc.CategoryID]; !ok {
				continue
			}
			if !acc.Role.SameFamily(root.Role) {
				continue
			}
			childAccounts[child.ID] = append(childAccounts[child.ID], acc)
		}
	}

	direct := make([]core.Account, 0)
	for _, acc := range accounts {
		if acc.CategoryID == root.ID && acc.Role.SameFamily(root.Role) {
			direct = append(direct, acc)
		}
	}
	sort.SliceStable(direct, func(i, j int) bool {
		if direct[i].Name != direct[j].Name {
			return direct[i].Name < direct[j].Name
		}
		return direct[i].ID < direct[j].ID
	})

	reports := make([]core.MonthlyReport, 0, len(months))
	for i := len(months) - 1; i >= 0; i-- {
		month := months[i]
		report := core.MonthlyReport{
			Month:           month,
			ChildCategories: make([]core.MonthlyCategorySummary, 0, len(children)),
			DirectAccounts:  make([]core.MonthlyAccountSummary, 0, len(direct)),
		}

		for _, child := range children {
			sum := core.NewCurrencyAmounts()
			for _, acc := range childAccounts[child.ID] {
				addSeriesMonth(sum, series[acc.ID], month)
			}
			report.ChildCategories = append(report.ChildCategories, core.MonthlyCategorySummary{
				ID:           child.ID,
				Name:         child.Name,
				Role:         child.Role,
				Order:        child.Order,
				AccountCount: len(childAccounts[child.ID]),
				Balances:     sum,
			})
		}

		for _, acc := range direct {
			balances := core.NewCurrencyAmounts()
			addSeriesMonth(balances, series[acc.ID], month)
			report.DirectAccounts = append(report.DirectAccounts, core.MonthlyAccountSummary{
				ID:               acc.ID,
				Name:             acc.Name,
				CategoryID:       acc.CategoryID,
				TransactionCount: len(acc.Transactions),
				Balances:         balances,
			})
		}

		reports = append(reports, report)
	}
	return reports
}

// addSeriesMonth merges one account's figures for a month into dst. A
// currency missing from the converted side falls back to its original figure
// so every original key keeps a converted counterpart even on malformed input.
func addSeriesMonth(dst core.CurrencyAmounts, s AccountSeries, month string) {
	for code, original := range s.Original[month] {
		converted, ok := s.Converted[month][code]
		if !ok {
			converted = original
		}
		dst.Add(code, original, converted)
	}
}
