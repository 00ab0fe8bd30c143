// Package engine implements the financial aggregation core: per-account
// balance calculation, monthly reconstruction of stock balances and flow sums,
// category-tree resolution and the monthly summary composer.
//
// All functions here are pure over their inputs; storage access and currency
// conversion happen in the layers around the engine.
package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"bilancio/internal/core"
)

// MonthlyBalances maps "YYYY-MM" months to per-currency amounts for one
// account. A missing month means no figure was reconstructed for it.
type MonthlyBalances map[string]map[string]decimal.Decimal

// Set records an amount, replacing any previous figure for that currency.
func (mb MonthlyBalances) Set(month, code string, amount decimal.Decimal) {
	m, ok := mb[month]
	if !ok {
		m = make(map[string]decimal.Decimal)
		mb[month] = m
	}
	m[code] = amount
}

// Add accumulates an amount onto the figure for that currency.
func (mb MonthlyBalances) Add(month, code string, amount decimal.Decimal) {
	m, ok := mb[month]
	if !ok {
		m = make(map[string]decimal.Decimal)
		mb[month] = m
	}
	m[code] = m[code].Add(amount)
}

// Get returns the figure for a month and currency, zero when absent.
func (mb MonthlyBalances) Get(month, code string) decimal.Decimal {
	return mb[month][code]
}

// FillMissing guarantees every listed month has an entry and at least a zero
// figure for the given currency, so totals and currency-key sets stay stable
// across months even for accounts with no activity.
func (mb MonthlyBalances) FillMissing(months []string, code string) {
	for _, month := range months {
		m, ok := mb[month]
		if !ok {
			m = make(map[string]decimal.Decimal)
			mb[month] = m
		}
		if _, ok := m[code]; !ok {
			m[code] = decimal.Zero
		}
	}
}

// AccountSeries holds one account's reconstructed months in original and
// base-converted figures. Converted is keyed like Original; a currency present
// in Original is always present in Converted.
type AccountSeries struct {
	Original  MonthlyBalances
	Converted MonthlyBalances
}

// MonthRange returns the contiguous month list covering the subtree's
// activity: from the earliest transaction across accounts (or the floor when
// given) through the month containing now, inclusive. With no transactions
// and no floor the range is the current month alone.
func MonthRange(accounts []core.Account, floor *time.Time, now time.Time) []string {
	start := now
	if floor != nil {
		start = *floor
	} else {
		for _, acc := range accounts {
			for _, tx := range acc.Transactions {
				if tx.Date.Before(start) {
					start = tx.Date
				}
			}
		}
	}
	return core.MonthsBetween(start, now)
}
