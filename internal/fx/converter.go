package fx

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"bilancio/internal/engine"
)

// Converter fills the converted side of reconstructed account series with a
// single batched gateway call per reconstruction pass.
//
// Zero amounts are never sent: their converted figure is zero by definition,
// which both avoids wasted gateway work and guarantees converted==0 wherever
// original==0. A failed item falls back to its original figure and is
// reported through the hasErrors return, never as an error.
type Converter struct {
	gateway Gateway
}

func NewConverter(gateway Gateway) *Converter {
	return &Converter{gateway: gateway}
}

// seriesKey addresses one figure inside a multi-account series.
type seriesKey struct {
	accountID int64
	month     string
	code      string
}

// ConvertSeries converts every non-zero figure of every account into the base
// currency. The returned map mirrors the input shape. Request order is
// deterministic (account id, month, currency) and results are correlated
// positionally.
func (c *Converter) ConvertSeries(
	ctx context.Context,
	userID int64,
	baseCode string,
	series map[int64]engine.MonthlyBalances,
) (map[int64]engine.MonthlyBalances, bool, error) {
	converted := make(map[int64]engine.MonthlyBalances, len(series))

	accountIDs := make([]int64, 0, len(series))
	for id := range series {
		accountIDs = append(accountIDs, id)
	}
	sort.Slice(accountIDs, func(i, j int) bool { return accountIDs[i] < accountIDs[j] })

	var items []Item
	var keys []seriesKey
	for _, accountID := range accountIDs {
		balances := series[accountID]
		out := make(engine.MonthlyBalances, len(balances))
		converted[accountID] = out

		months := make([]string, 0, len(balances))
		for month := range balances {
			months = append(months, month)
		}
		sort.Strings(months)

		for _, month := range months {
			codes := make([]string, 0, len(balances[month]))
			for code := range balances[month] {
				codes = append(codes, code)
			}
			sort.Strings(codes)

			for _, code := range codes {
				amount := balances[month][code]
				if amount.IsZero() {
					out.Set(month, code, decimal.Zero)
					continue
				}
				items = append(items, Item{Amount: amount, CurrencyCode: code, PeriodTag: month})
				keys = append(keys, seriesKey{accountID: accountID, month: month, code: code})
			}
		}
	}

	if len(items) == 0 {
		return converted, false, nil
	}

	results, err := c.gateway.ConvertBatch(ctx, userID, items, baseCode)
	if err != nil {
		return nil, false, fmt.Errorf("convert batch: %w", err)
	}
	if len(results) != len(items) {
		return nil, false, fmt.Errorf("conversion gateway returned %d results for %d items", len(results), len(items))
	}

	hasErrors := false
	for i, res := range results {
		key := keys[i]
		if !res.Success {
			hasErrors = true
			slog.WarnContext(ctx, "Currency conversion failed, keeping original figure",
				"currency", key.code, "period", key.month, "target", baseCode)
			converted[key.accountID].Set(key.month, key.code, items[i].Amount)
			continue
		}
		converted[key.accountID].Set(key.month, key.code, res.ConvertedAmount)
	}
	return converted, hasErrors, nil
}
