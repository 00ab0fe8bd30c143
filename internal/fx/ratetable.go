package fx

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"
)

// RateSource provides period exchange rates toward a target currency. The
// period is a "YYYY-MM" tag; implementations may answer a missing period with
// the most recent earlier one. found=false means no usable rate exists.
type RateSource interface {
	Rate(ctx context.Context, fromCode, toCode, period string) (rate decimal.Decimal, found bool, err error)
}

// RateTableGateway serves batch conversions from locally stored period rates,
// kept fresh by the rates ingest worker. Items in the target currency convert
// to themselves without a lookup.
type RateTableGateway struct {
	rates RateSource
}

func NewRateTableGateway(rates RateSource) *RateTableGateway {
	return &RateTableGateway{rates: rates}
}

// ConvertBatch implements Gateway. Lookup failures mark the single item as
// unsuccessful; they never fail the batch.
func (g *RateTableGateway) ConvertBatch(ctx context.Context, userID int64, items []Item, targetCode string) ([]Result, error) {
	results := make([]Result, len(items))
	for i, item := range items {
		if item.CurrencyCode == targetCode {
			results[i] = Result{Success: true, ConvertedAmount: item.Amount}
			continue
		}
		rate, found, err := g.rates.Rate(ctx, item.CurrencyCode, targetCode, item.PeriodTag)
		if err != nil {
			slog.WarnContext(ctx, "Exchange rate lookup failed",
				"from", item.CurrencyCode, "to", targetCode, "period", item.PeriodTag,
				"user_id", userID, "error", err)
			results[i] = Result{Success: false}
			continue
		}
		if !found {
			results[i] = Result{Success: false}
			continue
		}
		results[i] = Result{Success: true, ConvertedAmount: item.Amount.Mul(rate)}
	}
	return results, nil
}
