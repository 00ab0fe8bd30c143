// Package fx holds the currency conversion gateway contract and the batching
// glue that fills the converted side of reconstructed month series.
package fx

import (
	"context"

	"github.com/shopspring/decimal"
)

// Item is one amount to convert for a given period.
type Item struct {
	Amount       decimal.Decimal
	CurrencyCode string
	PeriodTag    string // "YYYY-MM"
}

// Result answers the Item at the same position: result i belongs to item i.
// A failed item is reported with Success=false, never as a batch error.
type Result struct {
	Success         bool
	ConvertedAmount decimal.Decimal
}

// Gateway converts a batch of amounts into a target currency. Implementations
// must return exactly one result per item, preserving item order.
type Gateway interface {
	ConvertBatch(ctx context.Context, userID int64, items []Item, targetCode string) ([]Result, error)
}
