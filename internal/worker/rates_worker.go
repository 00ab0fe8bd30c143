// Package worker persists exchange-rate updates received over AMQP into the
// rate table the conversion gateway reads from.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"bilancio/internal/amqp"
)

// RateStore persists period exchange rates.
type RateStore interface {
	UpsertExchangeRate(ctx context.Context, fromCode, toCode, period string, rate decimal.Decimal) error
}

// RatesWorker consumes rate update messages and upserts them into storage.
type RatesWorker struct {
	storage RateStore
}

func NewRatesWorker(storage RateStore) *RatesWorker {
	return &RatesWorker{storage: storage}
}

// HandleRateMessage processes one rate update. Invalid payloads are dropped
// with a warning so a malformed publisher cannot wedge the queue; storage
// failures are returned for redelivery.
func (w *RatesWorker) HandleRateMessage(ctx context.Context, msg *amqp.RateUpdateMessage) error {
	if err := msg.Validate(); err != nil {
		slog.WarnContext(ctx, "Dropping invalid rate update",
			"from", msg.FromCode,
			"to", msg.ToCode,
			"period", msg.Period,
			"rate", msg.Rate.String(),
			"error", err)
		return nil
	}

	if err := w.storage.UpsertExchangeRate(ctx, msg.FromCode, msg.ToCode, msg.Period, msg.Rate); err != nil {
		return fmt.Errorf("store rate update: %w", err)
	}
	return nil
}
