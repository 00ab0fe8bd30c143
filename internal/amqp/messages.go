package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"bilancio/internal/core"
)

// RateUpdateMessage carries one period exchange rate published by the
// external rate sourcer. Period uses the "YYYY-MM" month tag of the
// conversion layer.
type RateUpdateMessage struct {
	FromCode  string          `json:"from_code"`
	ToCode    string          `json:"to_code"`
	Period    string          `json:"period"`
	Rate      decimal.Decimal `json:"rate"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewRateUpdateMessage creates a rate update stamped with the current time.
func NewRateUpdateMessage(fromCode, toCode, period string, rate decimal.Decimal) *RateUpdateMessage {
	return &RateUpdateMessage{
		FromCode:  fromCode,
		ToCode:    toCode,
		Period:    period,
		Rate:      rate,
		Timestamp: time.Now(),
	}
}

// Validate rejects rates the rate table could never serve.
func (m *RateUpdateMessage) Validate() error {
	if !core.ValidCurrencyCode(m.FromCode) || !core.ValidCurrencyCode(m.ToCode) {
		return core.ErrInvalidCurrency
	}
	if m.FromCode == m.ToCode {
		return errors.New("rate update from and to currencies are equal")
	}
	if _, err := core.MonthStart(m.Period); err != nil {
		return err
	}
	if !m.Rate.IsPositive() {
		return core.ErrInvalidAmount
	}
	return nil
}

// ToJSON converts the message to JSON bytes.
func (m *RateUpdateMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RateUpdateMessageFromJSON creates a message from JSON bytes.
func RateUpdateMessageFromJSON(data []byte) (*RateUpdateMessage, error) {
	var msg RateUpdateMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
