package core

import "github.com/shopspring/decimal"

// CurrencyAmounts keeps a figure per original currency next to its value
// converted into the user's base currency. Converted stays keyed by the
// original currency code; collapsing to a single base-currency scalar is the
// caller's business. Every key present in Original has a matching key in
// Converted.
type CurrencyAmounts struct {
	Original  map[string]decimal.Decimal `json:"original"`
	Converted map[string]decimal.Decimal `json:"converted"`
}

func NewCurrencyAmounts() CurrencyAmounts {
	return CurrencyAmounts{
		Original:  make(map[string]decimal.Decimal),
		Converted: make(map[string]decimal.Decimal),
	}
}

// Add accumulates one original/converted pair under the given currency.
func (ca CurrencyAmounts) Add(code string, original, converted decimal.Decimal) {
	ca.Original[code] = ca.Original[code].Add(original)
	ca.Converted[code] = ca.Converted[code].Add(converted)
}

// EnsureZero records a zero pair for the currency if it has no figure yet,
// keeping the currency-key set stable across months.
func (ca CurrencyAmounts) EnsureZero(code string) {
	if _, ok := ca.Original[code]; !ok {
		ca.Original[code] = decimal.Zero
		ca.Converted[code] = decimal.Zero
	}
}

// MonthlyCategorySummary is the recursive sum of one direct child category's
// subtree for a single month.
type MonthlyCategorySummary struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Role         AccountRole     `json:"type"`
	Order        int64           `json:"order"`
	AccountCount int             `json:"accountCount"`
	Balances     CurrencyAmounts `json:"balances"`
}

// MonthlyAccountSummary is one direct account's own figure for a single month.
type MonthlyAccountSummary struct {
	ID               int64           `json:"id"`
	Name             string          `json:"name"`
	CategoryID       int64           `json:"categoryId"`
	TransactionCount int             `json:"transactionCount"`
	Balances         CurrencyAmounts `json:"balances"`
}

// MonthlyReport is the per-month aggregation unit for one category tree.
// Reports are built fresh per request and never persisted.
type MonthlyReport struct {
	Month           string                   `json:"month"`
	ChildCategories []MonthlyCategorySummary `json:"childCategories"`
	DirectAccounts  []MonthlyAccountSummary  `json:"directAccounts"`
}

// SummaryReport wraps the full month series (newest first) with the base
// currency used for conversion. HasConversionErrors flags that at least one
// figure fell back to its original-currency value.
type SummaryReport struct {
	CategoryID          int64           `json:"categoryId"`
	CategoryName        string          `json:"categoryName"`
	BaseCurrency        Currency        `json:"baseCurrency"`
	Months              []MonthlyReport `json:"months"`
	HasConversionErrors bool            `json:"hasConversionErrors"`
}
