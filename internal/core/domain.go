package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionIncome  TransactionType = "INCOME"
	TransactionExpense TransactionType = "EXPENSE"
	TransactionBalance TransactionType = "BALANCE"
)

const (
	RoleAsset     AccountRole = "ASSET"
	RoleLiability AccountRole = "LIABILITY"
	RoleIncome    AccountRole = "INCOME"
	RoleExpense   AccountRole = "EXPENSE"
)

type (
	// TransactionType classifies a transaction. BALANCE records a point-in-time
	// adjustment of a stock account and is only consumed by the monthly
	// reconstruction, never by flow sums.
	TransactionType string

	// AccountRole is the accounting role a category gives to the accounts
	// under it. ASSET/LIABILITY are stock roles, INCOME/EXPENSE flow roles.
	AccountRole string

	// Transaction is an immutable record owned by the persistence layer.
	// Amount is always non-negative in storage; Notes may encode a signed
	// delta for legacy balance adjustments.
	Transaction struct {
		ID           int64
		Type         TransactionType
		Amount       decimal.Decimal
		CurrencyCode string
		Date         time.Time
		Notes        string
	}

	Account struct {
		ID           int64
		UserID       int64
		CategoryID   int64
		Name         string
		Role         AccountRole
		CurrencyCode string
		Transactions []Transaction
	}

	// Category forms a forest via ParentID. Order is the sibling sort key.
	Category struct {
		ID       int64
		UserID   int64
		Name     string
		Role     AccountRole
		ParentID *int64
		Order    int64
	}

	Currency struct {
		Code   string `json:"code"`
		Symbol string `json:"symbol"`
		Name   string `json:"name"`
	}
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrAccountNotFound  = errors.New("account not found")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidCurrency  = errors.New("invalid currency code")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidRole      = errors.New("invalid account role")
	ErrEmptyName        = errors.New("empty name")
)

// DefaultCurrency is used when a user has no base currency configured.
var DefaultCurrency = Currency{Code: "EUR", Symbol: "€", Name: "Euro"}

// IsStock reports whether the role carries point-in-time balances.
func (r AccountRole) IsStock() bool {
	return r == RoleAsset || r == RoleLiability
}

// IsFlow reports whether the role carries period sums.
func (r AccountRole) IsFlow() bool {
	return r == RoleIncome || r == RoleExpense
}

// SameFamily reports whether two roles belong to the same stock/flow family.
func (r AccountRole) SameFamily(other AccountRole) bool {
	return (r.IsStock() && other.IsStock()) || (r.IsFlow() && other.IsFlow())
}

func (r AccountRole) Validate() error {
	switch r {
	case RoleAsset, RoleLiability, RoleIncome, RoleExpense:
		return nil
	}
	return ErrInvalidRole
}

func (t TransactionType) Validate() error {
	switch t {
	case TransactionIncome, TransactionExpense, TransactionBalance:
		return nil
	}
	return ErrInvalidType
}

// ValidCurrencyCode checks the three-upper-letter shape of an ISO 4217 code.
func ValidCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func (tx Transaction) Validate() error {
	if err := tx.Type.Validate(); err != nil {
		return err
	}
	if tx.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if !ValidCurrencyCode(tx.CurrencyCode) {
		return ErrInvalidCurrency
	}
	if tx.Date.IsZero() {
		return errors.New("transaction date cannot be zero")
	}
	return nil
}

func (a Account) Validate() error {
	if len(strings.TrimSpace(a.Name)) == 0 {
		return ErrEmptyName
	}
	if err := a.Role.Validate(); err != nil {
		return err
	}
	if !ValidCurrencyCode(a.CurrencyCode) {
		return ErrInvalidCurrency
	}
	return nil
}

func (c Category) Validate() error {
	if len(strings.TrimSpace(c.Name)) == 0 {
		return ErrEmptyName
	}
	if err := c.Role.Validate(); err != nil {
		return err
	}
	if c.ParentID != nil && *c.ParentID == c.ID {
		return errors.New("category cannot be its own parent")
	}
	return nil
}
