// Package storage is the persistence read interface of the aggregation
// engine plus the single write path it owns: the exchange-rate table kept
// fresh by the rates worker. The engine itself never writes user data.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"bilancio/internal/core"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CategoriesByUser loads the user's whole category forest in one query, the
// flat list the hierarchy index is built from.
func (r *Repository) CategoriesByUser(ctx context.Context, userID int64) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, role, parent_id, sort_order
		FROM categories
		WHERE user_id = ?
		ORDER BY sort_order, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		var c core.Category
		var parentID sql.NullInt64
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Role, &parentID, &c.Order); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		if parentID.Valid {
			id := parentID.Int64
			c.ParentID = &id
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

// AccountsByCategoryIDs loads the user's accounts under the given categories,
// each with its full transaction history, role resolved from its category.
func (r *Repository) AccountsByCategoryIDs(ctx context.Context, userID int64, categoryIDs []int64) ([]core.Account, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}

	placeholders, args := inArgs(categoryIDs)
	args = append([]any{userID}, args...)

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT a.id, a.user_id, a.category_id, a.name, a.currency_code, c.role
		FROM accounts a
		JOIN categories c ON c.id = a.category_id
		WHERE a.user_id = ? AND a.category_id IN (%s)
		ORDER BY a.id`, placeholders), args...)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []core.Account
	index := make(map[int64]int)
	for rows.Next() {
		var a core.Account
		if err := rows.Scan(&a.ID, &a.UserID, &a.CategoryID, &a.Name, &a.CurrencyCode, &a.Role); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		index[a.ID] = len(accounts)
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	if len(accounts) == 0 {
		return nil, nil
	}

	accountIDs := make([]int64, len(accounts))
	for i, a := range accounts {
		accountIDs[i] = a.ID
	}
	transactions, err := r.transactionsByAccountIDs(ctx, accountIDs)
	if err != nil {
		return nil, err
	}
	for accountID, txs := range transactions {
		accounts[index[accountID]].Transactions = txs
	}
	return accounts, nil
}

// AccountByID loads a single account with its transactions.
func (r *Repository) AccountByID(ctx context.Context, userID, accountID int64) (*core.Account, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT a.id, a.user_id, a.category_id, a.name, a.currency_code, c.role
		FROM accounts a
		JOIN categories c ON c.id = a.category_id
		WHERE a.user_id = ? AND a.id = ?`, userID, accountID)

	var a core.Account
	if err := row.Scan(&a.ID, &a.UserID, &a.CategoryID, &a.Name, &a.CurrencyCode, &a.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account %d: %w", accountID, core.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}

	transactions, err := r.transactionsByAccountIDs(ctx, []int64{a.ID})
	if err != nil {
		return nil, err
	}
	a.Transactions = transactions[a.ID]
	return &a, nil
}

func (r *Repository) transactionsByAccountIDs(ctx context.Context, accountIDs []int64) (map[int64][]core.Transaction, error) {
	placeholders, args := inArgs(accountIDs)
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, account_id, type, amount, currency_code, occurred_at, notes
		FROM transactions
		WHERE account_id IN (%s)
		ORDER BY occurred_at, id`, placeholders), args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]core.Transaction)
	for rows.Next() {
		var tx core.Transaction
		var accountID int64
		var amount, occurredAt string
		if err := rows.Scan(&tx.ID, &accountID, &tx.Type, &amount, &tx.CurrencyCode, &occurredAt, &tx.Notes); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parse transaction %d amount %q: %w", tx.ID, amount, err)
		}
		tx.Date, err = time.Parse(time.RFC3339, occurredAt)
		if err != nil {
			return nil, fmt.Errorf("parse transaction %d date %q: %w", tx.ID, occurredAt, err)
		}
		out[accountID] = append(out[accountID], tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// UserBaseCurrency returns the user's configured base currency, falling back
// to core.DefaultCurrency when nothing is configured.
func (r *Repository) UserBaseCurrency(ctx context.Context, userID int64) (core.Currency, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT base_currency_code, base_currency_symbol, base_currency_name
		FROM user_settings
		WHERE user_id = ?`, userID)

	var c core.Currency
	if err := row.Scan(&c.Code, &c.Symbol, &c.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.DefaultCurrency, nil
		}
		return core.Currency{}, fmt.Errorf("scan user settings: %w", err)
	}
	if !core.ValidCurrencyCode(c.Code) {
		slog.WarnContext(ctx, "Configured base currency is invalid, using default",
			"user_id", userID, "code", c.Code)
		return core.DefaultCurrency, nil
	}
	return c, nil
}

// Rate implements fx.RateSource: the stored rate for the exact period, or the
// most recent earlier period when the exact one is missing.
func (r *Repository) Rate(ctx context.Context, fromCode, toCode, period string) (decimal.Decimal, bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT rate
		FROM exchange_rates
		WHERE from_code = ? AND to_code = ? AND period <= ?
		ORDER BY period DESC
		LIMIT 1`, fromCode, toCode, period)

	var raw string
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Decimal{}, false, nil
		}
		return decimal.Decimal{}, false, fmt.Errorf("scan exchange rate: %w", err)
	}
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, false, fmt.Errorf("parse exchange rate %q: %w", raw, err)
	}
	return rate, true, nil
}

// UpsertExchangeRate stores or refreshes one period rate.
func (r *Repository) UpsertExchangeRate(ctx context.Context, fromCode, toCode, period string, rate decimal.Decimal) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO exchange_rates (from_code, to_code, period, rate, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (from_code, to_code, period)
		DO UPDATE SET rate = excluded.rate, updated_at = excluded.updated_at`,
		fromCode, toCode, period, rate.String(), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert exchange rate: %w", err)
	}

	slog.InfoContext(ctx, "Exchange rate stored",
		"from", fromCode, "to", toCode, "period", period, "rate", rate.String())
	return nil
}

// inArgs expands ids into a placeholder list and matching args slice.
func inArgs(ids []int64) (string, []any) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return placeholders, args
}
