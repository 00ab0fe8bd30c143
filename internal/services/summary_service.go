// Package services orchestrates storage, the aggregation engine and currency
// conversion into the report operations consumed by the API layer.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"bilancio/internal/cache"
	"bilancio/internal/core"
	"bilancio/internal/engine"
	"bilancio/internal/fx"
)

// Store is the read surface the summary service needs from persistence.
type Store interface {
	CategoriesByUser(ctx context.Context, userID int64) ([]core.Category, error)
	AccountsByCategoryIDs(ctx context.Context, userID int64, categoryIDs []int64) ([]core.Account, error)
	AccountByID(ctx context.Context, userID, accountID int64) (*core.Account, error)
	UserBaseCurrency(ctx context.Context, userID int64) (core.Currency, error)
}

// Lookback bounds the start of a stock summary's month range.
type Lookback string

const (
	// LookbackAll starts at the month of the subtree's first transaction.
	LookbackAll Lookback = "all"
	// LookbackFromLastYear starts at January of the previous year.
	LookbackFromLastYear Lookback = "from-last-year"
)

// SummaryServiceConfig holds configuration for the summary service.
type SummaryServiceConfig struct {
	// CacheSize is the max number of memoized reports (default: 128)
	CacheSize int

	// CacheTTL is how long a memoized report stays fresh (default: 5m)
	CacheTTL time.Duration
}

// DefaultSummaryServiceConfig returns sensible defaults.
func DefaultSummaryServiceConfig() SummaryServiceConfig {
	return SummaryServiceConfig{
		CacheSize: 128,
		CacheTTL:  5 * time.Minute,
	}
}

// SummaryService produces the monthly category-tree reports. Reports are
// composed fresh per request and memoized briefly; nothing is persisted.
type SummaryService struct {
	storage   Store
	converter *fx.Converter
	cache     *cache.LRUCache[*core.SummaryReport]

	// now is swappable so the month range is deterministic in tests.
	now func() time.Time
}

func NewSummaryService(storage Store, gateway fx.Gateway, config SummaryServiceConfig) *SummaryService {
	return &SummaryService{
		storage:   storage,
		converter: fx.NewConverter(gateway),
		cache:     cache.NewLRUCache[*core.SummaryReport](config.CacheSize, config.CacheTTL),
		now:       time.Now,
	}
}

// StockSummary reconstructs month-end balances for an ASSET/LIABILITY
// category subtree, newest month first.
func (s *SummaryService) StockSummary(ctx context.Context, userID, categoryID int64, lookback Lookback) (*core.SummaryReport, error) {
	return s.summary(ctx, userID, categoryID, lookback, true)
}

// FlowSummary sums INCOME/EXPENSE activity per calendar month for a category
// subtree, newest month first.
func (s *SummaryService) FlowSummary(ctx context.Context, userID, categoryID int64) (*core.SummaryReport, error) {
	return s.summary(ctx, userID, categoryID, LookbackAll, false)
}

// AccountBalance returns the current snapshot balance of one account per
// currency, optionally as of a cutoff instant.
func (s *SummaryService) AccountBalance(ctx context.Context, userID, accountID int64, asOf *time.Time) (map[string]engine.AccountBalance, error) {
	account, err := s.storage.AccountByID(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}
	return engine.CalculateBalance(*account, asOf), nil
}

func (s *SummaryService) summary(ctx context.Context, userID, categoryID int64, lookback Lookback, stock bool) (*core.SummaryReport, error) {
	kind := "flow"
	if stock {
		kind = "stock"
	}
	cacheKey := fmt.Sprintf("%s:%d:%d:%s", kind, userID, categoryID, lookback)
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached, nil
	}

	categories, err := s.storage.CategoriesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	hierarchy := engine.NewHierarchy(categories)

	root, ok := hierarchy.Category(categoryID)
	if !ok || root.UserID != userID {
		return nil, fmt.Errorf("category %d for user %d: %w", categoryID, userID, core.ErrCategoryNotFound)
	}
	if stock && !root.Role.IsStock() || !stock && !root.Role.IsFlow() {
		return nil, fmt.Errorf("category %d has role %s, want a %s role: %w",
			categoryID, root.Role, kind, core.ErrCategoryNotFound)
	}

	accounts, err := s.storage.AccountsByCategoryIDs(ctx, userID, hierarchy.SubtreeIDs(categoryID))
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	baseCurrency, err := s.storage.UserBaseCurrency(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load base currency: %w", err)
	}

	now := s.now()
	var floor *time.Time
	if stock && lookback == LookbackFromLastYear {
		f := time.Date(now.Year()-1, time.January, 1, 0, 0, 0, 0, time.UTC)
		floor = &f
	}
	months := engine.MonthRange(accounts, floor, now)

	// Reconstruction has no data dependency between accounts; run one task
	// per account and join before composing. Each task writes only its own
	// slot.
	original := make([]engine.MonthlyBalances, len(accounts))
	g, gctx := errgroup.WithContext(ctx)
	for i, account := range accounts {
		i, account := i, account
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var balances engine.MonthlyBalances
			if stock {
				balances = engine.ReconstructStockMonths(account, months)
			} else {
				balances = engine.ReconstructFlowMonths(account, months)
			}
			balances.FillMissing(months, account.CurrencyCode)
			original[i] = balances
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("reconstruct accounts: %w", err)
	}

	series := make(map[int64]engine.MonthlyBalances, len(accounts))
	for i, account := range accounts {
		series[account.ID] = original[i]
	}

	converted, hasErrors, err := s.converter.ConvertSeries(ctx, userID, baseCurrency.Code, series)
	if err != nil {
		return nil, fmt.Errorf("convert series: %w", err)
	}

	full := make(map[int64]engine.AccountSeries, len(series))
	for id, balances := range series {
		full[id] = engine.AccountSeries{Original: balances, Converted: converted[id]}
	}

	report := &core.SummaryReport{
		CategoryID:          root.ID,
		CategoryName:        root.Name,
		BaseCurrency:        baseCurrency,
		Months:              engine.ComposeMonthlyReports(root, hierarchy, accounts, full, months),
		HasConversionErrors: hasErrors,
	}

	s.cache.Set(cacheKey, report)
	slog.InfoContext(ctx, "Summary composed",
		"kind", kind,
		"user_id", userID,
		"category_id", categoryID,
		"months", len(months),
		"accounts", len(accounts),
		"conversion_errors", hasErrors)
	return report, nil
}
