package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/joho/godotenv"

	"bilancio/internal/config"
	"bilancio/internal/core"
	"bilancio/internal/fx"
	applog "bilancio/internal/log"
	"bilancio/internal/services"
	"bilancio/internal/storage"
)

type cliArgs struct {
	Report   string `arg:"positional,required" help:"report to run: stock, flow or balance"`
	User     int64  `arg:"--user,required" help:"user id to report on"`
	Category int64  `arg:"--category" help:"category id (stock and flow reports)"`
	Account  int64  `arg:"--account" help:"account id (balance report)"`
	Lookback string `arg:"--lookback" default:"all" help:"stock month range: all or from-last-year"`
	AsOf     string `arg:"--as-of" help:"balance cutoff date, YYYY-MM-DD"`
	Verbose  bool   `arg:"-v,--verbose" help:"enable debug logging"`
}

func (cliArgs) Description() string {
	return "bilancio prints monthly category summaries and account balances as JSON"
}

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	var args cliArgs
	arg.MustParse(&args)

	level := slog.LevelInfo
	if args.Verbose {
		level = slog.LevelDebug
	}
	logger := applog.New(applog.Config{Level: level, Component: applog.ComponentApp})
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	service := services.NewSummaryService(repo, fx.NewRateTableGateway(repo), services.SummaryServiceConfig{
		CacheSize: cfg.SummaryCacheSize,
		CacheTTL:  cfg.SummaryCacheTTL,
	})

	ctx := context.Background()
	result, err := run(ctx, service, args)
	if err != nil {
		if errors.Is(err, core.ErrCategoryNotFound) || errors.Is(err, core.ErrAccountNotFound) {
			logger.Error("Not found", "error", err)
		} else {
			logger.Error("Report failed", "error", err)
		}
		os.Exit(1)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		logger.Error("Failed to encode report", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, service *services.SummaryService, args cliArgs) (any, error) {
	switch args.Report {
	case "stock":
		if args.Category == 0 {
			return nil, fmt.Errorf("--category is required for a stock report")
		}
		lookback := services.Lookback(args.Lookback)
		if lookback != services.LookbackAll && lookback != services.LookbackFromLastYear {
			return nil, fmt.Errorf("unknown lookback %q", args.Lookback)
		}
		return service.StockSummary(ctx, args.User, args.Category, lookback)

	case "flow":
		if args.Category == 0 {
			return nil, fmt.Errorf("--category is required for a flow report")
		}
		return service.FlowSummary(ctx, args.User, args.Category)

	case "balance":
		if args.Account == 0 {
			return nil, fmt.Errorf("--account is required for a balance report")
		}
		var asOf *time.Time
		if args.AsOf != "" {
			t, err := time.Parse("2006-01-02", args.AsOf)
			if err != nil {
				return nil, fmt.Errorf("parse --as-of: %w", err)
			}
			// Include the whole cutoff day.
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
			asOf = &t
		}
		return service.AccountBalance(ctx, args.User, args.Account, asOf)
	}
	return nil, fmt.Errorf("unknown report %q: want stock, flow or balance", args.Report)
}
