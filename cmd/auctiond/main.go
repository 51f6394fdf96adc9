package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/uhyunpark/hypercross/params"
	"github.com/uhyunpark/hypercross/pkg/api"
	"github.com/uhyunpark/hypercross/pkg/app/core/auction"
	"github.com/uhyunpark/hypercross/pkg/app/core/market"
	"github.com/uhyunpark/hypercross/pkg/app/cross"
	"github.com/uhyunpark/hypercross/pkg/storage"
	"github.com/uhyunpark/hypercross/pkg/util"
)

// demoReference is the starting reference price of the generated HYPL-USDC auctions
const demoReference = 10_000

func main() {
	// Load config from .env file and environment variables
	cfg := params.LoadFromEnv("") // "" means load from .env in current directory

	// Setup logging (stdout, plus a file when LOG_FILE is set)
	level := util.ParseLevel(cfg.Log.Level)
	logger, err := util.NewLogger(level)
	if cfg.Log.File != "" {
		logger, err = util.NewLoggerWithFile(cfg.Log.File, level)
	}
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()
	sugar.Infow("logger_initialized", "log_file", cfg.Log.File, "level", level.String())

	// ---- Markets ----
	registry := market.NewMarketRegistry()
	mp := market.DefaultHYPLUSDC
	mp.Collar.Percent = cfg.Auction.CollarPercent
	mp.Collar.MinTicks = cfg.Auction.CollarMinTicks
	hypl, err := market.NewMarket("HYPL-USDC", "HYPL", "USDC", mp)
	if err != nil {
		sugar.Fatalw("market_init_failed", "err", err)
	}
	if err := registry.RegisterMarket(hypl); err != nil {
		sugar.Fatalw("market_register_failed", "err", err)
	}

	// ---- Journal ----
	var journal cross.Journal
	switch cfg.Storage.Journal {
	case "memory":
		journal = storage.NewMemoryJournal()
	case "pebble":
		path := filepath.Join(cfg.Storage.DataDir, "journal")
		pj, err := storage.NewPebbleJournal(path)
		if err != nil {
			sugar.Fatalw("journal_open_failed", "path", path, "err", err)
		}
		journal = pj
	default:
		sugar.Fatalw("unknown_journal", "journal", cfg.Storage.Journal)
	}
	defer func() {
		if err := journal.Close(); err != nil {
			sugar.Errorw("journal_close_failed", "err", err)
		}
	}()
	sugar.Infow("journal_ready", "backend", cfg.Storage.Journal)

	// ---- App ----
	policy, err := auction.ParseTieBreak(cfg.Auction.TieBreak)
	if err != nil {
		sugar.Fatalw("invalid_tiebreak", "err", err)
	}
	app := cross.NewApp(registry, auction.NewSolver(policy), journal, sugar, util.RealClock{})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- API Server ----
	apiServer := api.NewServer(app, sugar)
	go func() {
		if err := apiServer.Start(cfg.API.Addr); err != nil {
			sugar.Errorw("api_server_failed", "err", err)
			stop()
		}
	}()

	// ---- Order generator (optional) ----
	// Enable with: ENABLE_ORDERGEN=true ORDERGEN_ORDERS=200 AUCTION_INTERVAL_MS=5000
	if cfg.OrderGen.Enabled {
		schedCfg := cross.DefaultSchedulerConfig()
		schedCfg.Interval = cfg.Auction.Interval
		schedCfg.OrdersPerAuction = cfg.OrderGen.OrdersPerAuction

		cancelSched, err := cross.StartScheduler(ctx, app, hypl.Symbol, demoReference, schedCfg)
		if err != nil {
			sugar.Fatalw("scheduler_failed", "err", err)
		}
		defer cancelSched()
	} else {
		sugar.Info("ordergen_disabled - auctions run only on API requests")
	}

	sugar.Infow("node_starting",
		"api_addr", cfg.API.Addr,
		"tiebreak", policy.String(),
		"markets", registry.Count(),
	)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("api_shutdown_failed", "err", err)
	}
	sugar.Info("node_stopped")
}
