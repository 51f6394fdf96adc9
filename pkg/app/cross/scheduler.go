package cross

import (
	"context"
	"time"
)

// SchedulerConfig controls the demo auction loop.
type SchedulerConfig struct {
	Interval         time.Duration // time between auctions
	OrdersPerAuction int
	NumAccounts      int
	Seed             int64 // zero seeds from the clock
}

// DefaultSchedulerConfig returns reasonable defaults for a demo node.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Interval:         5 * time.Second,
		OrdersPerAuction: 200,
		NumAccounts:      50,
	}
}

// StartScheduler runs a generated auction for symbol every cfg.Interval until
// the returned cancel function is called or ctx ends. Each cleared price
// becomes the next reference.
func StartScheduler(ctx context.Context, app *App, symbol string, reference int64, cfg SchedulerConfig) (context.CancelFunc, error) {
	mkt, err := app.registry.GetMarket(symbol)
	if err != nil {
		return nil, err
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultSchedulerConfig().Interval
	}
	if cfg.OrdersPerAuction <= 0 {
		cfg.OrdersPerAuction = DefaultSchedulerConfig().OrdersPerAuction
	}

	gen := NewOrderGenerator(mkt, cfg.NumAccounts, reference, cfg.Seed)
	runCtx, cancel := context.WithCancel(ctx)

	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		start := app.clock.Now()
		runs := 0

		app.log.Infow("scheduler_started",
			"symbol", symbol,
			"interval", cfg.Interval,
			"orders_per_auction", cfg.OrdersPerAuction,
		)

		for {
			select {
			case <-runCtx.Done():
				app.log.Infow("scheduler_stopped",
					"symbol", symbol,
					"runs", runs,
					"orders", gen.Generated(),
					"last_reference", gen.Reference(),
					"elapsed", app.clock.Now().Sub(start).Round(time.Second),
				)
				return

			case <-ticker.C:
				rec, err := app.RunAuction(runCtx, gen.GenerateRequest(cfg.OrdersPerAuction))
				if err != nil {
					app.log.Warnw("scheduled_auction_failed", "symbol", symbol, "error", err)
					continue
				}
				runs++
				if rec.Result.Crossed {
					gen.SetReference(rec.Result.Price)
				}
			}
		}
	}()

	return cancel, nil
}
