package cross

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/uhyunpark/hypercross/pkg/app/core/auction"
	"github.com/uhyunpark/hypercross/pkg/app/core/market"
	"github.com/uhyunpark/hypercross/pkg/app/core/orderbook"
	"github.com/uhyunpark/hypercross/pkg/telemetry"
	"github.com/uhyunpark/hypercross/pkg/util"
)

var (
	ErrUnknownMarket  = errors.New("unknown market")
	ErrRecordNotFound = errors.New("auction record not found")
	ErrJournal        = errors.New("journal failure")
	ErrMarketInactive = errors.New("market is not active")
)

// Request is one auction run: the order snapshot and the market reference.
// Zero BestBid/BestAsk are filled from the displayed limit interest in the
// snapshot; a zero ReferencePrice falls back to the snapshot mid price.
type Request struct {
	Symbol         string
	Orders         []auction.Order
	ReferencePrice int64
	BestBid        int64
	BestAsk        int64
}

// App runs auctions for the registered markets and journals every outcome.
type App struct {
	registry *market.MarketRegistry
	solver   *auction.Solver
	journal  Journal
	log      *zap.SugaredLogger
	clock    util.Clock

	mu        sync.RWMutex
	onAuction func(Record)
}

func NewApp(registry *market.MarketRegistry, solver *auction.Solver, journal Journal, logger *zap.SugaredLogger, clock util.Clock) *App {
	if solver == nil {
		solver = auction.NewSolver(auction.ImbalanceBound)
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if clock == nil {
		clock = util.RealClock{}
	}
	return &App{
		registry: registry,
		solver:   solver,
		journal:  journal,
		log:      logger,
		clock:    clock,
	}
}

func (a *App) Registry() *market.MarketRegistry { return a.registry }

func (a *App) TieBreak() auction.TieBreakPolicy { return a.solver.TieBreak }

// SetOnAuction installs a callback fired after every journaled run.
func (a *App) SetOnAuction(fn func(Record)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onAuction = fn
}

// Outcome is a journaled run together with the snapshot and market data it
// was computed from.
type Outcome struct {
	Record     Record
	Snapshot   *orderbook.Snapshot
	MarketData auction.MarketData
}

// RankPrice is the price the book is ranked at: the clearing price, or the
// midpoint when the run did not cross.
func (o Outcome) RankPrice() int64 {
	if o.Record.Result.Crossed {
		return o.Record.Result.Price
	}
	return o.Record.Result.Midpoint
}

// Ranked returns one side of the snapshot in priority order at RankPrice.
func (o Outcome) Ranked(side auction.Side) []auction.Order {
	return o.Snapshot.Ranked(side, o.MarketData, o.RankPrice())
}

// RunAuction computes the clearing price for one snapshot, journals the
// outcome and notifies the OnAuction callback. A run that does not cross is
// still journaled.
func (a *App) RunAuction(ctx context.Context, req Request) (Record, error) {
	out, err := a.Run(ctx, req)
	if err != nil {
		return Record{}, err
	}
	return out.Record, nil
}

// Run is RunAuction that also returns the snapshot behind the record.
func (a *App) Run(ctx context.Context, req Request) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	mkt, err := a.registry.GetMarket(req.Symbol)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %s", ErrUnknownMarket, req.Symbol)
	}
	if mkt.Status != market.Active {
		a.rejected(req.Symbol, ErrMarketInactive)
		return Outcome{}, fmt.Errorf("%w: %s is %s", ErrMarketInactive, req.Symbol, mkt.Status)
	}

	snap, err := orderbook.NewSnapshot(mkt, req.Orders)
	if err != nil {
		a.rejected(req.Symbol, err)
		return Outcome{}, fmt.Errorf("snapshot: %w", err)
	}

	bid, ask, ref := req.BestBid, req.BestAsk, req.ReferencePrice
	if bid == 0 {
		bid = snap.BestBid()
	}
	if ask == 0 {
		ask = snap.BestAsk()
	}
	if ref == 0 {
		ref = snap.GetMidPrice()
	}

	md, err := mkt.MarketData(ref, bid, ask)
	if err != nil {
		a.rejected(req.Symbol, err)
		return Outcome{}, err
	}

	buys, sells := snap.Buys(), snap.Sells()
	res, err := a.solve(req.Symbol, len(buys), len(sells), func() (auction.Result, error) {
		return snap.Solve(a.solver, md)
	})
	if err != nil {
		return Outcome{}, err
	}

	rec := Record{
		ID:          uuid.NewString(),
		Symbol:      req.Symbol,
		Timestamp:   a.clock.Now().UnixMilli(),
		Fingerprint: Fingerprint(req.Symbol, md, a.solver.TieBreak, buys, sells),
		TieBreak:    a.solver.TieBreak.String(),
		Reference:   md.ReferencePrice,
		BestBid:     md.BestBid,
		BestAsk:     md.BestAsk,
		BuyOrders:   len(buys),
		SellOrders:  len(sells),
		Result:      res,
	}

	if err := a.journal.Save(rec); err != nil {
		return Outcome{}, fmt.Errorf("%w: auction %s: %w", ErrJournal, rec.ID, err)
	}

	a.mu.RLock()
	cb := a.onAuction
	a.mu.RUnlock()
	if cb != nil {
		cb(rec)
	}

	return Outcome{Record: rec, Snapshot: snap, MarketData: md}, nil
}

// Clear computes a result for explicit sides and market data without
// touching the journal.
func (a *App) Clear(buys, sells []auction.Order, md auction.MarketData) (auction.Result, error) {
	return a.solve("adhoc", len(buys), len(sells), func() (auction.Result, error) {
		return a.solver.Solve(buys, sells, md)
	})
}

func (a *App) solve(symbol string, buys, sells int, compute func() (auction.Result, error)) (auction.Result, error) {
	start := time.Now()
	res, err := compute()
	telemetry.AuctionComputeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		a.rejected(symbol, err)
		return auction.Result{}, err
	}

	if !res.Crossed {
		telemetry.AuctionRunsCounter.WithLabelValues(symbol, telemetry.OutcomeNoCross).Inc()
		a.log.Infow("auction_no_cross",
			"symbol", symbol,
			"buys", buys,
			"sells", sells,
			"collar_lower", res.CollarLower,
			"collar_upper", res.CollarUpper,
		)
		return res, nil
	}

	telemetry.AuctionRunsCounter.WithLabelValues(symbol, telemetry.OutcomeCleared).Inc()
	telemetry.AuctionClearedVolume.WithLabelValues(symbol).Set(float64(res.Volume))
	a.log.Infow("auction_cleared",
		"symbol", symbol,
		"price", res.Price,
		"volume", res.Volume,
		"range_low", res.LowestPrice,
		"range_high", res.HighestPrice,
		"buy_excess", res.BuyExcess,
		"sell_excess", res.SellExcess,
		"imbalance", res.Imbalance,
		"tiebreak", a.solver.TieBreak.String(),
	)
	return res, nil
}

func (a *App) rejected(symbol string, err error) {
	telemetry.AuctionRunsCounter.WithLabelValues(symbol, telemetry.OutcomeRejected).Inc()
	a.log.Warnw("auction_rejected", "symbol", symbol, "error", err)
}

// History returns the most recent journaled runs for symbol, newest first.
func (a *App) History(symbol string, limit int) ([]Record, error) {
	if !a.registry.Exists(symbol) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMarket, symbol)
	}
	recs, err := a.journal.Recent(symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrJournal, err)
	}
	return recs, nil
}

// Lookup returns a journaled run by ID.
func (a *App) Lookup(id string) (Record, error) {
	rec, ok, err := a.journal.Get(id)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %w", ErrJournal, err)
	}
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	return rec, nil
}
