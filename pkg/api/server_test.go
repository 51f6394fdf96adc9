package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/uhyunpark/hypercross/pkg/app/core/auction"
	"github.com/uhyunpark/hypercross/pkg/app/core/market"
	"github.com/uhyunpark/hypercross/pkg/app/cross"
	"github.com/uhyunpark/hypercross/pkg/storage"
	"github.com/uhyunpark/hypercross/pkg/util"
)

const sym = "HYPL-USDC"

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	reg := market.NewMarketRegistry()
	mkt, err := market.NewMarket(sym, "HYPL", "USDC", market.MarketParams{
		TickSize:     1,
		LotSize:      1,
		MinOrderSize: 1,
		MaxOrderSize: 1_000_000,
		Collar:       auction.TickBand(5, 5),
	})
	require.NoError(t, err)
	require.NoError(t, reg.RegisterMarket(mkt))

	clock := util.FixedClock{T: time.UnixMilli(1_700_000_000_000)}
	app := cross.NewApp(reg, nil, storage.NewMemoryJournal(), nil, clock)
	s := NewServer(app, nil)
	go s.hub.Run()

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		s.hub.Stop()
	})
	return s, ts
}

func scenarioRequest() AuctionRequest {
	return AuctionRequest{
		ReferencePrice: 100,
		Orders: []OrderRequest{
			{ID: "b1", Side: "buy", Type: "limit", Price: 101, Timestamp: 1, Quantity: 100},
			{ID: "b2", Side: "buy", Type: "limit", Price: 100, Timestamp: 2, Quantity: 50},
			{ID: "s1", Side: "sell", Type: "limit", Price: 99, Timestamp: 1, Quantity: 80},
			{ID: "s2", Side: "sell", Type: "limit", Price: 102, Timestamp: 3, Quantity: 100},
		},
	}
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func getJSON(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealthAndMetrics(t *testing.T) {
	_, ts := newTestServer(t)

	resp := getJSON(t, ts.URL+"/health")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	health := decode[map[string]any](t, resp)
	require.Equal(t, "ok", health["status"])
	require.EqualValues(t, 0, health["wsClients"])

	// run one auction so the counters have samples
	postJSON(t, ts.URL+"/api/v1/markets/"+sym+"/auction", scenarioRequest())

	resp = getJSON(t, ts.URL+"/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var buf bytes.Buffer
	_, err := buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "auction_runs_total")
	require.Contains(t, buf.String(), "auction_compute_duration_seconds")
}

func TestGetMarkets(t *testing.T) {
	_, ts := newTestServer(t)

	resp := getJSON(t, ts.URL+"/api/v1/markets")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	markets := decode[[]MarketInfo](t, resp)
	require.Len(t, markets, 1)
	require.Equal(t, sym, markets[0].Symbol)
	require.Equal(t, "Active", markets[0].Status)
	require.Equal(t, int64(5), markets[0].CollarLowerTicks)

	resp = getJSON(t, ts.URL+"/api/v1/markets/"+sym)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "HYPL", decode[MarketInfo](t, resp).BaseAsset)

	resp = getJSON(t, ts.URL+"/api/v1/markets/NOPE")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRunAuctionAndHistory(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/markets/"+sym+"/auction", scenarioRequest())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	run := decode[AuctionResponse](t, resp)
	rec := run.Record
	require.True(t, rec.Result.Crossed)
	require.Equal(t, int64(101), rec.Result.Price)
	require.Equal(t, int64(80), rec.Result.Volume)
	require.Equal(t, int64(20), rec.Result.Imbalance)
	require.Equal(t, int64(1_700_000_000_000), rec.Timestamp)

	// book behind the record, ranked at the clearing price
	require.Equal(t, int64(101), run.RankPrice)
	require.Equal(t, []PriceLevel{{Price: 101, Qty: 100, Orders: 1}, {Price: 100, Qty: 50, Orders: 1}}, run.Bids)
	require.Equal(t, []PriceLevel{{Price: 99, Qty: 80, Orders: 1}, {Price: 102, Qty: 100, Orders: 1}}, run.Asks)
	require.Len(t, run.Buys, 2)
	require.Equal(t, "b1", run.Buys[0].ID)
	require.Equal(t, int64(101), run.Buys[0].EffectivePrice)
	require.True(t, run.Buys[0].Displayed)
	require.Len(t, run.Sells, 2)
	require.Equal(t, "s1", run.Sells[0].ID)

	resp = getJSON(t, ts.URL+"/api/v1/auctions/"+rec.ID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, rec, decode[cross.Record](t, resp))

	resp = getJSON(t, ts.URL+"/api/v1/markets/"+sym+"/auctions?limit=5")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	hist := decode[[]cross.Record](t, resp)
	require.Len(t, hist, 1)
	require.Equal(t, rec.ID, hist[0].ID)

	tests := []struct {
		name   string
		url    string
		status int
	}{
		{"unknown record", "/api/v1/auctions/missing", http.StatusNotFound},
		{"unknown market history", "/api/v1/markets/NOPE/auctions", http.StatusNotFound},
		{"bad limit", "/api/v1/markets/" + sym + "/auctions?limit=zero", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := getJSON(t, ts.URL+tt.url)
			require.Equal(t, tt.status, resp.StatusCode)
			require.NotEmpty(t, decode[ErrorResponse](t, resp).Error)
		})
	}
}

func TestRunAuctionRejects(t *testing.T) {
	s, ts := newTestServer(t)
	url := ts.URL + "/api/v1/markets/" + sym + "/auction"

	badSide := scenarioRequest()
	badSide.Orders[0].Side = "long"
	require.Equal(t, http.StatusBadRequest, postJSON(t, url, badSide).StatusCode)

	badType := scenarioRequest()
	badType.Orders[0].Type = "stop"
	require.Equal(t, http.StatusBadRequest, postJSON(t, url, badType).StatusCode)

	negative := scenarioRequest()
	negative.Orders[1].Quantity = -5
	require.Equal(t, http.StatusBadRequest, postJSON(t, url, negative).StatusCode)

	resp, err := http.Post(url, "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	require.Equal(t, http.StatusNotFound, postJSON(t, ts.URL+"/api/v1/markets/NOPE/auction", scenarioRequest()).StatusCode)

	require.NoError(t, s.app.Registry().UpdateMarketStatus(sym, market.Halted))
	require.Equal(t, http.StatusConflict, postJSON(t, url, scenarioRequest()).StatusCode)
}

func TestClear(t *testing.T) {
	_, ts := newTestServer(t)
	url := ts.URL + "/api/v1/auctions/clear"

	req := ClearRequest{
		Buys: []OrderRequest{
			{ID: "b1", Price: 101, Timestamp: 1, Quantity: 100},
			{ID: "b2", Price: 100, Timestamp: 2, Quantity: 50},
		},
		Sells: []OrderRequest{
			{ID: "s1", Price: 99, Timestamp: 1, Quantity: 80},
			{ID: "s2", Price: 102, Timestamp: 3, Quantity: 100},
		},
		ReferencePrice: 100,
		Collar:         CollarRequest{LowerTicks: 5, UpperTicks: 5, MinTicks: 1},
	}
	resp := postJSON(t, url, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[ClearResponse](t, resp)
	require.Equal(t, "imbalance", out.TieBreak)
	require.Equal(t, int64(101), out.Result.Price)
	require.Equal(t, int64(99), out.Result.LowestPrice)
	require.Equal(t, int64(101), out.Result.HighestPrice)

	// no cross: buy 90, sell 99
	noCross := ClearRequest{
		Buys:           []OrderRequest{{ID: "b", Price: 90, Timestamp: 1, Quantity: 10}},
		Sells:          []OrderRequest{{ID: "s", Price: 99, Timestamp: 1, Quantity: 10}},
		ReferencePrice: 95,
		Collar:         CollarRequest{LowerTicks: 10, UpperTicks: 10},
	}
	resp = postJSON(t, url, noCross)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.False(t, decode[ClearResponse](t, resp).Result.Crossed)

	mismatch := req
	mismatch.Buys = []OrderRequest{{ID: "x", Side: "sell", Price: 101, Timestamp: 1, Quantity: 1}}
	require.Equal(t, http.StatusBadRequest, postJSON(t, url, mismatch).StatusCode)

	badCollar := req
	badCollar.Collar = CollarRequest{}
	require.Equal(t, http.StatusBadRequest, postJSON(t, url, badCollar).StatusCode)

	badPct := req
	badPct.Collar = CollarRequest{Percent: "ten"}
	require.Equal(t, http.StatusBadRequest, postJSON(t, url, badPct).StatusCode)

	noRef := req
	noRef.ReferencePrice = 0
	require.Equal(t, http.StatusBadRequest, postJSON(t, url, noRef).StatusCode)

	displayed := false
	displayedPeg := req
	displayedPeg.Buys = []OrderRequest{{ID: "m", Type: "midpoint_peg", Hidden: &displayed, Timestamp: 1, Quantity: 1}}
	require.Equal(t, http.StatusBadRequest, postJSON(t, url, displayedPeg).StatusCode)

	overflow := req
	overflow.Buys = []OrderRequest{
		{ID: "b1", Price: 100, Timestamp: 1, Quantity: math.MaxInt64/2 + 1},
		{ID: "b2", Price: 100, Timestamp: 2, Quantity: math.MaxInt64/2 + 1},
	}
	resp = postJSON(t, url, overflow)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Contains(t, decode[ErrorResponse](t, resp).Message, auction.ErrVolumeOverflow.Error())
}

func TestClearOnTickGrid(t *testing.T) {
	_, ts := newTestServer(t)

	req := ClearRequest{
		Buys: []OrderRequest{
			{ID: "b1", Price: 1000, Timestamp: 1, Quantity: 100},
			{ID: "b2", Type: "market", Timestamp: 2, Quantity: 100},
		},
		Sells: []OrderRequest{
			{ID: "s1", Price: 1010, Timestamp: 3, Quantity: 100},
			{ID: "s2", Type: "market", Timestamp: 4, Quantity: 100},
		},
		ReferencePrice: 1000,
		BestBid:        1000,
		BestAsk:        1010,
		TickSize:       10,
		Collar:         CollarRequest{Percent: "0.10", MinTicks: 1},
	}
	resp := postJSON(t, ts.URL+"/api/v1/auctions/clear", req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	res := decode[ClearResponse](t, resp).Result
	require.True(t, res.Crossed)
	require.Equal(t, int64(1000), res.Price)
	require.Equal(t, int64(1000), res.Midpoint)
}

func TestWebSocketAuctionBroadcast(t *testing.T) {
	s, ts := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	channel := AuctionChannel(sym)
	require.NoError(t, conn.WriteJSON(WSSubscribeRequest{Op: "subscribe", Channels: []string{channel}}))
	require.Eventually(t, func() bool { return subscribers(s.hub, channel) == 1 }, 2*time.Second, 10*time.Millisecond)

	resp := postJSON(t, ts.URL+"/api/v1/markets/"+sym+"/auction", scenarioRequest())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rec := decode[AuctionResponse](t, resp).Record

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var update AuctionUpdate
	require.NoError(t, conn.ReadJSON(&update))
	require.Equal(t, "auction", update.Type)
	require.Equal(t, rec.ID, update.Record.ID)
	require.Equal(t, int64(101), update.Record.Result.Price)
}

func subscribers(h *Hub, channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for c := range h.clients {
		if c.IsSubscribed(channel) {
			n++
		}
	}
	return n
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("wrap: %w", cross.ErrUnknownMarket), http.StatusNotFound},
		{cross.ErrRecordNotFound, http.StatusNotFound},
		{cross.ErrMarketInactive, http.StatusConflict},
		{fmt.Errorf("%w: disk", cross.ErrJournal), http.StatusInternalServerError},
		{auction.ErrNegativeQuantity, http.StatusBadRequest},
		{&auction.OrderError{ID: "b2", Err: auction.ErrVolumeOverflow}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
