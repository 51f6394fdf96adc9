package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/uhyunpark/hypercross/pkg/app/core/auction"
	"github.com/uhyunpark/hypercross/pkg/app/cross"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 1000
	maxBodyBytes        = 8 << 20
)

// Server handles REST API and WebSocket connections
type Server struct {
	app    *cross.App
	router *mux.Router
	hub    *Hub // WebSocket hub
	log    *zap.SugaredLogger
	http   *http.Server
}

// NewServer creates a new API server and subscribes its WebSocket hub to
// every auction the app runs.
func NewServer(app *cross.App, logger *zap.SugaredLogger) *Server {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	s := &Server{
		app:    app,
		router: mux.NewRouter(),
		hub:    NewHub(logger),
		log:    logger,
	}

	s.setupRoutes()
	app.SetOnAuction(s.BroadcastAuction)
	return s
}

func (s *Server) setupRoutes() {
	// API v1 routes
	api := s.router.PathPrefix("/api/v1").Subrouter()

	// Market endpoints
	api.HandleFunc("/markets", s.handleGetMarkets).Methods("GET")
	api.HandleFunc("/markets/{symbol}", s.handleGetMarket).Methods("GET")
	api.HandleFunc("/markets/{symbol}/auction", s.handleRunAuction).Methods("POST")
	api.HandleFunc("/markets/{symbol}/auctions", s.handleGetAuctions).Methods("GET")

	// Auction endpoints
	api.HandleFunc("/auctions/clear", s.handleClear).Methods("POST")
	api.HandleFunc("/auctions/{id}", s.handleGetAuction).Methods("GET")

	// WebSocket endpoint
	s.router.HandleFunc("/ws", s.handleWebSocket)

	// Health check and metrics
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")
}

// Handler returns the router wrapped in CORS middleware
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:3001"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	return c.Handler(s.router)
}

// Start runs the WebSocket hub and serves HTTP until Shutdown is called
func (s *Server) Start(addr string) error {
	go s.hub.Run()

	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.log.Infow("api_server_starting", "addr", addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and closes the hub
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Stop()
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// ==============================
// REST Handlers
// ==============================

func (s *Server) handleGetMarkets(w http.ResponseWriter, r *http.Request) {
	markets := s.app.Registry().ListMarkets()

	response := make([]MarketInfo, len(markets))
	for i, m := range markets {
		response[i] = marketInfo(m)
	}

	respondJSON(w, response)
}

func (s *Server) handleGetMarket(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	m, err := s.app.Registry().GetMarket(symbol)
	if err != nil {
		respondError(w, http.StatusNotFound, "market not found", err.Error())
		return
	}

	respondJSON(w, marketInfo(m))
}

func (s *Server) handleRunAuction(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	var req AuctionRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body", err.Error())
		return
	}

	orders, err := ToOrders(req.Orders, 0)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid order", err.Error())
		return
	}

	out, err := s.app.Run(r.Context(), cross.Request{
		Symbol:         symbol,
		Orders:         orders,
		ReferencePrice: req.ReferencePrice,
		BestBid:        req.BestBid,
		BestAsk:        req.BestAsk,
	})
	if err != nil {
		s.respondAppError(w, "auction failed", err)
		return
	}

	respondJSON(w, auctionResponse(out))
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	var req ClearRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body", err.Error())
		return
	}

	buys, err := ToOrders(req.Buys, auction.Buy)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid order", err.Error())
		return
	}
	sells, err := ToOrders(req.Sells, auction.Sell)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid order", err.Error())
		return
	}
	md, err := req.MarketData()
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid market data", err.Error())
		return
	}

	res, err := s.app.Clear(buys, sells, md)
	if err != nil {
		s.respondAppError(w, "clear failed", err)
		return
	}

	respondJSON(w, ClearResponse{TieBreak: s.app.TieBreak().String(), Result: res})
}

func (s *Server) handleGetAuctions(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "invalid limit", v)
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	recs, err := s.app.History(symbol, limit)
	if err != nil {
		s.respondAppError(w, "history failed", err)
		return
	}
	if recs == nil {
		recs = []cross.Record{}
	}

	respondJSON(w, recs)
}

func (s *Server) handleGetAuction(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	rec, err := s.app.Lookup(id)
	if err != nil {
		s.respondAppError(w, "lookup failed", err)
		return
	}

	respondJSON(w, rec)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]any{
		"status":    "ok",
		"wsClients": s.hub.ClientCount(),
	})
}

// ==============================
// WebSocket Broadcasting
// ==============================

// BroadcastAuction publishes a journaled run on auction:<symbol>
func (s *Server) BroadcastAuction(rec cross.Record) {
	s.hub.BroadcastToChannel(AuctionChannel(rec.Symbol), AuctionUpdate{
		Type:   "auction",
		Record: rec,
	})
}

// ==============================
// Helper Functions
// ==============================

func decodeBody(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	return json.Unmarshal(body, v)
}

// statusFor maps app and core errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, cross.ErrUnknownMarket), errors.Is(err, cross.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, cross.ErrMarketInactive):
		return http.StatusConflict
	case errors.Is(err, cross.ErrJournal), errors.Is(err, auction.ErrOutsideCollar):
		return http.StatusInternalServerError
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}

func (s *Server) respondAppError(w http.ResponseWriter, msg string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Errorw("api_error", "msg", msg, "error", err)
	}
	respondError(w, status, msg, err.Error())
}

func respondJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, error string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Message: message,
	})
}
