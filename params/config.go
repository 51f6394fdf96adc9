package params

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type API struct {
	Addr string
}

type Log struct {
	File  string // empty logs to stdout only
	Level string
}

type Storage struct {
	DataDir string
	// Journal selects the auction journal backend: "pebble" or "memory".
	Journal string
}

type Auction struct {
	TieBreak       string // imbalance, midpoint, highest, lowest
	CollarPercent  decimal.Decimal
	CollarMinTicks int64
	// Interval between demo auctions when the order generator is enabled.
	Interval time.Duration
}

type OrderGen struct {
	Enabled          bool
	OrdersPerAuction int
}

type Config struct {
	API      API
	Log      Log
	Storage  Storage
	Auction  Auction
	OrderGen OrderGen
}

func Default() Config {
	return Config{
		API: API{Addr: ":8080"},
		Log: Log{
			File:  "",
			Level: "info",
		},
		Storage: Storage{
			DataDir: "data",
			Journal: "pebble",
		},
		Auction: Auction{
			TieBreak:       "imbalance",
			CollarPercent:  decimal.RequireFromString("0.10"),
			CollarMinTicks: 1,
			Interval:       5 * time.Second,
		},
		OrderGen: OrderGen{
			Enabled:          false,
			OrdersPerAuction: 200,
		},
	}
}

// LoadFromEnv loads configuration from .env file (if exists) and environment variables
// Priority: ENV > .env file > defaults
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	// Try to load .env file (optional - won't fail if not exists)
	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load() // loads .env from current directory
	}

	cfg.API.Addr = getEnv("API_ADDR", cfg.API.Addr)
	cfg.Log.File = getEnv("LOG_FILE", cfg.Log.File)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Storage.DataDir = getEnv("DATA_DIR", cfg.Storage.DataDir)
	cfg.Storage.Journal = strings.ToLower(getEnv("JOURNAL", cfg.Storage.Journal))
	cfg.Auction.TieBreak = getEnv("AUCTION_TIEBREAK", cfg.Auction.TieBreak)

	if pct := os.Getenv("AUCTION_COLLAR_PCT"); pct != "" {
		if d, err := decimal.NewFromString(pct); err == nil && !d.IsNegative() {
			cfg.Auction.CollarPercent = d
		}
	}

	if ticks := os.Getenv("AUCTION_COLLAR_MIN_TICKS"); ticks != "" {
		if n, err := strconv.ParseInt(ticks, 10, 64); err == nil && n >= 1 {
			cfg.Auction.CollarMinTicks = n
		}
	}

	if interval := os.Getenv("AUCTION_INTERVAL_MS"); interval != "" {
		if ms, err := strconv.Atoi(interval); err == nil && ms > 0 {
			cfg.Auction.Interval = time.Duration(ms) * time.Millisecond
		}
	}

	if gen := os.Getenv("ENABLE_ORDERGEN"); gen != "" {
		cfg.OrderGen.Enabled = gen == "true"
	}

	if n := os.Getenv("ORDERGEN_ORDERS"); n != "" {
		if v, err := strconv.Atoi(n); err == nil && v > 0 {
			cfg.OrderGen.OrdersPerAuction = v
		}
	}

	return cfg
}

// getEnv returns environment variable value or default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
