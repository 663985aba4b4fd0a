package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	HTTPPort    string
	DatabaseURL string
	AdminAPIKey string

	IndexerURL            string
	IndexerRetryMax       int
	IndexerRetryBaseDelay time.Duration

	JupiterURL            string
	JupiterRetryMax       int
	JupiterRetryBaseDelay time.Duration

	PriceFeedURL      string
	PriceFeedDelay    time.Duration
	PriceFeedRetryMax int

	FeeRate       float64
	PriceCacheTTL time.Duration

	PriceWorkerInterval    time.Duration
	SnapshotWorkerInterval time.Duration
	SnapshotWallets        []string

	SheetsSpreadsheetID string
	GoogleCredentials   string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		HTTPPort:    envOrDefault("HTTP_PORT", "8080"),
		DatabaseURL: envOrDefaultWarn("DATABASE_URL", ""),
		AdminAPIKey: envOrDefault("ADMIN_API_KEY", ""),

		IndexerURL:            envOrDefault("INDEXER_URL", ""),
		IndexerRetryMax:       envOrDefaultInt("INDEXER_RETRY_MAX", 5),
		IndexerRetryBaseDelay: envOrDefaultDuration("INDEXER_RETRY_BASE_DELAY", 2*time.Second),

		JupiterURL:            envOrDefault("JUPITER_URL", "https://quote-api.jup.ag/v6"),
		JupiterRetryMax:       envOrDefaultInt("JUPITER_RETRY_MAX", 3),
		JupiterRetryBaseDelay: envOrDefaultDuration("JUPITER_RETRY_BASE_DELAY", 1*time.Second),

		PriceFeedURL:      envOrDefault("PRICEFEED_URL", "https://api.coingecko.com/api/v3"),
		PriceFeedDelay:    envOrDefaultDuration("PRICEFEED_DELAY", 6*time.Second),
		PriceFeedRetryMax: envOrDefaultInt("PRICEFEED_RETRY_MAX", 5),

		FeeRate:       envOrDefaultFloat("FEE_RATE", 0.005),
		PriceCacheTTL: envOrDefaultDuration("PRICE_CACHE_TTL", 30*time.Second),

		PriceWorkerInterval:    envOrDefaultDuration("PRICE_WORKER_INTERVAL", 1*time.Minute),
		SnapshotWorkerInterval: envOrDefaultDuration("SNAPSHOT_WORKER_INTERVAL", 24*time.Hour),
		SnapshotWallets:        envList("SNAPSHOT_WALLETS"),

		SheetsSpreadsheetID: envOrDefault("SHEETS_SPREADSHEET_ID", ""),
		GoogleCredentials:   envOrDefault("GOOGLE_CREDENTIALS_JSON", ""),
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultWarn(key, defaultVal string) string {
	v := envOrDefault(key, defaultVal)
	if v == "" {
		slog.Warn("required env var not set", "key", key)
	}
	return v
}

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("invalid integer env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return n
	}
	return defaultVal
}

func envOrDefaultFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			slog.Warn("invalid float env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return f
	}
	return defaultVal
}

func envOrDefaultDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return d
	}
	return defaultVal
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
