package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"HTTP_PORT", "DATABASE_URL", "JUPITER_URL", "PRICEFEED_URL", "FEE_RATE", "INDEXER_RETRY_MAX", "SNAPSHOT_WALLETS"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()

	if cfg.HTTPPort != "8080" {
		t.Errorf("HTTPPort = %q, want 8080", cfg.HTTPPort)
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("DatabaseURL = %q, want empty", cfg.DatabaseURL)
	}
	if cfg.JupiterURL != "https://quote-api.jup.ag/v6" {
		t.Errorf("JupiterURL = %q, want default", cfg.JupiterURL)
	}
	if cfg.PriceFeedURL != "https://api.coingecko.com/api/v3" {
		t.Errorf("PriceFeedURL = %q, want default", cfg.PriceFeedURL)
	}
	if cfg.FeeRate != 0.005 {
		t.Errorf("FeeRate = %v, want 0.005", cfg.FeeRate)
	}
	if cfg.IndexerRetryMax != 5 {
		t.Errorf("IndexerRetryMax = %d, want 5", cfg.IndexerRetryMax)
	}
	if cfg.PriceCacheTTL != 30*time.Second {
		t.Errorf("PriceCacheTTL = %v, want 30s", cfg.PriceCacheTTL)
	}
	if cfg.SnapshotWallets != nil {
		t.Errorf("SnapshotWallets = %v, want nil", cfg.SnapshotWallets)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://localhost/testdb")
	t.Setenv("JUPITER_URL", "https://jupiter.example.com")
	t.Setenv("FEE_RATE", "0.01")
	t.Setenv("INDEXER_RETRY_BASE_DELAY", "5s")
	t.Setenv("SNAPSHOT_WALLETS", "wallet1, wallet2,,wallet3")

	cfg := Load()

	if cfg.HTTPPort != "9090" {
		t.Errorf("HTTPPort = %q, want 9090", cfg.HTTPPort)
	}
	if cfg.DatabaseURL != "postgres://localhost/testdb" {
		t.Errorf("DatabaseURL = %q, want override", cfg.DatabaseURL)
	}
	if cfg.JupiterURL != "https://jupiter.example.com" {
		t.Errorf("JupiterURL = %q, want override", cfg.JupiterURL)
	}
	if cfg.FeeRate != 0.01 {
		t.Errorf("FeeRate = %v, want 0.01", cfg.FeeRate)
	}
	if cfg.IndexerRetryBaseDelay != 5*time.Second {
		t.Errorf("IndexerRetryBaseDelay = %v, want 5s", cfg.IndexerRetryBaseDelay)
	}
	want := []string{"wallet1", "wallet2", "wallet3"}
	if len(cfg.SnapshotWallets) != len(want) {
		t.Fatalf("SnapshotWallets = %v, want %v", cfg.SnapshotWallets, want)
	}
	for i, w := range want {
		if cfg.SnapshotWallets[i] != w {
			t.Errorf("SnapshotWallets[%d] = %q, want %q", i, cfg.SnapshotWallets[i], w)
		}
	}
}

func TestLoadInvalidEnvFallsBackToDefault(t *testing.T) {
	t.Setenv("INDEXER_RETRY_MAX", "not-a-number")
	t.Setenv("FEE_RATE", "not-a-float")
	t.Setenv("PRICE_CACHE_TTL", "invalid-duration")

	cfg := Load()

	if cfg.IndexerRetryMax != 5 {
		t.Errorf("IndexerRetryMax = %d, want default 5", cfg.IndexerRetryMax)
	}
	if cfg.FeeRate != 0.005 {
		t.Errorf("FeeRate = %v, want default 0.005", cfg.FeeRate)
	}
	if cfg.PriceCacheTTL != 30*time.Second {
		t.Errorf("PriceCacheTTL = %v, want default 30s", cfg.PriceCacheTTL)
	}
}
