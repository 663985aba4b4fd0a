package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lazorvault/vaultd/internal/domain"
	"github.com/lazorvault/vaultd/internal/quote"
	"github.com/lazorvault/vaultd/internal/snapshot"
)

type mockPortfolioService struct {
	portfolio domain.WalletPortfolio
	err       error
}

func (m *mockPortfolioService) GetPortfolio(_ context.Context, _ string) (domain.WalletPortfolio, error) {
	return m.portfolio, m.err
}

type mockQuoteService struct {
	quote domain.Quote
	err   error
	last  domain.TradeRequest
}

func (m *mockQuoteService) GetQuote(_ context.Context, req domain.TradeRequest) (domain.Quote, error) {
	m.last = req
	return m.quote, m.err
}

type mockSwapBuilder struct {
	tx  string
	err error
}

func (m *mockSwapBuilder) BuildSwap(_ context.Context, _ json.RawMessage, _ string) (string, error) {
	return m.tx, m.err
}

type mockSnapshotRepo struct {
	latest *snapshot.Snapshot
	list   []snapshot.Snapshot
	saved  json.RawMessage
	err    error
}

func (m *mockSnapshotRepo) Save(_ context.Context, _ int, _ time.Time, data json.RawMessage) error {
	m.saved = data
	return m.err
}

func (m *mockSnapshotRepo) GetLatest(_ context.Context, _ string) (*snapshot.Snapshot, error) {
	if m.latest == nil {
		return nil, snapshot.ErrNotFound
	}
	return m.latest, nil
}

func (m *mockSnapshotRepo) GetByDate(_ context.Context, _ string, _ time.Time) (*snapshot.Snapshot, error) {
	if m.latest == nil {
		return nil, snapshot.ErrNotFound
	}
	return m.latest, nil
}

func (m *mockSnapshotRepo) List(_ context.Context, _ string, _ int) ([]snapshot.Snapshot, error) {
	return m.list, m.err
}

func (m *mockSnapshotRepo) GetWalletID(_ context.Context, _ string) (int, error) {
	return 1, nil
}

func (m *mockSnapshotRepo) EnsureWallet(_ context.Context, _, _ string) (int, error) {
	return 1, nil
}

func newTestServer(t *testing.T, handler *Handler, apiKey string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewServer("0", handler, apiKey).Handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestHealthz(t *testing.T) {
	handler := NewHandler(&mockPortfolioService{}, &mockQuoteService{}, nil, nil, nil)
	srv := newTestServer(t, handler, "")

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestListTokens(t *testing.T) {
	handler := NewHandler(&mockPortfolioService{}, &mockQuoteService{}, nil, nil, nil)
	srv := newTestServer(t, handler, "")

	resp, err := http.Get(srv.URL + "/api/v1/tokens")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	var tokens []domain.Token
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(tokens) != 5 {
		t.Errorf("expected 5 tokens, got %d", len(tokens))
	}
}

func TestGetPortfolio(t *testing.T) {
	portfolio := domain.WalletPortfolio{
		Wallet: "wallet1",
		Summary: domain.PortfolioSummary{
			TotalValue: decimal.RequireFromString("351.2"),
		},
	}
	handler := NewHandler(&mockPortfolioService{portfolio: portfolio}, &mockQuoteService{}, nil, nil, nil)
	srv := newTestServer(t, handler, "")

	resp, err := http.Get(srv.URL + "/api/v1/portfolio/wallet1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var got domain.WalletPortfolio
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if got.Wallet != "wallet1" {
		t.Errorf("expected wallet wallet1, got %s", got.Wallet)
	}
}

func TestGetQuoteDefaultsSlippage(t *testing.T) {
	quotes := &mockQuoteService{quote: domain.Quote{Source: "local"}}
	handler := NewHandler(&mockPortfolioService{}, quotes, nil, nil, nil)
	srv := newTestServer(t, handler, "")

	url := srv.URL + "/api/v1/quote?inputMint=" + domain.SOLMint + "&outputMint=" + domain.USDCMint + "&amount=2"
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if quotes.last.SlippageBps != domain.DefaultSlippageBps {
		t.Errorf("expected default slippage %d, got %d", domain.DefaultSlippageBps, quotes.last.SlippageBps)
	}
}

func TestGetQuoteErrors(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		serviceErr error
		wantStatus int
	}{
		{
			name:       "missing mints",
			query:      "amount=1",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed amount",
			query:      "inputMint=a&outputMint=b&amount=abc",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown token",
			query:      "inputMint=a&outputMint=b&amount=1",
			serviceErr: quote.ErrUnknownToken,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "identical tokens",
			query:      "inputMint=a&outputMint=a&amount=1",
			serviceErr: quote.ErrIdenticalTokens,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid slippage",
			query:      "inputMint=a&outputMint=b&amount=1&slippageBps=20000",
			serviceErr: quote.ErrInvalidSlippage,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(&mockPortfolioService{}, &mockQuoteService{err: tt.serviceErr}, nil, nil, nil)
			srv := newTestServer(t, handler, "")

			resp, err := http.Get(srv.URL + "/api/v1/quote?" + tt.query)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, resp.StatusCode)
			}
		})
	}
}

func TestBuildSwapNotConfigured(t *testing.T) {
	handler := NewHandler(&mockPortfolioService{}, &mockQuoteService{}, nil, nil, nil)
	srv := newTestServer(t, handler, "")

	resp, err := http.Post(srv.URL+"/api/v1/swap", "application/json",
		strings.NewReader(`{"quote":{},"publicKey":"pk"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", resp.StatusCode)
	}
}

func TestBuildSwap(t *testing.T) {
	handler := NewHandler(&mockPortfolioService{}, &mockQuoteService{}, &mockSwapBuilder{tx: "base64tx"}, nil, nil)
	srv := newTestServer(t, handler, "")

	resp, err := http.Post(srv.URL+"/api/v1/swap", "application/json",
		strings.NewReader(`{"quote":{"inAmount":"1"},"publicKey":"pk"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body["swapTransaction"] != "base64tx" {
		t.Errorf("expected base64tx, got %s", body["swapTransaction"])
	}
}

func TestSnapshotRoutes(t *testing.T) {
	repo := &mockSnapshotRepo{
		latest: &snapshot.Snapshot{
			ID:           1,
			WalletID:     1,
			SnapshotDate: time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC),
			Data:         json.RawMessage(`{"wallet":"wallet1"}`),
		},
	}
	svc := snapshot.NewService(&mockPortfolioService{}, repo)
	handler := NewHandler(&mockPortfolioService{}, &mockQuoteService{}, nil, svc, nil)
	srv := newTestServer(t, handler, "")

	t.Run("latest requires wallet", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/v1/snapshots/latest")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("latest found", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/v1/snapshots/latest?wallet=wallet1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}
	})

	t.Run("by date rejects malformed date", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/v1/snapshots/notadate?wallet=wallet1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("by date found", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/v1/snapshots/2026-08-29?wallet=wallet1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}
	})

	t.Run("list", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/v1/snapshots?wallet=wallet1&limit=5")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}
	})

	t.Run("generate", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/api/v1/snapshots/generate", "application/json",
			strings.NewReader(`{"wallet":"wallet1"}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}
		if repo.saved == nil {
			t.Error("expected snapshot data to be saved")
		}
	})
}

func TestSnapshotNotFound(t *testing.T) {
	svc := snapshot.NewService(&mockPortfolioService{}, &mockSnapshotRepo{})
	handler := NewHandler(&mockPortfolioService{}, &mockQuoteService{}, nil, svc, nil)
	srv := newTestServer(t, handler, "")

	resp, err := http.Get(srv.URL + "/api/v1/snapshots/latest?wallet=unknown")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestRequireAuth(t *testing.T) {
	svc := snapshot.NewService(&mockPortfolioService{}, &mockSnapshotRepo{})
	handler := NewHandler(&mockPortfolioService{}, &mockQuoteService{}, nil, svc, nil)
	srv := newTestServer(t, handler, "secret")

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong key", "Bearer wrong", http.StatusUnauthorized},
		{"correct key", "Bearer secret", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/snapshots/generate",
				strings.NewReader(`{"wallet":"wallet1"}`))
			if err != nil {
				t.Fatalf("creating request: %v", err)
			}
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, resp.StatusCode)
			}
		})
	}
}
