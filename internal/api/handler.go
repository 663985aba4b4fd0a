package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/lazorvault/vaultd/internal/domain"
	"github.com/lazorvault/vaultd/internal/quote"
	"github.com/lazorvault/vaultd/internal/session"
	"github.com/lazorvault/vaultd/internal/snapshot"
	"github.com/lazorvault/vaultd/internal/valuation"
)

// PortfolioService values a wallet's holdings.
type PortfolioService interface {
	GetPortfolio(ctx context.Context, wallet string) (domain.WalletPortfolio, error)
}

// QuoteService resolves trade requests into quotes.
type QuoteService interface {
	GetQuote(ctx context.Context, req domain.TradeRequest) (domain.Quote, error)
}

// SwapBuilder produces serialized, unsigned swap transactions.
type SwapBuilder interface {
	BuildSwap(ctx context.Context, quote json.RawMessage, publicKey string) (string, error)
}

// Handler provides the HTTP endpoints of the valuation service.
type Handler struct {
	portfolio PortfolioService
	quotes    QuoteService
	swapper   SwapBuilder       // optional
	snapshots *snapshot.Service // optional

	// The wallet session is driven by caller transitions and is not
	// concurrency-safe on its own, so every access goes through sessionMu.
	session   *session.Session // optional
	sessionMu sync.Mutex
}

// NewHandler creates a new API handler. The swap builder, snapshot service
// and wallet session may be nil when those features are not configured.
func NewHandler(portfolio PortfolioService, quotes QuoteService, swapper SwapBuilder, snapshots *snapshot.Service, sess *session.Session) *Handler {
	return &Handler{
		portfolio: portfolio,
		quotes:    quotes,
		swapper:   swapper,
		snapshots: snapshots,
		session:   sess,
	}
}

// ListTokens handles GET /api/v1/tokens.
func (h *Handler) ListTokens(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.TokenRegistry())
}

// GetPortfolio handles GET /api/v1/portfolio/{wallet}.
func (h *Handler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	wallet := r.PathValue("wallet")
	if wallet == "" {
		writeError(w, http.StatusBadRequest, "missing wallet address")
		return
	}

	p, err := h.portfolio.GetPortfolio(r.Context(), wallet)
	if err != nil {
		if errors.Is(err, valuation.ErrInvalidHolding) {
			slog.Error("holdings provider returned invalid data", "wallet", wallet, "error", err)
			writeError(w, http.StatusBadGateway, "invalid holdings data from provider")
			return
		}
		slog.Error("failed to value portfolio", "wallet", wallet, "error", err)
		writeError(w, http.StatusBadGateway, "failed to fetch holdings")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// GetQuote handles GET /api/v1/quote.
func (h *Handler) GetQuote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	inputMint := q.Get("inputMint")
	outputMint := q.Get("outputMint")
	if inputMint == "" || outputMint == "" {
		writeError(w, http.StatusBadRequest, "inputMint and outputMint are required")
		return
	}

	amount, err := domain.ParseAmount(q.Get("amount"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	slippageBps := domain.DefaultSlippageBps
	if s := q.Get("slippageBps"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid slippageBps")
			return
		}
		slippageBps = n
	}

	result, err := h.quotes.GetQuote(r.Context(), domain.TradeRequest{
		SourceMint:      inputMint,
		DestinationMint: outputMint,
		InputAmount:     amount,
		SlippageBps:     slippageBps,
	})
	if err != nil {
		switch {
		case errors.Is(err, quote.ErrUnknownToken):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, quote.ErrIdenticalTokens),
			errors.Is(err, quote.ErrInvalidAmount),
			errors.Is(err, quote.ErrInvalidSlippage),
			errors.Is(err, quote.ErrZeroDestinationPrice):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			slog.Error("failed to compute quote", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to compute quote")
		}
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type swapRequestBody struct {
	Quote     json.RawMessage `json:"quote"`
	PublicKey string          `json:"publicKey"`
}

// BuildSwap handles POST /api/v1/swap.
func (h *Handler) BuildSwap(w http.ResponseWriter, r *http.Request) {
	if h.swapper == nil {
		writeError(w, http.StatusServiceUnavailable, "swap executor not configured")
		return
	}

	var body swapRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(body.Quote) == 0 || body.PublicKey == "" {
		writeError(w, http.StatusBadRequest, "quote and publicKey are required")
		return
	}

	tx, err := h.swapper.BuildSwap(r.Context(), body.Quote, body.PublicKey)
	if err != nil {
		slog.Error("failed to build swap transaction", "error", err)
		writeError(w, http.StatusBadGateway, "failed to build swap transaction")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"swapTransaction": tx})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.Warn("failed to write HTTP response body", "error", err)
		return
	}
	_, _ = w.Write([]byte("\n"))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
