package holdings

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lazorvault/vaultd/internal/domain"
)

// indexerBalance mirrors one balance record in the indexer response.
type indexerBalance struct {
	Mint      string          `json:"mint"`
	Symbol    string          `json:"symbol"`
	Name      string          `json:"name"`
	Icon      string          `json:"icon"`
	Balance   string          `json:"balance"`
	Price     decimal.Decimal `json:"price"`
	Change24h decimal.Decimal `json:"change24h"`
}

type indexerResponse struct {
	Wallet   string           `json:"wallet"`
	Balances []indexerBalance `json:"balances"`
}

// IndexerClient fetches wallet balances from an on-chain indexer over HTTP,
// retrying with exponential backoff on 429.
type IndexerClient struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	baseDelay  time.Duration
}

// NewIndexerClient creates a new indexer client.
func NewIndexerClient(baseURL string, maxRetries int, baseDelay time.Duration) *IndexerClient {
	return &IndexerClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
	}
}

// Fetch retrieves and decodes the holdings of a wallet.
func (c *IndexerClient) Fetch(ctx context.Context, wallet string) ([]domain.Holding, error) {
	body, err := c.get(ctx, "/v1/balances/"+url.PathEscape(wallet))
	if err != nil {
		return nil, fmt.Errorf("fetching holdings for %s: %w", wallet, err)
	}

	var resp indexerResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing indexer response: %w", err)
	}

	holdings := make([]domain.Holding, 0, len(resp.Balances))
	for _, b := range resp.Balances {
		holdings = append(holdings, domain.Holding{
			Mint:      b.Mint,
			Symbol:    b.Symbol,
			Name:      b.Name,
			Icon:      b.Icon,
			Balance:   b.Balance,
			Price:     b.Price,
			Change24h: b.Change24h,
		})
	}
	return holdings, nil
}

// get performs a GET request with retry on 429.
func (c *IndexerClient) get(ctx context.Context, path string) ([]byte, error) {
	url := c.baseURL + path

	var lastErr error
	for attempt := range c.maxRetries + 1 {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("executing request: %w", err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("reading response: %w", err)
		}

		if resp.StatusCode == http.StatusOK {
			return body, nil
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("HTTP 429 at %s (attempt %d/%d)", url, attempt+1, c.maxRetries+1)
			if attempt < c.maxRetries {
				delay := c.baseDelay * time.Duration(1<<uint(attempt))
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(delay):
				}
				continue
			}
			return nil, lastErr
		}

		return nil, fmt.Errorf("HTTP %d from %s: %s", resp.StatusCode, url, string(body))
	}

	return nil, lastErr
}
