package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// SymbolMapping maps registry symbols to price-feed coin IDs.
var SymbolMapping = map[string]string{
	"SOL":  "solana",
	"USDC": "usd-coin",
	"ETH":  "ethereum",
	"BONK": "bonk",
	"mSOL": "msol",
}

// PriceFeedClient fetches USD prices from a CoinGecko-compatible API.
type PriceFeedClient struct {
	baseURL    string
	httpClient *http.Client
	delay      time.Duration
	maxRetries int
}

// NewPriceFeedClient creates a new price feed client.
func NewPriceFeedClient(baseURL string, delay time.Duration, maxRetries int) *PriceFeedClient {
	return &PriceFeedClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		delay:      delay,
		maxRetries: maxRetries,
	}
}

// FetchPrices fetches USD prices for all configured symbols.
// Returns a map of symbol -> priceInUSD.
func (c *PriceFeedClient) FetchPrices(ctx context.Context) (map[string]float64, error) {
	uniqueIDs := make(map[string]bool)
	for _, id := range SymbolMapping {
		uniqueIDs[id] = true
	}

	ids := make([]string, 0, len(uniqueIDs))
	for id := range uniqueIDs {
		ids = append(ids, id)
	}

	url := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd", c.baseURL, strings.Join(ids, ","))

	body, err := c.fetchWithRetry(ctx, url)
	if err != nil {
		return nil, err
	}

	// Parse: {"solana":{"usd":100.5},"usd-coin":{"usd":1.0},...}
	var raw map[string]map[string]float64
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parsing price feed response: %w", err)
	}

	result := make(map[string]float64)
	for symbol, coinID := range SymbolMapping {
		prices, ok := raw[coinID]
		if !ok {
			continue
		}
		result[symbol] = prices["usd"]
	}

	return result, nil
}

func (c *PriceFeedClient) fetchWithRetry(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := range c.maxRetries + 1 {
		if attempt > 0 {
			baseDelay := c.delay
			if baseDelay == 0 {
				baseDelay = 10 * time.Second
			}
			delay := baseDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("creating price feed request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("price feed request failed: %w", err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("reading price feed response: %w", err)
		}

		if resp.StatusCode == http.StatusOK {
			return body, nil
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("price feed rate limited (attempt %d/%d)", attempt+1, c.maxRetries+1)
			continue
		}

		return nil, fmt.Errorf("price feed HTTP %d: %s", resp.StatusCode, string(body))
	}

	return nil, lastErr
}
