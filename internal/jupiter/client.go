// Package jupiter talks to the external swap aggregator the service proxies.
// Quotes from here supersede the local calculator; swap transactions are
// returned serialized and unsigned for the caller to sign out-of-band.
package jupiter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lazorvault/vaultd/internal/domain"
)

// ErrEmptySwapTransaction indicates the aggregator returned no transaction payload.
var ErrEmptySwapTransaction = errors.New("aggregator returned empty swap transaction")

// Client is an HTTP client for the aggregator API with retry on 429.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	baseDelay  time.Duration
}

// NewClient creates a new aggregator client.
func NewClient(baseURL string, maxRetries int, baseDelay time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
	}
}

// quoteResponse mirrors the aggregator's quote payload.
type quoteResponse struct {
	InputMint   string          `json:"inputMint"`
	OutputMint  string          `json:"outputMint"`
	InAmount    decimal.Decimal `json:"inAmount"`
	OutAmount   decimal.Decimal `json:"outAmount"`
	FeeAmount   decimal.Decimal `json:"feeAmount"`
	SlippageBps int             `json:"slippageBps"`
}

// GetQuote fetches a live quote for the trade request.
func (c *Client) GetQuote(ctx context.Context, req domain.TradeRequest) (domain.Quote, error) {
	params := url.Values{}
	params.Set("inputMint", req.SourceMint)
	params.Set("outputMint", req.DestinationMint)
	params.Set("amount", req.InputAmount.String())
	params.Set("slippageBps", strconv.Itoa(req.SlippageBps))

	body, err := c.get(ctx, "/quote?"+params.Encode())
	if err != nil {
		return domain.Quote{}, fmt.Errorf("fetching live quote: %w", err)
	}

	var resp quoteResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.Quote{}, fmt.Errorf("parsing quote response: %w", err)
	}
	if resp.InAmount.LessThanOrEqual(decimal.Zero) {
		return domain.Quote{}, fmt.Errorf("aggregator returned non-positive input amount %s", resp.InAmount)
	}

	gross := resp.OutAmount.Add(resp.FeeAmount)
	return domain.Quote{
		SourceMint:        req.SourceMint,
		DestinationMint:   req.DestinationMint,
		InputAmount:       resp.InAmount,
		Rate:              gross.Div(resp.InAmount),
		GrossOutputAmount: gross,
		Fee:               resp.FeeAmount,
		NetOutputAmount:   resp.OutAmount,
		SlippageBps:       req.SlippageBps,
		Source:            "live",
	}, nil
}

// swapRequest is the body sent to the aggregator's swap endpoint.
type swapRequest struct {
	QuoteResponse json.RawMessage `json:"quoteResponse"`
	UserPublicKey string          `json:"userPublicKey"`
}

type swapResponse struct {
	SwapTransaction string `json:"swapTransaction"`
}

// BuildSwap submits a finalized quote plus the signing identity and returns
// the serialized, unsigned transaction payload.
func (c *Client) BuildSwap(ctx context.Context, quote json.RawMessage, publicKey string) (string, error) {
	payload, err := json.Marshal(swapRequest{QuoteResponse: quote, UserPublicKey: publicKey})
	if err != nil {
		return "", fmt.Errorf("encoding swap request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/swap", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating swap request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing swap request: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("reading swap response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d from swap endpoint: %s", httpResp.StatusCode, string(body))
	}

	var resp swapResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("parsing swap response: %w", err)
	}
	if resp.SwapTransaction == "" {
		return "", ErrEmptySwapTransaction
	}
	return resp.SwapTransaction, nil
}

// get performs a GET request with retry on 429.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
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
