package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"presale/internal/model"
)

const defaultBaseURL = "https://api.coingecko.com/api/v3"

// Client fetches USD prices from the CoinGecko simple-price feed. Every call
// is a fresh round-trip: a cached price could be exploited by timing a
// deposit against a historical dip, so the extra latency is accepted.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient() *Client {
	return &Client{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// NewClientWithBaseURL is used by tests to point the client at a stub feed.
func NewClientWithBaseURL(baseURL string) *Client {
	c := NewClient()
	c.baseURL = baseURL
	return c
}

// USDPrice returns the current USD price for the given asset identifier.
// Fails with ErrOracleUnavailable when the feed is unreachable or has no
// entry for the asset; the caller must not substitute a stale price.
func (c *Client) USDPrice(ctx context.Context, assetID string) (float64, error) {
	params := url.Values{
		"ids":           {assetID},
		"vs_currencies": {"usd"},
	}
	reqURL := fmt.Sprintf("%s/simple/price?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", model.ErrOracleUnavailable, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", model.ErrOracleUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: feed returned status %d", model.ErrOracleUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", model.ErrOracleUnavailable, err)
	}

	var result map[string]map[string]float64
	if err := json.Unmarshal(body, &result); err != nil {
		return 0, fmt.Errorf("%w: %v", model.ErrOracleUnavailable, err)
	}

	entry, ok := result[assetID]
	if !ok {
		return 0, fmt.Errorf("%w: no entry for %s", model.ErrOracleUnavailable, assetID)
	}
	price, ok := entry["usd"]
	if !ok || price <= 0 {
		return 0, fmt.Errorf("%w: no usd price for %s", model.ErrOracleUnavailable, assetID)
	}

	return price, nil
}
