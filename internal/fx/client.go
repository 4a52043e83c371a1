// Package fx fetches ECB reference FX rates from Frankfurter.
package fx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Provider identifies the rates source in API responses.
const Provider = "frankfurter.app"

// Client calls the Frankfurter latest-rates endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// LatestRates mirrors the provider's JSON.
type LatestRates struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// Latest fetches rates for base against symbols, e.g. ("USD", "ZAR,EUR,GBP").
func (c *Client) Latest(ctx context.Context, base, symbols string) (*LatestRates, error) {
	q := url.Values{}
	q.Set("base", base)
	q.Set("symbols", symbols)
	endpoint := fmt.Sprintf("%s/latest?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build fx request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fx request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fx provider returned %d", resp.StatusCode)
	}

	var out LatestRates
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode fx response: %w", err)
	}

	return &out, nil
}
