// Package engine is the HTTP client for the external analysis engine, the
// only collaborator this service calls to do the actual analytical work.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/influencerinsights/backend-go/internal/domain"
)

const (
	minVideoCount = 1
	maxVideoCount = 25
)

// APIError is a non-2xx reply from the engine. The response body text rides
// along so the UI can show what the backend had to say.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("analysis API error (%d)", e.StatusCode)
	}
	return fmt.Sprintf("analysis API error (%d): %s", e.StatusCode, e.Body)
}

// Client calls the external analysis engine.
type Client struct {
	apiBaseURL string
	httpClient *http.Client
}

// NewClient builds a client against the engine base URL, e.g.
// http://127.0.0.1:8000.
func NewClient(apiBaseURL string, timeout time.Duration) *Client {
	return &Client{
		apiBaseURL: strings.TrimRight(apiBaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Analyse runs one analysis via POST /api/analysis. The video count is
// clamped into the engine's accepted 1..25 window before sending.
func (c *Client) Analyse(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisResponse, error) {
	req.YouTubeURL = strings.TrimSpace(req.YouTubeURL)
	if req.YouTubeURL == "" {
		return nil, fmt.Errorf("youtube_url is required")
	}
	if req.VideoCount < minVideoCount {
		req.VideoCount = minVideoCount
	}
	if req.VideoCount > maxVideoCount {
		req.VideoCount = maxVideoCount
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode analysis request: %w", err)
	}

	url := c.apiBaseURL + "/api/analysis"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build analysis request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("analysis request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(text)),
		}
	}

	var out domain.AnalysisResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode analysis response: %w", err)
	}

	return &out, nil
}
