package engine

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/influencerinsights/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyseDecodesPayload(t *testing.T) {
	var gotBody domain.AnalysisRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/analysis", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"channel": {"channel_id": "UC123", "channel_name": "Test", "subscribers": 125000},
			"videos": [{"title": "v1", "views": 1000, "likes": 80, "comments": 20, "duration": "PT8M"}],
			"metrics": {"median_views": 1000, "mean_views": 1000, "risk_level": "Low (Consistent)"}
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	resp, err := client.Analyse(context.Background(), domain.AnalysisRequest{
		YouTubeURL: "https://www.youtube.com/channel/UC123",
		VideoCount: 8,
	})
	require.NoError(t, err)

	assert.Equal(t, "https://www.youtube.com/channel/UC123", gotBody.YouTubeURL)
	assert.Equal(t, 8, gotBody.VideoCount)

	assert.Equal(t, "UC123", resp.Channel.ChannelID)
	require.NotNil(t, resp.Channel.Subscribers)
	assert.Equal(t, int64(125000), *resp.Channel.Subscribers)
	require.Len(t, resp.Videos, 1)
	require.NotNil(t, resp.Metrics)
	assert.Equal(t, "Low (Consistent)", resp.Metrics.RiskLevel)
}

func TestAnalyseClampsVideoCount(t *testing.T) {
	var gotBody domain.AnalysisRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"channel": {"channel_name": "Test"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)

	_, err := client.Analyse(context.Background(), domain.AnalysisRequest{YouTubeURL: "x", VideoCount: 100})
	require.NoError(t, err)
	assert.Equal(t, 25, gotBody.VideoCount)

	_, err = client.Analyse(context.Background(), domain.AnalysisRequest{YouTubeURL: "x", VideoCount: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, gotBody.VideoCount)
}

func TestAnalyseSurfacesErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail": "invalid YouTube URL"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	_, err := client.Analyse(context.Background(), domain.AnalysisRequest{YouTubeURL: "not-a-url"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "invalid YouTube URL")
	assert.Contains(t, apiErr.Error(), "400")
}

func TestAnalyseRequiresURL(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", time.Second)
	_, err := client.Analyse(context.Background(), domain.AnalysisRequest{YouTubeURL: "   "})
	assert.Error(t, err)
}
