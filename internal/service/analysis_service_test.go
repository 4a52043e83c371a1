package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/influencerinsights/backend-go/internal/domain"
	"github.com/influencerinsights/backend-go/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	lastReq domain.AnalysisRequest
	resp    *domain.AnalysisResponse
	err     error
}

func (f *fakeEngine) Analyse(_ context.Context, req domain.AnalysisRequest) (*domain.AnalysisResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func f64(v float64) *float64 { return &v }

func i64(v int64) *int64 { return &v }

func newAnalysisFixture(t *testing.T, eng *fakeEngine) (*AnalysisService, *store.Store) {
	t.Helper()
	st := store.New(context.Background(), store.NewNoopSnapshots(), store.DefaultRecentLimit)
	return NewAnalysisService(eng, st, 8), st
}

func TestRunBuildsRecordFromEnginePayload(t *testing.T) {
	eng := &fakeEngine{resp: &domain.AnalysisResponse{
		Channel: domain.Channel{
			ChannelID:   "UC123",
			ChannelName: "Test Creator",
			Subscribers: i64(125000),
			Region:      "ZA",
		},
		Videos: []domain.Video{
			{Title: "v1", Views: f64(1000), Likes: f64(80), Comments: f64(20)},
			{Title: "v2", Views: f64(3000), Likes: f64(90), Comments: f64(10)},
		},
		Metrics: &domain.Metrics{
			MedianViews: f64(2000),
			MeanViews:   f64(2000),
			RiskLevel:   "Low (Consistent)",
		},
	}}
	svc, st := newAnalysisFixture(t, eng)

	rec, report, err := svc.Run(context.Background(), domain.RunAnalysisRequest{
		YouTubeURL:      "https://www.youtube.com/@test",
		ClientCurrency:  "usd",
		CreatorCurrency: "",
		QuotedFeeClient: f64(10000),
		TargetMarginPct: f64(25),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "UC123", rec.ChannelID)
	assert.Equal(t, "Test Creator", rec.ChannelName)
	require.NotNil(t, rec.Subscribers)
	assert.Equal(t, int64(125000), *rec.Subscribers)
	assert.Equal(t, "USD", rec.ClientCurrency)
	assert.Equal(t, "ZAR", rec.CreatorCurrency)
	require.NotNil(t, rec.QuotedFeeClient)
	assert.Equal(t, 10000.0, *rec.QuotedFeeClient)
	assert.Equal(t, 25.0, rec.TargetMarginPct)
	require.NotNil(t, rec.MedianViews)
	assert.Equal(t, 2000.0, *rec.MedianViews)
	assert.NotEmpty(t, rec.CreatedAt)

	// The run is also persisted and becomes active.
	active, ok := st.GetActive()
	require.True(t, ok)
	assert.Equal(t, rec, active)

	assert.Equal(t, "Low", report.Summary.RiskBucket)
	assert.Len(t, report.ViewsSeries, 2)
}

func TestRunDefaultsVideoCount(t *testing.T) {
	eng := &fakeEngine{resp: &domain.AnalysisResponse{
		Channel: domain.Channel{ChannelName: "Test"},
	}}
	svc, _ := newAnalysisFixture(t, eng)

	_, _, err := svc.Run(context.Background(), domain.RunAnalysisRequest{YouTubeURL: "x"})
	require.NoError(t, err)
	assert.Equal(t, 8, eng.lastReq.VideoCount)

	_, _, err = svc.Run(context.Background(), domain.RunAnalysisRequest{YouTubeURL: "x", VideoCount: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, eng.lastReq.VideoCount)
}

func TestRunSanitizesPricingInputs(t *testing.T) {
	eng := &fakeEngine{resp: &domain.AnalysisResponse{
		Channel: domain.Channel{ChannelName: "Test", Subscribers: i64(-5)},
	}}
	svc, _ := newAnalysisFixture(t, eng)

	rec, _, err := svc.Run(context.Background(), domain.RunAnalysisRequest{
		YouTubeURL:      "x",
		QuotedFeeClient: f64(-100),
		TargetCPM:       f64(math.NaN()),
		TargetMarginPct: f64(180),
	})
	require.NoError(t, err)

	assert.Nil(t, rec.Subscribers)
	assert.Nil(t, rec.QuotedFeeClient)
	assert.Nil(t, rec.TargetCPM)
	// Out-of-range margin falls back to the default.
	assert.Equal(t, 30.0, rec.TargetMarginPct)
}

func TestRunComputesViewsFallbackFromVideos(t *testing.T) {
	eng := &fakeEngine{resp: &domain.AnalysisResponse{
		Channel: domain.Channel{ChannelName: "Test"},
		Videos: []domain.Video{
			{Title: "a", Views: f64(100)},
			{Title: "b", Views: f64(200)},
			{Title: "c", Views: f64(600)},
		},
	}}
	svc, _ := newAnalysisFixture(t, eng)

	rec, _, err := svc.Run(context.Background(), domain.RunAnalysisRequest{YouTubeURL: "x"})
	require.NoError(t, err)

	require.NotNil(t, rec.MedianViews)
	assert.Equal(t, 200.0, *rec.MedianViews)
	require.NotNil(t, rec.AverageViews)
	assert.Equal(t, 300.0, *rec.AverageViews)
}

func TestRunLeavesStoreUntouchedOnEngineError(t *testing.T) {
	eng := &fakeEngine{err: errors.New("engine down")}
	svc, st := newAnalysisFixture(t, eng)

	before := st.State()
	_, _, err := svc.Run(context.Background(), domain.RunAnalysisRequest{YouTubeURL: "x"})
	require.Error(t, err)
	assert.Equal(t, before, st.State())
}

func TestStorePassthroughs(t *testing.T) {
	eng := &fakeEngine{resp: &domain.AnalysisResponse{
		Channel: domain.Channel{ChannelName: "Test"},
	}}
	svc, _ := newAnalysisFixture(t, eng)

	rec, _, err := svc.Run(context.Background(), domain.RunAnalysisRequest{YouTubeURL: "x"})
	require.NoError(t, err)

	got, ok := svc.Get(rec.ID)
	require.True(t, ok)
	assert.Equal(t, rec, got)

	assert.False(t, svc.SetActive(context.Background(), "nope"))
	assert.True(t, svc.SetActive(context.Background(), rec.ID))

	require.Len(t, svc.Recent(), 1)

	assert.True(t, svc.Remove(context.Background(), rec.ID))
	_, ok = svc.Active()
	assert.False(t, ok)

	svc.Clear(context.Background())
	assert.Empty(t, svc.Recent())
}
