package metrics

import (
	"testing"

	"github.com/influencerinsights/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReportPrefersEngineMetrics(t *testing.T) {
	resp := &domain.AnalysisResponse{
		Channel: domain.Channel{ChannelName: "Test Channel"},
		Videos: []domain.Video{
			video(1000, 80, 20),
			video(2000, 100, 0),
		},
		Metrics: &domain.Metrics{
			MedianViews:     f64(1500),
			MeanViews:       f64(1550),
			EngagementRate:  f64(0.045),
			VolatilityRatio: f64(1.1),
			RiskLevel:       "Low (Consistent)",
		},
	}

	report := BuildReport(resp, f64(6000), domain.BasisMedian)

	require.NotNil(t, report.Summary.MedianViews)
	assert.Equal(t, 1500.0, *report.Summary.MedianViews)
	assert.Equal(t, RiskLow, report.Summary.RiskBucket)

	require.NotNil(t, report.Summary.EffectiveCPM)
	assert.Equal(t, 4000.0, *report.Summary.EffectiveCPM)

	assert.Equal(t, 3000.0, report.Summary.TotalViews)
	assert.Len(t, report.ViewsSeries, 2)
	assert.Len(t, report.EngagementSeries, 2)
	assert.Equal(t, 1000.0, report.ViewsSeries[0].Value)
	// First video: (80+20)/1000 = 10%
	assert.InDelta(t, 10.0, report.EngagementSeries[0].Value, 1e-9)
}

func TestBuildReportFallsBackToLocalFigures(t *testing.T) {
	resp := &domain.AnalysisResponse{
		Channel: domain.Channel{ChannelName: "No Metrics"},
		Videos: []domain.Video{
			video(100, 0, 0),
			video(300, 0, 0),
			video(200, 0, 0),
		},
	}

	report := BuildReport(resp, nil, domain.BasisMedian)

	require.NotNil(t, report.Summary.MedianViews)
	assert.Equal(t, 200.0, *report.Summary.MedianViews)
	require.NotNil(t, report.Summary.AverageViews)
	assert.Equal(t, 200.0, *report.Summary.AverageViews)

	assert.Equal(t, RiskUnknown, report.Summary.RiskBucket)
	assert.Nil(t, report.Summary.EffectiveCPM, "no fee means no CPM")
}

func TestBuildReportAverageBasis(t *testing.T) {
	resp := &domain.AnalysisResponse{
		Metrics: &domain.Metrics{
			MedianViews: f64(1000),
			MeanViews:   f64(4000),
		},
	}

	report := BuildReport(resp, f64(8000), domain.BasisAverage)
	require.NotNil(t, report.Summary.EffectiveCPM)
	assert.Equal(t, 2000.0, *report.Summary.EffectiveCPM)
}

func TestBuildReportEmptyPayload(t *testing.T) {
	report := BuildReport(&domain.AnalysisResponse{}, nil, domain.BasisMedian)

	assert.Nil(t, report.Summary.MedianViews)
	assert.Nil(t, report.Summary.AverageViews)
	assert.Equal(t, RiskUnknown, report.Summary.RiskBucket)
	assert.Empty(t, report.ViewsSeries)
	assert.Empty(t, report.EngagementSeries)
	assert.Equal(t, 0, report.Summary.SampleSize)
}
