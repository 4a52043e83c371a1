package metrics

import "github.com/influencerinsights/backend-go/internal/domain"

// BuildReport shapes a raw engine payload into the figures and chart series
// the report page renders. Engine-supplied metrics win; median/mean fall back
// to local computation over the video list when the metrics block is missing.
func BuildReport(resp *domain.AnalysisResponse, quotedFee *float64, basis domain.ViewsBasis) domain.Report {
	rollup := Rollup(resp.Videos)

	summary := domain.ReportSummary{
		RiskBucket:        RiskUnknown,
		TotalViews:        rollup.TotalViews,
		TotalLikes:        rollup.TotalLikes,
		TotalComments:     rollup.TotalComments,
		AvgEngagementRate: rollup.AvgEngagementRate,
		SampleSize:        rollup.SampleSize,
	}

	if m := resp.Metrics; m != nil {
		summary.MedianViews = SafeNumber(m.MedianViews)
		summary.AverageViews = SafeNumber(m.MeanViews)
		summary.EngagementRate = SafeNumber(m.EngagementRate)
		summary.LikeRate = SafeNumber(m.LikeRate)
		summary.CommentRate = SafeNumber(m.CommentRate)
		summary.VolatilityRatio = SafeNumber(m.VolatilityRatio)
		summary.RiskBucket = RiskBucket(m.RiskLevel)
	}
	if summary.MedianViews == nil {
		summary.MedianViews = MedianViews(resp.Videos)
	}
	if summary.AverageViews == nil {
		summary.AverageViews = MeanViews(resp.Videos)
	}

	expected := summary.MedianViews
	if basis == domain.BasisAverage {
		expected = summary.AverageViews
	}
	summary.EffectiveCPM = EffectiveCPM(SafeNumber(quotedFee), expected)

	return domain.Report{
		Summary:          summary,
		ViewsSeries:      viewsSeries(resp.Videos),
		EngagementSeries: engagementSeries(resp.Videos),
	}
}

func viewsSeries(videos []domain.Video) []domain.SeriesPoint {
	points := make([]domain.SeriesPoint, 0, len(videos))
	for _, v := range videos {
		points = append(points, domain.SeriesPoint{
			Title:       v.Title,
			PublishedAt: v.PublishedAt,
			Value:       valueOrZero(SafeNumber(v.Views)),
		})
	}
	return points
}

func engagementSeries(videos []domain.Video) []domain.SeriesPoint {
	points := make([]domain.SeriesPoint, 0, len(videos))
	for _, v := range videos {
		points = append(points, domain.SeriesPoint{
			Title:       v.Title,
			PublishedAt: v.PublishedAt,
			Value:       VideoEngagementRate(v) * 100.0,
		})
	}
	return points
}
