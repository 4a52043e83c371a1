// Package metrics holds the pure derived-metric calculators. Nothing in here
// touches the network or the store: raw numbers in, report figures out.
package metrics

import (
	"math"
	"sort"
	"strings"

	"github.com/influencerinsights/backend-go/internal/domain"
)

// Risk buckets for display. The upstream engine emits free-text levels such as
// "Low (Consistent)" or "High (Viral Reliant)"; we only map them to a bucket.
const (
	RiskLow     = "Low"
	RiskMedium  = "Medium"
	RiskHigh    = "High"
	RiskUnknown = "Unknown"
)

// benchmarkEngagementPct is the reference engagement rate (percent) used to
// scale the engagement-adjusted CPM.
const benchmarkEngagementPct = 3.0

// SafeNumber returns the input only when it is a finite number, otherwise nil.
// Every externally sourced numeric goes through here before storage or
// arithmetic so NaN/Inf never contaminate downstream figures.
func SafeNumber(v *float64) *float64 {
	if v == nil {
		return nil
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	out := *v
	return &out
}

// SafeCount sanitizes an optional count: finite and non-negative, or nil.
func SafeCount(v *int64) *int64 {
	if v == nil || *v < 0 {
		return nil
	}
	out := *v
	return &out
}

// EngagementRate returns (likes+comments)/views as a fraction. Zero views
// yields 0, never a division error.
func EngagementRate(likes, comments, views float64) float64 {
	if views <= 0 {
		return 0
	}
	return (likes + comments) / views
}

// VideoEngagementRate computes the engagement rate for a single video after
// sanitizing its counters. Missing counters count as zero engagement.
func VideoEngagementRate(v domain.Video) float64 {
	views := valueOrZero(SafeNumber(v.Views))
	likes := valueOrZero(SafeNumber(v.Likes))
	comments := valueOrZero(SafeNumber(v.Comments))
	return EngagementRate(likes, comments, views)
}

// EffectiveCPM returns quotedFee / (expectedViews/1000), or nil when either
// input is absent or expectedViews is not positive.
func EffectiveCPM(quotedFee, expectedViews *float64) *float64 {
	fee := SafeNumber(quotedFee)
	views := SafeNumber(expectedViews)
	if fee == nil || views == nil || *views <= 0 {
		return nil
	}
	cpm := *fee / (*views / 1000.0)
	return &cpm
}

// CostPerView returns quotedFee / totalViews, nil when views are not positive.
func CostPerView(quotedFee float64, totalViews float64) *float64 {
	if totalViews <= 0 {
		return nil
	}
	cpv := quotedFee / totalViews
	return &cpv
}

// CostPerEngagement returns quotedFee / (likes+comments), nil when there is no
// engagement to divide by.
func CostPerEngagement(quotedFee float64, totalEngagements float64) *float64 {
	if totalEngagements <= 0 {
		return nil
	}
	cpe := quotedFee / totalEngagements
	return &cpe
}

// TalentCost is the creator's share of the quoted fee after the agency margin.
func TalentCost(quotedFee, agencyMarginPct float64) float64 {
	return quotedFee * (1.0 - agencyMarginPct/100.0)
}

// EngagementAdjustedCPM scales a CPM by how the creator's engagement rate
// (percent) compares to the reference benchmark.
func EngagementAdjustedCPM(cpm, engagementRatePct float64) float64 {
	return cpm * (engagementRatePct / benchmarkEngagementPct)
}

// RiskBucket maps the engine's free-text risk level to a display bucket via
// case-insensitive substring match. Unrecognized or empty input is Unknown.
// "moderate" counts as Medium since the engine labels its middle tier that way.
func RiskBucket(riskLevel string) string {
	r := strings.ToLower(riskLevel)
	switch {
	case strings.Contains(r, "low"):
		return RiskLow
	case strings.Contains(r, "medium"), strings.Contains(r, "moderate"):
		return RiskMedium
	case strings.Contains(r, "high"):
		return RiskHigh
	default:
		return RiskUnknown
	}
}

// RollupResult aggregates a video list for table and chart summaries.
type RollupResult struct {
	TotalViews    float64
	TotalLikes    float64
	TotalComments float64

	// AvgEngagementRate is the arithmetic mean of each video's individual
	// engagement rate. It is NOT the engagement rate of the summed counters;
	// the two differ whenever view counts are uneven, and the table shows the
	// per-video average.
	AvgEngagementRate float64

	SampleSize int
}

// Rollup sums views/likes/comments across a video list and averages the
// per-video engagement rates.
func Rollup(videos []domain.Video) RollupResult {
	out := RollupResult{SampleSize: len(videos)}
	if len(videos) == 0 {
		return out
	}

	var rateSum float64
	for _, v := range videos {
		out.TotalViews += valueOrZero(SafeNumber(v.Views))
		out.TotalLikes += valueOrZero(SafeNumber(v.Likes))
		out.TotalComments += valueOrZero(SafeNumber(v.Comments))
		rateSum += VideoEngagementRate(v)
	}
	out.AvgEngagementRate = rateSum / float64(len(videos))
	return out
}

// MeanViews is the local fallback when the engine omits its metrics block.
func MeanViews(videos []domain.Video) *float64 {
	views := viewCounts(videos)
	if len(views) == 0 {
		return nil
	}
	var sum float64
	for _, v := range views {
		sum += v
	}
	mean := sum / float64(len(views))
	return &mean
}

// MedianViews is the local fallback median over the video list.
func MedianViews(videos []domain.Video) *float64 {
	views := viewCounts(videos)
	if len(views) == 0 {
		return nil
	}
	sort.Float64s(views)
	n := len(views)
	var median float64
	if n%2 == 1 {
		median = views[n/2]
	} else {
		median = (views[n/2-1] + views[n/2]) / 2.0
	}
	return &median
}

func viewCounts(videos []domain.Video) []float64 {
	out := make([]float64, 0, len(videos))
	for _, v := range videos {
		if sv := SafeNumber(v.Views); sv != nil {
			out = append(out, *sv)
		}
	}
	return out
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
