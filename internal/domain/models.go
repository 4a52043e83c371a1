// backend-go/internal/domain/models.go
package domain

import "time"

// AnalysisRecord is one completed analysis kept for recall in the local store.
// Numeric fields that can be missing are pointers so "no data" stays
// distinguishable from zero all the way to the frontend.
type AnalysisRecord struct {
	ID string `json:"id"`

	// Creator / channel identity
	ChannelID   string `json:"channelId,omitempty"`
	ChannelName string `json:"channelName"`
	ChannelURL  string `json:"channelUrl,omitempty"`
	Region      string `json:"region,omitempty"`
	Subscribers *int64 `json:"subscribers,omitempty"`

	// Key metrics
	MedianViews  *float64 `json:"medianViews,omitempty"`
	AverageViews *float64 `json:"averageViews,omitempty"`

	// Pricing inputs
	ClientCurrency  string   `json:"clientCurrency,omitempty"`
	CreatorCurrency string   `json:"creatorCurrency,omitempty"`
	QuotedFeeClient *float64 `json:"quotedFeeClient,omitempty"`
	TargetMarginPct float64  `json:"targetMarginPct"`
	TargetCPM       *float64 `json:"targetCpm,omitempty"`

	CreatedAt string `json:"createdAt"`
}

// StoreState is the persisted shape of the analysis store. The JSON layout
// matches the frontend's local-storage slot, field for field.
type StoreState struct {
	ByID      map[string]AnalysisRecord `json:"byId"`
	RecentIDs []string                  `json:"recentIds"`
	ActiveID  *string                   `json:"activeId"`
}

// Channel is the channel block of the external engine's response.
type Channel struct {
	ChannelID   string `json:"channel_id"`
	ChannelName string `json:"channel_name"`
	Subscribers *int64 `json:"subscribers"`
	Region      string `json:"region,omitempty"`
	ChannelURL  string `json:"channel_url,omitempty"`
}

// Video is one per-video stats row from the external engine.
type Video struct {
	Title       string   `json:"title"`
	PublishedAt string   `json:"publishedAt"`
	Views       *float64 `json:"views"`
	Likes       *float64 `json:"likes"`
	Comments    *float64 `json:"comments"`
	Duration    string   `json:"duration"`
}

// Metrics is the optional precomputed metrics block from the external engine.
type Metrics struct {
	MeanViews       *float64 `json:"mean_views,omitempty"`
	MedianViews     *float64 `json:"median_views,omitempty"`
	EngagementRate  *float64 `json:"engagement_rate,omitempty"`
	LikeRate        *float64 `json:"like_rate,omitempty"`
	CommentRate     *float64 `json:"comment_rate,omitempty"`
	VolatilityRatio *float64 `json:"volatility_ratio,omitempty"`
	RiskLevel       string   `json:"risk_level,omitempty"`
}

// AnalysisResponse is the raw payload returned by POST /api/analysis.
type AnalysisResponse struct {
	Channel Channel  `json:"channel"`
	Videos  []Video  `json:"videos,omitempty"`
	Metrics *Metrics `json:"metrics,omitempty"`
}

// AnalysisRequest is the body sent to the external engine.
type AnalysisRequest struct {
	YouTubeURL string `json:"youtube_url"`
	VideoCount int    `json:"video_count"`
}

// RunAnalysisRequest is the inbound request for running an analysis, carrying
// the engine inputs plus the brand-side pricing inputs the store keeps.
type RunAnalysisRequest struct {
	YouTubeURL      string   `json:"youtube_url" binding:"required"`
	VideoCount      int      `json:"video_count"`
	ClientCurrency  string   `json:"client_currency"`
	CreatorCurrency string   `json:"creator_currency"`
	QuotedFeeClient *float64 `json:"quoted_fee_client"`
	TargetMarginPct *float64 `json:"target_margin_pct"`
	TargetCPM       *float64 `json:"target_cpm"`
}

// ViewsBasis selects which central figure stands in for expected views.
type ViewsBasis string

const (
	BasisMedian  ViewsBasis = "median"
	BasisAverage ViewsBasis = "average"
)

// CalculatorInput holds everything the pricing calculator needs for one run.
type CalculatorInput struct {
	ClientCurrency      string     `json:"client_currency"`
	CreatorCurrency     string     `json:"creator_currency"`
	QuotedFee           float64    `json:"quoted_fee"`
	AgencyMarginPercent float64    `json:"agency_margin_percent"`
	ExpectedViewsBasis  ViewsBasis `json:"expected_views_basis"`
	MedianViews         *float64   `json:"median_views,omitempty"`
	AverageViews        *float64   `json:"average_views,omitempty"`
	EngagementRate      *float64   `json:"engagement_rate,omitempty"`
}

// CalculatorResult is the pricing calculator output.
type CalculatorResult struct {
	ExpectedViews        *float64 `json:"expected_views,omitempty"`
	NetCreatorFee        float64  `json:"net_creator_fee"`
	NetCreatorFeeCreator *float64 `json:"net_creator_fee_creator_ccy,omitempty"`
	FXRate               *float64 `json:"fx_rate,omitempty"`
	EffectiveCPM         *float64 `json:"effective_cpm,omitempty"`
	EngagementAdjCPM     *float64 `json:"engagement_adjusted_cpm,omitempty"`
}

// ReportSummary carries the headline figures for the report page.
type ReportSummary struct {
	MedianViews       *float64 `json:"median_views,omitempty"`
	AverageViews      *float64 `json:"average_views,omitempty"`
	EngagementRate    *float64 `json:"engagement_rate,omitempty"`
	LikeRate          *float64 `json:"like_rate,omitempty"`
	CommentRate       *float64 `json:"comment_rate,omitempty"`
	VolatilityRatio   *float64 `json:"volatility_ratio,omitempty"`
	RiskBucket        string   `json:"risk_bucket"`
	EffectiveCPM      *float64 `json:"effective_cpm,omitempty"`
	TotalViews        float64  `json:"total_views"`
	TotalLikes        float64  `json:"total_likes"`
	TotalComments     float64  `json:"total_comments"`
	AvgEngagementRate float64  `json:"avg_engagement_rate"`
	SampleSize        int      `json:"sample_size"`
}

// SeriesPoint is one point in a report chart series.
type SeriesPoint struct {
	Title       string  `json:"title"`
	PublishedAt string  `json:"published_at,omitempty"`
	Value       float64 `json:"value"`
}

// Report is the derived view of one analysis, shaped for charts and tables.
type Report struct {
	Summary          ReportSummary `json:"summary"`
	ViewsSeries      []SeriesPoint `json:"views_series"`
	EngagementSeries []SeriesPoint `json:"engagement_series"`
}

// FXRates is a cached FX quote from the rates provider.
type FXRates struct {
	Base     string             `json:"base"`
	Date     string             `json:"date"`
	Rates    map[string]float64 `json:"rates"`
	Provider string             `json:"provider"`
	Cached   bool               `json:"cached"`
}

// User is a stored credential record.
type User struct {
	ID                 string    `json:"id" db:"id"`
	Email              string    `json:"email" db:"email"`
	PasswordHash       string    `json:"-" db:"password_hash"`
	Name               string    `json:"name" db:"name"`
	SubscriptionTier   string    `json:"subscription_tier" db:"subscription_tier"`
	SubscriptionStatus string    `json:"subscription_status" db:"subscription_status"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}
