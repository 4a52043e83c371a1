package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/influencerinsights/backend-go/internal/domain"
	"github.com/influencerinsights/backend-go/internal/metrics"
	"github.com/influencerinsights/backend-go/internal/store"
	"github.com/rs/zerolog/log"
)

const defaultTargetMarginPct = 30.0

// AnalysisEngine is the slice of the engine client the service depends on.
type AnalysisEngine interface {
	Analyse(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisResponse, error)
}

// AnalysisService orchestrates one analysis run: call the engine, sanitize
// the payload, merge the brand's pricing inputs into a record, save it, and
// shape the report. It also fronts the store for the read/mutate endpoints.
type AnalysisService struct {
	engine            AnalysisEngine
	store             *store.Store
	defaultVideoCount int
}

func NewAnalysisService(engine AnalysisEngine, st *store.Store, defaultVideoCount int) *AnalysisService {
	if defaultVideoCount <= 0 {
		defaultVideoCount = 8
	}
	return &AnalysisService{
		engine:            engine,
		store:             st,
		defaultVideoCount: defaultVideoCount,
	}
}

// Run performs the fetch-then-upsert flow. A failed fetch leaves the store
// untouched; on success exactly one upsert happens and the fresh payload is
// rendered into a report for immediate display.
func (s *AnalysisService) Run(ctx context.Context, req domain.RunAnalysisRequest) (domain.AnalysisRecord, domain.Report, error) {
	count := req.VideoCount
	if count <= 0 {
		count = s.defaultVideoCount
	}

	resp, err := s.engine.Analyse(ctx, domain.AnalysisRequest{
		YouTubeURL: req.YouTubeURL,
		VideoCount: count,
	})
	if err != nil {
		return domain.AnalysisRecord{}, domain.Report{}, err
	}

	rec := buildRecord(resp, req)
	s.store.Upsert(ctx, rec)

	log.Info().
		Str("id", rec.ID).
		Str("channel", rec.ChannelName).
		Int("videos", len(resp.Videos)).
		Msg("analysis saved")

	report := metrics.BuildReport(resp, rec.QuotedFeeClient, domain.BasisMedian)
	return rec, report, nil
}

// Recent lists stored records in recency order.
func (s *AnalysisService) Recent() []domain.AnalysisRecord {
	return s.store.Recent()
}

// Active returns the currently selected record.
func (s *AnalysisService) Active() (domain.AnalysisRecord, bool) {
	return s.store.GetActive()
}

// Get returns one record by id.
func (s *AnalysisService) Get(id string) (domain.AnalysisRecord, bool) {
	return s.store.Get(id)
}

// SetActive promotes a record; false when the id is unknown.
func (s *AnalysisService) SetActive(ctx context.Context, id string) bool {
	return s.store.SetActive(ctx, id)
}

// Remove deletes a record; false when the id is unknown.
func (s *AnalysisService) Remove(ctx context.Context, id string) bool {
	return s.store.Remove(ctx, id)
}

// Clear wipes the store.
func (s *AnalysisService) Clear(ctx context.Context) {
	s.store.Clear(ctx)
}

// buildRecord merges the sanitized engine payload with the pricing inputs.
func buildRecord(resp *domain.AnalysisResponse, req domain.RunAnalysisRequest) domain.AnalysisRecord {
	rec := domain.AnalysisRecord{
		ID:          uuid.NewString(),
		ChannelID:   resp.Channel.ChannelID,
		ChannelName: resp.Channel.ChannelName,
		ChannelURL:  resp.Channel.ChannelURL,
		Region:      resp.Channel.Region,
		Subscribers: metrics.SafeCount(resp.Channel.Subscribers),
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),

		ClientCurrency:  normalizeCurrency(req.ClientCurrency),
		CreatorCurrency: normalizeCurrency(req.CreatorCurrency),
		QuotedFeeClient: nonNegative(req.QuotedFeeClient),
		TargetCPM:       nonNegative(req.TargetCPM),
		TargetMarginPct: defaultTargetMarginPct,
	}

	if m := resp.Metrics; m != nil {
		rec.MedianViews = nonNegative(m.MedianViews)
		rec.AverageViews = nonNegative(m.MeanViews)
	}
	if rec.MedianViews == nil {
		rec.MedianViews = metrics.MedianViews(resp.Videos)
	}
	if rec.AverageViews == nil {
		rec.AverageViews = metrics.MeanViews(resp.Videos)
	}

	if margin := metrics.SafeNumber(req.TargetMarginPct); margin != nil && *margin >= 0 && *margin <= 100 {
		rec.TargetMarginPct = *margin
	}

	return rec
}

// nonNegative keeps a sanitized optional only when it is >= 0. Missing stays
// missing; it never collapses to zero.
func nonNegative(v *float64) *float64 {
	sv := metrics.SafeNumber(v)
	if sv == nil || *sv < 0 {
		return nil
	}
	return sv
}
