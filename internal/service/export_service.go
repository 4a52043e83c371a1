package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/influencerinsights/backend-go/internal/domain"
	"github.com/influencerinsights/backend-go/internal/storage"
	"github.com/rs/zerolog/log"
)

// ExportService serializes a saved analysis to object storage so a report can
// be shared outside the operator's browser.
type ExportService struct {
	storage storage.ObjectStorage
}

func NewExportService(objectStorage storage.ObjectStorage) *ExportService {
	return &ExportService{storage: objectStorage}
}

// Export uploads the record as pretty-printed JSON and returns the object key.
func (s *ExportService) Export(ctx context.Context, rec domain.AnalysisRecord) (string, error) {
	payload, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode export: %w", err)
	}

	key := fmt.Sprintf("exports/%s.json", rec.ID)
	if err := s.storage.UploadObject(ctx, key, payload); err != nil {
		return "", err
	}

	log.Info().Str("key", key).Str("channel", rec.ChannelName).Msg("analysis exported")
	return key, nil
}

// ListExports returns the keys of previously exported analyses.
func (s *ExportService) ListExports(ctx context.Context) ([]storage.ObjectInfo, error) {
	return s.storage.ListObjects(ctx, "exports/")
}

// FetchExport downloads a previously exported analysis by record id.
func (s *ExportService) FetchExport(ctx context.Context, id string) ([]byte, error) {
	return s.storage.DownloadObject(ctx, fmt.Sprintf("exports/%s.json", id))
}
