package usecases

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rfarias/geocapture/internal/core/domain"
	"github.com/rfarias/geocapture/internal/core/ports"
)

const captureListCacheKey = "captures:all"

// RecordService handles read access to the stored captures.
type RecordService struct {
	records ports.RecordRepository
	cache   ports.CacheService
}

// NewRecordService creates a new RecordService. cache may be nil.
func NewRecordService(records ports.RecordRepository, cache ports.CacheService) *RecordService {
	return &RecordService{records: records, cache: cache}
}

// List returns all captures in insertion order.
func (s *RecordService) List(ctx context.Context) ([]domain.CapturedRecord, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, captureListCacheKey); err == nil {
			var recs []domain.CapturedRecord
			if err := json.Unmarshal(data, &recs); err == nil {
				return recs, nil
			}
		}
	}

	recs, err := s.records.List(ctx)
	if err != nil {
		return nil, err
	}

	// Short TTL; inserts also invalidate this key.
	if s.cache != nil {
		if data, err := json.Marshal(recs); err == nil {
			_ = s.cache.Set(ctx, captureListCacheKey, data, 60)
		}
	}

	return recs, nil
}

// ListByClient returns the captures attributed to one client.
func (s *RecordService) ListByClient(ctx context.Context, client string) ([]domain.CapturedRecord, error) {
	recs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	var out []domain.CapturedRecord
	for _, r := range recs {
		if strings.EqualFold(r.Client, client) {
			out = append(out, r)
		}
	}
	return out, nil
}

// GetBySeq returns a single capture.
func (s *RecordService) GetBySeq(ctx context.Context, seq int) (*domain.CapturedRecord, error) {
	return s.records.GetBySeq(ctx, seq)
}

// Count returns the number of stored captures.
func (s *RecordService) Count(ctx context.Context) (int, error) {
	return s.records.Count(ctx)
}
