package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rfarias/geocapture/internal/core/domain"
	"github.com/rfarias/geocapture/internal/core/extract"
	"github.com/rfarias/geocapture/internal/core/ports"
)

// CaptureService runs the extraction-and-resolution pipeline over one
// submitted photo: OCR (with retry), field extraction, client resolution,
// deduplicated insert, and scheduler re-arm.
type CaptureService struct {
	recognizer ports.Recognizer
	records    ports.RecordRepository
	resolver   *ClientResolver
	trigger    ReportTrigger
	publisher  ports.EventPublisher
	cache      ports.CacheService
	retry      RetryPolicy
	keyword    string
}

// NewCaptureService wires the pipeline. publisher, cache, and trigger may be
// nil; maxAttempts below 1 is treated as 1.
func NewCaptureService(
	recognizer ports.Recognizer,
	records ports.RecordRepository,
	resolver *ClientResolver,
	trigger ReportTrigger,
	publisher ports.EventPublisher,
	cache ports.CacheService,
	maxAttempts int,
	keyword string,
) *CaptureService {
	return &CaptureService{
		recognizer: recognizer,
		records:    records,
		resolver:   resolver,
		trigger:    trigger,
		publisher:  publisher,
		cache:      cache,
		retry:      RetryPolicy{MaxAttempts: maxAttempts},
		keyword:    keyword,
	}
}

// extraction is one run of the full chain over recognized text. Absent
// fields are data, not errors; only an OCR failure aborts a run.
type extraction struct {
	timestamp time.Time
	tsFound   bool
	coord     extract.CoordinateMatch
	coordOK   bool
	tags      []string
}

func (s *CaptureService) extractOnce(ctx context.Context, imagePath string) (extraction, error) {
	text, err := s.recognizer.Recognize(ctx, imagePath)
	if err != nil {
		return extraction{}, fmt.Errorf("recognize: %w", err)
	}

	var ex extraction
	ex.timestamp, ex.tsFound = extract.Timestamp(text)
	ex.coord, ex.coordOK = extract.Coordinates(text)
	ex.tags = extract.Tags(text, s.keyword)
	return ex, nil
}

// Submit processes one photo and reports the terminal submission state.
// Only a persistence failure comes back as an error; every other failure
// mode is folded into the result status.
func (s *CaptureService) Submit(ctx context.Context, imagePath string) (domain.CaptureResult, error) {
	var ex extraction
	err := s.retry.Do(ctx, func(ctx context.Context) error {
		e, err := s.extractOnce(ctx, imagePath)
		if err != nil {
			slog.Warn("ocr attempt failed", "image", imagePath, "error", err)
			return err
		}
		ex = e
		return nil
	})
	if err != nil {
		slog.Error("ocr exhausted retries", "image", imagePath, "error", err)
		return domain.CaptureResult{Status: domain.StatusNotFound}, nil
	}

	// Both fields are required for a record; the timestamp invariant forbids
	// storing a coordinate-only capture.
	if !ex.coordOK || !ex.tsFound {
		return domain.CaptureResult{Status: domain.StatusNotFound}, nil
	}

	coord := ex.coord.Coordinate
	client, err := s.resolver.Resolve(ex.tags, &coord)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownClientTag) {
			slog.Warn("submission rejected", "reason", err)
			return domain.CaptureResult{
				Status:         domain.StatusInvalid,
				RawCoordinates: ex.coord.Raw,
			}, nil
		}
		return domain.CaptureResult{}, err
	}

	rec := domain.CapturedRecord{
		Lat:       coord.Lat,
		Lon:       coord.Lon,
		Timestamp: ex.timestamp,
		Client:    client,
	}

	stored, added, err := s.records.Insert(ctx, rec)
	if err != nil {
		return domain.CaptureResult{}, fmt.Errorf("persist capture: %w", err)
	}
	if !added {
		return domain.CaptureResult{
			Status:         domain.StatusDuplicate,
			RawCoordinates: ex.coord.Raw,
		}, nil
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, captureListCacheKey)
	}
	if s.publisher != nil {
		if perr := s.publisher.PublishCaptureCreated(ctx, &stored); perr != nil {
			slog.Warn("capture event publish failed", "seq", stored.Seq, "error", perr)
		}
	}
	if s.trigger != nil {
		s.trigger.Arm()
	}

	status := domain.StatusSuccess
	if client == "" {
		status = domain.StatusUnresolved
	}
	return domain.CaptureResult{
		Status:         status,
		Record:         &stored,
		Client:         client,
		RawCoordinates: ex.coord.Raw,
	}, nil
}
