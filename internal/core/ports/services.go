package ports

import (
	"context"

	"github.com/rfarias/geocapture/internal/core/domain"
)

// Recognizer is the OCR collaborator: image in, raw text out. An empty string
// means no text was found; an error means the engine itself failed.
type Recognizer interface {
	Recognize(ctx context.Context, imagePath string) (string, error)
}

// Renderer turns the current full record set into a report artifact
// (a rendered map). The core does not interpret the artifact.
type Renderer interface {
	Render(ctx context.Context, records []domain.CapturedRecord, sites []domain.ClientSite) ([]byte, error)
}

// ReportSink delivers a rendered artifact downstream and returns a locator
// for it (a file path or URL).
type ReportSink interface {
	Deliver(ctx context.Context, artifact []byte) (string, error)
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishCaptureCreated(ctx context.Context, rec *domain.CapturedRecord) error
	PublishReportGenerated(ctx context.Context, location string, records int) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
