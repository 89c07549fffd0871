package usecases

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rfarias/geocapture/internal/core/ports"
)

// ReportTrigger is what the capture pipeline holds: something it can re-arm
// after every successful insert.
type ReportTrigger interface {
	Arm()
}

// ReportScheduler coalesces a burst of inserts into exactly one report
// render, fired a fixed delay after the most recent arm. A single timer slot
// is kept: arming while a fire is pending resets the countdown, so a steady
// trickle of inserts suppresses the report until arrivals stop. The mutex
// makes arm/reset atomic under concurrent inserts.
type ReportScheduler struct {
	delay     time.Duration
	records   ports.RecordRepository
	registry  ports.SiteRegistry
	renderer  ports.Renderer
	sink      ports.ReportSink
	publisher ports.EventPublisher

	mu    sync.Mutex
	timer *time.Timer
}

// NewReportScheduler creates an idle scheduler. publisher may be nil.
func NewReportScheduler(
	delay time.Duration,
	records ports.RecordRepository,
	registry ports.SiteRegistry,
	renderer ports.Renderer,
	sink ports.ReportSink,
	publisher ports.EventPublisher,
) *ReportScheduler {
	return &ReportScheduler{
		delay:     delay,
		records:   records,
		registry:  registry,
		renderer:  renderer,
		sink:      sink,
		publisher: publisher,
	}
}

// Arm starts the countdown, cancelling any pending fire first.
func (s *ReportScheduler) Arm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer == nil {
		s.timer = time.AfterFunc(s.delay, s.fire)
		return
	}
	s.timer.Reset(s.delay)
}

// Cancel drops any pending fire and returns the scheduler to idle.
func (s *ReportScheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
}

// fire gathers the full record set, renders it, and hands the artifact to
// the sink. Any failure is logged and the scheduler is idle again either
// way; a missed batch is not retried, the next insert re-arms normally.
func (s *ReportScheduler) fire() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	records, err := s.records.List(ctx)
	if err != nil {
		slog.Error("report: loading records failed", "error", err)
		return
	}
	if len(records) == 0 {
		return
	}

	artifact, err := s.renderer.Render(ctx, records, s.registry.Sites())
	if err != nil {
		slog.Error("report: render failed", "error", err)
		return
	}

	location, err := s.sink.Deliver(ctx, artifact)
	if err != nil {
		slog.Error("report: delivery failed", "error", err)
		return
	}

	slog.Info("report generated", "location", location, "records", len(records))

	if s.publisher != nil {
		if err := s.publisher.PublishReportGenerated(ctx, location, len(records)); err != nil {
			slog.Warn("report: event publish failed", "error", err)
		}
	}
}
