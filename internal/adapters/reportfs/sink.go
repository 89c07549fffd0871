// Package reportfs delivers rendered map reports to a directory on disk.
package reportfs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rfarias/geocapture/internal/pkg/metrics"
)

// LatestName is the stable filename always pointing at the newest report.
const LatestName = "latest.png"

// Sink implements ports.ReportSink. Each delivery writes a timestamped file
// plus a stable "latest" copy that dashboards can link to.
type Sink struct {
	dir string
}

// NewSink creates the output directory if needed.
func NewSink(dir string) (*Sink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report directory: %w", err)
	}
	return &Sink{dir: dir}, nil
}

// Deliver writes the artifact and returns the path of the timestamped copy.
func (s *Sink) Deliver(ctx context.Context, artifact []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := fmt.Sprintf("report-%s.png", time.Now().UTC().Format("20060102-150405"))
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, artifact, 0o644); err != nil {
		metrics.ReportDeliveryErrors.Inc()
		return "", fmt.Errorf("write report: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, LatestName), artifact, 0o644); err != nil {
		metrics.ReportDeliveryErrors.Inc()
		return "", fmt.Errorf("write latest report: %w", err)
	}
	return path, nil
}

// Latest returns the newest delivered report, or ok=false when none exists.
func (s *Sink) Latest() ([]byte, bool, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, LatestName))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}
