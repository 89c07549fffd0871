package staticmap_test

import (
	"bytes"
	"context"
	"image/png"
	"testing"
	"time"

	"github.com/rfarias/geocapture/internal/adapters/staticmap"
	"github.com/rfarias/geocapture/internal/core/domain"
)

func testSites() []domain.ClientSite {
	return []domain.ClientSite{
		{
			Name:         "fazenda alvorada",
			Center:       domain.Coordinate{Lat: -6.6386, Lon: -51.9896},
			RadiusMeters: 5000,
			DisplayColor: "#2e7d32",
		},
		{
			Name:         "fazenda boa vista",
			Center:       domain.Coordinate{Lat: -7.12, Lon: -52.34},
			RadiusMeters: 3000,
			// No color configured, exercises the fallback palette.
		},
	}
}

func TestRenderProducesPNG(t *testing.T) {
	ts := time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)
	records := []domain.CapturedRecord{
		{Seq: 1, Lat: -6.6386, Lon: -51.9896, Timestamp: ts, Client: "fazenda alvorada"},
		{Seq: 2, Lat: -7.12, Lon: -52.34, Timestamp: ts.Add(time.Hour), Client: "fazenda boa vista"},
		{Seq: 3, Lat: -6.9, Lon: -52.1, Timestamp: ts.Add(2 * time.Hour), Client: ""},
	}

	data, err := staticmap.NewRenderer().Render(context.Background(), records, testSites())
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("report is not a decodable PNG: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 1024 || bounds.Dy() != 768 {
		t.Fatalf("unexpected report size %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestRenderSinglePoint(t *testing.T) {
	records := []domain.CapturedRecord{
		{Seq: 1, Lat: -6.6386, Lon: -51.9896, Timestamp: time.Now(), Client: ""},
	}

	data, err := staticmap.NewRenderer().Render(context.Background(), records, nil)
	if err != nil {
		t.Fatalf("render single point: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("single-point report is not a decodable PNG: %v", err)
	}
}

func TestRenderRejectsEmptySet(t *testing.T) {
	if _, err := staticmap.NewRenderer().Render(context.Background(), nil, testSites()); err == nil {
		t.Fatal("expected error for empty record set")
	}
}

func TestRenderHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records := []domain.CapturedRecord{{Seq: 1, Lat: 0, Lon: 0, Timestamp: time.Now()}}
	if _, err := staticmap.NewRenderer().Render(ctx, records, nil); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
