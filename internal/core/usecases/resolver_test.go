package usecases_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rfarias/geocapture/internal/core/domain"
	"github.com/rfarias/geocapture/internal/core/usecases"
	"github.com/rfarias/geocapture/internal/pkg/geospatial"
)

// --- Mock SiteRegistry ---

type mockRegistry struct {
	sites []domain.ClientSite
}

func (m *mockRegistry) Sites() []domain.ClientSite { return m.sites }

func (m *mockRegistry) FindByName(name string) (*domain.ClientSite, bool) {
	for i := range m.sites {
		if strings.EqualFold(m.sites[i].Name, name) {
			return &m.sites[i], true
		}
	}
	return nil, false
}

// --- Mock RecordRepository ---

type mockRecordRepo struct {
	insertFn func(ctx context.Context, rec domain.CapturedRecord) (domain.CapturedRecord, bool, error)
	listFn   func(ctx context.Context) ([]domain.CapturedRecord, error)
}

func (m *mockRecordRepo) Insert(ctx context.Context, rec domain.CapturedRecord) (domain.CapturedRecord, bool, error) {
	if m.insertFn != nil {
		return m.insertFn(ctx, rec)
	}
	rec.Seq = 1
	return rec, true, nil
}

func (m *mockRecordRepo) List(ctx context.Context) ([]domain.CapturedRecord, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockRecordRepo) GetBySeq(ctx context.Context, seq int) (*domain.CapturedRecord, error) {
	return nil, errors.New("not found")
}

func (m *mockRecordRepo) Count(ctx context.Context) (int, error) { return 0, nil }

// --- Fixtures ---

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
			Center:       domain.Coordinate{Lat: -6.7000, Lon: -52.0500},
			RadiusMeters: 5000,
			DisplayColor: "#1565c0",
		},
	}
}

// --- Tests ---

func TestResolve_SingleKnownTag(t *testing.T) {
	r := usecases.NewClientResolver(&mockRegistry{sites: testSites()}, "fazenda")

	client, err := r.Resolve([]string{"Alvorada"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client != "fazenda alvorada" {
		t.Errorf("got %q", client)
	}
}

func TestResolve_SingleUnknownTagIsHardStop(t *testing.T) {
	r := usecases.NewClientResolver(&mockRegistry{sites: testSites()}, "fazenda")

	// The coordinate sits inside fazenda alvorada's geofence, but a single
	// unknown tag must not fall back to geofencing.
	coord := &domain.Coordinate{Lat: -6.6386, Lon: -51.9896}
	_, err := r.Resolve([]string{"naoexiste"}, coord)
	if !errors.Is(err, domain.ErrUnknownClientTag) {
		t.Fatalf("expected ErrUnknownClientTag, got %v", err)
	}
}

func TestResolve_ZeroTagsGeofence(t *testing.T) {
	r := usecases.NewClientResolver(&mockRegistry{sites: testSites()}, "fazenda")

	coord := &domain.Coordinate{Lat: -6.6400, Lon: -51.9900}
	client, err := r.Resolve(nil, coord)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client != "fazenda alvorada" {
		t.Errorf("got %q", client)
	}
}

func TestResolve_MultipleTagsIgnored(t *testing.T) {
	r := usecases.NewClientResolver(&mockRegistry{sites: testSites()}, "fazenda")

	// Two tags, one of them unknown: tags are ignored entirely and geofence
	// resolution wins.
	coord := &domain.Coordinate{Lat: -6.6386, Lon: -51.9896}
	client, err := r.Resolve([]string{"naoexiste", "alvorada"}, coord)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client != "fazenda alvorada" {
		t.Errorf("got %q", client)
	}
}

func TestResolve_GeofenceBoundaryInclusive(t *testing.T) {
	center := domain.Coordinate{Lat: 0, Lon: 0}
	radius := geospatial.Haversine(0, 0, 0, 0.01)
	reg := &mockRegistry{sites: []domain.ClientSite{
		{Name: "fazenda borda", Center: center, RadiusMeters: radius},
	}}
	r := usecases.NewClientResolver(reg, "fazenda")

	onEdge := &domain.Coordinate{Lat: 0, Lon: 0.01}
	client, err := r.Resolve(nil, onEdge)
	if err != nil || client != "fazenda borda" {
		t.Errorf("point at the radius must resolve, got %q err %v", client, err)
	}

	beyond := &domain.Coordinate{Lat: 0, Lon: 0.0101}
	client, err = r.Resolve(nil, beyond)
	if err != nil || client != "" {
		t.Errorf("point beyond the radius must be unresolved, got %q err %v", client, err)
	}
}

func TestResolve_OverlapNearestCenterWins(t *testing.T) {
	reg := &mockRegistry{sites: []domain.ClientSite{
		{Name: "fazenda longe", Center: domain.Coordinate{Lat: 0, Lon: 0.02}, RadiusMeters: 10000},
		{Name: "fazenda perto", Center: domain.Coordinate{Lat: 0, Lon: 0.005}, RadiusMeters: 10000},
	}}
	r := usecases.NewClientResolver(reg, "fazenda")

	client, err := r.Resolve(nil, &domain.Coordinate{Lat: 0, Lon: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client != "fazenda perto" {
		t.Errorf("nearest center should win the overlap, got %q", client)
	}
}

func TestResolve_NoCoordinateUnresolved(t *testing.T) {
	r := usecases.NewClientResolver(&mockRegistry{sites: testSites()}, "fazenda")

	client, err := r.Resolve(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client != "" {
		t.Errorf("got %q", client)
	}
}

// Keep the fixture coordinates honest: the dedup tolerance must stay well
// below the geofence radii used above.
func TestFixtureSanity(t *testing.T) {
	ts := time.Date(2023, 11, 12, 14, 33, 0, 0, time.UTC)
	a := domain.CapturedRecord{Lat: -6.6386, Lon: -51.9896, Timestamp: ts}
	b := domain.CapturedRecord{Lat: -6.6400, Lon: -51.9900, Timestamp: ts}
	if domain.Equivalent(a, b) {
		t.Error("fixture points should be distinct records")
	}
}
