package usecases_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rfarias/geocapture/internal/core/domain"
	"github.com/rfarias/geocapture/internal/core/usecases"
)

type mockCache struct {
	data map[string][]byte
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, errors.New("miss")
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	if m.data == nil {
		m.data = make(map[string][]byte)
	}
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func sampleRecords() []domain.CapturedRecord {
	ts := time.Date(2023, 11, 12, 14, 33, 0, 0, time.UTC)
	return []domain.CapturedRecord{
		{Seq: 1, Lat: -6.6386, Lon: -51.9896, Timestamp: ts, Client: "fazenda alvorada"},
		{Seq: 2, Lat: -6.7000, Lon: -52.0500, Timestamp: ts, Client: "fazenda boa vista"},
		{Seq: 3, Lat: 10, Lon: 10, Timestamp: ts},
	}
}

func TestRecordService_ListPopulatesCache(t *testing.T) {
	repoCalls := 0
	repo := &mockRecordRepo{listFn: func(ctx context.Context) ([]domain.CapturedRecord, error) {
		repoCalls++
		return sampleRecords(), nil
	}}
	cache := &mockCache{}

	svc := usecases.NewRecordService(repo, cache)

	recs, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("got %d records", len(recs))
	}

	// Second call is served from cache.
	if _, err := svc.List(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repoCalls != 1 {
		t.Errorf("repo called %d times, want 1", repoCalls)
	}
}

func TestRecordService_CorruptCacheFallsThrough(t *testing.T) {
	repo := &mockRecordRepo{listFn: func(ctx context.Context) ([]domain.CapturedRecord, error) {
		return sampleRecords(), nil
	}}
	cache := &mockCache{data: map[string][]byte{"captures:all": []byte("{not json")}}

	svc := usecases.NewRecordService(repo, cache)
	recs, err := svc.List(context.Background())
	if err != nil || len(recs) != 3 {
		t.Fatalf("recs = %v, err = %v", recs, err)
	}

	var cached []domain.CapturedRecord
	if err := json.Unmarshal(cache.data["captures:all"], &cached); err != nil {
		t.Errorf("cache was not repaired: %v", err)
	}
}

func TestRecordService_ListByClient(t *testing.T) {
	repo := &mockRecordRepo{listFn: func(ctx context.Context) ([]domain.CapturedRecord, error) {
		return sampleRecords(), nil
	}}

	svc := usecases.NewRecordService(repo, nil)
	recs, err := svc.ListByClient(context.Background(), "Fazenda Alvorada")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 || recs[0].Seq != 1 {
		t.Errorf("got %v", recs)
	}
}
