package ports

import (
	"context"

	"github.com/rfarias/geocapture/internal/core/domain"
)

// RecordRepository persists captured records. The collection behaves as a set
// under domain.Equivalent: Insert reports added=false when an equivalent
// record already exists, and a failed write never mutates visible state.
type RecordRepository interface {
	// Insert assigns the next sequence number and appends the record.
	// The stored record (with Seq set) is returned when added.
	Insert(ctx context.Context, rec domain.CapturedRecord) (domain.CapturedRecord, bool, error)
	List(ctx context.Context) ([]domain.CapturedRecord, error)
	GetBySeq(ctx context.Context, seq int) (*domain.CapturedRecord, error)
	Count(ctx context.Context) (int, error)
}

// SiteRegistry exposes the known-client table. Implementations may reload the
// table behind the scenes; each call observes a consistent snapshot.
type SiteRegistry interface {
	Sites() []domain.ClientSite
	FindByName(name string) (*domain.ClientSite, bool)
}
