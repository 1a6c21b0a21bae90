package audit

import (
	"context"
	"time"
)

// Storage persists audit events.
type Storage interface {
	Store(ctx context.Context, event Event) error
}

// BatchStorage provides efficient bulk persistence. Implementations should
// write the whole batch atomically where the backend allows it.
type BatchStorage interface {
	Storage
	StoreBatch(ctx context.Context, events []Event) error
}

// Criteria narrows a Query. Zero-value fields are ignored; TenantID is
// the one filter callers should always set so results never cross
// organizations.
type Criteria struct {
	TenantID string
	UserID   string
	Action   string
	Resource string
	Since    time.Time
	Until    time.Time
	Limit    int
	Offset   int
}

// QueryStorage is implemented by backends that can read events back.
type QueryStorage interface {
	Query(ctx context.Context, criteria Criteria) ([]Event, error)
	Count(ctx context.Context, criteria Criteria) (int64, error)
}
