package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PendingSaleRepository defines the storage boundary for pending sales.
// Status changes only happen through conditional transitions that report
// whether the caller won the race against concurrent deciders.
type PendingSaleRepository interface {
	// ListPending returns pending sales, most recent first
	ListPending(ctx context.Context) ([]*PendingSale, error)
	// FindByID returns shared.ErrNotFound for unknown ids
	FindByID(ctx context.Context, id uuid.UUID) (*PendingSale, error)
	// Append stores a new pending sale produced by one of the source feeds
	Append(ctx context.Context, sale *PendingSale) error
	// TransitionToRejected sets status=rejected and the reason only if the
	// sale is still pending. It returns false when another caller got there first.
	TransitionToRejected(ctx context.Context, id uuid.UUID, reason string, at time.Time) (bool, error)
}
