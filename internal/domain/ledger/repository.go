package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Filter selects completed movements for reporting.
// From and To are inclusive calendar dates; zero values leave the range open.
type Filter struct {
	BusinessLine string
	From         time.Time
	To           time.Time
}

// MovementRepository is the append-only ledger store
type MovementRepository interface {
	// Append stores a new movement; existing movements are never modified
	Append(ctx context.Context, m *FinancialMovement) error
	// ListCompleted returns completed movements of one business line ordered by date
	ListCompleted(ctx context.Context, filter Filter) ([]*FinancialMovement, error)
	// FindByID returns shared.ErrNotFound for unknown ids
	FindByID(ctx context.Context, id uuid.UUID) (*FinancialMovement, error)
	// BusinessLines returns the distinct business lines present in the ledger
	BusinessLines(ctx context.Context) ([]string, error)
}
