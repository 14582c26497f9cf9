package approval

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/salesops/backend/internal/domain/commission"
	"github.com/salesops/backend/internal/domain/ledger"
)

// Commit is everything an approval writes, applied as one unit of work:
// the pending -> approved transition, then the commission records, then the
// revenue movement.
type Commit struct {
	SaleID      uuid.UUID
	ProductID   uuid.UUID
	DecidedAt   time.Time
	Commissions []*commission.Record
	Movement    *ledger.FinancialMovement
}

// Validate checks the commit is internally consistent before it reaches storage
func (c Commit) Validate() error {
	if c.SaleID == uuid.Nil || c.ProductID == uuid.Nil {
		return errors.New("approval commit requires sale and product ids")
	}
	if len(c.Commissions) == 0 {
		return errors.New("approval commit requires at least one commission record")
	}
	for _, r := range c.Commissions {
		if r.SaleID != c.SaleID {
			return errors.New("commission record belongs to a different sale")
		}
	}
	if c.Movement == nil {
		return errors.New("approval commit requires a ledger movement")
	}
	return nil
}

// Store applies approval commits atomically
type Store interface {
	// CommitApproval transitions the sale only if it is still pending and, in
	// the same transaction, persists the commissions and the movement.
	// It returns false, having written nothing, when the sale was no longer pending.
	CommitApproval(ctx context.Context, commit Commit) (bool, error)
}
