package persistence

import (
	"context"
	"fmt"

	"github.com/salesops/backend/internal/domain/approval"
	"github.com/salesops/backend/internal/domain/sales"
	"github.com/salesops/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormApprovalStore applies approval commits in a single database transaction.
// The conditional status update is the only guard against concurrent deciders:
// whoever flips pending -> approved first owns the commissions and the movement.
type GormApprovalStore struct {
	db *gorm.DB
}

// NewGormApprovalStore creates a new GormApprovalStore
func NewGormApprovalStore(db *gorm.DB) *GormApprovalStore {
	return &GormApprovalStore{db: db}
}

// CommitApproval implements approval.Store
func (s *GormApprovalStore) CommitApproval(ctx context.Context, commit approval.Commit) (bool, error) {
	if err := commit.Validate(); err != nil {
		return false, err
	}

	won := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.PendingSaleModel{}).
			Where("id = ? AND status = ?", commit.SaleID, sales.StatusPending).
			Updates(map[string]any{
				"status":        sales.StatusApproved,
				"product_id":    commit.ProductID,
				"business_line": commit.Movement.BusinessLine,
				"decided_at":    commit.DecidedAt,
				"updated_at":    commit.DecidedAt,
				"version":       gorm.Expr("version + 1"),
			})
		if result.Error != nil {
			return fmt.Errorf("transition sale: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil
		}

		records := make([]*models.CommissionRecordModel, len(commit.Commissions))
		for i, r := range commit.Commissions {
			records[i] = models.CommissionRecordModelFromDomain(r)
		}
		if err := tx.Create(&records).Error; err != nil {
			return fmt.Errorf("insert commission records: %w", err)
		}

		if err := tx.Create(models.FinancialMovementModelFromDomain(commit.Movement)).Error; err != nil {
			return fmt.Errorf("insert ledger movement: %w", err)
		}

		won = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return won, nil
}
