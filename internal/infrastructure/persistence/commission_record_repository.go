package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/salesops/backend/internal/domain/commission"
	"github.com/salesops/backend/internal/domain/sales"
	"github.com/salesops/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCommissionRecordRepository implements commission.RecordRepository using GORM.
// Records are inserted only by GormApprovalStore.
type GormCommissionRecordRepository struct {
	db *gorm.DB
}

// NewGormCommissionRecordRepository creates a new GormCommissionRecordRepository
func NewGormCommissionRecordRepository(db *gorm.DB) *GormCommissionRecordRepository {
	return &GormCommissionRecordRepository{db: db}
}

// ListBySale returns the records of one sale ordered by role
func (r *GormCommissionRecordRepository) ListBySale(ctx context.Context, saleID uuid.UUID) ([]*commission.Record, error) {
	return r.find(r.db.WithContext(ctx).Where("sale_id = ?", saleID).Order("role ASC"))
}

// ListByUser returns a performer's records created within the period
func (r *GormCommissionRecordRepository) ListByUser(ctx context.Context, userID uuid.UUID, period commission.Period) ([]*commission.Record, error) {
	return r.find(r.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, period.From, period.To).
		Order("created_at ASC"))
}

// Leaderboard returns per-user record counts for a role in the period, highest first
func (r *GormCommissionRecordRepository) Leaderboard(ctx context.Context, role sales.Role, period commission.Period) ([]commission.PerformerCount, error) {
	var rows []struct {
		UserID    uuid.UUID
		SaleCount int
	}
	if err := r.db.WithContext(ctx).
		Model(&models.CommissionRecordModel{}).
		Select("user_id, COUNT(*) AS sale_count").
		Where("role = ? AND created_at >= ? AND created_at < ?", role, period.From, period.To).
		Group("user_id").
		Order("sale_count DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]commission.PerformerCount, len(rows))
	for i, row := range rows {
		out[i] = commission.PerformerCount{UserID: row.UserID, SaleCount: row.SaleCount}
	}
	return out, nil
}

func (r *GormCommissionRecordRepository) find(query *gorm.DB) ([]*commission.Record, error) {
	var rows []models.CommissionRecordModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*commission.Record, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}
