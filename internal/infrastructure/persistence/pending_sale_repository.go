package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/salesops/backend/internal/domain/sales"
	"github.com/salesops/backend/internal/domain/shared"
	"github.com/salesops/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPendingSaleRepository implements sales.PendingSaleRepository using GORM
type GormPendingSaleRepository struct {
	db *gorm.DB
}

// NewGormPendingSaleRepository creates a new GormPendingSaleRepository
func NewGormPendingSaleRepository(db *gorm.DB) *GormPendingSaleRepository {
	return &GormPendingSaleRepository{db: db}
}

// ListPending returns pending sales, most recent first
func (r *GormPendingSaleRepository) ListPending(ctx context.Context) ([]*sales.PendingSale, error) {
	var rows []models.PendingSaleModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", sales.StatusPending).
		Order("occurred_at DESC, id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*sales.PendingSale, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// FindByID finds a sale by its ID
func (r *GormPendingSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.PendingSale, error) {
	var row models.PendingSaleModel
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return row.ToDomain(), nil
}

// Append stores a new pending sale
func (r *GormPendingSaleRepository) Append(ctx context.Context, sale *sales.PendingSale) error {
	return r.db.WithContext(ctx).Create(models.PendingSaleModelFromDomain(sale)).Error
}

// TransitionToRejected sets the rejected status only while the sale is pending
func (r *GormPendingSaleRepository) TransitionToRejected(ctx context.Context, id uuid.UUID, reason string, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.PendingSaleModel{}).
		Where("id = ? AND status = ?", id, sales.StatusPending).
		Updates(map[string]any{
			"status":           sales.StatusRejected,
			"rejection_reason": reason,
			"decided_at":       at,
			"updated_at":       at,
			"version":          gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// CountPending returns the size of the approval queue
func (r *GormPendingSaleRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PendingSaleModel{}).
		Where("status = ?", sales.StatusPending).
		Count(&count).Error
	return count, err
}
