package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/salesops/backend/internal/domain/ledger"
	"github.com/salesops/backend/internal/domain/shared"
	"github.com/salesops/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormMovementRepository implements ledger.MovementRepository using GORM.
// It only ever inserts rows.
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// Append stores a new movement
func (r *GormMovementRepository) Append(ctx context.Context, m *ledger.FinancialMovement) error {
	return r.db.WithContext(ctx).Create(models.FinancialMovementModelFromDomain(m)).Error
}

// ListCompleted returns the completed movements of a business line within the inclusive date range
func (r *GormMovementRepository) ListCompleted(ctx context.Context, filter ledger.Filter) ([]*ledger.FinancialMovement, error) {
	query := r.db.WithContext(ctx).
		Where("business_line = ? AND status = ?", filter.BusinessLine, ledger.MovementStatusCompleted)
	if !filter.From.IsZero() {
		query = query.Where("occurred_on >= ?", ledger.TruncateToDate(filter.From))
	}
	if !filter.To.IsZero() {
		query = query.Where("occurred_on < ?", ledger.TruncateToDate(filter.To).AddDate(0, 0, 1))
	}

	var rows []models.FinancialMovementModel
	if err := query.Order("occurred_on ASC, created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*ledger.FinancialMovement, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// FindByID finds a movement by its ID
func (r *GormMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.FinancialMovement, error) {
	var row models.FinancialMovementModel
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return row.ToDomain(), nil
}

// BusinessLines returns the distinct business lines present in the ledger
func (r *GormMovementRepository) BusinessLines(ctx context.Context) ([]string, error) {
	var lines []string
	err := r.db.WithContext(ctx).
		Model(&models.FinancialMovementModel{}).
		Distinct("business_line").
		Order("business_line ASC").
		Pluck("business_line", &lines).Error
	return lines, err
}
