package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/salesops/backend/internal/domain/commission"
	"github.com/salesops/backend/internal/domain/sales"
	"github.com/salesops/backend/internal/domain/shared"
	"github.com/salesops/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormRewardConfigRepository implements commission.RewardConfigRepository using GORM
type GormRewardConfigRepository struct {
	db *gorm.DB
}

// NewGormRewardConfigRepository creates a new GormRewardConfigRepository
func NewGormRewardConfigRepository(db *gorm.DB) *GormRewardConfigRepository {
	return &GormRewardConfigRepository{db: db}
}

// FindForUser returns the config of a performer for a role
func (r *GormRewardConfigRepository) FindForUser(ctx context.Context, userID uuid.UUID, role sales.Role) (*commission.RewardConfig, error) {
	return r.first(r.db.WithContext(ctx).Where("user_id = ? AND role = ?", userID, role))
}

// FindRoleDefault returns the stored role-wide config
func (r *GormRewardConfigRepository) FindRoleDefault(ctx context.Context, role sales.Role) (*commission.RewardConfig, error) {
	return r.first(r.db.WithContext(ctx).Where("user_id IS NULL AND role = ?", role))
}

// Save upserts a config keyed by (user, role). The existing row keeps its ID.
func (r *GormRewardConfigRepository) Save(ctx context.Context, cfg *commission.RewardConfig) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.RewardConfigModel
		query := tx.Where("role = ?", cfg.Role)
		if cfg.UserID == nil {
			query = query.Where("user_id IS NULL")
		} else {
			query = query.Where("user_id = ?", *cfg.UserID)
		}
		err := query.First(&existing).Error
		switch {
		case err == nil:
			cfg.ID = existing.ID
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		var row models.RewardConfigModel
		if err := row.FromDomain(cfg); err != nil {
			return fmt.Errorf("encode reward config: %w", err)
		}
		return tx.Save(&row).Error
	})
}

func (r *GormRewardConfigRepository) first(query *gorm.DB) (*commission.RewardConfig, error) {
	var row models.RewardConfigModel
	if err := query.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	cfg, err := row.ToDomain()
	if err != nil {
		return nil, fmt.Errorf("decode reward config %s: %w", row.ID, err)
	}
	return cfg, nil
}
