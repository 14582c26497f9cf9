package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/salesops/backend/internal/domain/shared"
)

// BaseModel carries the identity and audit columns shared by every table.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func baseModelOf(e shared.BaseEntity) BaseModel {
	return BaseModel{ID: e.ID, CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt}
}

func (m BaseModel) entity() shared.BaseEntity {
	return shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

// AggregateModel adds the version column bumped on every state transition.
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

func aggregateModelOf(a shared.BaseAggregateRoot) AggregateModel {
	return AggregateModel{BaseModel: baseModelOf(a.BaseEntity), Version: a.Version}
}

// aggregate rebuilds the root without pending events; loaded rows have none.
func (m AggregateModel) aggregate() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{BaseEntity: m.entity(), Version: m.Version}
}

// AllModels lists the tables AutoMigrate creates for sqlite and tests.
func AllModels() []any {
	return []any{
		&PendingSaleModel{},
		&ProductModel{},
		&RewardConfigModel{},
		&CommissionRecordModel{},
		&FinancialMovementModel{},
	}
}
