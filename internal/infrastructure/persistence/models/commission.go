package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/salesops/backend/internal/domain/commission"
	"github.com/salesops/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// RewardConfigModel is the persistence model for a reward configuration.
// A NULL user_id row is the stored default of the role.
type RewardConfigModel struct {
	ID                uuid.UUID        `gorm:"type:uuid;primary_key"`
	UserID            *uuid.UUID       `gorm:"type:uuid;index:idx_reward_config_user_role,priority:1"`
	Role              sales.Role       `gorm:"type:varchar(20);not null;index:idx_reward_config_user_role,priority:2"`
	Model             commission.Model `gorm:"type:varchar(20);not null"`
	BasePercent       decimal.Decimal  `gorm:"type:decimal(9,4);not null;default:0"`
	AmountPerSale     decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	Tiers             string           `gorm:"type:text"`
	MonthlyGoalCount  int              `gorm:"not null;default:0"`
	MonthlyGoalBonus  *decimal.Decimal `gorm:"type:decimal(18,4)"`
	TopPerformerBonus *decimal.Decimal `gorm:"type:decimal(18,4)"`
	UpdatedAt         time.Time        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (RewardConfigModel) TableName() string {
	return "reward_configs"
}

// ToDomain converts the persistence model to a domain RewardConfig.
// A malformed tier column yields an error instead of a silently empty ladder.
func (m *RewardConfigModel) ToDomain() (*commission.RewardConfig, error) {
	var tiers []commission.Tier
	if m.Tiers != "" {
		if err := json.Unmarshal([]byte(m.Tiers), &tiers); err != nil {
			return nil, err
		}
	}
	return &commission.RewardConfig{
		ID:                m.ID,
		UserID:            m.UserID,
		Role:              m.Role,
		Model:             m.Model,
		BasePercent:       m.BasePercent,
		AmountPerSale:     m.AmountPerSale,
		Tiers:             tiers,
		MonthlyGoalCount:  m.MonthlyGoalCount,
		MonthlyGoalBonus:  m.MonthlyGoalBonus,
		TopPerformerBonus: m.TopPerformerBonus,
		UpdatedAt:         m.UpdatedAt,
	}, nil
}

// FromDomain populates the persistence model from a domain RewardConfig
func (m *RewardConfigModel) FromDomain(c *commission.RewardConfig) error {
	m.ID = c.ID
	m.UserID = c.UserID
	m.Role = c.Role
	m.Model = c.Model
	m.BasePercent = c.BasePercent
	m.AmountPerSale = c.AmountPerSale
	m.Tiers = ""
	if len(c.Tiers) > 0 {
		raw, err := json.Marshal(c.Tiers)
		if err != nil {
			return err
		}
		m.Tiers = string(raw)
	}
	m.MonthlyGoalCount = c.MonthlyGoalCount
	m.MonthlyGoalBonus = c.MonthlyGoalBonus
	m.TopPerformerBonus = c.TopPerformerBonus
	m.UpdatedAt = c.UpdatedAt
	return nil
}

// CommissionRecordModel is the persistence model for a commission record.
// The (sale_id, role) unique index enforces one record per participant.
type CommissionRecordModel struct {
	ID             uuid.UUID        `gorm:"type:uuid;primary_key"`
	SaleID         uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_commission_sale_role,priority:1"`
	Role           sales.Role       `gorm:"type:varchar(20);not null;uniqueIndex:idx_commission_sale_role,priority:2"`
	UserID         uuid.UUID        `gorm:"type:uuid;not null;index"`
	BaseAmount     decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	Bonus          decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	ComputedAmount decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	Model          commission.Model `gorm:"type:varchar(20);not null"`
	CreatedAt      time.Time        `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (CommissionRecordModel) TableName() string {
	return "commission_records"
}

// ToDomain converts the persistence model to a domain Record
func (m *CommissionRecordModel) ToDomain() *commission.Record {
	return &commission.Record{
		ID:             m.ID,
		SaleID:         m.SaleID,
		Role:           m.Role,
		UserID:         m.UserID,
		BaseAmount:     m.BaseAmount,
		Bonus:          m.Bonus,
		ComputedAmount: m.ComputedAmount,
		Model:          m.Model,
		CreatedAt:      m.CreatedAt,
	}
}

// CommissionRecordModelFromDomain creates a persistence model from a domain Record
func CommissionRecordModelFromDomain(r *commission.Record) *CommissionRecordModel {
	return &CommissionRecordModel{
		ID:             r.ID,
		SaleID:         r.SaleID,
		Role:           r.Role,
		UserID:         r.UserID,
		BaseAmount:     r.BaseAmount,
		Bonus:          r.Bonus,
		ComputedAmount: r.ComputedAmount,
		Model:          r.Model,
		CreatedAt:      r.CreatedAt,
	}
}
