package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/salesops/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// FinancialMovementModel is the persistence model for a ledger movement
type FinancialMovementModel struct {
	ID            uuid.UUID             `gorm:"type:uuid;primary_key"`
	BusinessLine  string                `gorm:"type:varchar(100);not null;index:idx_movement_line_date,priority:1"`
	Direction     ledger.Direction      `gorm:"type:varchar(10);not null"`
	Amount        decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	Category      string                `gorm:"type:varchar(200);not null"`
	PaymentMethod string                `gorm:"type:varchar(50)"`
	OccurredOn    time.Time             `gorm:"type:date;not null;index:idx_movement_line_date,priority:2"`
	Status        ledger.MovementStatus `gorm:"type:varchar(20);not null;default:'completed'"`
	SaleID        *uuid.UUID            `gorm:"type:uuid;index"`
	CreatedAt     time.Time             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (FinancialMovementModel) TableName() string {
	return "financial_movements"
}

// ToDomain converts the persistence model to a domain FinancialMovement
func (m *FinancialMovementModel) ToDomain() *ledger.FinancialMovement {
	return &ledger.FinancialMovement{
		ID:            m.ID,
		BusinessLine:  m.BusinessLine,
		Direction:     m.Direction,
		Amount:        m.Amount,
		Category:      m.Category,
		PaymentMethod: m.PaymentMethod,
		OccurredOn:    ledger.TruncateToDate(m.OccurredOn),
		Status:        m.Status,
		SaleID:        m.SaleID,
		CreatedAt:     m.CreatedAt,
	}
}

// FinancialMovementModelFromDomain creates a persistence model from a domain FinancialMovement
func FinancialMovementModelFromDomain(mv *ledger.FinancialMovement) *FinancialMovementModel {
	return &FinancialMovementModel{
		ID:            mv.ID,
		BusinessLine:  mv.BusinessLine,
		Direction:     mv.Direction,
		Amount:        mv.Amount,
		Category:      mv.Category,
		PaymentMethod: mv.PaymentMethod,
		OccurredOn:    mv.OccurredOn,
		Status:        mv.Status,
		SaleID:        mv.SaleID,
		CreatedAt:     mv.CreatedAt,
	}
}
