package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/salesops/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// PendingSaleModel is the persistence model for the PendingSale aggregate.
// BusinessLine is filled in when the sale is approved.
type PendingSaleModel struct {
	AggregateModel
	Kind            sales.Kind      `gorm:"type:varchar(20);not null"`
	LeadName        string          `gorm:"type:varchar(200);not null"`
	SDRID           uuid.UUID       `gorm:"column:sdr_id;type:uuid;not null;index"`
	CloserID        *uuid.UUID      `gorm:"type:uuid;index"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DurationMinutes int             `gorm:"not null;default:0"`
	ProductID       *uuid.UUID      `gorm:"type:uuid"`
	BusinessLine    string          `gorm:"type:varchar(100)"`
	OccurredAt      time.Time       `gorm:"not null"`
	Status          sales.Status    `gorm:"type:varchar(20);not null;default:'pending';index"`
	RejectionReason string          `gorm:"type:text"`
	DecidedAt       *time.Time
}

// TableName returns the table name for GORM
func (PendingSaleModel) TableName() string {
	return "pending_sales"
}

// ToDomain converts the persistence model to a domain PendingSale
func (m *PendingSaleModel) ToDomain() *sales.PendingSale {
	return &sales.PendingSale{
		BaseAggregateRoot: m.aggregate(),
		Kind:              m.Kind,
		LeadName:          m.LeadName,
		SDRID:             m.SDRID,
		CloserID:          m.CloserID,
		Amount:            m.Amount,
		DurationMinutes:   m.DurationMinutes,
		ProductID:         m.ProductID,
		OccurredAt:        m.OccurredAt,
		Status:            m.Status,
		RejectionReason:   m.RejectionReason,
		DecidedAt:         m.DecidedAt,
	}
}

// FromDomain populates the persistence model from a domain PendingSale
func (m *PendingSaleModel) FromDomain(s *sales.PendingSale) {
	m.AggregateModel = aggregateModelOf(s.BaseAggregateRoot)
	m.Kind = s.Kind
	m.LeadName = s.LeadName
	m.SDRID = s.SDRID
	m.CloserID = s.CloserID
	m.Amount = s.Amount
	m.DurationMinutes = s.DurationMinutes
	m.ProductID = s.ProductID
	m.OccurredAt = s.OccurredAt
	m.Status = s.Status
	m.RejectionReason = s.RejectionReason
	m.DecidedAt = s.DecidedAt
}

// PendingSaleModelFromDomain creates a new persistence model from a domain PendingSale
func PendingSaleModelFromDomain(s *sales.PendingSale) *PendingSaleModel {
	m := &PendingSaleModel{}
	m.FromDomain(s)
	return m
}
