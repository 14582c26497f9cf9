package sales

import (
	"github.com/google/uuid"
	"github.com/salesops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypePendingSale = "PendingSale"

// Event type constants
const (
	EventTypeSaleApproved = "SaleApproved"
	EventTypeSaleRejected = "SaleRejected"
)

func decisionEvent(eventType string, sale *PendingSale) shared.BaseDomainEvent {
	ev := shared.NewBaseDomainEvent(eventType, AggregateTypePendingSale, sale.ID)
	if sale.DecidedAt != nil {
		ev = ev.At(*sale.DecidedAt)
	}
	return ev
}

// SaleApprovedEvent is raised when a pending sale is approved.
// Subscribers refresh derived reports for the business line.
type SaleApprovedEvent struct {
	shared.BaseDomainEvent
	SaleID       uuid.UUID       `json:"sale_id"`
	Kind         Kind            `json:"kind"`
	ProductID    uuid.UUID       `json:"product_id"`
	BusinessLine string          `json:"business_line"`
	Amount       decimal.Decimal `json:"amount"`
	SDRID        uuid.UUID       `json:"sdr_id"`
	CloserID     *uuid.UUID      `json:"closer_id,omitempty"`
}

// NewSaleApprovedEvent creates a new SaleApprovedEvent
func NewSaleApprovedEvent(sale *PendingSale, businessLine string) *SaleApprovedEvent {
	var productID uuid.UUID
	if sale.ProductID != nil {
		productID = *sale.ProductID
	}
	return &SaleApprovedEvent{
		BaseDomainEvent: decisionEvent(EventTypeSaleApproved, sale),
		SaleID:          sale.ID,
		Kind:            sale.Kind,
		ProductID:       productID,
		BusinessLine:    businessLine,
		Amount:          sale.Amount,
		SDRID:           sale.SDRID,
		CloserID:        sale.CloserID,
	}
}

// EventType returns the event type name
func (e *SaleApprovedEvent) EventType() string {
	return EventTypeSaleApproved
}

// SaleRejectedEvent is raised when a pending sale is rejected
type SaleRejectedEvent struct {
	shared.BaseDomainEvent
	SaleID uuid.UUID `json:"sale_id"`
	Kind   Kind      `json:"kind"`
	Reason string    `json:"reason"`
}

// NewSaleRejectedEvent creates a new SaleRejectedEvent
func NewSaleRejectedEvent(sale *PendingSale) *SaleRejectedEvent {
	return &SaleRejectedEvent{
		BaseDomainEvent: decisionEvent(EventTypeSaleRejected, sale),
		SaleID:          sale.ID,
		Kind:            sale.Kind,
		Reason:          sale.RejectionReason,
	}
}

// EventType returns the event type name
func (e *SaleRejectedEvent) EventType() string {
	return EventTypeSaleRejected
}
