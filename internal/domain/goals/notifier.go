package goals

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventTypeSaleApproved is the goal tracker event sent for each credited performer
const EventTypeSaleApproved = "saleApproved"

// Notification tells the goals tracker that a performer's progress changed
type Notification struct {
	UserID     uuid.UUID `json:"userId"`
	EventType  string    `json:"eventType"`
	SaleID     uuid.UUID `json:"saleId"`
	Role       string    `json:"role"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewSaleApprovedNotification creates the notification for one performer of an approved sale
func NewSaleApprovedNotification(userID, saleID uuid.UUID, role string, at time.Time) Notification {
	return Notification{
		UserID:     userID,
		EventType:  EventTypeSaleApproved,
		SaleID:     saleID,
		Role:       role,
		OccurredAt: at,
	}
}

// Notifier delivers notifications to the goals tracker. Delivery is best effort:
// callers report failures but never undo the change that triggered them.
type Notifier interface {
	Notify(ctx context.Context, notifications ...Notification) error
}
