package report

import (
	"context"
	"fmt"

	"github.com/salesops/backend/internal/domain/sales"
	"github.com/salesops/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LineInvalidator drops cached reports of a business line
type LineInvalidator interface {
	InvalidateLine(ctx context.Context, businessLine string) error
}

// SaleApprovedHandler handles SaleApprovedEvent and invalidates the cached
// BPO reports of the sale's business line, since it just gained a movement
type SaleApprovedHandler struct {
	invalidator LineInvalidator
	logger      *zap.Logger
}

// NewSaleApprovedHandler creates a new handler for sale approved events
func NewSaleApprovedHandler(invalidator LineInvalidator, logger *zap.Logger) *SaleApprovedHandler {
	return &SaleApprovedHandler{
		invalidator: invalidator,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *SaleApprovedHandler) EventTypes() []string {
	return []string{sales.EventTypeSaleApproved}
}

// Handle processes a SaleApprovedEvent
func (h *SaleApprovedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	approved, ok := event.(*sales.SaleApprovedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", sales.EventTypeSaleApproved),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			sales.EventTypeSaleApproved, event.EventType())
	}

	if err := h.invalidator.InvalidateLine(ctx, approved.BusinessLine); err != nil {
		h.logger.Warn("failed to invalidate BPO reports after approval",
			zap.String("sale_id", approved.SaleID.String()),
			zap.String("business_line", approved.BusinessLine),
			zap.Error(err),
		)
		return err
	}

	h.logger.Debug("BPO reports invalidated after approval",
		zap.String("sale_id", approved.SaleID.String()),
		zap.String("business_line", approved.BusinessLine),
	)
	return nil
}

// Ensure SaleApprovedHandler implements shared.EventHandler
var _ shared.EventHandler = (*SaleApprovedHandler)(nil)
