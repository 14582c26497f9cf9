package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	approvalapp "github.com/salesops/backend/internal/application/approval"
	ledgerapp "github.com/salesops/backend/internal/application/ledger"
)

// LedgerService books manual movements
type LedgerService interface {
	RecordMovement(ctx context.Context, req ledgerapp.RecordMovementRequest) (*approvalapp.MovementResponse, error)
	ReverseMovement(ctx context.Context, id uuid.UUID) (*approvalapp.MovementResponse, error)
}

// LedgerHandler serves the financial ledger
type LedgerHandler struct {
	BaseHandler
	service LedgerService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(service LedgerService) *LedgerHandler {
	return &LedgerHandler{service: service}
}

// RecordMovement godoc
// @Summary  Book a manual movement such as an operating cost
// @Router   /ledger/movements [post]
func (h *LedgerHandler) RecordMovement(c *gin.Context) {
	var req ledgerapp.RecordMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	m, err := h.service.RecordMovement(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, m)
}

// ReverseMovement godoc
// @Summary  Append the compensating entry of a completed movement
// @Router   /ledger/movements/{id}/reverse [post]
func (h *LedgerHandler) ReverseMovement(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	m, err := h.service.ReverseMovement(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, m)
}
