package handler

import (
	"context"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	approvalapp "github.com/salesops/backend/internal/application/approval"
	ingestionapp "github.com/salesops/backend/internal/application/ingestion"
	"github.com/salesops/backend/internal/infrastructure/logger"
)

// ApprovalService decides pending sales
type ApprovalService interface {
	ListPending(ctx context.Context) ([]approvalapp.PendingSaleResponse, error)
	Approve(ctx context.Context, saleID uuid.UUID, req approvalapp.ApproveSaleRequest) (*approvalapp.ApprovalOutcome, error)
	Reject(ctx context.Context, saleID uuid.UUID, req approvalapp.RejectSaleRequest) (*approvalapp.PendingSaleResponse, error)
}

// IngestionService records sales from the call log and lead feeds
type IngestionService interface {
	RecordCallSale(ctx context.Context, req ingestionapp.RecordCallSaleRequest) (*approvalapp.PendingSaleResponse, error)
	RecordLeadConversion(ctx context.Context, req ingestionapp.RecordLeadConversionRequest) (*approvalapp.PendingSaleResponse, error)
}

// SalesHandler serves the decision queue and the source feeds
type SalesHandler struct {
	BaseHandler
	approvals ApprovalService
	ingestion IngestionService
}

// NewSalesHandler creates a new SalesHandler
func NewSalesHandler(approvals ApprovalService, ingestion IngestionService) *SalesHandler {
	return &SalesHandler{approvals: approvals, ingestion: ingestion}
}

// ListPending godoc
// @Summary  List sales awaiting a decision, most recent first
// @Router   /sales/pending [get]
func (h *SalesHandler) ListPending(c *gin.Context) {
	list, err := h.approvals.ListPending(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

// Approve godoc
// @Summary  Approve a pending sale, crediting commissions and revenue
// @Param    body  body  approval.ApproveSaleRequest  false  "optional product override"
// @Router   /sales/{id}/approve [post]
func (h *SalesHandler) Approve(c *gin.Context) {
	saleID, err := uuidParam(c, "id")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req approvalapp.ApproveSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.BindError(c, err)
		return
	}

	ctx := logger.WithSaleID(c.Request.Context(), saleID.String())
	outcome, err := h.approvals.Approve(ctx, saleID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, outcome)
}

// Reject godoc
// @Summary  Reject a pending sale with a reason
// @Param    body  body  approval.RejectSaleRequest  true  "rejection reason"
// @Router   /sales/{id}/reject [post]
func (h *SalesHandler) Reject(c *gin.Context) {
	saleID, err := uuidParam(c, "id")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	// an empty body is a blank reason, which the domain rejects with REASON_REQUIRED
	var req approvalapp.RejectSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.BindError(c, err)
		return
	}

	ctx := logger.WithSaleID(c.Request.Context(), saleID.String())
	sale, err := h.approvals.Reject(ctx, saleID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// RecordCallSale godoc
// @Summary  Queue a sale closed during a logged call
// @Router   /sales/calls [post]
func (h *SalesHandler) RecordCallSale(c *gin.Context) {
	var req ingestionapp.RecordCallSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	sale, err := h.ingestion.RecordCallSale(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sale)
}

// RecordLeadConversion godoc
// @Summary  Queue a lead converted by an SDR
// @Router   /sales/lead-conversions [post]
func (h *SalesHandler) RecordLeadConversion(c *gin.Context) {
	var req ingestionapp.RecordLeadConversionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	sale, err := h.ingestion.RecordLeadConversion(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sale)
}
