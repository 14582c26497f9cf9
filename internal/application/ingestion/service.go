package ingestion

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	approvalapp "github.com/salesops/backend/internal/application/approval"
	"github.com/salesops/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RecordCallSaleRequest is a sale closed during a logged call
type RecordCallSaleRequest struct {
	LeadName        string          `json:"lead_name" binding:"required,min=1,max=200"`
	CloserID        uuid.UUID       `json:"closer_id" binding:"required"`
	SDRID           uuid.UUID       `json:"sdr_id" binding:"required"`
	Amount          decimal.Decimal `json:"amount"`
	OccurredAt      *time.Time      `json:"occurred_at"`
	DurationMinutes int             `json:"duration_minutes" binding:"min=0"`
	ProductID       *uuid.UUID      `json:"product_id"`
}

// RecordLeadConversionRequest is a lead the SDR converted
type RecordLeadConversionRequest struct {
	LeadName        string          `json:"lead_name" binding:"required,min=1,max=200"`
	SDRID           uuid.UUID       `json:"sdr_id" binding:"required"`
	EstimatedAmount decimal.Decimal `json:"estimated_amount"`
	OccurredAt      *time.Time      `json:"occurred_at"`
	ProductID       *uuid.UUID      `json:"product_id"`
}

// Service appends pending sales produced by the call log and lead qualification feeds
type Service struct {
	repo   sales.PendingSaleRepository
	logger *zap.Logger
}

// NewService creates a new ingestion Service
func NewService(repo sales.PendingSaleRepository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// RecordCallSale queues a call sale for approval
func (s *Service) RecordCallSale(ctx context.Context, req RecordCallSaleRequest) (*approvalapp.PendingSaleResponse, error) {
	sale, err := sales.NewCallSale(sales.CallSaleInput{
		LeadName:        req.LeadName,
		CloserID:        req.CloserID,
		SDRID:           req.SDRID,
		Amount:          req.Amount,
		OccurredAt:      valueOrZero(req.OccurredAt),
		DurationMinutes: req.DurationMinutes,
		ProductID:       req.ProductID,
	})
	if err != nil {
		return nil, err
	}
	return s.append(ctx, sale)
}

// RecordLeadConversion queues a lead conversion for approval
func (s *Service) RecordLeadConversion(ctx context.Context, req RecordLeadConversionRequest) (*approvalapp.PendingSaleResponse, error) {
	sale, err := sales.NewLeadConversion(sales.LeadConversionInput{
		LeadName:        req.LeadName,
		SDRID:           req.SDRID,
		EstimatedAmount: req.EstimatedAmount,
		OccurredAt:      valueOrZero(req.OccurredAt),
		ProductID:       req.ProductID,
	})
	if err != nil {
		return nil, err
	}
	return s.append(ctx, sale)
}

func (s *Service) append(ctx context.Context, sale *sales.PendingSale) (*approvalapp.PendingSaleResponse, error) {
	if err := s.repo.Append(ctx, sale); err != nil {
		return nil, fmt.Errorf("failed to queue %s: %w", sale.Kind, err)
	}

	s.logger.Info("pending sale queued",
		zap.String("sale_id", sale.ID.String()),
		zap.String("kind", sale.Kind.String()),
		zap.String("sdr_id", sale.SDRID.String()),
	)

	resp := approvalapp.ToPendingSaleResponse(sale)
	return &resp, nil
}

func valueOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
