package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	approvalapp "github.com/salesops/backend/internal/application/approval"
	"github.com/salesops/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RecordMovementRequest is a manually booked ledger entry, e.g. a cost
type RecordMovementRequest struct {
	BusinessLine  string          `json:"business_line" binding:"required,min=1,max=100"`
	Direction     string          `json:"direction" binding:"required,oneof=in out"`
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category" binding:"required,min=1,max=200"`
	PaymentMethod string          `json:"payment_method" binding:"max=50"`
	OccurredOn    string          `json:"occurred_on"` // YYYY-MM-DD, defaults to today
	Status        string          `json:"status" binding:"omitempty,oneof=pending completed cancelled"`
}

// LineInvalidator drops cached reports of a business line
type LineInvalidator interface {
	InvalidateLine(ctx context.Context, businessLine string) error
}

// Service books manual movements into the append-only ledger
type Service struct {
	repo        ledger.MovementRepository
	invalidator LineInvalidator
	logger      *zap.Logger
	now         func() time.Time
}

// NewService creates a new ledger Service. invalidator may be nil.
func NewService(repo ledger.MovementRepository, invalidator LineInvalidator, logger *zap.Logger) *Service {
	return &Service{
		repo:        repo,
		invalidator: invalidator,
		logger:      logger,
		now:         time.Now,
	}
}

// RecordMovement validates and appends a movement
func (s *Service) RecordMovement(ctx context.Context, req RecordMovementRequest) (*approvalapp.MovementResponse, error) {
	occurredOn := s.now()
	if req.OccurredOn != "" {
		parsed, err := ledger.ParseDate(req.OccurredOn)
		if err != nil {
			return nil, err
		}
		occurredOn = parsed
	}

	m, err := ledger.NewMovement(ledger.MovementInput{
		BusinessLine:  req.BusinessLine,
		Direction:     ledger.Direction(req.Direction),
		Amount:        req.Amount,
		Category:      req.Category,
		PaymentMethod: req.PaymentMethod,
		OccurredOn:    occurredOn,
		Status:        ledger.MovementStatus(req.Status),
	})
	if err != nil {
		return nil, err
	}

	return s.append(ctx, m)
}

// ReverseMovement appends the compensating entry of a completed movement
func (s *Service) ReverseMovement(ctx context.Context, id uuid.UUID) (*approvalapp.MovementResponse, error) {
	original, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	reversal, err := ledger.NewCompensatingMovement(original, s.now())
	if err != nil {
		return nil, err
	}
	return s.append(ctx, reversal)
}

func (s *Service) append(ctx context.Context, m *ledger.FinancialMovement) (*approvalapp.MovementResponse, error) {
	if err := s.repo.Append(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to append movement: %w", err)
	}

	s.logger.Info("ledger movement recorded",
		zap.String("movement_id", m.ID.String()),
		zap.String("business_line", m.BusinessLine),
		zap.String("direction", string(m.Direction)),
		zap.String("amount", m.Amount.String()),
	)

	if s.invalidator != nil && m.IsCompleted() {
		if err := s.invalidator.InvalidateLine(ctx, m.BusinessLine); err != nil {
			s.logger.Warn("failed to invalidate BPO reports after movement",
				zap.String("business_line", m.BusinessLine),
				zap.Error(err),
			)
		}
	}

	resp := approvalapp.ToMovementResponse(m)
	return &resp, nil
}
