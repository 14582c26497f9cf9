package approval

import (
	"time"

	"github.com/google/uuid"
	"github.com/salesops/backend/internal/domain/catalog"
	"github.com/salesops/backend/internal/domain/commission"
	"github.com/salesops/backend/internal/domain/ledger"
	"github.com/salesops/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// ApproveSaleRequest represents a request to approve a pending sale
type ApproveSaleRequest struct {
	ProductID *uuid.UUID `json:"product_id"` // Optional: overrides the product recorded on the sale
}

// RejectSaleRequest represents a request to reject a pending sale.
// Reason is validated by the domain so a blank reason maps to REASON_REQUIRED.
type RejectSaleRequest struct {
	Reason string `json:"reason"`
}

// PendingSaleResponse is the decision-queue view of a sale
type PendingSaleResponse struct {
	ID              uuid.UUID       `json:"id"`
	Kind            string          `json:"kind"`
	LeadName        string          `json:"lead_name"`
	SDRID           uuid.UUID       `json:"sdr_id"`
	CloserID        *uuid.UUID      `json:"closer_id,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	DurationMinutes int             `json:"duration_minutes,omitempty"`
	ProductID       *uuid.UUID      `json:"product_id,omitempty"`
	OccurredAt      time.Time       `json:"occurred_at"`
	Status          string          `json:"status"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	DecidedAt       *time.Time      `json:"decided_at,omitempty"`
}

// CommissionResponse is a credited commission record
type CommissionResponse struct {
	ID             uuid.UUID       `json:"id"`
	Role           string          `json:"role"`
	UserID         uuid.UUID       `json:"user_id"`
	BaseAmount     decimal.Decimal `json:"base_amount"`
	Bonus          decimal.Decimal `json:"bonus"`
	ComputedAmount decimal.Decimal `json:"computed_amount"`
	Model          string          `json:"model"`
}

// MovementResponse is a ledger movement
type MovementResponse struct {
	ID            uuid.UUID       `json:"id"`
	BusinessLine  string          `json:"business_line"`
	Direction     string          `json:"direction"`
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	OccurredOn    string          `json:"occurred_on"`
	Status        string          `json:"status"`
	SaleID        *uuid.UUID      `json:"sale_id,omitempty"`
}

// ApprovalOutcome is the result of a successful approval
type ApprovalOutcome struct {
	Sale         PendingSaleResponse  `json:"sale"`
	ProductID    uuid.UUID            `json:"product_id"`
	BusinessLine string               `json:"business_line"`
	Revenue      decimal.Decimal      `json:"revenue"`
	Commissions  []CommissionResponse `json:"commissions"`
	Movement     MovementResponse     `json:"movement"`
	Warnings     []string             `json:"warnings,omitempty"`
}

// ToPendingSaleResponse converts a domain sale to its response view
func ToPendingSaleResponse(s *sales.PendingSale) PendingSaleResponse {
	return PendingSaleResponse{
		ID:              s.ID,
		Kind:            s.Kind.String(),
		LeadName:        s.LeadName,
		SDRID:           s.SDRID,
		CloserID:        s.CloserID,
		Amount:          s.Amount,
		DurationMinutes: s.DurationMinutes,
		ProductID:       s.ProductID,
		OccurredAt:      s.OccurredAt,
		Status:          s.Status.String(),
		RejectionReason: s.RejectionReason,
		DecidedAt:       s.DecidedAt,
	}
}

// ToPendingSaleResponses converts a list of sales
func ToPendingSaleResponses(list []*sales.PendingSale) []PendingSaleResponse {
	out := make([]PendingSaleResponse, len(list))
	for i, s := range list {
		out[i] = ToPendingSaleResponse(s)
	}
	return out
}

// ToCommissionResponse converts a commission record
func ToCommissionResponse(r *commission.Record) CommissionResponse {
	return CommissionResponse{
		ID:             r.ID,
		Role:           r.Role.String(),
		UserID:         r.UserID,
		BaseAmount:     r.BaseAmount,
		Bonus:          r.Bonus,
		ComputedAmount: r.ComputedAmount,
		Model:          string(r.Model),
	}
}

// ToMovementResponse converts a ledger movement
func ToMovementResponse(m *ledger.FinancialMovement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		BusinessLine:  m.BusinessLine,
		Direction:     string(m.Direction),
		Amount:        m.Amount,
		Category:      m.Category,
		PaymentMethod: m.PaymentMethod,
		OccurredOn:    m.OccurredOn.Format(ledger.DateLayout),
		Status:        string(m.Status),
		SaleID:        m.SaleID,
	}
}

// ToApprovalOutcome assembles the approval result
func ToApprovalOutcome(s *sales.PendingSale, p *catalog.Product, records []*commission.Record, m *ledger.FinancialMovement) *ApprovalOutcome {
	commissions := make([]CommissionResponse, len(records))
	for i, r := range records {
		commissions[i] = ToCommissionResponse(r)
	}
	return &ApprovalOutcome{
		Sale:         ToPendingSaleResponse(s),
		ProductID:    p.ID,
		BusinessLine: p.BusinessLine,
		Revenue:      m.Amount,
		Commissions:  commissions,
		Movement:     ToMovementResponse(m),
	}
}
