package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/salesops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Direction is the cash flow direction of a movement
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// IsValid checks if the direction is known
func (d Direction) IsValid() bool {
	return d == DirectionIn || d == DirectionOut
}

// MovementStatus represents the settlement status of a movement
type MovementStatus string

const (
	MovementStatusPending   MovementStatus = "pending"
	MovementStatusCompleted MovementStatus = "completed"
	MovementStatusCancelled MovementStatus = "cancelled"
)

// IsValid checks if the status is known
func (s MovementStatus) IsValid() bool {
	switch s {
	case MovementStatusPending, MovementStatusCompleted, MovementStatusCancelled:
		return true
	}
	return false
}

// ApprovedSaleCategorySuffix is appended to the business line to categorize approval revenue
const ApprovedSaleCategorySuffix = " - Venda Aprovada"

// CompensationCategorySuffix categorizes reversal entries
const CompensationCategorySuffix = " - Estorno"

// DateLayout is the calendar date format used for OccurredOn
const DateLayout = "2006-01-02"

// FinancialMovement is an append-only ledger entry for one business line.
// Movements are never edited; a reversal is a new compensating movement.
type FinancialMovement struct {
	ID            uuid.UUID
	BusinessLine  string
	Direction     Direction
	Amount        decimal.Decimal
	Category      string
	PaymentMethod string
	OccurredOn    time.Time // calendar date, midnight UTC
	Status        MovementStatus
	SaleID        *uuid.UUID
	CreatedAt     time.Time
}

// MovementInput holds the fields of a manually recorded movement
type MovementInput struct {
	BusinessLine  string
	Direction     Direction
	Amount        decimal.Decimal
	Category      string
	PaymentMethod string
	OccurredOn    time.Time
	Status        MovementStatus
}

// NewMovement creates a validated movement
func NewMovement(in MovementInput) (*FinancialMovement, error) {
	businessLine := normalizeLine(in.BusinessLine)
	if businessLine == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Business line cannot be empty")
	}
	if !in.Direction.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("Invalid direction %q", in.Direction))
	}
	if in.Amount.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Amount cannot be negative")
	}
	status := in.Status
	if status == "" {
		status = MovementStatusCompleted
	}
	if !status.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("Invalid movement status %q", status))
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Category cannot be empty")
	}
	occurredOn := in.OccurredOn
	if occurredOn.IsZero() {
		occurredOn = time.Now()
	}

	return &FinancialMovement{
		ID:            uuid.New(),
		BusinessLine:  businessLine,
		Direction:     in.Direction,
		Amount:        in.Amount,
		Category:      category,
		PaymentMethod: strings.TrimSpace(in.PaymentMethod),
		OccurredOn:    TruncateToDate(occurredOn),
		Status:        status,
		CreatedAt:     time.Now(),
	}, nil
}

// NewApprovedSaleMovement creates the completed revenue entry booked when a sale is approved
func NewApprovedSaleMovement(businessLine string, amount decimal.Decimal, saleID uuid.UUID, on time.Time) (*FinancialMovement, error) {
	businessLine = normalizeLine(businessLine)
	m, err := NewMovement(MovementInput{
		BusinessLine: businessLine,
		Direction:    DirectionIn,
		Amount:       amount,
		Category:     ApprovedSaleCategory(businessLine),
		OccurredOn:   on,
		Status:       MovementStatusCompleted,
	})
	if err != nil {
		return nil, err
	}
	m.SaleID = &saleID
	return m, nil
}

// NewCompensatingMovement creates the reversal of a completed movement
func NewCompensatingMovement(original *FinancialMovement, on time.Time) (*FinancialMovement, error) {
	if original.Status != MovementStatusCompleted {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "Only completed movements can be reversed")
	}
	direction := DirectionOut
	if original.Direction == DirectionOut {
		direction = DirectionIn
	}
	m, err := NewMovement(MovementInput{
		BusinessLine:  original.BusinessLine,
		Direction:     direction,
		Amount:        original.Amount,
		Category:      original.BusinessLine + CompensationCategorySuffix,
		PaymentMethod: original.PaymentMethod,
		OccurredOn:    on,
		Status:        MovementStatusCompleted,
	})
	if err != nil {
		return nil, err
	}
	m.SaleID = original.SaleID
	return m, nil
}

// ApprovedSaleCategory returns "<businessLine> - Venda Aprovada"
func ApprovedSaleCategory(businessLine string) string {
	return businessLine + ApprovedSaleCategorySuffix
}

// IsCompleted reports whether the movement participates in reporting
func (m *FinancialMovement) IsCompleted() bool {
	return m.Status == MovementStatusCompleted
}

// SignedAmount returns the amount positive for inflows and negative for outflows
func (m *FinancialMovement) SignedAmount() decimal.Decimal {
	if m.Direction == DirectionOut {
		return m.Amount.Neg()
	}
	return m.Amount
}

func normalizeLine(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// TruncateToDate drops the time of day, keeping the calendar date of t
func TruncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD", value))
	}
	return t, nil
}
