package sales

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/salesops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Kind discriminates the two upstream sources a pending sale can come from
type Kind string

const (
	// KindCallSale is a sale closed on a logged sales call (closer + SDR)
	KindCallSale Kind = "call_sale"
	// KindLeadConversion is a lead converted directly by an SDR
	KindLeadConversion Kind = "lead_conversion"
)

// IsValid checks if the kind is a known sale source
func (k Kind) IsValid() bool {
	return k == KindCallSale || k == KindLeadConversion
}

// String returns the string representation of Kind
func (k Kind) String() string {
	return string(k)
}

// Status represents the approval status of a pending sale
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no transition can leave the status
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusApproved || target == StatusRejected
	case StatusApproved, StatusRejected:
		return false // Terminal states
	}
	return false
}

// Role is a commissionable participant role on a sale
type Role string

const (
	RoleSDR    Role = "sdr"
	RoleCloser Role = "closer"
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	return r == RoleSDR || r == RoleCloser
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// Participant is a user credited on a sale under a given role
type Participant struct {
	Role   Role
	UserID uuid.UUID
}

// PendingSale is the aggregate root for a sale awaiting administrative approval.
// It is a tagged union over Kind: call sales carry a closer and a call duration,
// lead conversions carry only the SDR and an estimated amount.
type PendingSale struct {
	shared.BaseAggregateRoot
	Kind            Kind
	LeadName        string
	SDRID           uuid.UUID
	CloserID        *uuid.UUID // set only for call sales
	Amount          decimal.Decimal
	DurationMinutes int // call sales only
	ProductID       *uuid.UUID
	OccurredAt      time.Time
	Status          Status
	RejectionReason string
	DecidedAt       *time.Time
}

// CallSaleInput holds the fields recorded by the call log feed
type CallSaleInput struct {
	LeadName        string
	CloserID        uuid.UUID
	SDRID           uuid.UUID
	Amount          decimal.Decimal
	OccurredAt      time.Time
	DurationMinutes int
	ProductID       *uuid.UUID
}

// LeadConversionInput holds the fields recorded by the lead qualification feed
type LeadConversionInput struct {
	LeadName        string
	SDRID           uuid.UUID
	EstimatedAmount decimal.Decimal
	OccurredAt      time.Time
	ProductID       *uuid.UUID
}

// NewCallSale creates a pending sale originating from a logged call
func NewCallSale(in CallSaleInput) (*PendingSale, error) {
	if in.CloserID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Closer ID cannot be empty")
	}
	if in.DurationMinutes < 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Call duration cannot be negative")
	}
	sale, err := newPendingSale(KindCallSale, in.LeadName, in.SDRID, in.Amount, in.OccurredAt, in.ProductID)
	if err != nil {
		return nil, err
	}
	closerID := in.CloserID
	sale.CloserID = &closerID
	sale.DurationMinutes = in.DurationMinutes
	return sale, nil
}

// NewLeadConversion creates a pending sale originating from a converted lead
func NewLeadConversion(in LeadConversionInput) (*PendingSale, error) {
	return newPendingSale(KindLeadConversion, in.LeadName, in.SDRID, in.EstimatedAmount, in.OccurredAt, in.ProductID)
}

func newPendingSale(kind Kind, leadName string, sdrID uuid.UUID, amount decimal.Decimal, occurredAt time.Time, productID *uuid.UUID) (*PendingSale, error) {
	leadName = strings.TrimSpace(leadName)
	if leadName == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Lead name cannot be empty")
	}
	if sdrID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "SDR ID cannot be empty")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Sale amount cannot be negative")
	}
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}
	if productID != nil && *productID == uuid.Nil {
		productID = nil
	}

	return &PendingSale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Kind:              kind,
		LeadName:          leadName,
		SDRID:             sdrID,
		Amount:            amount,
		ProductID:         productID,
		OccurredAt:        occurredAt,
		Status:            StatusPending,
	}, nil
}

// IsCallSale reports whether the sale came from the call log
func (s *PendingSale) IsCallSale() bool {
	return s.Kind == KindCallSale
}

// IsPending reports whether the sale still awaits a decision
func (s *PendingSale) IsPending() bool {
	return s.Status == StatusPending
}

// Participants returns the commissionable participants of the sale.
// The SDR is always present; the closer only on call sales.
func (s *PendingSale) Participants() []Participant {
	participants := []Participant{{Role: RoleSDR, UserID: s.SDRID}}
	if s.IsCallSale() && s.CloserID != nil {
		participants = append(participants, Participant{Role: RoleCloser, UserID: *s.CloserID})
	}
	return participants
}

// ResolveProductID returns the override when given, else the product recorded on the sale
func (s *PendingSale) ResolveProductID(override *uuid.UUID) (uuid.UUID, bool) {
	if override != nil && *override != uuid.Nil {
		return *override, true
	}
	if s.ProductID != nil && *s.ProductID != uuid.Nil {
		return *s.ProductID, true
	}
	return uuid.Nil, false
}

// Approve moves the sale to the approved terminal state
func (s *PendingSale) Approve(productID uuid.UUID, businessLine string, at time.Time) error {
	if !s.Status.CanTransitionTo(StatusApproved) {
		return shared.NewDomainError(shared.CodeNotPending, fmt.Sprintf("Cannot approve sale in %s status", s.Status))
	}

	s.Status = StatusApproved
	s.ProductID = &productID
	s.DecidedAt = &at
	s.UpdatedAt = at
	s.IncrementVersion()

	s.AddDomainEvent(NewSaleApprovedEvent(s, businessLine))
	return nil
}

// Reject moves the sale to the rejected terminal state with a mandatory reason
func (s *PendingSale) Reject(reason string, at time.Time) error {
	if !s.Status.CanTransitionTo(StatusRejected) {
		return shared.NewDomainError(shared.CodeNotPending, fmt.Sprintf("Cannot reject sale in %s status", s.Status))
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.ErrReasonRequired
	}

	s.Status = StatusRejected
	s.RejectionReason = reason
	s.DecidedAt = &at
	s.UpdatedAt = at
	s.IncrementVersion()

	s.AddDomainEvent(NewSaleRejectedEvent(s))
	return nil
}
