package commission

import (
	"time"

	"github.com/google/uuid"
	"github.com/salesops/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// Record is the commission credited to one participant of an approved sale.
// Exactly one record exists per (sale, role); records are never updated.
type Record struct {
	ID             uuid.UUID
	SaleID         uuid.UUID
	Role           sales.Role
	UserID         uuid.UUID
	BaseAmount     decimal.Decimal // revenue the commission was computed on
	Bonus          decimal.Decimal
	ComputedAmount decimal.Decimal // base commission plus bonus
	Model          Model
	CreatedAt      time.Time
}

// NewRecord creates a commission record from an engine breakdown
func NewRecord(saleID uuid.UUID, participant sales.Participant, revenue decimal.Decimal, model Model, breakdown Breakdown, at time.Time) *Record {
	return &Record{
		ID:             uuid.New(),
		SaleID:         saleID,
		Role:           participant.Role,
		UserID:         participant.UserID,
		BaseAmount:     revenue,
		Bonus:          breakdown.Bonus,
		ComputedAmount: breakdown.Total,
		Model:          model,
		CreatedAt:      at,
	}
}

// PerformerCount is one row of a role's leaderboard for a period
type PerformerCount struct {
	UserID    uuid.UUID
	SaleCount int
}

// FactsFor derives the period facts of userID for the sale being approved.
// The current sale is counted for the user before ranking; rank follows
// standard competition ranking (1 + number of performers with more sales).
func FactsFor(userID uuid.UUID, revenue decimal.Decimal, leaderboard []PerformerCount) Facts {
	count := 1
	for _, row := range leaderboard {
		if row.UserID == userID {
			count += row.SaleCount
			break
		}
	}

	rank := 1
	for _, row := range leaderboard {
		if row.UserID != userID && row.SaleCount > count {
			rank++
		}
	}

	return Facts{
		Revenue:             revenue,
		SaleCountThisPeriod: count,
		RankThisPeriod:      &rank,
	}
}

// Period is a half-open [From, To) interval commission counts are taken over
type Period struct {
	From time.Time
	To   time.Time
}

// MonthOf returns the calendar month (UTC) containing t
func MonthOf(t time.Time) Period {
	t = t.UTC()
	from := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Period{From: from, To: from.AddDate(0, 1, 0)}
}

// Statement is a performer's commission records over a period
type Statement struct {
	UserID  uuid.UUID
	Period  Period
	Records []*Record
	Total   decimal.Decimal
}

// NewStatement sums the records into a statement
func NewStatement(userID uuid.UUID, period Period, records []*Record) *Statement {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.ComputedAmount)
	}
	return &Statement{
		UserID:  userID,
		Period:  period,
		Records: records,
		Total:   total,
	}
}
