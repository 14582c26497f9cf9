package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/salesops/backend/internal/domain/ledger"
	"github.com/salesops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Granularity is the width of the reporting periods
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityWeekly  Granularity = "weekly"
	GranularityMonthly Granularity = "monthly"
	GranularityYearly  Granularity = "yearly"
)

// IsValid checks if the granularity is supported
func (g Granularity) IsValid() bool {
	switch g {
	case GranularityDaily, GranularityWeekly, GranularityMonthly, GranularityYearly:
		return true
	}
	return false
}

// String returns the string representation of Granularity
func (g Granularity) String() string {
	return string(g)
}

// ParseGranularity parses a granularity name, case-insensitively
func ParseGranularity(value string) (Granularity, error) {
	g := Granularity(strings.ToLower(strings.TrimSpace(value)))
	if !g.IsValid() {
		return "", shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("Invalid granularity %q: use daily, weekly, monthly or yearly", value))
	}
	return g, nil
}

// PeriodKey returns the bucket key of a date:
// daily YYYY-MM-DD, weekly the YYYY-MM-DD of the Sunday starting the week,
// monthly YYYY-MM and yearly YYYY. Keys of one granularity sort chronologically.
func PeriodKey(on time.Time, g Granularity) string {
	switch g {
	case GranularityWeekly:
		sunday := on.AddDate(0, 0, -int(on.Weekday()))
		return sunday.Format(ledger.DateLayout)
	case GranularityMonthly:
		return on.Format("2006-01")
	case GranularityYearly:
		return on.Format("2006")
	default:
		return on.Format(ledger.DateLayout)
	}
}

var hundred = decimal.NewFromInt(100)

// Bucket summarizes the completed movements of one business line in one period.
// Buckets are derived on every call and never stored on their own.
type Bucket struct {
	BusinessLine  string          `json:"business_line"`
	PeriodKey     string          `json:"period_key"`
	MovementCount int             `json:"movement_count"`
	TotalIn       decimal.Decimal `json:"total_in"`
	TotalOut      decimal.Decimal `json:"total_out"`
	Profit        decimal.Decimal `json:"profit"`        // TotalIn - TotalOut
	MarginPercent decimal.Decimal `json:"margin_percent"` // Profit / TotalIn * 100, 0 without inflows
}

// Aggregate buckets the completed movements of businessLine by period and
// returns only non-empty periods, most recent first. It does not modify its input.
func Aggregate(movements []*ledger.FinancialMovement, businessLine string, g Granularity) []Bucket {
	businessLine = strings.ToLower(strings.TrimSpace(businessLine))
	byKey := make(map[string]*Bucket)

	for _, m := range movements {
		if m == nil || !m.IsCompleted() || m.BusinessLine != businessLine {
			continue
		}
		key := PeriodKey(m.OccurredOn, g)
		b, ok := byKey[key]
		if !ok {
			b = &Bucket{
				BusinessLine: businessLine,
				PeriodKey:    key,
				TotalIn:      decimal.Zero,
				TotalOut:     decimal.Zero,
			}
			byKey[key] = b
		}
		b.MovementCount++
		switch m.Direction {
		case ledger.DirectionIn:
			b.TotalIn = b.TotalIn.Add(m.Amount)
		case ledger.DirectionOut:
			b.TotalOut = b.TotalOut.Add(m.Amount)
		}
	}

	buckets := make([]Bucket, 0, len(byKey))
	for _, b := range byKey {
		b.Profit = b.TotalIn.Sub(b.TotalOut)
		b.MarginPercent = marginPercent(b.Profit, b.TotalIn)
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].PeriodKey > buckets[j].PeriodKey
	})
	return buckets
}

func marginPercent(profit, totalIn decimal.Decimal) decimal.Decimal {
	if !totalIn.IsPositive() {
		return decimal.Zero
	}
	return profit.Div(totalIn).Mul(hundred).Round(2)
}

// Summary totals a sequence of buckets, used as the header row of a BPO report
type Summary struct {
	PeriodCount   int             `json:"period_count"`
	MovementCount int             `json:"movement_count"`
	TotalIn       decimal.Decimal `json:"total_in"`
	TotalOut      decimal.Decimal `json:"total_out"`
	Profit        decimal.Decimal `json:"profit"`
	MarginPercent decimal.Decimal `json:"margin_percent"`
}

// Summarize totals the buckets
func Summarize(buckets []Bucket) Summary {
	s := Summary{
		PeriodCount: len(buckets),
		TotalIn:     decimal.Zero,
		TotalOut:    decimal.Zero,
	}
	for _, b := range buckets {
		s.MovementCount += b.MovementCount
		s.TotalIn = s.TotalIn.Add(b.TotalIn)
		s.TotalOut = s.TotalOut.Add(b.TotalOut)
	}
	s.Profit = s.TotalIn.Sub(s.TotalOut)
	s.MarginPercent = marginPercent(s.Profit, s.TotalIn)
	return s
}
