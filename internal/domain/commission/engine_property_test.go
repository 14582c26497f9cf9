package commission

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/salesops/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// contiguousTiers builds back-to-back tiers starting at count 0 whose percent
// and bonus never decrease from one tier to the next.
func contiguousTiers(widths, percentSteps, bonusSteps []int) RewardConfig {
	tiers := make([]Tier, 0, len(widths))
	minCount, percent, bonus := 0, 0, 0
	for i, width := range widths {
		percent += percentSteps[i]
		bonus += bonusSteps[i] * 50
		tiers = append(tiers, Tier{
			MinCount: minCount,
			MaxCount: minCount + width - 1,
			Percent:  decimal.NewFromInt(int64(percent)),
			Bonus:    decimal.NewFromInt(int64(bonus)),
		})
		minCount += width
	}
	return NewTieredConfig(sales.RoleCloser, tiers...)
}

// TestEngine_TierMonotonicity verifies a higher sale count never pays less.
// Property: count1 <= count2 => Compute(count1).Total <= Compute(count2).Total
func TestEngine_TierMonotonicity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)
	engine := NewEngine()

	properties.Property("higher tiers never decrease the total", prop.ForAll(
		func(widths, percentSteps, bonusSteps []int, revenueCents int64, a, b int) bool {
			cfg := contiguousTiers(widths, percentSteps, bonusSteps)
			if cfg.Validate() != nil {
				return false
			}
			if a > b {
				a, b = b, a
			}
			revenue := decimal.New(revenueCents, -2)

			low, err1 := engine.Compute(cfg, Facts{Revenue: revenue, SaleCountThisPeriod: a})
			high, err2 := engine.Compute(cfg, Facts{Revenue: revenue, SaleCountThisPeriod: b})
			if err1 != nil || err2 != nil {
				return false
			}
			if high.TierGap {
				// b is beyond the last tier; nothing to compare
				return true
			}
			return high.Total.GreaterThanOrEqual(low.Total)
		},
		gen.SliceOfN(4, gen.IntRange(1, 10)),
		gen.SliceOfN(4, gen.IntRange(0, 5)),
		gen.SliceOfN(4, gen.IntRange(0, 4)),
		gen.Int64Range(0, 100_000_000),
		gen.IntRange(0, 40),
		gen.IntRange(0, 40),
	))

	properties.TestingRun(t)
}

// TestEngine_NeverNegative verifies valid inputs never produce a negative total.
func TestEngine_NeverNegative(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)
	engine := NewEngine()

	properties.Property("total is base plus bonus and non-negative", prop.ForAll(
		func(revenueCents int64, percent int, count int, r int) bool {
			cfg := NewPercentualConfig(sales.RoleSDR, decimal.NewFromInt(int64(percent))).
				WithMonthlyGoal(10, decimal.NewFromInt(100)).
				WithTopPerformerBonus(decimal.NewFromInt(50))
			result, err := engine.Compute(cfg, Facts{
				Revenue:             decimal.New(revenueCents, -2),
				SaleCountThisPeriod: count,
				RankThisPeriod:      &r,
			})
			if err != nil {
				return false
			}
			return !result.Total.IsNegative() && result.Base.Add(result.Bonus).Equal(result.Total)
		},
		gen.Int64Range(0, 100_000_000),
		gen.IntRange(0, 100),
		gen.IntRange(0, 50),
		gen.IntRange(1, 20),
	))

	properties.TestingRun(t)
}
